package types

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestKeyRoundTrip(t *testing.T) {
	keys := []Key{
		NewBoolKey(true),
		NewBoolKey(false),
		NewIntKey(34182),
		NewIntKey(-1),
		NewUidKey(0xdead, 0xbeef),
		NewStringKey(""),
		NewStringKey("Test Key"),
		NewStringKey(strings.Repeat("t", 200)),
	}
	for _, k := range keys {
		packed := k.Pack()
		require.Equal(t, 1+k.Cap(), len(packed))

		decoded, rest, err := UnpackKey(packed)
		require.NoError(t, err)
		require.Empty(t, rest)
		if diff := cmp.Diff(k, decoded, cmp.AllowUnexported(Key{})); diff != "" {
			t.Fatalf("key round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestNewStringKeyVariantSelection(t *testing.T) {
	require.Equal(t, KeyStr, NewStringKey("short").Kind())
	require.Equal(t, KeyText, NewStringKey(string(make([]byte, 64))).Kind())
	require.Equal(t, KeyText, NewStringKey(string(make([]byte, 255))).Kind())
}

func TestNewStringKeyTooLongPanics(t *testing.T) {
	require.Panics(t, func() {
		NewStringKey(string(make([]byte, 256)))
	})
}

func TestKeyCapacity(t *testing.T) {
	cases := []Key{
		NewBoolKey(true),
		NewIntKey(1),
		NewUidKey(1, 1),
		NewStringKey("x"),
		NewStringKey(string(make([]byte, 100))),
	}
	for _, k := range cases {
		require.Equal(t, k.Cap(), len(k.ToBytes()))
	}
}

func TestKeyTypeDistinction(t *testing.T) {
	intKey := NewIntKey(1)
	uidKey := NewUid64Key(1)
	require.NotEqual(t, intKey.Pack()[0], uidKey.Pack()[0])
	require.NotEqual(t, 0, intKey.Compare(uidKey))
}

func TestKeyOrdering(t *testing.T) {
	require.True(t, NewBoolKey(false).Compare(NewBoolKey(true)) < 0)
	require.True(t, NewIntKey(1).Compare(NewIntKey(2)) < 0)
	require.True(t, NewUid64Key(1).Compare(NewUid64Key(2)) < 0)
	require.True(t, NewStringKey("a").Compare(NewStringKey("b")) < 0)
	require.True(t, NewBoolKey(true).Compare(NewIntKey(0)) < 0)
	require.True(t, NewIntKey(0).Compare(NewUid64Key(0)) < 0)
	require.True(t, NewUid64Key(0).Compare(NewStringKey("")) < 0)
}

func TestEmptyStringKeyRoundTrip(t *testing.T) {
	k := NewStringKey("")
	packed := k.Pack()
	decoded, _, err := UnpackKey(packed)
	require.NoError(t, err)
	require.Equal(t, "", decoded.Str())
}

func TestValueRoundTrip(t *testing.T) {
	raw, err := NewRawValue([]byte("Test 測試 テスト prüfen ทดสอบ"))
	require.NoError(t, err)

	values := []Value{EmptyValue(), DeletedValue(), raw}
	for _, v := range values {
		decoded, rest, err := UnpackValue(v.Pack())
		require.NoError(t, err)
		require.Empty(t, rest)
		require.True(t, v.Equal(decoded))
	}
}

func TestRawValueOverLengthLimit(t *testing.T) {
	_, err := NewRawValue(make([]byte, maxRawLen+1))
	require.Error(t, err)
}

func TestValueDecodeShortData(t *testing.T) {
	_, _, err := UnpackValue([]byte{1, 2})
	require.Error(t, err)
}

func TestPairRoundTrip(t *testing.T) {
	raw, err := NewRawValue([]byte("v"))
	require.NoError(t, err)
	pair := NewPair(NewStringKey("k"), raw)

	decoded, rest, err := UnpackPair(pair.Pack())
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, pair.Key, decoded.Key)
	require.True(t, pair.Value.Equal(decoded.Value))
}

func TestUnpackIterRoundTrip(t *testing.T) {
	v1, _ := NewRawValue([]byte("1"))
	v2, _ := NewRawValue([]byte("2"))
	pairs := []Pair{
		NewPair(NewStringKey("a"), v1),
		NewPair(NewStringKey("a"), v2),
		NewPair(NewStringKey("a"), DeletedValue()),
	}

	var buf []byte
	for _, p := range pairs {
		buf = append(buf, p.Pack()...)
	}

	decoded := UnpackPairIter(buf)
	require.Len(t, decoded, len(pairs))
	for i, p := range pairs {
		require.Equal(t, p.Key, decoded[i].Key)
		require.True(t, p.Value.Equal(decoded[i].Value))
	}
}

func TestUnpackIterTruncatesOnDamagedTail(t *testing.T) {
	v1, _ := NewRawValue([]byte("1"))
	good := NewPair(NewStringKey("a"), v1).Pack()
	damaged := append(append([]byte{}, good...), good[:len(good)-2]...)

	decoded := UnpackPairIter(damaged)
	require.Len(t, decoded, 1)
}
