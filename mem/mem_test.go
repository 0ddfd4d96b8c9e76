package mem

import (
	"testing"

	"github.com/stretchr/testify/require"

	"papyrus/types"
)

func rawValue(t *testing.T, s string) types.Value {
	t.Helper()
	v, err := types.NewRawValue([]byte(s))
	require.NoError(t, err)
	return v
}

func TestPutGetRoundTrip(t *testing.T) {
	m := New()
	k := types.NewIntKey(1)
	v := rawValue(t, "hello")

	prev, had := m.Put(k, v)
	require.False(t, had)
	require.Equal(t, types.Value{}, prev)

	got, ok := m.Get(k)
	require.True(t, ok)
	require.True(t, got.Equal(v))
}

func TestGetMissingKey(t *testing.T) {
	m := New()
	_, ok := m.Get(types.NewIntKey(42))
	require.False(t, ok)
}

func TestDelReturnsDeletedNotMissing(t *testing.T) {
	m := New()
	k := types.NewIntKey(1)
	m.Put(k, rawValue(t, "x"))
	m.Del(k)

	got, ok := m.Get(k)
	require.True(t, ok)
	require.True(t, got.IsDeleted())
}

func TestIterIsDescendingOrder(t *testing.T) {
	m := New()
	m.Put(types.NewIntKey(1), rawValue(t, "a"))
	m.Put(types.NewIntKey(3), rawValue(t, "c"))
	m.Put(types.NewIntKey(2), rawValue(t, "b"))

	pairs := m.Iter()
	require.Len(t, pairs, 3)
	require.Equal(t, int64(3), pairs[0].Key.Int())
	require.Equal(t, int64(2), pairs[1].Key.Int())
	require.Equal(t, int64(1), pairs[2].Key.Int())
}

func TestIterIncludesTombstones(t *testing.T) {
	m := New()
	m.Put(types.NewIntKey(1), rawValue(t, "a"))
	m.Del(types.NewIntKey(1))

	pairs := m.Iter()
	require.Len(t, pairs, 1)
	require.True(t, pairs[0].Value.IsDeleted())
}

func TestForwardAndBackwardWithBase(t *testing.T) {
	m := New()
	for i := int64(1); i <= 5; i++ {
		m.Put(types.NewIntKey(i), rawValue(t, "v"))
	}

	base := types.NewIntKey(3)
	fwd := m.Forward(&base)
	require.Len(t, fwd, 3)
	require.Equal(t, int64(3), fwd[0].Key.Int())
	require.Equal(t, int64(5), fwd[2].Key.Int())

	back := m.Backward(&base)
	require.Len(t, back, 3)
	require.Equal(t, int64(3), back[0].Key.Int())
	require.Equal(t, int64(1), back[2].Key.Int())
}

func TestForwardUnboundedIsAscending(t *testing.T) {
	m := New()
	m.Put(types.NewIntKey(2), rawValue(t, "b"))
	m.Put(types.NewIntKey(1), rawValue(t, "a"))

	pairs := m.Forward(nil)
	require.Len(t, pairs, 2)
	require.Equal(t, int64(1), pairs[0].Key.Int())
	require.Equal(t, int64(2), pairs[1].Key.Int())
}

func TestCompactDropsTombstones(t *testing.T) {
	m := New()
	m.Put(types.NewIntKey(1), rawValue(t, "a"))
	m.Put(types.NewIntKey(2), rawValue(t, "b"))
	m.Del(types.NewIntKey(1))

	m.Compact()

	_, ok := m.Get(types.NewIntKey(1))
	require.False(t, ok)

	pairs := m.Iter()
	require.Len(t, pairs, 1)
	require.Equal(t, int64(2), pairs[0].Key.Int())
}

func TestCloseIsNoopAndLayerStaysUsable(t *testing.T) {
	m := New()
	k := types.NewIntKey(1)
	m.Put(k, rawValue(t, "a"))

	require.NoError(t, m.Close())

	got, ok := m.Get(k)
	require.True(t, ok)
	require.True(t, got.Equal(rawValue(t, "a")))
}

func TestUnlinkClearsLayer(t *testing.T) {
	m := New()
	m.Put(types.NewIntKey(1), rawValue(t, "a"))
	m.Unlink()

	require.Empty(t, m.Iter())
	_, ok := m.Get(types.NewIntKey(1))
	require.False(t, ok)
}

func TestPutReturnsPriorValue(t *testing.T) {
	m := New()
	k := types.NewIntKey(1)
	m.Put(k, rawValue(t, "first"))

	prev, had := m.Put(k, rawValue(t, "second"))
	require.True(t, had)
	require.True(t, prev.Equal(rawValue(t, "first")))
}
