package types

import "encoding/binary"

// KeyKind is the one-byte discriminant carried by a packed Key. Ordering
// across variants follows this declaration order: Bool < Int < Uid < Str <
// Text.
type KeyKind uint8

const (
	KeyBool KeyKind = iota
	KeyInt
	KeyUid
	KeyStr
	KeyText
)

// Fixed serialized capacities, in bytes, per Key variant.
const (
	capBool = 1
	capInt  = 8
	capUid  = 16
	capStr  = 64
	capText = 256
)

// strCutoff is the source-length boundary between Str (< 64) and Text
// (64..255). Strings of length >= 256 cannot be represented.
const strCutoff = 64

// textLimit is the largest source string length a Key can hold.
const textLimit = 256

// nativeLittleEndian reports whether this platform's native byte order is
// little-endian, used for the Int/Uid raw encoding (§4.1: native-endian is a
// deliberate, non-portable choice that matches CPU layout for benchmark
// symmetry).
var nativeLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// Key is the searchable, sortable, fixed-capacity data type used to index
// values in Papyrus. It is a tagged union over five variants; the zero value
// is Bool(false) and is never produced outside of internal decoding paths.
//
// Key is a plain comparable struct (bool, int64, two uint64, string) so it
// can be used directly as a Go map key, matching the source's requirement
// that Key be hashable.
type Key struct {
	kind KeyKind
	b    bool
	i    int64
	hi   uint64
	lo   uint64
	s    string
}

// NewBoolKey constructs a Bool key.
func NewBoolKey(v bool) Key {
	return Key{kind: KeyBool, b: v}
}

// NewIntKey constructs an Int key from a 64-bit signed integer.
func NewIntKey(v int64) Key {
	return Key{kind: KeyInt, i: v}
}

// NewUidKey constructs a Uid key from a 128-bit unsigned integer expressed
// as (high, low) 64-bit words.
func NewUidKey(hi, lo uint64) Key {
	return Key{kind: KeyUid, hi: hi, lo: lo}
}

// NewUid64Key constructs a Uid key from a plain uint64 (high word zero).
func NewUid64Key(v uint64) Key {
	return NewUidKey(0, v)
}

// NewStringKey constructs a Str or Text key depending on the UTF-8 byte
// length of s: under 64 bytes is Str, 64..255 is Text. A string of 256
// bytes or more is a programmer error and panics, matching the source's
// fail-fast contract — this is not a runtime condition callers are expected
// to recover from.
func NewStringKey(s string) Key {
	n := len(s)
	switch {
	case n < strCutoff:
		return Key{kind: KeyStr, s: s}
	case n < textLimit:
		return Key{kind: KeyText, s: s}
	default:
		panic("types: string key of length >= 256 cannot be represented")
	}
}

// Kind reports the Key's variant discriminant.
func (k Key) Kind() KeyKind { return k.kind }

// Cap reports the Key's fixed serialized capacity, in bytes.
func (k Key) Cap() int {
	switch k.kind {
	case KeyBool:
		return capBool
	case KeyInt:
		return capInt
	case KeyUid:
		return capUid
	case KeyStr:
		return capStr
	case KeyText:
		return capText
	default:
		return 0
	}
}

// Bool returns the underlying value for a Bool key (zero value otherwise).
func (k Key) Bool() bool { return k.b }

// Int returns the underlying value for an Int key (zero value otherwise).
func (k Key) Int() int64 { return k.i }

// Uid returns the underlying (high, low) words for a Uid key (zero values
// otherwise).
func (k Key) Uid() (hi, lo uint64) { return k.hi, k.lo }

// Str returns the underlying text for a Str or Text key (empty otherwise).
func (k Key) Str() string { return k.s }

// ToBytes is the raw encoding: payload only, no discriminant. The caller
// must already know the variant in order to decode it back with FromBytes.
func (k Key) ToBytes() []byte {
	buf := make([]byte, k.Cap())
	switch k.kind {
	case KeyBool:
		if k.b {
			buf[0] = 1
		}
	case KeyInt:
		putNative64(buf, uint64(k.i))
	case KeyUid:
		putNativeUid(buf, k.hi, k.lo)
	case KeyStr, KeyText:
		copy(buf, k.s) // remaining bytes are already zero (NUL pad)
	}
	return buf
}

// KeyFromBytes decodes the raw encoding of a Key of the given kind. data
// must be at least Cap() bytes long.
func KeyFromBytes(kind KeyKind, data []byte) (Key, error) {
	if kind > KeyText {
		return Key{}, NewError(KindInvalidArgument, "unknown key discriminant")
	}
	cap := (Key{kind: kind}).Cap()
	if len(data) < cap {
		return Key{}, NewError(KindInvalidArgument, "key data shorter than declared capacity")
	}
	switch kind {
	case KeyBool:
		return NewBoolKey(data[0] != 0), nil
	case KeyInt:
		return NewIntKey(int64(getNative64(data[:capInt]))), nil
	case KeyUid:
		hi, lo := getNativeUid(data[:capUid])
		return NewUidKey(hi, lo), nil
	case KeyStr:
		return Key{kind: KeyStr, s: trimNUL(data[:capStr])}, nil
	case KeyText:
		return Key{kind: KeyText, s: trimNUL(data[:capText])}, nil
	default:
		return Key{}, NewError(KindInvalidArgument, "unknown key discriminant")
	}
}

// Pack is the self-describing encoding: one leading discriminant byte
// followed by the raw encoding. The total frame length is 1 + Cap().
func (k Key) Pack() []byte {
	buf := make([]byte, 1+k.Cap())
	buf[0] = byte(k.kind)
	copy(buf[1:], k.ToBytes())
	return buf
}

// UnpackKey decodes one packed Key from the front of data and returns the
// unconsumed remainder. It fails with InvalidArgument if data is shorter
// than the declared frame or the discriminant is unknown.
func UnpackKey(data []byte) (Key, []byte, error) {
	if len(data) < 1 {
		return Key{}, nil, NewError(KindInvalidArgument, "empty key frame")
	}
	kind := KeyKind(data[0])
	if kind > KeyText {
		return Key{}, nil, NewError(KindInvalidArgument, "unknown key discriminant")
	}
	cap := (Key{kind: kind}).Cap()
	if len(data) < 1+cap {
		return Key{}, nil, NewError(KindInvalidArgument, "key frame shorter than declared capacity")
	}
	k, err := KeyFromBytes(kind, data[1:1+cap])
	if err != nil {
		return Key{}, nil, err
	}
	return k, data[1+cap:], nil
}

// UnpackKeyIter greedily decodes packed Keys from data until it is
// exhausted or a decode fails; a damaged tail silently truncates the
// sequence.
func UnpackKeyIter(data []byte) []Key {
	var out []Key
	remaining := data
	for len(remaining) > 0 {
		k, rest, err := UnpackKey(remaining)
		if err != nil {
			break
		}
		out = append(out, k)
		remaining = rest
	}
	return out
}

// Compare returns -1, 0, or 1 following the Key total order: lexicographic
// over (discriminant, decoded payload). Distinct variants are never equal.
func (k Key) Compare(other Key) int {
	if k.kind != other.kind {
		if k.kind < other.kind {
			return -1
		}
		return 1
	}
	switch k.kind {
	case KeyBool:
		return compareBool(k.b, other.b)
	case KeyInt:
		return compareInt64(k.i, other.i)
	case KeyUid:
		return compareUid(k.hi, k.lo, other.hi, other.lo)
	case KeyStr, KeyText:
		switch {
		case k.s < other.s:
			return -1
		case k.s > other.s:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUid(ahi, alo, bhi, blo uint64) int {
	if ahi != bhi {
		if ahi < bhi {
			return -1
		}
		return 1
	}
	switch {
	case alo < blo:
		return -1
	case alo > blo:
		return 1
	default:
		return 0
	}
}

func putNative64(buf []byte, v uint64) {
	binary.NativeEndian.PutUint64(buf[:8], v)
}

func getNative64(buf []byte) uint64 {
	return binary.NativeEndian.Uint64(buf[:8])
}

// putNativeUid lays out a 128-bit unsigned integer as two native-endian
// 64-bit words, ordered so the byte layout matches what a native u128 would
// produce on this machine's endianness.
func putNativeUid(buf []byte, hi, lo uint64) {
	if nativeLittleEndian {
		putNative64(buf[0:8], lo)
		putNative64(buf[8:16], hi)
	} else {
		putNative64(buf[0:8], hi)
		putNative64(buf[8:16], lo)
	}
}

func getNativeUid(buf []byte) (hi, lo uint64) {
	if nativeLittleEndian {
		lo = getNative64(buf[0:8])
		hi = getNative64(buf[8:16])
	} else {
		hi = getNative64(buf[0:8])
		lo = getNative64(buf[8:16])
	}
	return hi, lo
}

// trimNUL decodes a NUL-padded string field by finding the last non-NUL
// byte. An all-NUL field decodes to the empty string.
func trimNUL(data []byte) string {
	last := -1
	for i, b := range data {
		if b != 0 {
			last = i
		}
	}
	return string(data[:last+1])
}
