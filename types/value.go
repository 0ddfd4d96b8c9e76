package types

import "encoding/binary"

// ValueKind is the discriminant carried in the high byte of a Value's
// 32-bit header.
type ValueKind uint8

const (
	ValueEmpty ValueKind = iota
	ValueDeleted
	ValueRaw
)

// maxRawLen is the largest Raw payload length representable in the header's
// 24-bit length field (16 MiB - 1).
const maxRawLen = 1<<24 - 1

const valueHeaderSize = 4

// Value is the arbitrary-length payload type in Papyrus: either Empty,
// Deleted (a tombstone — a value, not an out-of-band marker, so it
// round-trips through the codec and appears in iteration results), or a Raw
// byte sequence.
type Value struct {
	kind ValueKind
	raw  []byte
}

// EmptyValue returns the Empty sentinel value.
func EmptyValue() Value { return Value{kind: ValueEmpty} }

// DeletedValue returns the Deleted tombstone value.
func DeletedValue() Value { return Value{kind: ValueDeleted} }

// NewRawValue constructs a Raw value. It fails with InvalidArgument if data
// is longer than the 24-bit length field can represent.
func NewRawValue(data []byte) (Value, error) {
	if len(data) > maxRawLen {
		return Value{}, NewError(KindInvalidArgument, "raw value exceeds 24-bit length limit")
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return Value{kind: ValueRaw, raw: buf}, nil
}

// Kind reports the Value's variant discriminant.
func (v Value) Kind() ValueKind { return v.kind }

// IsDeleted reports whether v is the Deleted tombstone.
func (v Value) IsDeleted() bool { return v.kind == ValueDeleted }

// IsEmpty reports whether v is the Empty sentinel.
func (v Value) IsEmpty() bool { return v.kind == ValueEmpty }

// Bytes returns the underlying payload for a Raw value (nil otherwise).
func (v Value) Bytes() []byte { return v.raw }

// Equal reports whether v and other have the same kind and (for Raw) the
// same payload bytes.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind != ValueRaw {
		return true
	}
	if len(v.raw) != len(other.raw) {
		return false
	}
	for i := range v.raw {
		if v.raw[i] != other.raw[i] {
			return false
		}
	}
	return true
}

// ToBytes is the raw encoding: a little-endian 32-bit header word
// (type<<24 | length&0x00FFFFFF) followed by the Raw payload, if any.
// Empty and Deleted encode as the 4-byte header alone.
func (v Value) ToBytes() []byte {
	header := uint32(v.kind)<<24 | uint32(len(v.raw))&0x00FFFFFF
	buf := make([]byte, valueHeaderSize+len(v.raw))
	binary.LittleEndian.PutUint32(buf[:valueHeaderSize], header)
	copy(buf[valueHeaderSize:], v.raw)
	return buf
}

// ValueFromBytes decodes the raw encoding of a Value. It fails with
// InvalidArgument if data is shorter than the header, the declared length
// exceeds the available bytes, or Empty/Deleted declare a nonzero length.
func ValueFromBytes(data []byte) (Value, error) {
	if len(data) < valueHeaderSize {
		return Value{}, NewError(KindInvalidArgument, "value header truncated")
	}
	header := binary.LittleEndian.Uint32(data[:valueHeaderSize])
	kind := ValueKind(header >> 24)
	length := int(header & 0x00FFFFFF)

	switch kind {
	case ValueEmpty, ValueDeleted:
		if length != 0 {
			return Value{}, NewError(KindInvalidArgument, "empty/deleted value with nonzero length")
		}
		return Value{kind: kind}, nil
	case ValueRaw:
		if len(data) < valueHeaderSize+length {
			return Value{}, NewError(KindInvalidArgument, "value data shorter than declared length")
		}
		raw := make([]byte, length)
		copy(raw, data[valueHeaderSize:valueHeaderSize+length])
		return Value{kind: ValueRaw, raw: raw}, nil
	default:
		return Value{}, NewError(KindInvalidArgument, "unknown value discriminant")
	}
}

// Pack is the self-describing encoding. It is identical to ToBytes — the
// 32-bit header's high byte already carries the discriminant, so no
// additional framing is needed.
func (v Value) Pack() []byte { return v.ToBytes() }

// UnpackValue decodes one packed Value from the front of data and returns
// the unconsumed remainder.
func UnpackValue(data []byte) (Value, []byte, error) {
	if len(data) < valueHeaderSize {
		return Value{}, nil, NewError(KindInvalidArgument, "value header truncated")
	}
	header := binary.LittleEndian.Uint32(data[:valueHeaderSize])
	length := int(header & 0x00FFFFFF)
	total := valueHeaderSize + length
	if len(data) < total {
		return Value{}, nil, NewError(KindInvalidArgument, "value frame shorter than declared length")
	}
	v, err := ValueFromBytes(data[:total])
	if err != nil {
		return Value{}, nil, err
	}
	return v, data[total:], nil
}

// UnpackValueIter greedily decodes packed Values from data until it is
// exhausted or a decode fails.
func UnpackValueIter(data []byte) []Value {
	var out []Value
	remaining := data
	for len(remaining) > 0 {
		v, rest, err := UnpackValue(remaining)
		if err != nil {
			break
		}
		out = append(out, v)
		remaining = rest
	}
	return out
}
