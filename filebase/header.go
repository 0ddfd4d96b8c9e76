package filebase

import (
	"encoding/binary"

	"papyrus/types"
)

// HeaderSize is the fixed size, in bytes, of the FileBase header.
const HeaderSize = 16

// Magic is the fixed 4-byte signature every FileBase-backed file starts
// with.
var Magic = [4]byte{0x30, 0x14, 0x15, 0x92}

// Version is the only header version Papyrus currently writes or accepts.
const Version = 1

// Meta is the (TYPE, FLAGS) pair a layer supplies when creating a new
// FileBase-backed file, or asserts when reopening an existing one.
type Meta struct {
	Typ   uint8
	Flags uint16
}

// header is the in-memory view of the 16-byte FileBase header:
//
//	0..4   MAGIC
//	4      VERSION
//	5      TYPE
//	6..8   FLAGS  (u16, big-endian)
//	8..12  PID    (u32, big-endian; 0 = unlocked)
//	12..16 CHECKSUM (u32, big-endian; CRC-32/CKSUM over bytes 0..12)
type header struct {
	typ   uint8
	flags uint16
	pid   uint32
}

func (h header) marshal() [HeaderSize]byte {
	var buf [HeaderSize]byte
	copy(buf[0:4], Magic[:])
	buf[4] = Version
	buf[5] = h.typ
	binary.BigEndian.PutUint16(buf[6:8], h.flags)
	binary.BigEndian.PutUint32(buf[8:12], h.pid)
	checksum := crc32Cksum(buf[0:12])
	binary.BigEndian.PutUint32(buf[12:16], checksum)
	return buf
}

// unmarshalHeader validates the magic, version, and checksum of a raw
// 16-byte header and, if meta is non-nil, that (TYPE, FLAGS) matches.
func unmarshalHeader(buf [HeaderSize]byte, meta *Meta) (header, error) {
	if string(buf[0:4]) != string(Magic[:]) {
		return header{}, types.NewError(types.KindInvalidArgument, "bad file header magic")
	}
	if buf[4] != Version {
		return header{}, types.NewError(types.KindInvalidArgument, "unsupported file header version")
	}

	wantChecksum := crc32Cksum(buf[0:12])
	gotChecksum := binary.BigEndian.Uint32(buf[12:16])
	if wantChecksum != gotChecksum {
		return header{}, types.NewError(types.KindInvalidArgument, "file header checksum mismatch")
	}

	h := header{
		typ:   buf[5],
		flags: binary.BigEndian.Uint16(buf[6:8]),
		pid:   binary.BigEndian.Uint32(buf[8:12]),
	}

	if meta != nil && (h.typ != meta.Typ || h.flags != meta.Flags) {
		return header{}, types.NewError(types.KindInvalidArgument, "file header type/flags mismatch")
	}

	return h, nil
}
