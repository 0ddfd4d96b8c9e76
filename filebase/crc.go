package filebase

// crc32Cksum implements the CRC-32/CKSUM variant used by the FileBase
// header checksum: polynomial 0x04C11DB7, non-reflected (MSB-first), zero
// initial register, and a final complement — the polynomial behind the
// POSIX `cksum` utility, without that utility's length suffix. Go's standard hash/crc32 package only implements
// the reflected variants (IEEE, Castagnoli, Koopman), none of which produce
// this checksum, and no library in the retrieval pack implements the
// non-reflected CRC family either, so this is hand-rolled; see DESIGN.md.
const cksumPoly = 0x04c11db7

var cksumTable = buildCksumTable()

func buildCksumTable() [256]uint32 {
	var table [256]uint32
	for i := range table {
		crc := uint32(i) << 24
		for bit := 0; bit < 8; bit++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ cksumPoly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// crc32Cksum computes the CRC-32/CKSUM checksum of data. Unlike the POSIX
// cksum utility, it does not feed the byte length of data into the register.
func crc32Cksum(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = cksumTable[byte(crc>>24)^b] ^ (crc << 8)
	}
	return ^crc
}
