package format

import "encoding/binary"

// Hive structures are little-endian. Callers bounds-check before reading.

func ReadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func ReadI32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off : off+4]))
}

func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// Writers are used by test fixtures that synthesize hive images.

func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(v))
}

func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// HeaderChecksum computes the REGF base block checksum: the XOR of the first
// 127 dwords, with 0 and 0xFFFFFFFF remapped.
func HeaderChecksum(b []byte) uint32 {
	var sum uint32
	for i := range REGFChecksumDwords {
		sum ^= ReadU32(b, i*DWORDSize)
	}
	switch sum {
	case 0xFFFFFFFF:
		return 0xFFFFFFFE
	case 0:
		return 1
	}
	return sum
}
