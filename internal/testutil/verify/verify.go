// Package verify checks the structural invariants of a hive image. Tests use
// it to make sure synthetic images are well formed before the reader sees
// them, so reader failures point at the reader.
package verify

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/appxkit/internal/format"
)

// ValidationError names the check that failed and where.
type ValidationError struct {
	Type    string
	Message string
	Offset  int // -1 when not tied to an offset
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func fail(typ string, off int, format string, args ...any) error {
	return &ValidationError{Type: typ, Message: fmt.Sprintf(format, args...), Offset: off}
}

// AllInvariants runs every check and returns the first failure.
func AllInvariants(data []byte) error {
	for _, check := range []func([]byte) error{REGFHeader, Checksum, SequenceNumbers, HBINStructure, FileSize} {
		if err := check(data); err != nil {
			return err
		}
	}
	return nil
}

// REGFHeader validates the base block signature, version and data size.
func REGFHeader(data []byte) error {
	if len(data) < format.HeaderSize {
		return fail("REGFHeader", -1, "file too small: %d bytes (need %d)", len(data), format.HeaderSize)
	}
	if sig := data[:format.REGFSignatureSize]; !bytes.Equal(sig, format.REGFSignature) {
		return fail("REGFHeader", format.REGFSignatureOffset, "invalid signature %q", sig)
	}
	if major := format.ReadU32(data, format.REGFMajorVersionOffset); major != 1 {
		return fail("REGFHeader", format.REGFMajorVersionOffset, "unexpected major version %d", major)
	}
	if minor := format.ReadU32(data, format.REGFMinorVersionOffset); minor < 3 || minor > 6 {
		return fail("REGFHeader", format.REGFMinorVersionOffset, "unusual minor version %d", minor)
	}
	if size := format.ReadU32(data, format.REGFDataSizeOffset); size%format.HBINAlignment != 0 {
		return fail("REGFHeader", format.REGFDataSizeOffset, "data size not 4KB-aligned: 0x%X", size)
	}
	return nil
}

// Checksum validates the stored base block checksum.
func Checksum(data []byte) error {
	if len(data) < format.HeaderSize {
		return fail("Checksum", -1, "file too small for header")
	}
	calculated := format.HeaderChecksum(data)
	if stored := format.ReadU32(data, format.REGFCheckSumOffset); stored != calculated {
		return fail("Checksum", format.REGFCheckSumOffset, "calculated=0x%08X stored=0x%08X", calculated, stored)
	}
	return nil
}

// SequenceNumbers checks the hive is clean (primary == secondary).
func SequenceNumbers(data []byte) error {
	if len(data) < format.HeaderSize {
		return fail("SequenceNumbers", -1, "file too small for header")
	}
	seq1 := format.ReadU32(data, format.REGFPrimarySeqOffset)
	seq2 := format.ReadU32(data, format.REGFSecondarySeqOffset)
	if seq1 != seq2 {
		return fail("SequenceNumbers", format.REGFPrimarySeqOffset, "dirty hive: Seq1=0x%X Seq2=0x%X", seq1, seq2)
	}
	return nil
}

// HBINStructure validates that bins are contiguous and that their cells
// tile each bin exactly.
func HBINStructure(data []byte) error {
	pos := format.HeaderSize
	bins := 0
	for pos+format.HBINHeaderSize <= len(data) {
		if sig := data[pos : pos+4]; !bytes.Equal(sig, format.HBINSignature) {
			return fail("HBINStructure", pos, "invalid HBIN signature %q", sig)
		}
		if field, want := int(format.ReadU32(data, pos+format.HBINFileOffsetField)), pos-format.HeaderSize; field != want {
			return fail("HBINStructure", pos, "HBIN offset field 0x%X, expected 0x%X", field, want)
		}
		size := int(format.ReadU32(data, pos+format.HBINSizeOffset))
		if size <= 0 || size%format.HBINAlignment != 0 {
			return fail("HBINStructure", pos, "invalid HBIN size 0x%X", size)
		}
		if pos+size > len(data) {
			return fail("HBINStructure", pos, "HBIN extends beyond file: size=0x%X available=0x%X", size, len(data)-pos)
		}
		if err := cells(data, pos, pos+size); err != nil {
			return err
		}
		pos += size
		bins++
	}
	if bins == 0 {
		return fail("HBINStructure", -1, "no HBINs found")
	}
	return nil
}

func cells(data []byte, start, end int) error {
	pos := start + format.HBINHeaderSize
	for pos < end {
		if pos+format.CellHeaderSize > end {
			return fail("HBINStructure", pos, "cell header crosses HBIN end 0x%X", end)
		}
		size := int(format.ReadI32(data, pos))
		if size < 0 {
			size = -size
		}
		switch {
		case size < format.CellAlignment:
			return fail("HBINStructure", pos, "cell size %d too small", size)
		case size%format.CellAlignment != 0:
			return fail("HBINStructure", pos, "cell size %d not 8-byte aligned", size)
		case pos+size > end:
			return fail("HBINStructure", pos, "cell crosses HBIN boundary: end=0x%X hbin_end=0x%X", pos+size, end)
		}
		pos += size
	}
	return nil
}

// FileSize validates that the image is exactly base block plus bins.
func FileSize(data []byte) error {
	if len(data) < format.HeaderSize {
		return fail("FileSize", -1, "file too small: %d bytes", len(data))
	}
	want := format.HeaderSize + int(format.ReadU32(data, format.REGFDataSizeOffset))
	if len(data) != want {
		return fail("FileSize", -1, "file size 0x%X, header says 0x%X", len(data), want)
	}
	return nil
}
