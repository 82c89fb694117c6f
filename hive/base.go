package hive

import (
	"bytes"
	"fmt"
	"time"

	"github.com/joshuapare/appxkit/internal/format"
)

// BaseBlock represents the 4KiB REGF header at the start of the hive.
// Zero-copy: all accessors read directly from b.raw.
type BaseBlock struct {
	raw []byte // len == 4096
}

// ParseBaseBlock validates the signature and returns a header view.
func ParseBaseBlock(b []byte) (*BaseBlock, error) {
	if len(b) < format.HeaderSize {
		return nil, fmt.Errorf("hive: file too small for REGF header (%d): %w: %w", len(b), format.ErrTruncated, ErrCorrupt)
	}
	sig := b[format.REGFSignatureOffset : format.REGFSignatureOffset+format.REGFSignatureSize]
	if !bytes.Equal(sig, format.REGFSignature) {
		return nil, fmt.Errorf("hive: bad REGF signature %q: %w: %w", sig, format.ErrSignatureMismatch, ErrCorrupt)
	}
	return &BaseBlock{raw: b[:format.HeaderSize]}, nil
}

func (bb *BaseBlock) Sequence1() uint32 { return format.ReadU32(bb.raw, format.REGFPrimarySeqOffset) }
func (bb *BaseBlock) Sequence2() uint32 { return format.ReadU32(bb.raw, format.REGFSecondarySeqOffset) }

// IsClean reports whether both sequence numbers match (no pending writes).
func (bb *BaseBlock) IsClean() bool { return bb.Sequence1() == bb.Sequence2() }

func (bb *BaseBlock) Major() uint32 { return format.ReadU32(bb.raw, format.REGFMajorVersionOffset) }
func (bb *BaseBlock) Minor() uint32 { return format.ReadU32(bb.raw, format.REGFMinorVersionOffset) }

// LastWrite returns the header timestamp.
func (bb *BaseBlock) LastWrite() time.Time {
	return format.FiletimeToTime(format.ReadU64(bb.raw, format.REGFTimeStampOffset))
}

// RootCellOffset returns the root NK offset relative to 0x1000.
func (bb *BaseBlock) RootCellOffset() uint32 {
	return format.ReadU32(bb.raw, format.REGFRootCellOffset)
}

// DataSize returns the total size of all HBINs.
func (bb *BaseBlock) DataSize() uint32 { return format.ReadU32(bb.raw, format.REGFDataSizeOffset) }

// HiveLength is the header plus all HBINs.
func (bb *BaseBlock) HiveLength() int { return format.HeaderSize + int(bb.DataSize()) }

// ChecksumOK reports whether the stored checksum matches the header bytes.
func (bb *BaseBlock) ChecksumOK() bool {
	return format.ReadU32(bb.raw, format.REGFCheckSumOffset) == format.HeaderChecksum(bb.raw)
}

// ValidateSanity checks that the header describes data that fits in fileSize.
// The checksum is not enforced: hives copied from a live system are often dirty.
func (bb *BaseBlock) ValidateSanity(fileSize int) error {
	reported := bb.HiveLength()
	if reported > fileSize {
		return fmt.Errorf("hive: reported hive length (%d) > file size (%d): %w: %w", reported, fileSize, format.ErrTruncated, ErrCorrupt)
	}
	rootAbs := format.HiveDataBase + int(bb.RootCellOffset())
	if rootAbs+format.CellHeaderSize > reported {
		return corruptf("hive: root cell (%d) beyond hive data (%d)", rootAbs, reported)
	}
	return nil
}
