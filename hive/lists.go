package hive

import (
	"github.com/joshuapare/appxkit/internal/buf"
	"github.com/joshuapare/appxkit/internal/format"
)

type SubkeyListKind int

const (
	ListUnknown SubkeyListKind = iota
	ListLI
	ListLF
	ListLH
	ListRI
)

func (k SubkeyListKind) String() string {
	switch k {
	case ListLI:
		return "li"
	case ListLF:
		return "lf"
	case ListLH:
		return "lh"
	case ListRI:
		return "ri"
	default:
		return "unknown"
	}
}

func DetectListKind(payload []byte) SubkeyListKind {
	switch {
	case hasPrefix(payload, format.LISignature):
		return ListLI
	case hasPrefix(payload, format.LFSignature):
		return ListLF
	case hasPrefix(payload, format.LHSignature):
		return ListLH
	case hasPrefix(payload, format.RISignature):
		return ListRI
	default:
		return ListUnknown
	}
}

// maxIndexDepth bounds ri nesting. Windows never nests ri inside ri.
const maxIndexDepth = 2

// subkeyOffsets flattens the list at relOff into NK cell offsets, in on-disk
// order. lf/lh/li leaves are read directly; ri recurses into its leaves.
func subkeyOffsets(hiveBuf []byte, relOff uint32, want int) ([]uint32, error) {
	// Every entry takes at least a DWORD of some list cell.
	if want > len(hiveBuf)/format.DWORDSize {
		return nil, corruptf("subkey list: key declares %d entries, hive holds %d bytes", want, len(hiveBuf))
	}
	out := make([]uint32, 0, want)
	if err := appendSubkeyOffsets(hiveBuf, relOff, &out, 0); err != nil {
		return nil, err
	}
	if len(out) != want {
		return nil, corruptf("subkey list: %d entries, key declares %d", len(out), want)
	}
	return out, nil
}

func appendSubkeyOffsets(hiveBuf []byte, relOff uint32, out *[]uint32, depth int) error {
	payload, err := resolveRelCellPayload(hiveBuf, relOff)
	if err != nil {
		return err
	}
	kind := DetectListKind(payload)

	stride := format.LIEntrySize
	switch kind {
	case ListLF, ListLH:
		stride = format.LFFHEntrySize
	case ListLI, ListRI:
	default:
		return corruptf("subkey list %#x: unknown signature %q", relOff, payload[:min(2, len(payload))])
	}

	cnt, err := checkIndexHeader(payload, stride)
	if err != nil {
		return err
	}
	for i := range cnt {
		cell := format.ReadU32(payload, format.IdxListOffset+i*stride)
		if kind != ListRI {
			*out = append(*out, cell)
			continue
		}
		if depth+1 >= maxIndexDepth {
			return corruptf("subkey list %#x: ri nested too deep", relOff)
		}
		if err := appendSubkeyOffsets(hiveBuf, cell, out, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// checkIndexHeader validates an index list header and that cnt entries of
// stride bytes fit in the payload.
func checkIndexHeader(payload []byte, stride int) (int, error) {
	if err := checkHeaderSize("index list", payload, format.IdxListOffset); err != nil {
		return 0, err
	}
	cnt := int(format.ReadU16(payload, format.IdxCountOffset))
	if _, err := buf.CheckListBounds(len(payload), format.IdxListOffset, cnt, stride); err != nil {
		return 0, corruptf("index list: %v", err)
	}
	return cnt, nil
}
