package hive_test

import (
	"fmt"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/appxkit/hive"
	"github.com/joshuapare/appxkit/internal/format"
	"github.com/joshuapare/appxkit/internal/testutil"
	"github.com/joshuapare/appxkit/internal/testutil/hivegen"
)

func u(s string) []uint16 { return utf16.Encode([]rune(s)) }

func names(t *testing.T, keys []hive.Key) []string {
	t.Helper()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(utf16.Decode(k.Name()))
	}
	return out
}

func sampleTree() *hivegen.Key {
	return &hivegen.Key{
		Name: "ROOT",
		Subkeys: []*hivegen.Key{
			hivegen.Path(`Software\Vendor`, &hivegen.Key{
				Values: []hivegen.Value{
					hivegen.String("DisplayName", "Vendor App"),
					hivegen.DWORD("Flags", 0xDEADBEEF),
					hivegen.QWORD("Version", 0x0001000200030004),
					hivegen.Binary("Tiny", []byte{1, 2}),
				},
			}),
			{Name: "Empty"},
		},
	}
}

func TestOpen_RootAndLookup(t *testing.T) {
	h := testutil.SetupHive(t, sampleTree())

	root, err := h.Root()
	require.NoError(t, err)
	require.Equal(t, "ROOT", string(utf16.Decode(root.Name())))
	require.Equal(t, 2, root.SubkeyCount())

	subs, err := root.Subkeys()
	require.NoError(t, err)
	require.Equal(t, []string{"Empty", "Software"}, names(t, subs))

	k, err := root.Lookup(u(`software\VENDOR`))
	require.NoError(t, err)
	require.Equal(t, "Vendor", string(utf16.Decode(k.Name())))
	require.Equal(t, 4, k.ValueCount())

	same, err := root.Lookup(u(`\Software\\Vendor\`))
	require.NoError(t, err)
	require.Equal(t, k.Offset(), same.Offset())

	self, err := root.Lookup(nil)
	require.NoError(t, err)
	require.Equal(t, root.Offset(), self.Offset())

	_, err = root.Lookup(u(`Software\Missing`))
	require.ErrorIs(t, err, hive.ErrNotFound)
}

func TestValues(t *testing.T) {
	h := testutil.SetupHive(t, sampleTree())
	root, err := h.Root()
	require.NoError(t, err)
	k, err := root.Lookup(u(`Software\Vendor`))
	require.NoError(t, err)

	v, err := k.Value(u("displayname"))
	require.NoError(t, err)
	require.Equal(t, hivegen.TypeSZ, v.Type())
	data, err := v.Data()
	require.NoError(t, err)
	require.Len(t, data, (len("Vendor App")+1)*2)

	v, err = k.Value(u("Flags"))
	require.NoError(t, err)
	data, err = v.Data()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), format.ReadU32(data, 0))

	v, err = k.Value(u("Version"))
	require.NoError(t, err)
	require.Equal(t, 8, v.Size())
	data, err = v.Data()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0001000200030004), format.ReadU64(data, 0))

	v, err = k.Value(u("Tiny"))
	require.NoError(t, err)
	data, err = v.Data()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, data)

	_, err = k.Value(u("Nope"))
	require.ErrorIs(t, err, hive.ErrNotFound)
}

func TestBigData(t *testing.T) {
	big := make([]byte, format.DBChunkSize*2+100)
	for i := range big {
		big[i] = byte(i % 251)
	}
	h := testutil.SetupHive(t, &hivegen.Key{
		Values: []hivegen.Value{hivegen.Binary("Blob", big)},
	})
	root, err := h.Root()
	require.NoError(t, err)
	v, err := root.Value(u("Blob"))
	require.NoError(t, err)
	data, err := v.Data()
	require.NoError(t, err)
	require.Equal(t, big, data)
}

func TestSubkeyListKinds(t *testing.T) {
	var kids []*hivegen.Key
	for i := range 7 {
		kids = append(kids, &hivegen.Key{Name: fmt.Sprintf("Child%d", i)})
	}
	want := []string{"Child0", "Child1", "Child2", "Child3", "Child4", "Child5", "Child6"}

	kinds := []hivegen.ListKind{hivegen.ListLH, hivegen.ListLF, hivegen.ListLI, hivegen.ListRI}
	for _, kind := range kinds {
		t.Run(fmt.Sprint(kind), func(t *testing.T) {
			h := testutil.SetupHive(t, &hivegen.Key{Subkeys: kids},
				hivegen.WithList(kind), hivegen.WithRILeafSize(3))
			root, err := h.Root()
			require.NoError(t, err)
			subs, err := root.Subkeys()
			require.NoError(t, err)
			require.Equal(t, want, names(t, subs))

			k, err := root.Subkey(u("CHILD5"))
			require.NoError(t, err)
			require.Equal(t, "Child5", string(utf16.Decode(k.Name())))
		})
	}
}

func TestWideAndLatin1Names(t *testing.T) {
	h := testutil.SetupHive(t, &hivegen.Key{Subkeys: []*hivegen.Key{
		{Name: "Ünïcode"},
		{Name: "Plain", WideName: true},
	}})
	root, err := h.Root()
	require.NoError(t, err)

	k, err := root.Subkey(u("üNÏCODE"))
	require.NoError(t, err)
	require.Equal(t, "Ünïcode", string(utf16.Decode(k.Name())))

	k, err = root.Subkey(u("plain"))
	require.NoError(t, err)
	require.Equal(t, "Plain", string(utf16.Decode(k.Name())))
}

func TestOpen_Corrupt(t *testing.T) {
	good := hivegen.Build(sampleTree())

	t.Run("bad signature", func(t *testing.T) {
		data := append([]byte(nil), good.Bytes...)
		copy(data, "regX")
		_, err := hive.OpenBytes(data)
		require.ErrorIs(t, err, hive.ErrCorrupt)
		require.ErrorIs(t, err, format.ErrSignatureMismatch)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := hive.OpenBytes(good.Bytes[:format.HeaderSize+16])
		require.ErrorIs(t, err, hive.ErrCorrupt)
		require.ErrorIs(t, err, format.ErrTruncated)
	})

	t.Run("too small for header", func(t *testing.T) {
		_, err := hive.Open(testutil.WriteImage(t, []byte("regf")))
		require.ErrorIs(t, err, hive.ErrCorrupt)
	})

	t.Run("bad nk signature", func(t *testing.T) {
		data := append([]byte(nil), good.Bytes...)
		off, ok := good.KeyOffset(`Software\Vendor`)
		require.True(t, ok)
		copy(data[hivegen.CellAbs(off):], "xx")

		h, err := hive.OpenBytes(data)
		require.NoError(t, err)
		root, err := h.Root()
		require.NoError(t, err)
		_, err = root.Lookup(u(`Software\Vendor`))
		require.ErrorIs(t, err, hive.ErrCorrupt)
	})

	t.Run("root offset out of range", func(t *testing.T) {
		data := append([]byte(nil), good.Bytes...)
		format.PutU32(data, format.REGFRootCellOffset, 0x7FFFFFF0)
		_, err := hive.OpenBytes(data)
		require.ErrorIs(t, err, hive.ErrCorrupt)
	})

	t.Run("root without hive-entry flag", func(t *testing.T) {
		data := append([]byte(nil), good.Bytes...)
		off, ok := good.KeyOffset("")
		require.True(t, ok)
		format.PutU16(data, hivegen.CellAbs(off)+format.NKFlagsOffset, format.NKFlagCompressedName)

		h, err := hive.OpenBytes(data)
		require.NoError(t, err)
		_, err = h.Root()
		require.ErrorIs(t, err, hive.ErrCorrupt)
	})

	t.Run("subkey count beyond hive", func(t *testing.T) {
		data := append([]byte(nil), good.Bytes...)
		off, ok := good.KeyOffset("")
		require.True(t, ok)
		format.PutU32(data, hivegen.CellAbs(off)+format.NKSubkeyCountOffset, 0x7FFFFFFF)

		h, err := hive.OpenBytes(data)
		require.NoError(t, err)
		root, err := h.Root()
		require.NoError(t, err)
		_, err = root.SubkeyOffsets()
		require.ErrorIs(t, err, hive.ErrCorrupt)
		_, err = root.Lookup(u(`Software\Vendor`))
		require.ErrorIs(t, err, hive.ErrCorrupt)
	})

	t.Run("big data length beyond blocks", func(t *testing.T) {
		img := hivegen.Build(&hivegen.Key{
			Name:   "ROOT",
			Values: []hivegen.Value{hivegen.Binary("Blob", make([]byte, format.DBChunkSize+1))},
		})
		data := append([]byte(nil), img.Bytes...)
		rootOff, ok := img.KeyOffset("")
		require.True(t, ok)
		list := format.ReadU32(data, hivegen.CellAbs(rootOff)+format.NKValueListOffset)
		vk := format.ReadU32(data, hivegen.CellAbs(list))
		format.PutU32(data, hivegen.CellAbs(vk)+format.VKDataLenOffset, 0x7FFFFFF0)

		h, err := hive.OpenBytes(data)
		require.NoError(t, err)
		root, err := h.Root()
		require.NoError(t, err)
		v, err := root.Value(u("Blob"))
		require.NoError(t, err)
		_, err = v.Data()
		require.ErrorIs(t, err, hive.ErrCorrupt)
	})
}

func TestBaseBlock(t *testing.T) {
	h := testutil.SetupHive(t, sampleTree())
	bb := h.Base()
	require.True(t, bb.ChecksumOK())
	require.True(t, bb.IsClean())
	require.Equal(t, uint32(1), bb.Major())
	require.Equal(t, uint32(5), bb.Minor())
	require.Equal(t, 2024, bb.LastWrite().Year())
	require.Equal(t, len(h.Bytes()), bb.HiveLength())
}

func TestClose(t *testing.T) {
	h, err := hive.Open(testutil.WriteHive(t, sampleTree()))
	require.NoError(t, err)
	root, err := h.Root()
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	_, err = h.Root()
	require.ErrorIs(t, err, hive.ErrClosed)
	_, err = root.Subkeys()
	require.ErrorIs(t, err, hive.ErrClosed)
}
