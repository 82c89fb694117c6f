// Package reg opens, navigates and reads registry keys through a Store:
// the native Win32 registry, an offline hive file, or a stub that reports
// every operation as unsupported.
package reg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joshuapare/appxkit/pkg/types"
)

// Root is a predefined top-level key. Values match the Win32 HKEY constants.
type Root uint32

const (
	ClassesRoot   Root = 0x80000000
	CurrentUser   Root = 0x80000001
	LocalMachine  Root = 0x80000002
	Users         Root = 0x80000003
	CurrentConfig Root = 0x80000005
)

var rootNames = map[Root][2]string{
	ClassesRoot:   {"HKEY_CLASSES_ROOT", "HKCR"},
	CurrentUser:   {"HKEY_CURRENT_USER", "HKCU"},
	LocalMachine:  {"HKEY_LOCAL_MACHINE", "HKLM"},
	Users:         {"HKEY_USERS", "HKU"},
	CurrentConfig: {"HKEY_CURRENT_CONFIG", "HKCC"},
}

func (r Root) String() string {
	if n, ok := rootNames[r]; ok {
		return n[0]
	}
	return fmt.Sprintf("Root(%#x)", uint32(r))
}

// ParseRoot accepts a full root name or its short form, case-insensitively.
func ParseRoot(s string) (Root, error) {
	for r, n := range rootNames {
		if strings.EqualFold(s, n[0]) || strings.EqualFold(s, n[1]) {
			return r, nil
		}
	}
	return 0, types.Errorf(types.ErrKindInvalidArgument, "ParseRoot", nil, "unknown root %q", s)
}

// Options are REG_OPTION_* flags passed when opening a key.
type Options uint32

const (
	OptionNone     Options = 0
	OptionOpenLink Options = 0x8
)

// Access is a KEY_* access mask.
type Access uint32

const (
	AccessQueryValue       Access = 0x0001
	AccessSetValue         Access = 0x0002
	AccessCreateSubKey     Access = 0x0004
	AccessEnumerateSubKeys Access = 0x0008
	AccessNotify           Access = 0x0010
	AccessReadControl      Access = 0x00020000

	// AccessRead is enough to enumerate children and query values.
	AccessRead = AccessQueryValue | AccessEnumerateSubKeys
	AccessAll  Access = 0xF003F
)

// MaxKeyNameLen is the longest key name the registry allows.
const MaxKeyNameLen = types.WindowsMaxKeyNameLen

// MaxValueNameLen is the longest value name the registry allows.
const MaxValueNameLen = types.WindowsMaxValueNameLen

// NameBuffer receives one enumerated key name plus its terminator.
type NameBuffer [MaxKeyNameLen + 1]uint16

// ErrNoMoreItems is returned by Handle.EnumKey past the last child.
// Key.EnumKey turns it into ok == false.
var ErrNoMoreItems = errors.New("reg: no more items")

// Store opens top-level keys. Paths and names handed to a Store or Handle
// are either nil or zero-terminated; Key enforces this before calling in.
type Store interface {
	OpenRoot(root Root, path []uint16, opts Options, access Access) (Handle, error)
}

// Handle is one open key owned by a Key.
type Handle interface {
	OpenSubkey(path []uint16, opts Options, access Access) (Handle, error)
	// EnumKey writes the zero-terminated name of child index into buf and
	// returns its length without the terminator.
	EnumKey(index uint32, buf *NameBuffer) (int, error)
	// QueryString writes string data into buf and returns the number of
	// units written, including the terminator the data carries.
	QueryString(subkey, value []uint16, buf []uint16) (int, error)
	QueryDWORD(subkey, value []uint16) (uint32, error)
	QueryQWORD(subkey, value []uint16) (uint64, error)
	Close() error
}
