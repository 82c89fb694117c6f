//go:build windows

package reg

import (
	"errors"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/joshuapare/appxkit/pkg/types"
)

var (
	modadvapi32      = windows.NewLazySystemDLL("advapi32.dll")
	procRegGetValueW = modadvapi32.NewProc("RegGetValueW")
)

// RegGetValueW restriction flags.
const (
	rrfRtRegSZ    = 0x00000002
	rrfRtRegDWORD = 0x00000010
	rrfRtRegQWORD = 0x00000040
)

type nativeStore struct{}

// Native returns the Win32 registry.
func Native() Store { return nativeStore{} }

var rootHandles = map[Root]windows.Handle{
	ClassesRoot:   windows.HKEY_CLASSES_ROOT,
	CurrentUser:   windows.HKEY_CURRENT_USER,
	LocalMachine:  windows.HKEY_LOCAL_MACHINE,
	Users:         windows.HKEY_USERS,
	CurrentConfig: windows.HKEY_CURRENT_CONFIG,
}

func (nativeStore) OpenRoot(root Root, path []uint16, opts Options, access Access) (Handle, error) {
	parent, ok := rootHandles[root]
	if !ok {
		return nil, types.Errorf(types.ErrKindInvalidArgument, "RegOpenKeyEx", nil, "unknown root %s", root)
	}
	return openKey(parent, path, opts, access)
}

type nativeHandle windows.Handle

func openKey(parent windows.Handle, path []uint16, opts Options, access Access) (Handle, error) {
	var h windows.Handle
	if err := windows.RegOpenKeyEx(parent, first(path), uint32(opts), uint32(access), &h); err != nil {
		return nil, mapErrno("RegOpenKeyEx", err)
	}
	return nativeHandle(h), nil
}

func (h nativeHandle) OpenSubkey(path []uint16, opts Options, access Access) (Handle, error) {
	return openKey(windows.Handle(h), path, opts, access)
}

func (h nativeHandle) EnumKey(index uint32, buf *NameBuffer) (int, error) {
	n := uint32(len(buf))
	err := windows.RegEnumKeyEx(windows.Handle(h), index, &buf[0], &n, nil, nil, nil, nil)
	if err != nil {
		return 0, mapErrno("RegEnumKeyEx", err)
	}
	return int(n), nil
}

func (h nativeHandle) QueryString(subkey, value []uint16, buf []uint16) (int, error) {
	cb := uint32(len(buf) * 2)
	if err := h.getValue(subkey, value, rrfRtRegSZ, unsafe.Pointer(&buf[0]), &cb); err != nil {
		return 0, err
	}
	return int(cb / 2), nil
}

func (h nativeHandle) QueryDWORD(subkey, value []uint16) (uint32, error) {
	var v uint32
	cb := uint32(unsafe.Sizeof(v))
	if err := h.getValue(subkey, value, rrfRtRegDWORD, unsafe.Pointer(&v), &cb); err != nil {
		return 0, err
	}
	return v, nil
}

func (h nativeHandle) QueryQWORD(subkey, value []uint16) (uint64, error) {
	var v uint64
	cb := uint32(unsafe.Sizeof(v))
	if err := h.getValue(subkey, value, rrfRtRegQWORD, unsafe.Pointer(&v), &cb); err != nil {
		return 0, err
	}
	return v, nil
}

func (h nativeHandle) getValue(subkey, value []uint16, flags uint32, data unsafe.Pointer, cb *uint32) error {
	r1, _, _ := procRegGetValueW.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(first(subkey))),
		uintptr(unsafe.Pointer(first(value))),
		uintptr(flags),
		0, // pdwType
		uintptr(data),
		uintptr(unsafe.Pointer(cb)),
	)
	if r1 != 0 {
		return mapErrno("RegGetValue", syscall.Errno(r1))
	}
	return nil
}

func (h nativeHandle) Close() error {
	if err := windows.RegCloseKey(windows.Handle(h)); err != nil {
		return mapErrno("RegCloseKey", err)
	}
	return nil
}

func mapErrno(op string, err error) error {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return classifyStatus(op, uint32(errno), err)
	}
	return types.Errorf(types.ErrKindUnknown, op, err, "registry call failed")
}

// first returns a pointer to s[0], or nil for a nil slice.
func first(s []uint16) *uint16 {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}
