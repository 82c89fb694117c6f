package types

import "fmt"

// RegType enumerates Windows registry value types.
// (The numbers align with Windows definitions.)
type RegType uint32

const (
	REG_NONE                       RegType = 0
	REG_SZ                         RegType = 1
	REG_EXPAND_SZ                  RegType = 2
	REG_BINARY                     RegType = 3
	REG_DWORD                      RegType = 4
	REG_DWORD_BE                   RegType = 5
	REG_LINK                       RegType = 6
	REG_MULTI_SZ                   RegType = 7
	REG_RESOURCE_LIST              RegType = 8
	REG_FULL_RESOURCE_DESCRIPTOR   RegType = 9
	REG_RESOURCE_REQUIREMENTS_LIST RegType = 10
	REG_QWORD                      RegType = 11
)

var regTypeNames = [...]string{
	REG_NONE:                       "REG_NONE",
	REG_SZ:                         "REG_SZ",
	REG_EXPAND_SZ:                  "REG_EXPAND_SZ",
	REG_BINARY:                     "REG_BINARY",
	REG_DWORD:                      "REG_DWORD",
	REG_DWORD_BE:                   "REG_DWORD_BE",
	REG_LINK:                       "REG_LINK",
	REG_MULTI_SZ:                   "REG_MULTI_SZ",
	REG_RESOURCE_LIST:              "REG_RESOURCE_LIST",
	REG_FULL_RESOURCE_DESCRIPTOR:   "REG_FULL_RESOURCE_DESCRIPTOR",
	REG_RESOURCE_REQUIREMENTS_LIST: "REG_RESOURCE_REQUIREMENTS_LIST",
	REG_QWORD:                      "REG_QWORD",
}

func (t RegType) String() string {
	if int(t) < len(regTypeNames) {
		return regTypeNames[t]
	}
	return fmt.Sprintf("UNKNOWN_TYPE_%d", int32(t))
}

// IsString reports whether values of this type decode as a single string.
func (t RegType) IsString() bool { return t == REG_SZ || t == REG_EXPAND_SZ }
