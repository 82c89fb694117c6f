package types

// ============================================================================
// Windows Registry Limits Constants
// ============================================================================
// Lengths are in UTF-16 code units, not bytes, and exclude the terminator.

const (
	// WindowsMaxKeyNameLen is the hard limit for a single key name.
	WindowsMaxKeyNameLen = 255

	// WindowsMaxValueNameLen is the hard limit for registry value names.
	WindowsMaxValueNameLen = 16383

	// WindowsMaxStringLen bounds the string values read by this module.
	// Package attributes are display names, version strings and paths,
	// all far below it.
	WindowsMaxStringLen = 32767
)
