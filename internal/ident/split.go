// Package ident splits underscore-delimited package identity strings.
//
// All functions work on UTF-16 code units and return sub-slices of their
// input; nothing is copied. A missing separator is never an error: absent
// fields come back empty.
package ident

// Separator delimits identity fields.
const Separator uint16 = '_'

// SplitFirst splits s at the first separator. Without a separator it
// returns (s, empty).
func SplitFirst(s []uint16) (before, after []uint16) {
	for i, cu := range s {
		if cu == Separator {
			return s[:i], s[i+1:]
		}
	}
	return s, s[len(s):]
}

// SplitN splits s left to right into at most n fields. The last field keeps
// any remaining separators. n <= 0 returns nil.
func SplitN(s []uint16, n int) [][]uint16 {
	if n <= 0 {
		return nil
	}
	fields := make([][]uint16, 0, n)
	start := 0
	for i, cu := range s {
		if len(fields) == n-1 {
			break
		}
		if cu == Separator {
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	return append(fields, s[start:])
}

// Field returns field i of SplitN(s, n) without allocating. Any index past the
// fields actually present yields an empty slice.
func Field(s []uint16, n, i int) []uint16 {
	if i < 0 || i >= n {
		return s[len(s):]
	}
	field, start := 0, 0
	for j, cu := range s {
		if cu != Separator || field == n-1 {
			continue
		}
		if field == i {
			return s[start:j]
		}
		field++
		start = j + 1
	}
	if field == i {
		return s[start:]
	}
	return s[len(s):]
}
