//go:build !windows

package reg

// Native returns the platform registry. There is none here.
func Native() Store { return Unsupported() }
