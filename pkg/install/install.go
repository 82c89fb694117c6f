// Package install registers an .appx/.msix package by running the system
// installer as an external process.
package install

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"

	"github.com/joshuapare/appxkit/pkg/types"
)

// Reason says why the installer process failed.
type Reason int

const (
	// ReasonLaunch means the process could not be started.
	ReasonLaunch Reason = iota + 1
	// ReasonExitCode means the process exited with a non-zero status.
	ReasonExitCode
	// ReasonSignal means the process was killed by a signal.
	ReasonSignal
)

func (r Reason) String() string {
	switch r {
	case ReasonLaunch:
		return "launch failed"
	case ReasonExitCode:
		return "non-zero exit"
	case ReasonSignal:
		return "killed by signal"
	default:
		return "unknown"
	}
}

// ProcessError describes a failed installer run. It is wrapped in a
// types.Error of kind ExternalProcess.
type ProcessError struct {
	Reason   Reason
	ExitCode int    // set for ReasonExitCode
	Signal   string // set for ReasonSignal
	Stderr   string // trimmed tail of the process's stderr
	Err      error
}

func (e *ProcessError) Error() string {
	var b strings.Builder
	b.WriteString(e.Reason.String())
	switch e.Reason {
	case ReasonExitCode:
		fmt.Fprintf(&b, " (status %d)", e.ExitCode)
	case ReasonSignal:
		fmt.Fprintf(&b, " (%s)", e.Signal)
	case ReasonLaunch:
		if e.Err != nil {
			fmt.Fprintf(&b, ": %v", e.Err)
		}
	}
	if e.Stderr != "" {
		fmt.Fprintf(&b, ": %s", e.Stderr)
	}
	return b.String()
}

func (e *ProcessError) Unwrap() error { return e.Err }

// maxStderr bounds how much installer output ends up in an error.
const maxStderr = 1024

// Installer runs Program with Args followed by the package path.
type Installer struct {
	Program string
	Args    []string
	// Quote, when set, rewrites the path before it is appended.
	Quote  func(string) string
	Logger *slog.Logger
}

// PowerShell returns the Windows installer: Add-AppxPackage.
func PowerShell() *Installer {
	return &Installer{
		Program: "powershell",
		Args:    []string{"-NoProfile", "-NonInteractive", "-Command", "Add-AppxPackage", "-Path"},
		Quote:   quotePowerShell,
	}
}

// quotePowerShell wraps s in single quotes, where only ' needs escaping.
func quotePowerShell(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Install runs the installer for the package at path. The path must exist.
// Cancelling ctx kills the process.
func (in *Installer) Install(ctx context.Context, path string) error {
	const op = "install"
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.Errorf(types.ErrKindNotFound, op, err, "package %s", path)
		}
		return types.Errorf(types.ErrKindInvalidArgument, op, err, "package %s", path)
	}

	arg := path
	if in.Quote != nil {
		arg = in.Quote(path)
	}
	args := append(append([]string(nil), in.Args...), arg)

	log := in.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log.Debug("running installer", "program", in.Program, "args", args)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, in.Program, args...)
	cmd.Stderr = &stderr
	cmd.Stdout = io.Discard

	err := cmd.Run()
	if err == nil {
		return nil
	}
	pe := classify(err)
	pe.Stderr = tail(stderr.String(), maxStderr)
	log.Debug("installer failed", "reason", pe.Reason, "error", pe)
	return &types.Error{Kind: types.ErrKindExternalProcess, Op: op, Msg: in.Program, Err: pe}
}

func classify(err error) *ProcessError {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return &ProcessError{Reason: ReasonLaunch, Err: err}
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return &ProcessError{Reason: ReasonSignal, Signal: ws.Signal().String(), Err: err}
	}
	return &ProcessError{Reason: ReasonExitCode, ExitCode: exitErr.ExitCode(), Err: err}
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		s = "..." + s[len(s)-n:]
	}
	return s
}

// AddPackage installs the package at path with PowerShell. It fails with
// types.ErrUnsupported off Windows.
func AddPackage(ctx context.Context, path string) error {
	if runtime.GOOS != "windows" {
		return types.Errorf(types.ErrKindUnsupported, "install", nil, "Add-AppxPackage needs Windows, running on %s", runtime.GOOS)
	}
	return PowerShell().Install(ctx, path)
}
