// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package proc abstracts child-process execution so that backends can be
// tested without spawning real interpreters or container runtimes.
package proc

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strconv"
)

// Cmd describes one child process invocation.
type Cmd struct {
	Name   string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Executor runs child processes.
type Executor interface {
	// LookPath resolves a binary name on PATH.
	LookPath(file string) (string, error)

	// RunSilent runs a command with no I/O attached and reports whether it
	// exited cleanly.
	RunSilent(ctx context.Context, name string, args ...string) error

	// Run executes c with its streams attached.
	Run(ctx context.Context, c Cmd) error
}

// OS is the production executor backed by os/exec.
type OS struct{}

func (OS) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (OS) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (OS) Run(ctx context.Context, c Cmd) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd.Run()
}

// ExitCode extracts the exit status from an error returned by Run or
// RunSilent. ok is false when err did not come from a process that ran and
// exited (for example, the binary could not be started).
func ExitCode(err error) (code int, ok bool) {
	var ee interface{ ExitCode() int }
	if errors.As(err, &ee) {
		return ee.ExitCode(), true
	}
	return 0, false
}

// ExitError is a process exit with a given status. Fakes return it to
// simulate a child that ran and failed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return "exit status " + strconv.Itoa(e.Code) }

// ExitCode returns the simulated exit status.
func (e *ExitError) ExitCode() int { return e.Code }
