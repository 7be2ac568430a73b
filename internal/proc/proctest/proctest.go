// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package proctest provides a scripted proc.Executor for tests.
package proctest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/pdiddy/spectronaut-curtainptm/internal/proc"
)

// Executor records calls and returns configured responses.
type Executor struct {
	// Bins lists binaries that LookPath resolves.
	Bins map[string]bool

	// Silent maps "bin arg1 arg2" to whether RunSilent succeeds.
	Silent map[string]bool

	// RunFunc handles Run; nil means every Run succeeds with no output.
	RunFunc func(c proc.Cmd) error

	mu     sync.Mutex
	silent []string
	runs   []proc.Cmd
}

func (e *Executor) LookPath(file string) (string, error) {
	if e.Bins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (e *Executor) RunSilent(_ context.Context, name string, args ...string) error {
	key := strings.Join(append([]string{name}, args...), " ")
	e.mu.Lock()
	e.silent = append(e.silent, key)
	e.mu.Unlock()
	if e.Silent[key] {
		return nil
	}
	return &proc.ExitError{Code: 1}
}

func (e *Executor) Run(_ context.Context, c proc.Cmd) error {
	e.mu.Lock()
	e.runs = append(e.runs, c)
	e.mu.Unlock()
	if e.RunFunc != nil {
		return e.RunFunc(c)
	}
	return nil
}

// SilentCalls returns the RunSilent invocations in order.
func (e *Executor) SilentCalls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.silent...)
}

// Runs returns the Run invocations in order.
func (e *Executor) Runs() []proc.Cmd {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]proc.Cmd(nil), e.runs...)
}
