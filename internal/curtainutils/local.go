// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package curtainutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/spectronaut-curtainptm/internal/convert"
	"github.com/pdiddy/spectronaut-curtainptm/internal/proc"
	"github.com/pdiddy/spectronaut-curtainptm/pkg/types"
)

// Streams carries the writers that receive the library's own output.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (s Streams) stdout() io.Writer {
	if s.Stdout == nil {
		return io.Discard
	}
	return s.Stdout
}

// Local runs the bridge with a Python interpreter on the host.
type Local struct {
	python  string
	exec    proc.Executor
	streams Streams
}

// NewLocal returns a converter that uses the given interpreter. It verifies
// that the interpreter exists and can import curtainutils; otherwise the
// returned error wraps convert.ErrUnavailable.
func NewLocal(ctx context.Context, exec proc.Executor, python string, streams Streams) (*Local, error) {
	if python == "" {
		python = types.DefaultPython
	}
	if _, err := exec.LookPath(python); err != nil {
		return nil, fmt.Errorf("python interpreter %s: %v: %w", python, err, convert.ErrUnavailable)
	}
	if err := exec.RunSilent(ctx, python, "-c", importCheckScript); err != nil {
		return nil, fmt.Errorf("importing curtainutils with %s: %v: %w", python, err, convert.ErrUnavailable)
	}
	slog.Debug("curtainutils available", "backend", types.BackendLocal, "python", python)
	return &Local{python: python, exec: exec, streams: streams}, nil
}

// Convert calls process_spectronaut_ptm with the fields of req.
func (l *Local) Convert(ctx context.Context, req types.ConversionRequest) error {
	stdin, err := encodePayload(req)
	if err != nil {
		return err
	}

	stderr := newStderrFilter(l.streams.Stderr)
	slog.Debug("running curtainutils bridge", "python", l.python, "input", req.InputFile, "output", req.OutputFile())
	runErr := l.exec.Run(ctx, proc.Cmd{
		Name:   l.python,
		Args:   []string{"-c", bridgeScript},
		Stdin:  stdin,
		Stdout: l.streams.stdout(),
		Stderr: stderr,
	})
	return stderr.finish(runErr)
}
