// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package curtainutils reaches process_spectronaut_ptm from the Python
// curtainutils package. A short bridge program runs under a Python
// interpreter, either on the host or inside a container image, reads the
// call's keyword arguments as JSON on stdin, and reports the outcome through
// its exit status.
package curtainutils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/pdiddy/spectronaut-curtainptm/internal/convert"
	"github.com/pdiddy/spectronaut-curtainptm/internal/proc"
	"github.com/pdiddy/spectronaut-curtainptm/pkg/types"
)

// exitUnavailable is the bridge's status when curtainutils cannot be
// imported. A conversion exception exits with 1.
const exitUnavailable = 3

// errorMarker prefixes the stderr line carrying the exception text.
const errorMarker = "curtainptm-bridge-error: "

// importCheckScript checks that the capability can be imported.
const importCheckScript = `import sys
try:
    from curtainutils.spectronaut import process_spectronaut_ptm
except ImportError:
    sys.exit(3)
`

// bridgeScript performs the call. Path arguments arrive as base64 bytes and
// are decoded with the filesystem encoding. Exception text is flattened to
// one line.
const bridgeScript = `import base64, json, os, sys
try:
    from curtainutils.spectronaut import process_spectronaut_ptm
except ImportError:
    sys.exit(3)
kwargs = json.load(sys.stdin)
for k in ("file_path", "output_file", "fasta_file"):
    kwargs[k] = os.fsdecode(base64.b64decode(kwargs[k] or ""))
try:
    process_spectronaut_ptm(**kwargs)
except Exception as e:
    sys.stdout.flush()
    sys.stderr.write("` + errorMarker + `" + " ".join(str(e).split()) + "\n")
    sys.stderr.flush()
    sys.exit(1)
`

// payload is the keyword-argument set of process_spectronaut_ptm. Paths are
// raw bytes so names that are not valid UTF-8 survive the JSON encoding.
type payload struct {
	FilePath           []byte `json:"file_path"`
	IndexCol           string `json:"index_col"`
	PeptideCol         string `json:"peptide_col"`
	OutputFile         []byte `json:"output_file"`
	FastaFile          []byte `json:"fasta_file"`
	UniprotIDCol       string `json:"uniprot_id_col"`
	Mode               string `json:"mode"`
	Modification       string `json:"modification"`
	Columns            string `json:"columns"`
	SequenceWindowSize int    `json:"sequence_window_size"`
}

func newPayload(req types.ConversionRequest) payload {
	return payload{
		FilePath:           []byte(req.InputFile),
		IndexCol:           req.IndexCol,
		PeptideCol:         req.PeptideCol,
		OutputFile:         []byte(req.OutputFile()),
		FastaFile:          []byte(req.FastaFile),
		UniprotIDCol:       req.UniprotIDCol,
		Mode:               string(req.ProcessingMode),
		Modification:       req.ModificationType,
		Columns:            req.UniprotColumns,
		SequenceWindowSize: req.SequenceWindowSize,
	}
}

func encodePayload(req types.ConversionRequest) (*bytes.Reader, error) {
	data, err := json.Marshal(newPayload(req))
	if err != nil {
		return nil, fmt.Errorf("encoding conversion arguments: %w", err)
	}
	return bytes.NewReader(data), nil
}

// interpret maps the bridge's exit to an error. message is the captured
// exception text and reported tells whether the marked line was seen; an
// exception with empty text is passed through as an empty message.
func interpret(runErr error, message string, reported bool) error {
	if runErr == nil {
		return nil
	}
	code, ok := proc.ExitCode(runErr)
	if !ok {
		return fmt.Errorf("starting curtainutils bridge: %w", runErr)
	}
	if code == exitUnavailable {
		return convert.ErrUnavailable
	}
	if reported {
		return errors.New(message)
	}
	return fmt.Errorf("curtainutils bridge exited with status %d", code)
}

// stderrFilter splits the bridge's stderr into the marked exception line,
// which it keeps, and everything else, which it forwards. The first error
// from the forwarding writer is kept and returned by Flush.
type stderrFilter struct {
	mu       sync.Mutex
	out      io.Writer
	pending  []byte
	message  string
	reported bool
	err      error
}

func newStderrFilter(out io.Writer) *stderrFilter {
	if out == nil {
		out = io.Discard
	}
	return &stderrFilter{out: out}
}

func (f *stderrFilter) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, p...)
	for {
		i := bytes.IndexByte(f.pending, '\n')
		if i < 0 {
			break
		}
		f.line(f.pending[:i+1])
		f.pending = f.pending[i+1:]
	}
	return len(p), nil
}

// Flush handles a trailing line with no newline and returns the first error
// met while forwarding.
func (f *stderrFilter) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) > 0 {
		f.line(f.pending)
		f.pending = nil
	}
	return f.err
}

func (f *stderrFilter) line(b []byte) {
	s := string(b)
	if msg, ok := strings.CutPrefix(s, errorMarker); ok {
		f.message = strings.TrimRight(msg, "\r\n")
		f.reported = true
		return
	}
	if _, err := f.out.Write(b); err != nil && f.err == nil {
		f.err = fmt.Errorf("forwarding curtainutils stderr: %w", err)
	}
}

// Message returns the captured exception text and whether a marked line was
// seen at all.
func (f *stderrFilter) Message() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message, f.reported
}

// finish flushes the filter and maps the bridge's exit to an error.
func (f *stderrFilter) finish(runErr error) error {
	if err := f.Flush(); err != nil {
		slog.Debug("curtainutils stderr lost", "error", err)
	}
	msg, reported := f.Message()
	return interpret(runErr, msg, reported)
}
