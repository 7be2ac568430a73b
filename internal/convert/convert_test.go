// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/spectronaut-curtainptm/pkg/types"
)

// fakeConverter implements Converter for testing. It records the request it
// was given, optionally writes the output file, and returns err.
type fakeConverter struct {
	write  bool
	err    error
	called bool
	got    types.ConversionRequest
}

func (f *fakeConverter) Convert(_ context.Context, req types.ConversionRequest) error {
	f.called = true
	f.got = req
	if f.write {
		if err := os.WriteFile(req.OutputFile(), []byte("Index\tSequence\n"), 0o644); err != nil {
			return err
		}
	}
	return f.err
}

func newRequest(t *testing.T) types.ConversionRequest {
	t.Helper()
	r := types.DefaultRequest()
	r.InputFile = "data.tsv"
	r.OutputFolder = filepath.Join(t.TempDir(), "out")
	return r
}

func run(t *testing.T, c Converter, req types.ConversionRequest) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = Run(context.Background(), c, req, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestRunModes(t *testing.T) {
	tests := []struct {
		mode     types.ProcessingMode
		wantDesc string
	}{
		{types.ModeBasic, "Processing mode: 1 (Basic PTM processing)"},
		{types.ModePTMGroup, "Processing mode: 2 (PTM group processing with site probabilities)"},
		{types.ModeProForma, "Processing mode: 3 (ProForma sequence processing with position validation)"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			req := newRequest(t)
			req.ProcessingMode = tt.mode
			conv := &fakeConverter{write: true}

			stdout, stderr, err := run(t, conv, req)
			require.NoError(t, err)
			assert.Empty(t, stderr)
			assert.Contains(t, stdout, tt.wantDesc)
			assert.Contains(t, stdout, "Conversion completed successfully!")
			assert.True(t, conv.called)
			assert.Equal(t, req, conv.got)
		})
	}
}

func TestRunInvalidModeTouchesNothing(t *testing.T) {
	req := newRequest(t)
	req.ProcessingMode = "4"
	conv := &fakeConverter{}

	stdout, _, err := run(t, conv, req)

	var ve *types.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.False(t, conv.called)
	assert.Empty(t, stdout)
	_, statErr := os.Stat(req.OutputFolder)
	assert.True(t, os.IsNotExist(statErr), "output folder must not be created")
}

func TestRunMissingRequired(t *testing.T) {
	req := newRequest(t)
	req.InputFile = ""
	conv := &fakeConverter{}

	_, _, err := run(t, conv, req)

	var ve *types.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Error(), "--input_file")
	assert.False(t, conv.called)
	_, statErr := os.Stat(req.OutputFolder)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunCreatesNestedOutputFolder(t *testing.T) {
	req := newRequest(t)
	req.OutputFolder = filepath.Join(t.TempDir(), "a", "b", "c")

	_, _, err := run(t, &fakeConverter{write: true}, req)
	require.NoError(t, err)

	info, err := os.Stat(req.OutputFolder)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunExistingOutputFolder(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
	}{
		{
			name:  "empty",
			setup: func(t *testing.T, dir string) {},
		},
		{
			name: "not empty",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "previous.txt"), []byte("x"), 0o644))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t)
			require.NoError(t, os.MkdirAll(req.OutputFolder, 0o755))
			tt.setup(t, req.OutputFolder)

			_, _, err := run(t, &fakeConverter{write: true}, req)
			require.NoError(t, err)
		})
	}
}

func TestRunOutputFolderIsAFile(t *testing.T) {
	req := newRequest(t)
	require.NoError(t, os.WriteFile(req.OutputFolder, []byte("x"), 0o644))
	conv := &fakeConverter{}

	_, _, err := run(t, conv, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output folder")
	assert.False(t, conv.called)
}

func TestPrintSummaryFasta(t *testing.T) {
	req := newRequest(t)

	var b bytes.Buffer
	PrintSummary(&b, req)
	assert.Contains(t, b.String(), "  FASTA file: Not provided (will fetch from UniProt)\n")

	req.FastaFile = "ref/human proteome.fasta"
	b.Reset()
	PrintSummary(&b, req)
	assert.Contains(t, b.String(), "  FASTA file: ref/human proteome.fasta\n")
}

func TestPrintSummaryModificationType(t *testing.T) {
	tests := []struct {
		mode types.ProcessingMode
		want bool
	}{
		{types.ModeBasic, false},
		{types.ModePTMGroup, true},
		{types.ModeProForma, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			req := newRequest(t)
			req.ProcessingMode = tt.mode
			req.ModificationType = "Acetyl (K)"

			var b bytes.Buffer
			PrintSummary(&b, req)
			if tt.want {
				assert.Contains(t, b.String(), "  Modification type: Acetyl (K)\n")
			} else {
				assert.NotContains(t, b.String(), "Modification type")
			}
		})
	}
}

func TestPrintSummaryOrder(t *testing.T) {
	req := newRequest(t)
	req.ProcessingMode = types.ModePTMGroup

	var b bytes.Buffer
	PrintSummary(&b, req)

	want := []string{
		"Processing Spectronaut PTM data...",
		"  Input file: data.tsv",
		"  Index column: PTM_collapse_key",
		"  Peptide column: PEP.StrippedSequence",
		"  UniProt ID column: UniprotID",
		"  Processing mode: 2 (PTM group processing with site probabilities)",
		"  Modification type: Phospho (STY)",
		"  FASTA file: Not provided (will fetch from UniProt)",
		"  Sequence window size: 21",
		"  Output file: " + req.OutputFile(),
	}
	assert.Equal(t, want, strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n"))
}

func TestRunSuccessEndToEnd(t *testing.T) {
	req := newRequest(t)

	stdout, _, err := run(t, &fakeConverter{write: true}, req)
	require.NoError(t, err)

	want := filepath.Join(req.OutputFolder, "curtainptm_input.txt")
	_, statErr := os.Stat(want)
	require.NoError(t, statErr)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	assert.Equal(t, "Output file: "+want, lines[len(lines)-1])
}

func TestRunConversionFailure(t *testing.T) {
	req := newRequest(t)
	conv := &fakeConverter{err: errors.New("missing column X")}

	stdout, stderr, err := run(t, conv, req)

	var ce *ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "missing column X", ce.Err.Error())
	assert.Contains(t, stderr, "Error during conversion: missing column X")
	assert.Contains(t, stdout, "Processing Spectronaut PTM data...")
	assert.Contains(t, stdout, "  Output file: "+req.OutputFile())
	assert.NotContains(t, stdout, "Conversion completed successfully!")
}

func TestRunFailureLeavesPartialOutput(t *testing.T) {
	req := newRequest(t)
	conv := &fakeConverter{write: true, err: errors.New("UniProt unreachable")}

	_, _, err := run(t, conv, req)
	require.Error(t, err)

	_, statErr := os.Stat(req.OutputFile())
	assert.NoError(t, statErr, "partial output is not cleaned up")
}

func TestConverterFunc(t *testing.T) {
	var got string
	c := ConverterFunc(func(_ context.Context, req types.ConversionRequest) error {
		got = req.InputFile
		return nil
	})
	require.NoError(t, c.Convert(context.Background(), types.ConversionRequest{InputFile: "x.tsv"}))
	assert.Equal(t, "x.tsv", got)
}

func TestConversionErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ConversionError{Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "error during conversion: boom", err.Error())
}
