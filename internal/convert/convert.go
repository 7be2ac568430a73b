// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert orchestrates a Spectronaut-to-CurtainPTM conversion:
// it prepares the output location, echoes the resolved configuration, and
// delegates the transformation to a pluggable Converter backend.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/spectronaut-curtainptm/pkg/types"
)

// Converter performs the actual conversion of a Spectronaut PTM table into
// the CurtainPTM upload format. Implementations are all-or-nothing from the
// caller's point of view: a nil error means the output file was written.
type Converter interface {
	Convert(ctx context.Context, req types.ConversionRequest) error
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc func(ctx context.Context, req types.ConversionRequest) error

func (f ConverterFunc) Convert(ctx context.Context, req types.ConversionRequest) error {
	return f(ctx, req)
}

const fastaNotProvided = "Not provided (will fetch from UniProt)"

// Run validates req, creates the output folder, prints the configuration
// summary to stdout, and invokes c. On success it prints a confirmation
// naming the output file. If c fails, the failure is printed to stderr and
// returned as a *ConversionError; whatever c wrote is left in place.
func Run(ctx context.Context, c Converter, req types.ConversionRequest, stdout, stderr io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(req.OutputFolder, 0o755); err != nil {
		return fmt.Errorf("creating output folder %s: %w", req.OutputFolder, err)
	}

	PrintSummary(stdout, req)

	if err := c.Convert(ctx, req); err != nil {
		fmt.Fprintf(stderr, "\nError during conversion: %s\n", err)
		return &ConversionError{Err: err}
	}

	fmt.Fprintf(stdout, "\nConversion completed successfully!\n")
	fmt.Fprintf(stdout, "Output file: %s\n", req.OutputFile())
	return nil
}

// PrintSummary writes the human-readable configuration echo. The
// modification type is only shown for modes that use it.
func PrintSummary(w io.Writer, req types.ConversionRequest) {
	fmt.Fprintln(w, "Processing Spectronaut PTM data...")
	fmt.Fprintf(w, "  Input file: %s\n", req.InputFile)
	fmt.Fprintf(w, "  Index column: %s\n", req.IndexCol)
	fmt.Fprintf(w, "  Peptide column: %s\n", req.PeptideCol)
	fmt.Fprintf(w, "  UniProt ID column: %s\n", req.UniprotIDCol)
	fmt.Fprintf(w, "  Processing mode: %s (%s)\n", req.ProcessingMode, req.ProcessingMode.Description())
	if req.ProcessingMode.UsesModification() {
		fmt.Fprintf(w, "  Modification type: %s\n", req.ModificationType)
	}
	fasta := req.FastaFile
	if !req.HasFasta() {
		fasta = fastaNotProvided
	}
	fmt.Fprintf(w, "  FASTA file: %s\n", fasta)
	fmt.Fprintf(w, "  Sequence window size: %d\n", req.SequenceWindowSize)
	fmt.Fprintf(w, "  Output file: %s\n", req.OutputFile())
}
