// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the spectronaut-curtainptm CLI, which
// converts Spectronaut PTM reports into the CurtainPTM upload format by
// delegating to curtainutils' process_spectronaut_ptm.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/spectronaut-curtainptm/internal/convert"
	"github.com/pdiddy/spectronaut-curtainptm/internal/curtainutils"
	"github.com/pdiddy/spectronaut-curtainptm/internal/logging"
	"github.com/pdiddy/spectronaut-curtainptm/internal/proc"
	"github.com/pdiddy/spectronaut-curtainptm/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Exit statuses.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// newConverter builds the backend. Tests replace it with a fake.
var newConverter = func(ctx context.Context, cfg types.BackendConfig, streams curtainutils.Streams) (convert.Converter, error) {
	return curtainutils.New(ctx, cfg, proc.OS{}, streams)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spectronaut-curtainptm",
		Short: "Convert Spectronaut PTM output to CurtainPTM format",
		Long: `spectronaut-curtainptm converts a Spectronaut PTM report into the
CurtainPTM upload format. The conversion itself is performed by
process_spectronaut_ptm from the curtainutils Python package, run either
with a local interpreter (--backend local) or inside a container image
(--backend container).

Options may also be given in a YAML config file (--config) or through
CURTAINPTM_* environment variables; explicit flags take precedence.`,
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runConvert,
	}

	f := root.PersistentFlags()
	f.String("input_file", "", "Path to Spectronaut PTM output file (required)")
	f.String("index_col", types.DefaultIndexCol, "Column name containing position information")
	f.String("peptide_col", types.DefaultPeptideCol, "Column name containing peptide sequences")
	f.String("uniprot_id_col", types.DefaultUniprotIDCol, "Column name containing UniProt IDs")
	f.String("processing_mode", string(types.DefaultProcessingMode), "Processing mode: 1=basic, 2=PTM group, 3=ProForma")
	f.String("modification_type", types.DefaultModificationType, "Modification type for modes 2 and 3")
	f.String("fasta_file", "", "Path to FASTA file (optional, will fetch from UniProt if not provided)")
	f.String("uniprot_columns", types.DefaultUniprotColumns, "UniProt columns to retrieve")
	f.String("output_filename", types.DefaultOutputFilename, "Output filename")
	f.Int("sequence_window_size", types.DefaultSequenceWindowSize, "Size of sequence window around modification sites")
	f.String("output_folder", "", "Output folder for converted file (required)")

	f.String("config", "", "config file (default: ./curtainptm.yaml or <user config dir>/curtainptm/config.yaml)")
	f.String("backend", string(types.BackendLocal), "how to run curtainutils: local or container")
	f.String("python", types.DefaultPython, "Python interpreter for the local backend")
	f.String("image", types.DefaultImage, "container image for the container backend")
	f.Bool("debug", false, "enable debug logging on stderr")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &types.ValidationError{Field: "flags", Message: err.Error()}
	})

	root.AddCommand(newVersionCmd(), newConfigCmd())
	return root
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &types.ValidationError{
			Field:   "args",
			Message: "unrecognized arguments: " + strings.Join(args, " "),
		}
	}
	return nil
}

func runConvert(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logging.Init(cmd.ErrOrStderr(), s.Debug)
	if s.ConfigFile != "" {
		slog.Debug("using config file", "path", s.ConfigFile)
	}

	if err := s.Request.Validate(); err != nil {
		return err
	}
	if err := s.Backend.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	conv, err := newConverter(ctx, s.Backend, curtainutils.Streams{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	return convert.Run(ctx, conv, s.Request, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// execute runs the CLI with args and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}

	var (
		convErr  *convert.ConversionError
		validErr *types.ValidationError
	)
	switch {
	case errors.As(err, &convErr):
		// Already reported by convert.Run.
		return exitError
	case errors.Is(err, convert.ErrUnavailable):
		slog.Debug("curtainutils unavailable", "error", err)
		fmt.Fprintf(stdout, "Error: %s\n", convert.ErrUnavailable)
		return exitError
	case errors.As(err, &validErr):
		fmt.Fprint(stderr, root.UsageString())
		fmt.Fprintf(stderr, "\nError: %s\n", validErr)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return exitError
	}
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
