// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data structures shared by the converter CLI and
// its backends.
package types

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ProcessingMode selects the transformation strategy applied by
// process_spectronaut_ptm.
type ProcessingMode string

const (
	ModeBasic    ProcessingMode = "1"
	ModePTMGroup ProcessingMode = "2"
	ModeProForma ProcessingMode = "3"
)

// Modes lists the recognized processing modes in order.
var Modes = []ProcessingMode{ModeBasic, ModePTMGroup, ModeProForma}

var modeDescriptions = map[ProcessingMode]string{
	ModeBasic:    "Basic PTM processing",
	ModePTMGroup: "PTM group processing with site probabilities",
	ModeProForma: "ProForma sequence processing with position validation",
}

// Valid reports whether m is one of the recognized modes.
func (m ProcessingMode) Valid() bool {
	_, ok := modeDescriptions[m]
	return ok
}

// Description returns the human-readable label for m, or "" when m is not
// a recognized mode.
func (m ProcessingMode) Description() string {
	return modeDescriptions[m]
}

// UsesModification reports whether the modification type is meaningful in
// this mode (PTM group and ProForma processing).
func (m ProcessingMode) UsesModification() bool {
	return m == ModePTMGroup || m == ModeProForma
}

// Default values for optional request fields.
const (
	DefaultIndexCol           = "PTM_collapse_key"
	DefaultPeptideCol         = "PEP.StrippedSequence"
	DefaultUniprotIDCol       = "UniprotID"
	DefaultProcessingMode     = ModeBasic
	DefaultModificationType   = "Phospho (STY)"
	DefaultUniprotColumns     = "accession,id,sequence,protein_name"
	DefaultOutputFilename     = "curtainptm_input.txt"
	DefaultSequenceWindowSize = 21
)

// ConversionRequest bundles everything needed for one conversion run. It is
// built once from the command line, validated, and passed by value to the
// converter.
type ConversionRequest struct {
	// InputFile is the Spectronaut PTM table to convert.
	InputFile string `json:"input_file" yaml:"input_file" mapstructure:"input_file"`

	// IndexCol names the column holding the PTM position key.
	IndexCol string `json:"index_col" yaml:"index_col" mapstructure:"index_col"`

	// PeptideCol names the column holding stripped peptide sequences.
	PeptideCol string `json:"peptide_col" yaml:"peptide_col" mapstructure:"peptide_col"`

	// UniprotIDCol names the column holding UniProt accessions.
	UniprotIDCol string `json:"uniprot_id_col" yaml:"uniprot_id_col" mapstructure:"uniprot_id_col"`

	ProcessingMode ProcessingMode `json:"processing_mode" yaml:"processing_mode" mapstructure:"processing_mode"`

	// ModificationType is only used by modes 2 and 3.
	ModificationType string `json:"modification_type" yaml:"modification_type" mapstructure:"modification_type"`

	// FastaFile is optional; empty means sequences are fetched from UniProt.
	FastaFile string `json:"fasta_file" yaml:"fasta_file" mapstructure:"fasta_file"`

	// UniprotColumns is the comma-separated list of UniProt fields to fetch.
	UniprotColumns string `json:"uniprot_columns" yaml:"uniprot_columns" mapstructure:"uniprot_columns"`

	OutputFolder   string `json:"output_folder" yaml:"output_folder" mapstructure:"output_folder"`
	OutputFilename string `json:"output_filename" yaml:"output_filename" mapstructure:"output_filename"`

	// SequenceWindowSize is the width of the window extracted around each
	// modification site.
	SequenceWindowSize int `json:"sequence_window_size" yaml:"sequence_window_size" mapstructure:"sequence_window_size"`
}

// DefaultRequest returns a request with every optional field at its default
// and the required fields empty.
func DefaultRequest() ConversionRequest {
	return ConversionRequest{
		IndexCol:           DefaultIndexCol,
		PeptideCol:         DefaultPeptideCol,
		UniprotIDCol:       DefaultUniprotIDCol,
		ProcessingMode:     DefaultProcessingMode,
		ModificationType:   DefaultModificationType,
		UniprotColumns:     DefaultUniprotColumns,
		OutputFilename:     DefaultOutputFilename,
		SequenceWindowSize: DefaultSequenceWindowSize,
	}
}

// OutputFile is the path of the file the converter writes.
func (r ConversionRequest) OutputFile() string {
	return filepath.Join(r.OutputFolder, r.OutputFilename)
}

// HasFasta reports whether a local FASTA file was supplied.
func (r ConversionRequest) HasFasta() bool {
	return r.FastaFile != ""
}

// Validate checks the required fields and the processing mode choice. It
// performs no I/O.
func (r ConversionRequest) Validate() error {
	var missing []string
	if r.InputFile == "" {
		missing = append(missing, "--input_file")
	}
	if r.OutputFolder == "" {
		missing = append(missing, "--output_folder")
	}
	if len(missing) > 0 {
		return &ValidationError{
			Field:   strings.Join(missing, ", "),
			Message: "the following arguments are required: " + strings.Join(missing, ", "),
		}
	}
	if !r.ProcessingMode.Valid() {
		choices := make([]string, len(Modes))
		for i, m := range Modes {
			choices[i] = fmt.Sprintf("'%s'", m)
		}
		return &ValidationError{
			Field: "--processing_mode",
			Message: fmt.Sprintf("argument --processing_mode: invalid choice: '%s' (choose from %s)",
				r.ProcessingMode, strings.Join(choices, ", ")),
		}
	}
	return nil
}

// ValidationError reports a request rejected before any processing begins.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// BackendKind selects how process_spectronaut_ptm is reached.
type BackendKind string

const (
	BackendLocal     BackendKind = "local"
	BackendContainer BackendKind = "container"
)

// BackendKinds lists the supported backends.
var BackendKinds = []BackendKind{BackendLocal, BackendContainer}

// Valid reports whether k is a supported backend.
func (k BackendKind) Valid() bool {
	return slices.Contains(BackendKinds, k)
}

const (
	DefaultPython = "python3"
	DefaultImage  = "curtainutils:latest"
)

// BackendConfig holds settings for the converter backend.
type BackendConfig struct {
	// Kind is local (host Python) or container (docker/podman image).
	Kind BackendKind `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Python is the interpreter used by the local backend.
	Python string `json:"python" yaml:"python" mapstructure:"python"`

	// Image is the container image that has curtainutils installed.
	Image string `json:"image" yaml:"image" mapstructure:"image"`
}

// DefaultBackendConfig returns the local backend with python3.
func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		Kind:   BackendLocal,
		Python: DefaultPython,
		Image:  DefaultImage,
	}
}

// Validate rejects unknown backend kinds.
func (c BackendConfig) Validate() error {
	if !c.Kind.Valid() {
		return &ValidationError{
			Field:   "--backend",
			Message: fmt.Sprintf("argument --backend: invalid choice: '%s' (choose from 'local', 'container')", c.Kind),
		}
	}
	return nil
}
