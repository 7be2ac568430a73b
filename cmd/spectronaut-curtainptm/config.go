// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/spectronaut-curtainptm/pkg/types"
)

const (
	envPrefix  = "CURTAINPTM"
	configName = "curtainptm"
)

// settings is everything resolved from flags, config file and environment.
type settings struct {
	Request    types.ConversionRequest
	Backend    types.BackendConfig
	Debug      bool
	ConfigFile string
}

// settingsValues is the flat decode target; the embedded structs share one
// namespace of snake_case keys.
type settingsValues struct {
	types.ConversionRequest `mapstructure:",squash"`
	types.BackendConfig     `mapstructure:",squash"`
	Debug                   bool `mapstructure:"debug"`
}

// loadSettings resolves the effective configuration for cmd. Precedence is
// explicit flag, environment, config file, default.
func loadSettings(cmd *cobra.Command) (settings, error) {
	v, err := newViper(cmd)
	if err != nil {
		return settings{}, err
	}

	values := settingsValues{
		ConversionRequest: types.DefaultRequest(),
		BackendConfig:     types.DefaultBackendConfig(),
	}
	if err := v.Unmarshal(&values, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		enumDecodeHook(),
	))); err != nil {
		return settings{}, &types.ValidationError{
			Field:   "config",
			Message: fmt.Sprintf("invalid configuration: %v", err),
		}
	}

	return settings{
		Request:    values.ConversionRequest,
		Backend:    values.BackendConfig,
		Debug:      values.Debug,
		ConfigFile: v.ConfigFileUsed(),
	}, nil
}

func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	path, explicit, err := resolveConfigFile(cmd)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) && !explicit {
				return v, nil
			}
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	return v, nil
}

func applyDefaults(v *viper.Viper) {
	r := types.DefaultRequest()
	v.SetDefault("input_file", r.InputFile)
	v.SetDefault("index_col", r.IndexCol)
	v.SetDefault("peptide_col", r.PeptideCol)
	v.SetDefault("uniprot_id_col", r.UniprotIDCol)
	v.SetDefault("processing_mode", string(r.ProcessingMode))
	v.SetDefault("modification_type", r.ModificationType)
	v.SetDefault("fasta_file", r.FastaFile)
	v.SetDefault("uniprot_columns", r.UniprotColumns)
	v.SetDefault("output_folder", r.OutputFolder)
	v.SetDefault("output_filename", r.OutputFilename)
	v.SetDefault("sequence_window_size", r.SequenceWindowSize)

	b := types.DefaultBackendConfig()
	v.SetDefault("backend", string(b.Kind))
	v.SetDefault("python", b.Python)
	v.SetDefault("image", b.Image)
	v.SetDefault("debug", false)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var bindErr error
	bind := func(f *pflag.Flag) {
		if bindErr != nil || f.Name == "help" || f.Name == "config" {
			return
		}
		if err := v.BindPFlag(f.Name, f); err != nil {
			bindErr = fmt.Errorf("binding flag %q: %w", f.Name, err)
		}
	}
	cmd.Flags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)
	return bindErr
}

// resolveConfigFile returns the config path to read and whether the user
// named it explicitly (in which case a missing file is an error).
func resolveConfigFile(cmd *cobra.Command) (path string, explicit bool, err error) {
	if f := cmd.Flags().Lookup("config"); f != nil && f.Changed {
		p := strings.TrimSpace(f.Value.String())
		if p == "" {
			return "", true, &types.ValidationError{Field: "--config", Message: "argument --config: expected a file path"}
		}
		return p, true, nil
	}
	if p := strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG")); p != "" {
		return p, true, nil
	}

	candidates := []string{filepath.Join(".", configName+".yaml")}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		candidates = append(candidates, filepath.Join(dir, configName, "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, false, nil
		}
	}
	return "", false, nil
}

// enumDecodeHook lets config files spell enum values as bare scalars, e.g.
// "processing_mode: 2" or "backend: Container".
func enumDecodeHook() mapstructure.DecodeHookFuncType {
	modeType := reflect.TypeOf(types.ProcessingMode(""))
	kindType := reflect.TypeOf(types.BackendKind(""))
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != modeType && to != kindType {
			return data, nil
		}
		var s string
		switch value := data.(type) {
		case string:
			s = value
		case int:
			s = strconv.Itoa(value)
		case int64:
			s = strconv.FormatInt(value, 10)
		case uint64:
			s = strconv.FormatUint(value, 10)
		case float64:
			s = strconv.FormatFloat(value, 'f', -1, 64)
		default:
			return data, nil
		}
		s = strings.TrimSpace(s)
		if to == kindType {
			return types.BackendKind(strings.ToLower(s)), nil
		}
		return types.ProcessingMode(s), nil
	}
}
