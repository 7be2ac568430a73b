// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/spectronaut-curtainptm/pkg/types"
)

// configFile is the on-disk form read by --config.
type configFile struct {
	types.ConversionRequest `yaml:",inline"`
	types.BackendConfig     `yaml:",inline"`
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as YAML",
		Long: `Config resolves flags, the config file and CURTAINPTM_* environment
variables exactly as a conversion run would, and prints the result as YAML.
The output can be saved and passed back with --config. Nothing is validated
or written.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			data, err := marshalConfig(s)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func marshalConfig(s settings) ([]byte, error) {
	data, err := yaml.Marshal(&configFile{
		ConversionRequest: s.Request,
		BackendConfig:     s.Backend,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}
