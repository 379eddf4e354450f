package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/spicd/internal/config"
	"github.com/jmylchreest/spicd/internal/logging"
)

func (a *app) showConfigCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show-config",
		Short: "Print the resolved configuration and exit",
		Long: `Print the configuration the daemon would run with: the given options
after out-of-range values have been replaced by their defaults, and the
CPU frequency bounds read from the platform.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewText(cmd.ErrOrStderr(), a.opts.debug)
			cfg, bounds := a.resolveConfig(cmd, logger)
			return config.Render(cmd.OutOrStdout(), config.Resolved{Config: cfg, Bounds: bounds}, config.Format(format))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(config.FormatText),
		"output format (text, toml, yaml)")
	return cmd
}
