package main

import (
	"fmt"

	"github.com/sharpfind/sf/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Inspect sharpfind configuration",
	GroupID: "system",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if path, err := config.Path(); err == nil {
			fmt.Fprintf(out, "# %s (with SF_* overrides applied)\n", path)
		}
		return cfg.Encode(out)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
