package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sharpfind/sf/internal/config"
	"github.com/sharpfind/sf/internal/idgen"
	"github.com/sharpfind/sf/internal/ui"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	showVersion bool
	jsonOutput  bool
	publish     bool

	cfg    *config.Config
	logger *slog.Logger
	runID  string
)

var rootCmd = &cobra.Command{
	Use:   "sf [keyword...]",
	Short: "Fast file search over the filesystem or a SQL file index",
	Long: `sf lists files below a root whose relative path contains every keyword.

Keywords behave like --path. Without --use-index the tree under --root is
walked; with it, the configured SQL index provider is queried instead.
By default only the first 10 matches are shown (see --head and --all).`,
	Example: `  sf report --ext cs
  sf --use-index .jpg --older 20250930 --newer 20231001
  sf -l --larger 100mb --all`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		id, err := idgen.NewRunID()
		if err != nil {
			return err
		}
		runID = id
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).With("run", runID)

		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if !ui.ShouldUseColor(os.Stdout) {
			ui.ForceNoColor()
		}
		return nil
	},
	RunE: runSearch,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&publish, "publish", false, "publish events to NATS (SF_NATS_URL)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "print the version and exit")
	registerSearchFlags(rootCmd, &searchFlags)

	rootCmd.AddGroup(
		&cobra.Group{ID: "index", Title: "Index:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Index
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
