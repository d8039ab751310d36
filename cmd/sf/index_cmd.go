package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sharpfind/sf/internal/events"
	"github.com/sharpfind/sf/internal/index"
	"github.com/sharpfind/sf/internal/model"
	"github.com/sharpfind/sf/internal/source"
	"github.com/sharpfind/sf/internal/ui"
	"github.com/spf13/cobra"
)

var indexEvery time.Duration

var indexCmd = &cobra.Command{
	Use:     "index",
	Short:   "Maintain the SQL file index used by --use-index",
	GroupID: "index",
}

var indexUpdateCmd = &cobra.Command{
	Use:   "update [root]",
	Short: "Record every file below root in the index",
	Long: `Walk root and upsert every regular file into the index provider, then
remove rows below root that no longer exist. With --every the update repeats
until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		spec, err := model.FilterSpec{Root: root, IncludeHiddenDirs: true}.Resolve()
		if err != nil {
			return err
		}

		store, err := openIndexForWrite(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		var pub events.Publisher = &events.NoopPublisher{}
		if publish {
			if pub, err = openPublisher(); err != nil {
				return err
			}
		}
		defer pub.Close()

		ix := index.NewIndexer(store, logger)
		job := func(ctx context.Context) (index.UpdateStats, error) {
			files := source.NewWalkSource(spec, logger).Candidates(ctx)
			stats, err := ix.Update(ctx, spec.Root, files)
			if err != nil {
				return stats, err
			}
			indexed := events.Indexed{
				RunID:    runID,
				Root:     spec.Root,
				Upserted: stats.Upserted,
				Removed:  stats.Removed,
				Elapsed:  stats.Elapsed,
			}
			if err := pub.Publish(ctx, events.TopicIndexed, indexed); err != nil {
				logger.Warn("publish index update failed", "err", err)
			}
			return stats, nil
		}

		if indexEvery <= 0 {
			stats, err := job(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d files below %s (%d removed) in %s\n",
				stats.Upserted, spec.Root, stats.Removed, stats.Elapsed.Round(time.Millisecond))
			return nil
		}

		logger.Info("index updates scheduled", "root", spec.Root, "every", indexEvery)
		sched := index.NewScheduler(job, indexEvery, logger)
		sched.Start(ctx)
		sched.Wait()
		total, failed := sched.Runs()
		logger.Info("index updates stopped", "runs", total, "failed", failed)
		return nil
	},
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what the index provider holds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := index.Open(ctx, cfg.Index.Driver, cfg.Index.DSN)
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return json.NewEncoder(out).Encode(map[string]any{
				"driver":     store.Driver(),
				"files":      stats.Files,
				"bytes":      stats.Bytes,
				"indexed_at": stats.IndexedAt,
			})
		}
		fmt.Fprintf(out, "Driver:      %s\n", store.Driver())
		fmt.Fprintf(out, "Files:       %d\n", stats.Files)
		fmt.Fprintf(out, "Size:        %s\n", ui.FormatSize(stats.Bytes))
		if !stats.IndexedAt.IsZero() {
			fmt.Fprintf(out, "Indexed At:  %s\n", stats.IndexedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// openIndexForWrite opens the provider and brings its schema up to date.
// The default sqlite3 provider lives in a file whose directory may not
// exist yet.
func openIndexForWrite(ctx context.Context) (*index.Store, error) {
	if cfg.Index.Driver == index.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Index.DSN), 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}
	store, err := index.Open(ctx, cfg.Index.Driver, cfg.Index.DSN)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func init() {
	indexUpdateCmd.Flags().DurationVar(&indexEvery, "every", 0, "repeat the update at this interval until interrupted")

	indexCmd.AddCommand(indexUpdateCmd)
	indexCmd.AddCommand(indexStatsCmd)
}
