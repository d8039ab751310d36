package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sharpfind/sf/internal/config"
	"github.com/sharpfind/sf/internal/events"
	"github.com/sharpfind/sf/internal/filter"
	"github.com/sharpfind/sf/internal/index"
	"github.com/sharpfind/sf/internal/model"
	"github.com/sharpfind/sf/internal/parse"
	"github.com/sharpfind/sf/internal/source"
	"github.com/sharpfind/sf/internal/stream"
	"github.com/spf13/cobra"
)

// searchOptions holds the raw search flags before they become a FilterSpec.
type searchOptions struct {
	paths     []string
	ipaths    []string
	excludes  []string
	iexcludes []string
	ext       string

	larger  string
	smaller string
	newer   string
	older   string

	list           bool
	head           int
	headSet        bool
	heads          bool
	all            bool
	noIgnoreHidden bool
	useIndex       bool
	root           string
	upload         bool
}

var searchFlags searchOptions

const usageHint = "Usage: sf [keyword...] [flags]  (no filter given, see sf --help)"

func registerSearchFlags(cmd *cobra.Command, o *searchOptions) {
	f := cmd.Flags()
	f.StringArrayVar(&o.paths, "path", nil, "path must contain this keyword (repeatable, all must match)")
	f.StringArrayVar(&o.ipaths, "ipath", nil, "like --path, and match all keywords ignoring case")
	f.StringArrayVarP(&o.excludes, "exclude", "x", nil, "drop paths containing this keyword (repeatable, any matches)")
	f.StringArrayVar(&o.iexcludes, "iexclude", nil, "like --exclude, and match all excludes ignoring case")
	f.StringVar(&o.ext, "ext", "", "file extension, with or without the leading dot")
	f.StringVar(&o.larger, "larger", "", "minimum size, inclusive (e.g. 500kb, 100mb, 2gb)")
	f.StringVar(&o.smaller, "smaller", "", "maximum size, inclusive")
	f.StringVar(&o.newer, "newer", "", "modified at or after (e.g. 1d, 2h, 2026, '20260101 1230')")
	f.StringVar(&o.older, "older", "", "modified at or before")
	f.BoolVarP(&o.list, "list", "l", false, "show modification time and size")
	f.IntVar(&o.head, "head", config.DefaultHead, "stop after N matches (0 for no limit)")
	f.BoolVar(&o.heads, "heads", false, "reset the limit to the configured default")
	f.BoolVar(&o.all, "all", false, "show every match")
	f.BoolVar(&o.noIgnoreHidden, "no-ignore-hidden", false, "include .git, bin, obj and other excluded directories")
	f.BoolVar(&o.useIndex, "use-index", false, "query the SQL index provider instead of walking")
	f.StringVar(&o.root, "root", "", "directory to search (default: current directory)")
	f.BoolVar(&o.upload, "upload", false, "upload the run as JSONL to S3 (SF_S3_BUCKET)")
}

// filterSpec turns the flags and positional keywords into an unresolved
// FilterSpec. Unparseable size or time tokens leave their bound unset and are
// returned as warnings.
func (o searchOptions) filterSpec(args []string, cfg *config.Config, now time.Time) (model.FilterSpec, []error) {
	spec := model.FilterSpec{
		Root:              o.root,
		Backend:           model.BackendWalk,
		Include:           append(append(append([]string{}, args...), o.paths...), o.ipaths...),
		IgnoreCase:        len(o.ipaths) > 0,
		Exclude:           append(append([]string{}, o.excludes...), o.iexcludes...),
		ExcludeIgnoreCase: len(o.iexcludes) > 0,
		Extension:         o.ext,
		IncludeHiddenDirs: o.noIgnoreHidden,
		ExcludedDirs:      cfg.ExcludeDirs,
		Limit:             o.limit(cfg),
	}
	if o.useIndex {
		spec.Backend = model.BackendIndex
	}

	var warnings []error
	if o.larger != "" {
		if n, err := parse.Size(o.larger); err != nil {
			warnings = append(warnings, err)
		} else {
			spec.MinSize = &n
		}
	}
	if o.smaller != "" {
		if n, err := parse.Size(o.smaller); err != nil {
			warnings = append(warnings, err)
		} else {
			spec.MaxSize = &n
		}
	}
	if o.newer != "" {
		if t, err := parse.Time(o.newer, now); err != nil {
			warnings = append(warnings, err)
		} else {
			spec.NewerThan = &t
		}
	}
	if o.older != "" {
		if t, err := parse.Time(o.older, now); err != nil {
			warnings = append(warnings, err)
		} else {
			spec.OlderThan = &t
		}
	}
	return spec, warnings
}

func (o searchOptions) limit(cfg *config.Config) int {
	switch {
	case o.all:
		return 0
	case o.heads:
		return cfg.Head
	case o.headSet:
		return o.head
	}
	return cfg.Head
}

func runSearch(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), versionString(readBuildInfo()))
		return nil
	}

	ctx := cmd.Context()
	opts := searchFlags
	opts.headSet = cmd.Flags().Changed("head")

	started := time.Now()
	spec, warnings := opts.filterSpec(args, cfg, started)
	for _, w := range warnings {
		logger.Warn("ignoring filter", "err", w)
	}
	if !spec.HasAnyFilter() {
		fmt.Fprintln(cmd.OutOrStdout(), usageHint)
		return nil
	}

	spec, err := spec.Resolve()
	if err != nil {
		return err
	}

	var provider index.Querier
	if spec.Backend == model.BackendIndex {
		store, err := index.Open(ctx, cfg.Index.Driver, cfg.Index.DSN)
		if err != nil {
			return err
		}
		defer store.Close()
		provider = store
	}

	src, err := source.New(spec, provider, logger)
	if err != nil {
		return err
	}

	sinks, err := openSinks(ctx, cmd.OutOrStdout(), opts, spec)
	if err != nil {
		return err
	}
	defer sinks.Close()

	logger.Debug("search started", "root", spec.Root, "backend", spec.Backend, "limit", spec.Limit)

	st := stream.New(src, filter.New(spec), spec.Limit)
	runErr := drain(ctx, st, sinks)

	stats := st.Stats()
	logger.Debug("search completed",
		"drawn", stats.Drawn, "accepted", stats.Accepted,
		"limit_reached", stats.LimitReached, "elapsed", time.Since(started))

	if err := sinks.Finish(ctx, started, stats, runErr); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// drain copies every result of st into sinks, stopping at the first error.
func drain(ctx context.Context, st *stream.Stream, sinks *resultSinks) error {
	for c, err := range st.Results(ctx) {
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("search interrupted: %w", err)
			}
			return err
		}
		if err := sinks.Match(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// openSinks wires the terminal/JSON printer and the optional NATS and S3
// sinks for one search run.
func openSinks(ctx context.Context, w io.Writer, opts searchOptions, spec model.FilterSpec) (*resultSinks, error) {
	sinks := &resultSinks{
		printer:   newPrinter(w, jsonOutput, opts.list),
		publisher: &events.NoopPublisher{},
		root:      spec.Root,
		backend:   spec.Backend,
	}
	if publish {
		pub, err := openPublisher()
		if err != nil {
			return nil, err
		}
		sinks.publisher = pub
	}
	if opts.upload {
		dest, err := openUpload(ctx)
		if err != nil {
			sinks.Close()
			return nil, err
		}
		sinks.upload = dest
	}
	return sinks, nil
}

func openPublisher() (events.Publisher, error) {
	if cfg.NATS.URL == "" {
		return nil, errors.New("--publish needs SF_NATS_URL or [nats] url in the config file")
	}
	pub, err := events.NewNATSPublisher(cfg.NATS.URL)
	if err != nil {
		return nil, err
	}
	logger.Debug("events enabled", "nats_url", cfg.NATS.URL)
	return pub, nil
}
