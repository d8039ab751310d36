package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sharpfind/sf/internal/events"
	"github.com/sharpfind/sf/internal/export"
	"github.com/sharpfind/sf/internal/model"
	"github.com/sharpfind/sf/internal/stream"
	"github.com/sharpfind/sf/internal/ui"
)

// printer writes one line per result: a colored relative path (optionally
// prefixed with time and size), or a JSON object when asJSON is set.
type printer struct {
	w      io.Writer
	asJSON bool
	list   bool
	enc    *json.Encoder
}

func newPrinter(w io.Writer, asJSON, list bool) *printer {
	p := &printer{w: w, asJSON: asJSON, list: list}
	if asJSON {
		p.enc = json.NewEncoder(w)
		p.enc.SetEscapeHTML(false)
	}
	return p
}

func (p *printer) Print(c model.Candidate) error {
	if p.asJSON {
		return p.enc.Encode(c)
	}
	line := ui.RenderPath(c.RelativePath)
	if p.list {
		line = ui.RenderListPrefix(c.ModifiedAt, c.Size) + line
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// resultSinks fans each result out to stdout, the event bus and, when an
// upload is requested, an in-memory report.
type resultSinks struct {
	printer   *printer
	publisher events.Publisher
	upload    export.Destination
	root      string
	backend   model.Backend

	matches []model.Candidate
}

func (s *resultSinks) Match(ctx context.Context, c model.Candidate) error {
	if err := s.printer.Print(c); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if err := s.publisher.Publish(ctx, events.TopicMatch, events.Match{RunID: runID, Root: s.root, Candidate: c}); err != nil {
		logger.Warn("publish match failed", "path", c.RelativePath, "err", err)
	}
	if s.upload != nil {
		s.matches = append(s.matches, c)
	}
	return nil
}

// Finish publishes the completion event and uploads the report.
func (s *resultSinks) Finish(ctx context.Context, started time.Time, stats stream.Stats, runErr error) error {
	done := events.Completed{
		RunID:        runID,
		Root:         s.root,
		Backend:      s.backend,
		Drawn:        stats.Drawn,
		Accepted:     stats.Accepted,
		LimitReached: stats.LimitReached,
		Elapsed:      time.Since(started),
	}
	if runErr != nil {
		done.Error = runErr.Error()
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), events.TopicCompleted, done); err != nil {
		logger.Warn("publish completion failed", "err", err)
	}

	if s.upload == nil || runErr != nil {
		return nil
	}
	var buf bytes.Buffer
	if err := export.WriteJSONL(&buf, &export.Report{
		RunID:     runID,
		Root:      s.root,
		Backend:   s.backend,
		StartedAt: started,
		Matches:   s.matches,
		Stats:     stats,
	}); err != nil {
		return err
	}
	if err := s.upload.Write(ctx, buf.Bytes()); err != nil {
		return err
	}
	if d, ok := s.upload.(*export.S3Destination); ok {
		logger.Info("report uploaded", "uri", d.URI(), "bytes", buf.Len())
	}
	return nil
}

func (s *resultSinks) Close() {
	if err := s.publisher.Close(); err != nil {
		logger.Warn("closing event publisher", "err", err)
	}
}

func openUpload(ctx context.Context) (export.Destination, error) {
	if cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("--upload needs SF_S3_BUCKET or [s3] bucket in the config file")
	}
	key := export.ObjectKey(cfg.S3.Prefix, runID, time.Now())
	return export.NewS3Destination(ctx, export.S3Options{
		Bucket:   cfg.S3.Bucket,
		Region:   cfg.S3.Region,
		Endpoint: cfg.S3.Endpoint,
	}, key)
}
