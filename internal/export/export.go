// Package export serializes search runs as JSONL and ships them to
// destinations such as S3.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sharpfind/sf/internal/model"
	"github.com/sharpfind/sf/internal/stream"
)

// FormatVersion is written into every header record.
const FormatVersion = "1"

// Destination is the interface for an export target.
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Report is a completed search run.
type Report struct {
	RunID     string
	Root      string
	Backend   model.Backend
	StartedAt time.Time
	Matches   []model.Candidate
	Stats     stream.Stats
}

// header is the first JSONL record written by WriteJSONL.
type header struct {
	Version    string        `json:"version"`
	Type       string        `json:"type"`
	RunID      string        `json:"run_id"`
	Root       string        `json:"root"`
	Backend    model.Backend `json:"backend"`
	Timestamp  time.Time     `json:"timestamp"`
	MatchCount int           `json:"match_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// WriteJSONL writes r to w as a header line, one "match" line per result in
// emission order, and a trailing "summary" line carrying the stream stats.
func WriteJSONL(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    FormatVersion,
		Type:       "header",
		RunID:      r.RunID,
		Root:       r.Root,
		Backend:    r.Backend,
		Timestamp:  r.StartedAt.UTC(),
		MatchCount: len(r.Matches),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, c := range r.Matches {
		if err := enc.Encode(record{Type: "match", Data: c}); err != nil {
			return fmt.Errorf("encode match %s: %w", c.RelativePath, err)
		}
	}

	if err := enc.Encode(record{Type: "summary", Data: r.Stats}); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

// ObjectKey returns the object key a run is uploaded under, e.g.
// "sharpfind/runs/2025/01/02/sf-abc.jsonl".
func ObjectKey(prefix, runID string, at time.Time) string {
	return fmt.Sprintf("%sruns/%s/%s.jsonl", prefix, at.UTC().Format("2006/01/02"), runID)
}
