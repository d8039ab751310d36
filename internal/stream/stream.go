// Package stream couples a candidate source with the filter engine and
// enforces the result limit.
package stream

import (
	"context"
	"iter"

	"github.com/sharpfind/sf/internal/filter"
	"github.com/sharpfind/sf/internal/model"
	"github.com/sharpfind/sf/internal/source"
)

// Stats describes a completed (or abandoned) pass over a stream.
type Stats struct {
	Drawn        int  `json:"drawn"`
	Accepted     int  `json:"accepted"`
	LimitReached bool `json:"limit_reached"`
}

// Stream draws candidates from a source, keeps those the engine accepts and
// stops after limit results. Emission order is source order.
type Stream struct {
	src    source.Source
	engine *filter.Engine
	limit  int
	stats  Stats
}

// New creates a stream. A limit of 0 means unlimited.
func New(src source.Source, engine *filter.Engine, limit int) *Stream {
	return &Stream{src: src, engine: engine, limit: limit}
}

// Results yields accepted candidates. The source is not drawn past the
// candidate that reaches the limit. A source error is yielded once and ends
// the sequence; there is no retry.
func (s *Stream) Results(ctx context.Context) iter.Seq2[model.Candidate, error] {
	return func(yield func(model.Candidate, error) bool) {
		s.stats = Stats{}
		for c, err := range s.src.Candidates(ctx) {
			if err != nil {
				yield(model.Candidate{}, err)
				return
			}
			s.stats.Drawn++
			if !s.engine.Accepts(c) {
				continue
			}
			s.stats.Accepted++
			if !yield(c, nil) {
				return
			}
			if s.limit > 0 && s.stats.Accepted >= s.limit {
				s.stats.LimitReached = true
				return
			}
		}
	}
}

// Stats returns the counters of the most recent pass over Results.
func (s *Stream) Stats() Stats {
	return s.stats
}
