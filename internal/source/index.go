package source

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/sharpfind/sf/internal/index"
	"github.com/sharpfind/sf/internal/model"
)

// IndexSource delegates the search to the content index. Root scope, size
// and time bounds, extension and include patterns are pushed into the query;
// everything else is left to the filter engine.
type IndexSource struct {
	spec     model.FilterSpec
	provider index.Querier
	logger   *slog.Logger
}

// Compile-time check that IndexSource implements Source.
var _ Source = (*IndexSource)(nil)

// NewIndexSource creates an index-backed source. The caller owns provider
// and closes it after the search.
func NewIndexSource(spec model.FilterSpec, provider index.Querier, logger *slog.Logger) *IndexSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexSource{spec: spec, provider: provider, logger: logger}
}

// Backend returns model.BackendIndex.
func (s *IndexSource) Backend() model.Backend {
	return model.BackendIndex
}

// Query returns the provider query this source runs.
func (s *IndexSource) Query() string {
	return index.BuildQuery(s.spec)
}

// Candidates runs the query and yields one candidate per row. The cursor is
// closed on every exit path, including a consumer that stops early.
func (s *IndexSource) Candidates(ctx context.Context) iter.Seq2[model.Candidate, error] {
	return func(yield func(model.Candidate, error) bool) {
		query := s.Query()
		s.logger.Debug("index query", "sql", query)

		rows, err := s.provider.QueryContext(ctx, query)
		if err != nil {
			yield(model.Candidate{}, fmt.Errorf("%w: query index: %w", ErrBackendUnavailable, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			c, ok, err := index.ScanCandidate(rows, s.spec.Root)
			if err != nil {
				yield(model.Candidate{}, fmt.Errorf("%w: scan index row: %w", ErrEnumeration, err))
				return
			}
			if !ok {
				s.logger.Debug("index row outside root", "root", s.spec.Root)
				continue
			}
			if !yield(c, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(model.Candidate{}, fmt.Errorf("%w: read index rows: %w", ErrEnumeration, err))
		}
	}
}
