// Package source produces search candidates from a filesystem walk or from
// the content index.
package source

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/sharpfind/sf/internal/index"
	"github.com/sharpfind/sf/internal/model"
)

var (
	// ErrBackendUnavailable reports that the index provider cannot be reached
	// or is not supported on this host. The caller decides what to do; no
	// source falls back to another backend on its own.
	ErrBackendUnavailable = index.ErrUnavailable

	// ErrEnumeration reports a wholesale failure of a walk or query, such as a
	// missing root or a broken result cursor.
	ErrEnumeration = errors.New("enumeration failed")
)

// Source yields candidates for one search. The sequence returned by
// Candidates is lazy and single-use; a consumer that stops ranging early
// releases every resource the source acquired. A non-nil error is always the
// last value yielded.
type Source interface {
	Backend() model.Backend
	Candidates(ctx context.Context) iter.Seq2[model.Candidate, error]
}

// New returns the source selected by spec.Backend. provider is only used by
// the index backend and may be nil otherwise.
func New(spec model.FilterSpec, provider index.Querier, logger *slog.Logger) (Source, error) {
	switch spec.Backend {
	case model.BackendWalk, "":
		return NewWalkSource(spec, logger), nil
	case model.BackendIndex:
		if provider == nil {
			return nil, fmt.Errorf("%w: no provider configured", ErrBackendUnavailable)
		}
		return NewIndexSource(spec, provider, logger), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", spec.Backend)
	}
}
