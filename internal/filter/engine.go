// Package filter evaluates the in-process predicates of a FilterSpec
// against candidates produced by any backend.
package filter

import (
	"strings"

	"github.com/sharpfind/sf/internal/model"
)

// Engine applies the backend-independent predicates of a FilterSpec.
// It holds no mutable state and is safe to reuse across candidates.
type Engine struct {
	spec model.FilterSpec

	excludedDirs map[string]struct{} // lower-cased
	include      []string            // lower-cased when spec.IgnoreCase
	exclude      []string            // lower-cased when spec.ExcludeIgnoreCase
}

// New builds an engine for spec, which should come from FilterSpec.Resolve.
// Case-folded copies of the patterns are computed once here rather than per
// candidate.
func New(spec model.FilterSpec) *Engine {
	e := &Engine{
		spec:         spec,
		excludedDirs: make(map[string]struct{}, len(spec.ExcludedDirs)),
		include:      foldAll(spec.Include, spec.IgnoreCase),
		exclude:      foldAll(spec.Exclude, spec.ExcludeIgnoreCase),
	}
	for _, d := range spec.ExcludedDirs {
		e.excludedDirs[strings.ToLower(d)] = struct{}{}
	}
	return e
}

// Accepts reports whether c passes every applicable stage. Stages run
// cheapest first and stop at the first failure:
//
//  1. default hidden-directory exclusion
//  2. exclude patterns (any match rejects)
//  3. include patterns (all must match)
//  4. size bounds
//  5. modification-time bounds
func (e *Engine) Accepts(c model.Candidate) bool {
	if !e.spec.IncludeHiddenDirs && e.inExcludedDir(c.RelativePath) {
		return false
	}
	if e.excluded(c.RelativePath) {
		return false
	}
	if !e.included(c.RelativePath) {
		return false
	}
	if e.spec.HasSizeBounds() && !e.sizeInRange(c.Size) {
		return false
	}
	if e.spec.HasTimeBounds() && !e.timeInRange(c) {
		return false
	}
	return true
}

// inExcludedDir checks every segment except the final file name.
func (e *Engine) inExcludedDir(rel string) bool {
	if len(e.excludedDirs) == 0 {
		return false
	}
	segments := strings.Split(rel, "/")
	for _, seg := range segments[:len(segments)-1] {
		if _, ok := e.excludedDirs[strings.ToLower(seg)]; ok {
			return true
		}
	}
	return false
}

func (e *Engine) excluded(rel string) bool {
	if len(e.exclude) == 0 {
		return false
	}
	if e.spec.ExcludeIgnoreCase {
		rel = strings.ToLower(rel)
	}
	for _, p := range e.exclude {
		if strings.Contains(rel, p) {
			return true
		}
	}
	return false
}

func (e *Engine) included(rel string) bool {
	if len(e.include) == 0 {
		return true
	}
	if e.spec.IgnoreCase {
		rel = strings.ToLower(rel)
	}
	for _, p := range e.include {
		if !strings.Contains(rel, p) {
			return false
		}
	}
	return true
}

func (e *Engine) sizeInRange(size int64) bool {
	if e.spec.MinSize != nil && size < *e.spec.MinSize {
		return false
	}
	if e.spec.MaxSize != nil && size > *e.spec.MaxSize {
		return false
	}
	return true
}

func (e *Engine) timeInRange(c model.Candidate) bool {
	if e.spec.NewerThan != nil && c.ModifiedAt.Before(*e.spec.NewerThan) {
		return false
	}
	if e.spec.OlderThan != nil && c.ModifiedAt.After(*e.spec.OlderThan) {
		return false
	}
	return true
}

func foldAll(patterns []string, fold bool) []string {
	if !fold {
		return patterns
	}
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = strings.ToLower(p)
	}
	return out
}
