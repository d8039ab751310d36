package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DefaultExcludedDirs are directory names skipped unless hidden directories
// are explicitly included.
var DefaultExcludedDirs = []string{".git", "bin", "obj"}

// FilterSpec holds every active search predicate. It is built once per
// invocation by Resolve and treated as read-only afterwards.
type FilterSpec struct {
	Root    string  `json:"root"`
	Backend Backend `json:"backend"`

	Include           []string `json:"include,omitempty"` // AND
	IgnoreCase        bool     `json:"ignore_case,omitempty"`
	Exclude           []string `json:"exclude,omitempty"` // OR
	ExcludeIgnoreCase bool     `json:"exclude_ignore_case,omitempty"`

	Extension string `json:"extension,omitempty"` // dot-prefixed; "" = any

	MinSize   *int64     `json:"min_size,omitempty"`
	MaxSize   *int64     `json:"max_size,omitempty"`
	NewerThan *time.Time `json:"newer_than,omitempty"`
	OlderThan *time.Time `json:"older_than,omitempty"`

	IncludeHiddenDirs bool     `json:"include_hidden_dirs,omitempty"`
	ExcludedDirs      []string `json:"excluded_dirs,omitempty"` // nil = DefaultExcludedDirs

	Limit int `json:"limit,omitempty"` // 0 = unlimited
}

// Resolve validates s and returns a normalized copy: the root is made
// absolute, the extension is dot-prefixed and every slice is copied so the
// caller's backing arrays cannot alias the result.
func (s FilterSpec) Resolve() (FilterSpec, error) {
	out := s

	if out.Backend == "" {
		out.Backend = BackendWalk
	}
	if !out.Backend.IsValid() {
		return FilterSpec{}, fmt.Errorf("invalid backend %q", s.Backend)
	}
	if out.Limit < 0 {
		return FilterSpec{}, fmt.Errorf("limit must be >= 0, got %d", s.Limit)
	}

	root := out.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return FilterSpec{}, fmt.Errorf("resolve root %q: %w", root, err)
	}
	out.Root = abs

	out.Extension = NormalizeExtension(out.Extension)
	out.Include = cloneNonEmpty(s.Include)
	out.Exclude = cloneNonEmpty(s.Exclude)
	if s.ExcludedDirs == nil {
		out.ExcludedDirs = cloneNonEmpty(DefaultExcludedDirs)
	} else {
		// An explicitly empty set stays non-nil so Resolve is idempotent.
		out.ExcludedDirs = append([]string{}, cloneNonEmpty(s.ExcludedDirs)...)
	}

	out.MinSize = clonePtr(s.MinSize)
	out.MaxSize = clonePtr(s.MaxSize)
	out.NewerThan = clonePtr(s.NewerThan)
	out.OlderThan = clonePtr(s.OlderThan)

	return out, nil
}

// HasSizeBounds reports whether either size bound is set.
func (s FilterSpec) HasSizeBounds() bool {
	return s.MinSize != nil || s.MaxSize != nil
}

// HasTimeBounds reports whether either modification-time bound is set.
func (s FilterSpec) HasTimeBounds() bool {
	return s.NewerThan != nil || s.OlderThan != nil
}

// HasAnyFilter reports whether at least one predicate narrows the search.
// Exclusions alone do not count.
func (s FilterSpec) HasAnyFilter() bool {
	return len(s.Include) > 0 || s.Extension != "" || s.HasSizeBounds() || s.HasTimeBounds()
}

// NormalizeExtension returns ext with a single leading dot, or "" for a blank
// value. It is idempotent: "cs" and ".cs" both yield ".cs".
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// MatchesExtension reports whether name's final extension equals ext,
// ignoring case. An empty ext matches everything.
func MatchesExtension(name, ext string) bool {
	if ext == "" {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ext)
}

func cloneNonEmpty(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
