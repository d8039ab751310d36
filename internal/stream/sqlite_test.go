package stream

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sharpfind/sf/internal/filter"
	"github.com/sharpfind/sf/internal/index"
	"github.com/sharpfind/sf/internal/model"
	"github.com/sharpfind/sf/internal/parse"
	"github.com/sharpfind/sf/internal/source"
)

// newIndexedTree writes files under a temp root with the given mtimes, then
// indexes the root into a fresh SQLite store.
func newIndexedTree(t *testing.T, files map[string]time.Time) (string, *index.Store) {
	t.Helper()
	root := t.TempDir()
	for rel, mtime := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(rel), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}

	ctx := context.Background()
	store, err := index.Open(ctx, index.DriverSQLite, filepath.Join(t.TempDir(), "index.db"))
	if errors.Is(err, index.ErrUnavailable) {
		t.Skipf("sqlite provider unavailable: %v", err)
	}
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	rootSpec := resolve(t, model.FilterSpec{Root: root})
	if _, err := index.NewIndexer(store, nil).Update(ctx, rootSpec.Root, source.NewWalkSource(rootSpec, nil).Candidates(ctx)); err != nil {
		t.Fatalf("index update: %v", err)
	}
	return rootSpec.Root, store
}

func mustTime(t *testing.T, token string) *time.Time {
	t.Helper()
	tm, err := parse.Time(token, time.Now())
	if err != nil {
		t.Fatalf("parse.Time(%q): %v", token, err)
	}
	return &tm
}

// TestBackendEquivalence_SQLite indexes a real tree into SQLite and checks
// that the index backend returns exactly what the walk backend returns.
func TestBackendEquivalence_SQLite(t *testing.T) {
	old := time.Date(2020, 3, 1, 12, 0, 0, 0, time.Local)
	recent := time.Date(2024, 9, 1, 12, 0, 0, 0, time.Local)
	root, store := newIndexedTree(t, map[string]time.Time{
		"notes/100%_done.txt": recent,
		"notes/100x_done.txt": recent,
		"notes/report_v1.txt": old,
		"notes/reportXv1.txt": recent,
		"notes/Report.TXT":    old,
		"people/o'brien.md":   recent,
		"people/obrien.md":    old,
		"été/ÉTÉ.txt":         recent,
		"été/été-notes.md":    old,
		"misc/Ünïcode.TXT":    recent,
		"misc/plain_file.bin": old,
	})

	tests := []struct {
		name string
		spec model.FilterSpec
		want []string
	}{
		{
			name: "OlderThanYear9999",
			spec: model.FilterSpec{OlderThan: mustTime(t, "9999"), Extension: "md"},
			want: []string{"people/o'brien.md", "people/obrien.md", "été/été-notes.md"},
		},
		{
			name: "NewerThanYear1500",
			spec: model.FilterSpec{NewerThan: mustTime(t, "1500"), Include: []string{"misc/"}},
			want: []string{"misc/plain_file.bin", "misc/Ünïcode.TXT"},
		},
		{
			name: "NewerThanYear0001",
			spec: model.FilterSpec{NewerThan: mustTime(t, "0001"), Include: []string{"people"}},
			want: []string{"people/o'brien.md", "people/obrien.md"},
		},
		{
			name: "TimeRange",
			spec: model.FilterSpec{NewerThan: mustTime(t, "2023-01-01"), OlderThan: mustTime(t, "2025-01-01"), Include: []string{"notes"}},
			want: []string{"notes/100%_done.txt", "notes/100x_done.txt", "notes/reportXv1.txt"},
		},
		{
			name: "IncludePercent",
			spec: model.FilterSpec{Include: []string{"100%"}},
			want: []string{"notes/100%_done.txt"},
		},
		{
			name: "IncludeUnderscore",
			spec: model.FilterSpec{Include: []string{"report_"}},
			want: []string{"notes/report_v1.txt"},
		},
		{
			name: "IncludeQuote",
			spec: model.FilterSpec{Include: []string{"o'b"}},
			want: []string{"people/o'brien.md"},
		},
		{
			name: "IncludeCaseSensitive",
			spec: model.FilterSpec{Include: []string{"report"}},
			want: []string{"notes/reportXv1.txt", "notes/report_v1.txt"},
		},
		{
			name: "IgnoreCaseASCII",
			spec: model.FilterSpec{Include: []string{"REPORT"}, IgnoreCase: true},
			want: []string{"notes/Report.TXT", "notes/reportXv1.txt", "notes/report_v1.txt"},
		},
		{
			name: "IgnoreCaseUnicode",
			spec: model.FilterSpec{Include: []string{"été"}, IgnoreCase: true},
			want: []string{"été/ÉTÉ.txt", "été/été-notes.md"},
		},
		{
			name: "IgnoreCaseUnicodeFileName",
			spec: model.FilterSpec{Include: []string{"ÜNÏ"}, IgnoreCase: true},
			want: []string{"misc/Ünïcode.TXT"},
		},
		{
			name: "ExtensionIgnoresCase",
			spec: model.FilterSpec{Extension: ".txt", Include: []string{"misc"}},
			want: []string{"misc/Ünïcode.TXT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := tt.spec
			spec.Root = root
			spec = resolve(t, spec)

			walked, err := drain(t, New(source.NewWalkSource(spec, nil), filter.New(spec), 0))
			if err != nil {
				t.Fatalf("walk: %v", err)
			}

			spec.Backend = model.BackendIndex
			indexed, err := drain(t, New(source.NewIndexSource(spec, store, nil), filter.New(spec), 0))
			if err != nil {
				t.Fatalf("index: %v", err)
			}

			if got := rels(walked); !equal(got, tt.want) {
				t.Errorf("walk results = %v, want %v", got, tt.want)
			}
			if got := rels(indexed); !equal(got, tt.want) {
				t.Errorf("index results = %v, want %v", got, tt.want)
			}
		})
	}
}
