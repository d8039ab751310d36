package filter

import (
	"testing"
	"time"

	"github.com/sharpfind/sf/internal/model"
)

func resolve(t *testing.T, spec model.FilterSpec) model.FilterSpec {
	t.Helper()
	if spec.Root == "" {
		spec.Root = t.TempDir()
	}
	out, err := spec.Resolve()
	if err != nil {
		t.Fatalf("resolve spec: %v", err)
	}
	return out
}

func candidate(rel string) model.Candidate {
	return model.Candidate{RelativePath: rel, Size: 100, ModifiedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestAccepts_IncludeAND(t *testing.T) {
	e := New(resolve(t, model.FilterSpec{Include: []string{"a", "b"}}))

	if !e.Accepts(candidate("dir/ab/file.txt")) {
		t.Error("expected dir/ab/file.txt to be accepted")
	}
	if e.Accepts(candidate("dir/a/file.txt")) {
		t.Error("expected dir/a/file.txt to be rejected (missing \"b\")")
	}
}

func TestAccepts_ExcludeOR(t *testing.T) {
	e := New(resolve(t, model.FilterSpec{Exclude: []string{"tmp", "cache"}}))

	for _, rel := range []string{"x/tmp/y", "x/cache/y"} {
		if e.Accepts(candidate(rel)) {
			t.Errorf("expected %q to be rejected", rel)
		}
	}
	if !e.Accepts(candidate("x/src/y")) {
		t.Error("expected x/src/y to be accepted")
	}
}

func TestAccepts_EmptyIncludePasses(t *testing.T) {
	e := New(resolve(t, model.FilterSpec{}))
	if !e.Accepts(candidate("anything/at/all.txt")) {
		t.Error("expected empty include set to accept")
	}
}

func TestAccepts_HiddenDirs(t *testing.T) {
	for _, tc := range []struct {
		name          string
		includeHidden bool
		rel           string
		want          bool
	}{
		{"GitConfig", false, ".git/config", false},
		{"BinApp", false, "bin/app.exe", false},
		{"NestedObj", false, "src/obj/main.o", false},
		{"CaseInsensitive", false, "src/BIN/app.exe", false},
		{"FileNamedBin", false, "src/bin", true},
		{"SubstringOnly", false, "binary/app.exe", true},
		{"GitConfigIncluded", true, ".git/config", true},
		{"BinAppIncluded", true, "bin/app.exe", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := New(resolve(t, model.FilterSpec{IncludeHiddenDirs: tc.includeHidden}))
			if got := e.Accepts(candidate(tc.rel)); got != tc.want {
				t.Errorf("Accepts(%q) = %v, want %v", tc.rel, got, tc.want)
			}
		})
	}
}

func TestAccepts_HiddenDirsBeatIncludePatterns(t *testing.T) {
	e := New(resolve(t, model.FilterSpec{Include: []string{"config"}}))
	if e.Accepts(candidate(".git/config")) {
		t.Error("default exclusion must apply regardless of include patterns")
	}
}

func TestAccepts_CustomExcludedDirs(t *testing.T) {
	e := New(resolve(t, model.FilterSpec{ExcludedDirs: []string{"node_modules"}}))
	if e.Accepts(candidate("web/node_modules/lib/index.js")) {
		t.Error("expected node_modules to be excluded")
	}
	if !e.Accepts(candidate("bin/app.exe")) {
		t.Error("custom set replaces the defaults; bin should pass")
	}
}

func TestAccepts_CaseSensitivity(t *testing.T) {
	for _, tc := range []struct {
		name string
		spec model.FilterSpec
		rel  string
		want bool
	}{
		{"IncludeSensitive", model.FilterSpec{Include: []string{"Readme"}}, "docs/README.md", false},
		{"IncludeIgnoreCase", model.FilterSpec{Include: []string{"Readme"}, IgnoreCase: true}, "docs/README.md", true},
		{"ExcludeSensitive", model.FilterSpec{Exclude: []string{"TMP"}}, "x/tmp/y", true},
		{"ExcludeIgnoreCase", model.FilterSpec{Exclude: []string{"TMP"}, ExcludeIgnoreCase: true}, "x/tmp/y", false},
		{"FlagsIndependent", model.FilterSpec{Include: []string{"X"}, IgnoreCase: true, Exclude: []string{"TMP"}}, "x/tmp/y", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e := New(resolve(t, tc.spec))
			if got := e.Accepts(candidate(tc.rel)); got != tc.want {
				t.Errorf("Accepts(%q) = %v, want %v", tc.rel, got, tc.want)
			}
		})
	}
}

func TestAccepts_SizeBounds(t *testing.T) {
	lo, hi := int64(100), int64(200)
	e := New(resolve(t, model.FilterSpec{MinSize: &lo, MaxSize: &hi}))

	for _, tc := range []struct {
		size int64
		want bool
	}{
		{99, false},
		{100, true},
		{150, true},
		{200, true},
		{201, false},
	} {
		c := candidate("f.bin")
		c.Size = tc.size
		if got := e.Accepts(c); got != tc.want {
			t.Errorf("size %d: Accepts = %v, want %v", tc.size, got, tc.want)
		}
	}
}

func TestAccepts_TimeBounds(t *testing.T) {
	newer := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	e := New(resolve(t, model.FilterSpec{NewerThan: &newer, OlderThan: &older}))

	for _, tc := range []struct {
		at   time.Time
		want bool
	}{
		{newer.Add(-time.Second), false},
		{newer, true},
		{time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{older, true},
		{older.Add(time.Second), false},
	} {
		c := candidate("f.txt")
		c.ModifiedAt = tc.at
		if got := e.Accepts(c); got != tc.want {
			t.Errorf("mtime %v: Accepts = %v, want %v", tc.at, got, tc.want)
		}
	}
}

func TestAccepts_Deterministic(t *testing.T) {
	lo := int64(50)
	e := New(resolve(t, model.FilterSpec{
		Include:    []string{"src"},
		Exclude:    []string{"vendor"},
		IgnoreCase: true,
		MinSize:    &lo,
	}))
	for _, rel := range []string{"src/main.go", "vendor/src/x.go", ".git/src", "SRC/a.go", "docs/a.md"} {
		c := candidate(rel)
		first := e.Accepts(c)
		for i := 0; i < 5; i++ {
			if got := e.Accepts(c); got != first {
				t.Fatalf("Accepts(%q) changed verdict on run %d: %v -> %v", rel, i, first, got)
			}
		}
	}
}
