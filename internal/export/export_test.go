package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sharpfind/sf/internal/model"
	"github.com/sharpfind/sf/internal/stream"
)

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func TestWriteJSONL_Empty(t *testing.T) {
	var buf bytes.Buffer
	r := &Report{RunID: "sf-empty", Root: "/data", Backend: model.BackendWalk, StartedAt: time.Now()}
	if err := WriteJSONL(&buf, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 2 {
		t.Fatalf("expected header + summary, got %d lines", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != FormatVersion || h.Type != "header" || h.RunID != "sf-empty" || h.MatchCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestWriteJSONL_WithMatches(t *testing.T) {
	mtime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := &Report{
		RunID:     "sf-run",
		Root:      "/data",
		Backend:   model.BackendIndex,
		StartedAt: mtime,
		Matches: []model.Candidate{
			{FullPath: "/data/z.cs", RelativePath: "z.cs", Size: 2, ModifiedAt: mtime},
			{FullPath: "/data/a/<b>.cs", RelativePath: "a/<b>.cs", Size: 1, ModifiedAt: mtime},
		},
		Stats: stream.Stats{Drawn: 9, Accepted: 2, LimitReached: true},
	}

	var buf bytes.Buffer
	if err := WriteJSONL(&buf, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), `\u003c`) {
		t.Error("HTML escaping should be disabled")
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}

	// Matches keep emission order.
	var first struct {
		Type string          `json:"type"`
		Data model.Candidate `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &first); err != nil {
		t.Fatalf("unmarshal match: %v", err)
	}
	if first.Type != "match" || first.Data.RelativePath != "z.cs" {
		t.Errorf("first match = %+v", first)
	}

	var summary struct {
		Type string       `json:"type"`
		Data stream.Stats `json:"data"`
	}
	if err := json.Unmarshal([]byte(lines[3]), &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if summary.Type != "summary" || summary.Data != r.Stats {
		t.Errorf("summary = %+v", summary)
	}
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2025, 1, 2, 23, 0, 0, 0, time.FixedZone("X", -5*3600))
	got := ObjectKey("sharpfind/", "sf-abc", at)
	if want := "sharpfind/runs/2025/01/03/sf-abc.jsonl"; got != want {
		t.Errorf("ObjectKey = %q, want %q", got, want)
	}
}

func TestNewS3Destination_NoBucket(t *testing.T) {
	if _, err := NewS3Destination(context.Background(), S3Options{Region: "us-east-1"}, "k"); err == nil {
		t.Fatal("expected error for empty bucket")
	}
}

func TestS3Destination_Write(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(data)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	key := ObjectKey("sharpfind/", "sf-up", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	dest, err := NewS3Destination(context.Background(), S3Options{
		Bucket:   "results",
		Region:   "us-east-1",
		Endpoint: srv.URL,
	}, key)
	if err != nil {
		t.Fatalf("NewS3Destination: %v", err)
	}
	if got := dest.URI(); got != "s3://results/sharpfind/runs/2025/01/02/sf-up.jsonl" {
		t.Errorf("URI = %q", got)
	}

	payload := `{"type":"header"}` + "\n"
	if err := dest.Write(context.Background(), []byte(payload)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if method != http.MethodPut {
		t.Errorf("method = %s, want PUT", method)
	}
	if want := "/results/" + key; path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if !strings.Contains(body, `{"type":"header"}`) {
		t.Errorf("body = %q", body)
	}
}
