package index

import (
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/sharpfind/sf/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// ScanCandidate scans one row produced by BuildQuery. Missing sizes and
// timestamps become zero values. ok is false when the row's path does not
// lie below root, which only a misbehaving provider returns.
func ScanCandidate(row scannable, root string) (c model.Candidate, ok bool, err error) {
	var (
		display  string
		size     sql.NullInt64
		modified sql.NullInt64
	)
	if err := row.Scan(&display, &size, &modified); err != nil {
		return model.Candidate{}, false, err
	}

	rel, err := model.RelativePath(root, display)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return model.Candidate{}, false, nil
	}

	c = model.Candidate{
		FullPath:     filepath.FromSlash(display),
		RelativePath: rel,
		Size:         size.Int64,
	}
	if modified.Valid {
		c.ModifiedAt = time.Unix(0, modified.Int64)
	}
	return c, true, nil
}
