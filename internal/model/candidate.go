package model

import (
	"path/filepath"
	"time"
)

// Candidate is one file observed from a backend, before filter evaluation.
type Candidate struct {
	FullPath     string    `json:"full_path"`
	RelativePath string    `json:"relative_path"` // always '/'-separated
	Size         int64     `json:"size"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// RelativePath returns full relative to root using '/' as the separator.
// Every backend derives Candidate.RelativePath through this function so that
// segment splitting behaves the same regardless of where a candidate came from.
func RelativePath(root, full string) (string, error) {
	rel, err := filepath.Rel(root, filepath.FromSlash(full))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
