// Package idgen generates search run identifiers backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// RunPrefix marks identifiers of a single search or index run.
const RunPrefix = "sf-"

// Alphabet is lowercase so run IDs survive case-insensitive object stores.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters (excluding the prefix).
const Length = 12

// NewRunID returns a fresh run identifier such as "sf-3k9x0q1mb7az".
func NewRunID() (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return RunPrefix + id, nil
}
