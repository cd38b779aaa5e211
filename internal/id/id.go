// Package id generates short prefixed identifiers for pipeline runs.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet keeps IDs readable in log lines and safe in URLs.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Size is the length of the random part of an ID.
const Size = 12

// Run prefixes identifiers of a single dashboard rendering pass.
const Run = "run"

// Generate returns prefix-<random>, e.g. "run-4f1k9x0q2m7z".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.Generate(alphabet, Size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// NewRun returns a run ID, falling back to a fixed marker when entropy is unavailable.
// Run IDs only correlate log lines, so generation failure must not fail a request.
func NewRun() string {
	id, err := Generate(Run)
	if err != nil {
		return Run + "-unavailable"
	}
	return id
}
