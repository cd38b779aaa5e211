// Package archivetest builds in-memory alert export archives for tests.
package archivetest

import (
	"archive/zip"
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// Zip returns a zip archive holding files, keyed by slash-separated entry name.
// Entries are written in name order so archives are reproducible.
func Zip(t testing.TB, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// Example is the two-day export used across package tests: one bot message with a
// timestamp on 2024-01-01 and one plain record without subtype or ts on 2024-01-02.
func Example(t testing.TB) []byte {
	t.Helper()
	return Zip(t, map[string]string{
		"alerts/2024-01-01.json": `[{"subtype":"bot_message","text":"hi","ts":"1704067200"}]`,
		"alerts/2024-01-02.json": `[{"text":"hello"}]`,
	})
}
