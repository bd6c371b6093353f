// Package testutils contains helpers shared by posefmt tests.
package testutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

// WriteTempFile writes the given lines, each terminated by a newline, to name inside a fresh
// temporary directory and returns the file's path.
func WriteTempFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	var contents string
	if len(lines) > 0 {
		contents = strings.Join(lines, "\n") + "\n"
	}
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

// ReadLines reads the file at path and returns its lines without the trailing newline.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	//nolint:gosec
	contents, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	trimmed := strings.TrimSuffix(string(contents), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
