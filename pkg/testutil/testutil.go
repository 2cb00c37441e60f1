package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/buildtiming/pkg/env"
)

// Fixed values every Snapshot starts from
const (
	GOOS      = "linux"
	GOARCH    = "amd64"
	GoVersion = "go1.24.0"
)

// Now is the instant reported by a Snapshot's clock
var Now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// Environ sets the captured variables to exactly vars ("KEY=value" pairs).
// No arguments means an empty environment, never os.Environ().
func Environ(vars ...string) env.Option {
	if vars == nil {
		vars = []string{}
	}
	return env.WithEnviron(vars)
}

// Snapshot captures a deterministic environment. opts are applied after
// the fixed defaults and may override any of them.
func Snapshot(t *testing.T, opts ...env.Option) *env.Snapshot {
	t.Helper()

	base := []env.Option{
		Environ(),
		env.WithPlatform(GOOS, GOARCH),
		env.WithGoVersion(GoVersion),
		env.WithClock(func() time.Time { return Now }),
	}
	snap, err := env.Capture(append(base, opts...)...)
	if err != nil {
		t.Fatalf("Failed to capture environment: %v", err)
	}
	return snap
}

// CreateFile creates a file with the given content in the specified directory.
// It fails the test if the file cannot be created.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}

	return path
}

// FileExists checks if a file exists and is not a directory.
func FileExists(t *testing.T, path string) bool {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}

// ReadFile reads the content of a file and returns it as a string.
// It fails the test if the file cannot be read.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	return string(content)
}

// AssertFileContent checks that a file exists and has the expected content.
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()

	if !FileExists(t, path) {
		t.Fatalf("File %s does not exist", path)
	}

	actual := ReadFile(t, path)
	if actual != expected {
		t.Errorf("File %s content mismatch\nExpected: %q\nActual: %q", path, expected, actual)
	}
}

// AssertNoFile checks that a file does not exist.
func AssertNoFile(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("File %s exists but should not", path)
	}
}

// ModTime returns the modification time of path, failing the test if it
// cannot be read.
func ModTime(t *testing.T, path string) time.Time {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", path, err)
	}
	return info.ModTime()
}
