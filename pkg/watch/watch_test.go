package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets", "img"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1"), 0644))

	w, err := New(Config{
		BaseDir: dir,
		Paths:   []string{"VERSION", "assets", "schema/**/*.json"},
		Ignore:  []string{"assets/buildtiming_gen.go"},
	})
	require.NoError(t, err)
	defer func() { _ = w.fsw.Close() }()

	tests := []struct {
		path string
		want bool
	}{
		{"VERSION", true},
		{filepath.Join(dir, "VERSION"), true},
		{"OTHER", false},
		{"assets/img/logo.png", true},
		{"assets/buildtiming_gen.go", false},
		{"schema/v1/a.json", true},
		{"schema/v1/a.yaml", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, w.Matches(tt.path), tt.path)
	}

	dirs := w.Directories()
	assert.Contains(t, dirs, dir)
	assert.Contains(t, dirs, filepath.Join(dir, "assets"))
	assert.Contains(t, dirs, filepath.Join(dir, "assets", "img"))
}

func TestInvalidPattern(t *testing.T) {
	_, err := New(Config{BaseDir: t.TempDir(), Paths: []string{"a/[b"}})
	assert.Error(t, err)
}

func TestRunDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "VERSION")
	require.NoError(t, os.WriteFile(file, []byte("1"), 0644))

	var (
		mu    sync.Mutex
		calls [][]string
	)
	called := make(chan struct{}, 10)

	w, err := New(Config{
		BaseDir:  dir,
		Paths:    []string{"VERSION"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			calls = append(calls, changed)
			mu.Unlock()
			called <- struct{}{}
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(file, []byte("2"), 0644))
	require.NoError(t, os.WriteFile(file, []byte("3"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated"), []byte("x"), 0644))

	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("callback was not invoked")
	}

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, calls)
	assert.Equal(t, []string{"VERSION"}, calls[0])
}
