package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/buildtiming/pkg/errors"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
}

func TestCaptureFromEnviron(t *testing.T) {
	snap, err := Capture(
		WithEnviron([]string{"A=1", "B=two=2", "malformed", "=skip"}),
		WithPlatform("linux", "arm64"),
		WithGoVersion("go1.24.0"),
		WithClock(fixedClock),
	)
	require.NoError(t, err)

	v, ok := snap.Getenv("A")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	v, _ = snap.Getenv("B")
	assert.Equal(t, "two=2", v)

	_, ok = snap.Getenv("malformed")
	assert.False(t, ok)

	goos, goarch := snap.Platform()
	assert.Equal(t, "linux", goos)
	assert.Equal(t, "arm64", goarch)
	assert.Equal(t, "go1.24.0", snap.GoVersion())
	assert.Equal(t, fixedClock(), snap.Now())
	assert.Equal(t, []string{"A", "B"}, snap.Keys())
}

func TestCaptureIsImmutable(t *testing.T) {
	vars := map[string]string{"KEY": "before"}
	snap, err := Capture(WithEnviron([]string{}), WithVars(vars))
	require.NoError(t, err)

	vars["KEY"] = "after"
	v, _ := snap.Getenv("KEY")
	assert.Equal(t, "before", v)
}

func TestCaptureDebugSignal(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		opts    []Option
		want    bool
	}{
		{"unset", nil, nil, false},
		{"env true", []string{DebugVar + "=true"}, nil, true},
		{"env zero", []string{DebugVar + "=0"}, nil, false},
		{"explicit overrides env", []string{DebugVar + "=1"}, []Option{WithDebug(false)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := tt.environ
			if environ == nil {
				environ = []string{}
			}
			opts := append([]Option{WithEnviron(environ)}, tt.opts...)
			snap, err := Capture(opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, snap.Debug())
		})
	}
}

func TestCaptureTargetPlatformFromEnv(t *testing.T) {
	snap, err := Capture(WithEnviron([]string{"GOOS=windows", "GOARCH=386"}))
	require.NoError(t, err)

	goos, goarch := snap.Platform()
	assert.Equal(t, "windows", goos)
	assert.Equal(t, "386", goarch)
}

func TestCaptureDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FROM_FILE=file\nSHARED=file\n"), 0644))

	snap, err := Capture(WithEnviron([]string{"SHARED=process"}), WithDotenv(path))
	require.NoError(t, err)

	v, _ := snap.Getenv("FROM_FILE")
	assert.Equal(t, "file", v)
	v, _ = snap.Getenv("SHARED")
	assert.Equal(t, "process", v)

	_, err = Capture(WithDotenv(filepath.Join(dir, "missing.env")))
	assert.True(t, errors.IsErrorCode(err, errors.ErrExternalSignal))
}

func TestBuildTime(t *testing.T) {
	t.Run("uses captured clock", func(t *testing.T) {
		snap, err := Capture(WithEnviron([]string{}), WithClock(fixedClock))
		require.NoError(t, err)

		got, err := BuildTime(snap)
		require.NoError(t, err)
		assert.Equal(t, fixedClock(), got)
	})

	t.Run("source date epoch overrides", func(t *testing.T) {
		snap, err := Capture(WithEnviron([]string{SourceDateEpoch + "=1700000000"}), WithClock(fixedClock))
		require.NoError(t, err)

		got, err := BuildTime(snap)
		require.NoError(t, err)
		assert.Equal(t, int64(1700000000), got.Unix())
		assert.Equal(t, time.UTC, got.Location())
		assert.Equal(t, "Tue, 14 Nov 2023 22:13:20 +0000", got.Format(RFC2822))
	})

	t.Run("malformed override fails", func(t *testing.T) {
		snap, err := Capture(WithEnviron([]string{SourceDateEpoch + "=yesterday"}))
		require.NoError(t, err)

		_, err = BuildTime(snap)
		assert.True(t, errors.IsErrorCode(err, errors.ErrExternalSignal))
	})
}
