package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic(t *testing.T) {
	for name, fsys := range map[string]afero.Fs{
		"memory": NewMemory(),
		"os":     NewOS(),
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, fsys.MkdirAll(dir, 0755))
			path := filepath.Join(dir, "out.go")

			require.NoError(t, WriteAtomic(fsys, path, []byte("one"), 0644))
			require.NoError(t, WriteAtomic(fsys, path, []byte("two"), 0644))

			data, err := afero.ReadFile(fsys, path)
			require.NoError(t, err)
			assert.Equal(t, "two", string(data))

			info, err := fsys.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

			entries, err := afero.ReadDir(fsys, dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary files are cleaned up")
		})
	}
}

func TestWriteAtomicMissingDirectory(t *testing.T) {
	err := WriteAtomic(NewOS(), filepath.Join(t.TempDir(), "missing", "out.go"), []byte("x"), 0644)
	assert.Error(t, err)
}

func TestUnchanged(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, afero.WriteFile(fsys, "/a.txt", []byte("same"), 0644))

	assert.True(t, Unchanged(fsys, "/a.txt", []byte("same")))
	assert.False(t, Unchanged(fsys, "/a.txt", []byte("other")))
	assert.False(t, Unchanged(fsys, "/missing.txt", []byte("same")))
}
