package core

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/filesystem"
)

// Writer persists the rendered file
type Writer interface {
	WriteFile(path string, data []byte) (bool, error)
}

// FileWriter writes through FS, the OS filesystem when nil. Files are
// replaced atomically and left untouched when their content is already
// current.
type FileWriter struct {
	FS afero.Fs
}

// Filesystem returns the filesystem the writer targets
func (w FileWriter) Filesystem() afero.Fs {
	if w.FS == nil {
		return filesystem.NewOS()
	}
	return w.FS
}

// WriteFile writes data to path, reporting whether the file changed
func (w FileWriter) WriteFile(path string, data []byte) (bool, error) {
	fsys := w.Filesystem()

	if filesystem.Unchanged(fsys, path, data) {
		return false, nil
	}

	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "failed to create output directory %s", dir)
	}
	if err := filesystem.WriteAtomic(fsys, path, data, 0644); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return true, nil
}
