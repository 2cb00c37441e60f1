// Package hashutil computes the content digests recorded in stamp manifests.
package hashutil

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
)

// Sum returns the digest of b
func Sum(b []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(b))
}

// Tree accumulates a single digest over a set of files. Each file
// contributes its path relative to root followed by its contents, so a
// rename changes the digest just like an edit does.
type Tree struct {
	root string
	h    hash.Hash
}

// NewTree returns an empty Tree whose paths are recorded relative to root
func NewTree(root string) *Tree {
	return &Tree{root: root, h: sha256.New()}
}

// Add feeds one file into the digest. Callers add files in a stable order.
func (t *Tree) Add(path string) error {
	rel := path
	if t.root != "" {
		if r, err := filepath.Rel(t.root, path); err == nil {
			rel = r
		}
	}
	_, _ = io.WriteString(t.h, filepath.ToSlash(rel)+"\x00")
	return t.copyFile(path)
}

// Sum returns the digest of everything added so far
func (t *Tree) Sum() string {
	return fmt.Sprintf("sha256:%x", t.h.Sum(nil))
}

func (t *Tree) copyFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	_, err = io.Copy(t.h, file)
	return err
}
