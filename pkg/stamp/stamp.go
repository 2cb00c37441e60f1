// Package stamp persists the trigger declarations of the last generation
// together with a fingerprint of every signal they watch, a digest of the
// constants that were emitted and a digest of the file that was written.
//
// On the next invocation Evaluate re-fingerprints the same signals; when
// nothing changed the previous output is still current. A missing or
// unreadable manifest always means "regenerate".
package stamp

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/filesystem"
	"github.com/arthur-debert/buildtiming/pkg/internal/hashutil"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// FileName is the manifest written next to the generated file
const FileName = ".buildtiming.stamp.toml"

// Version is the current manifest format version
const Version = 2

const absent = "absent"

// Entry is one fingerprinted trigger
type Entry struct {
	Kind        string `toml:"kind"`
	Key         string `toml:"key"`
	Fingerprint string `toml:"fingerprint"`
}

// Trigger converts the entry back into a trigger declaration
func (e Entry) Trigger() types.Trigger {
	if e.Kind == types.TriggerEnv.String() {
		return types.EnvTrigger(e.Key)
	}
	return types.PathTrigger(e.Key)
}

// Manifest is the persisted state of the last generation
type Manifest struct {
	Version int `toml:"version"`
	// Content digests the emitted constants, leaving out values derived
	// from the build time
	Content string `toml:"content"`
	// Output digests the generated file as it was written
	Output  string  `toml:"output"`
	Entries []Entry `toml:"trigger"`
}

// Change describes a trigger whose signal differs from the manifest
type Change struct {
	Trigger types.Trigger
	Reason  string
}

// Path returns the manifest location for an output directory
func Path(outDir string) string {
	return filepath.Join(outDir, FileName)
}

// Record fingerprints every trigger. Relative paths resolve against baseDir.
func Record(triggers []types.Trigger, e types.Environment, baseDir string) (*Manifest, error) {
	m := &Manifest{Version: Version, Entries: make([]Entry, 0, len(triggers))}
	for _, t := range triggers {
		fp, err := fingerprint(t, e, baseDir)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, Entry{Kind: t.Kind.String(), Key: t.Key, Fingerprint: fp})
	}
	return m, nil
}

// Triggers returns the recorded trigger declarations in order
func (m *Manifest) Triggers() []types.Trigger {
	out := make([]types.Trigger, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Trigger()
	}
	return out
}

// Load reads a manifest from path on fsys
func Load(fsys afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStampRead, "failed to read stamp %s", path)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStampRead, "failed to parse stamp %s", path)
	}
	if m.Version != Version {
		return nil, errors.Newf(errors.ErrStampRead, "stamp %s has version %d, want %d", path, m.Version, Version)
	}
	return &m, nil
}

// Save writes the manifest to path on fsys, replacing any previous one
// atomically. The directory is created when missing.
func (m *Manifest) Save(fsys afero.Fs, path string) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, errors.ErrStampWrite, "failed to encode stamp")
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrStampWrite, "failed to create stamp directory for %s", path)
	}
	if err := filesystem.WriteAtomic(fsys, path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStampWrite, "failed to write stamp %s", path)
	}
	return nil
}

// Evaluate re-fingerprints the manifest's triggers and returns the ones
// whose signal changed. An empty result means the output is current.
func Evaluate(m *Manifest, e types.Environment, baseDir string) ([]Change, error) {
	var changes []Change
	for _, entry := range m.Entries {
		t := entry.Trigger()
		fp, err := fingerprint(t, e, baseDir)
		if err != nil {
			return nil, err
		}
		if fp == entry.Fingerprint {
			continue
		}
		reason := "changed"
		switch {
		case fp == absent:
			reason = "removed"
		case entry.Fingerprint == absent:
			reason = "added"
		}
		changes = append(changes, Change{Trigger: t, Reason: reason})
	}
	return changes, nil
}

// Seal records the constant digest and the file that was written
func (m *Manifest) Seal(content string, output []byte) {
	m.Content = content
	m.Output = hashutil.Sum(output)
}

// Matches reports whether the manifest was recorded for exactly the
// emitted constants and the output file still holds what was written
func (m *Manifest) Matches(content string, output []byte) bool {
	return m.Content == content && m.Output == hashutil.Sum(output)
}

// Equivalent reports whether the manifest declares exactly triggers
func (m *Manifest) Equivalent(triggers []types.Trigger) bool {
	recorded := m.Triggers()
	if len(recorded) != len(triggers) {
		return false
	}
	for i := range recorded {
		if recorded[i] != triggers[i] {
			return false
		}
	}
	return true
}

func fingerprint(t types.Trigger, e types.Environment, baseDir string) (string, error) {
	if t.Kind == types.TriggerEnv {
		v, ok := e.Getenv(t.Key)
		if !ok {
			return absent, nil
		}
		return hashutil.Sum([]byte("set:" + v)), nil
	}
	return fingerprintPath(t.Key, baseDir)
}

func fingerprintPath(key, baseDir string) (string, error) {
	path := key
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	var files []string
	if hasMeta(key) {
		matches, err := doublestar.FilepathGlob(path, doublestar.WithFilesOnly())
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid path pattern %s", key)
		}
		files = matches
	} else {
		info, err := os.Stat(path)
		switch {
		case os.IsNotExist(err):
			return absent, nil
		case err != nil:
			return "", errors.Wrapf(err, errors.ErrExternalSignal, "failed to stat %s", key)
		case info.IsDir():
			err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.Type().IsRegular() {
					files = append(files, p)
				}
				return nil
			})
			if err != nil {
				return "", errors.Wrapf(err, errors.ErrExternalSignal, "failed to walk %s", key)
			}
		default:
			files = []string{path}
		}
	}

	if len(files) == 0 {
		return absent, nil
	}
	sort.Strings(files)

	root := path
	if hasMeta(key) {
		root = baseDir
	}

	tree := hashutil.NewTree(root)
	for _, f := range files {
		if err := tree.Add(f); err != nil {
			return "", errors.Wrapf(err, errors.ErrExternalSignal, "failed to read %s", f)
		}
	}
	return tree.Sum(), nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
