// Package watch reruns generation when watched paths change.
//
// Paths may be plain files, directories or doublestar patterns. The
// directories containing them are registered with fsnotify; events are
// filtered against the paths and coalesced over a debounce window before
// the callback runs. Callbacks run on the event loop, one at a time.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/logging"
)

// DefaultDebounce is used when Config.Debounce is not positive
const DefaultDebounce = 300 * time.Millisecond

// Config holds the parameters for a Watcher
type Config struct {
	// BaseDir resolves relative paths. Defaults to the working directory.
	BaseDir string
	// Paths are the files, directories or doublestar patterns to watch
	Paths []string
	// Ignore lists paths whose events are dropped, such as the generated file
	Ignore []string
	// Debounce is the quiet period before OnChange fires
	Debounce time.Duration
	// OnChange receives the changed paths, relative to BaseDir when possible
	OnChange func(ctx context.Context, changed []string) error
	Logger   *zerolog.Logger
}

// Watcher monitors paths and fires a debounced callback
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	baseDir  string
	patterns []string
	roots    []string
	ignore   map[string]bool
	debounce time.Duration
	logger   zerolog.Logger
}

// New registers every directory needed to observe cfg.Paths
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrWatch, "failed to resolve base directory %s", baseDir)
	}

	logger := logging.GetLogger("watch")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		cfg:      cfg,
		baseDir:  absBase,
		ignore:   make(map[string]bool, len(cfg.Ignore)),
		debounce: debounce,
		logger:   logger,
	}
	for _, p := range cfg.Ignore {
		w.ignore[w.abs(p)] = true
	}
	for _, p := range cfg.Paths {
		pattern := filepath.ToSlash(w.abs(p))
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid watch pattern %s", p)
		}
		w.patterns = append(w.patterns, pattern)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatch, "failed to create file watcher")
	}
	w.fsw = fsw

	if err := w.addDirectories(); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Directories returns the directories registered with fsnotify
func (w *Watcher) Directories() []string {
	dirs := w.fsw.WatchList()
	sort.Strings(dirs)
	return dirs
}

// Run processes events until ctx is cancelled. It returns nil on
// cancellation and an error when the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New(errors.ErrWatch, "file watcher closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.Matches(evt.Name) {
				continue
			}

			w.logger.Trace().Str("path", evt.Name).Str("op", evt.Op.String()).Msg("change detected")
			pending[w.rel(evt.Name)] = true
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			sort.Strings(changed)

			if w.cfg.OnChange == nil {
				continue
			}
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error().Err(err).Strs("changed", changed).Msg("regeneration failed")
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New(errors.ErrWatch, "file watcher closed unexpectedly")
			}
			w.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// Matches reports whether path is one of the watched paths, lies under a
// watched directory or matches a watched pattern
func (w *Watcher) Matches(path string) bool {
	abs := w.abs(path)
	if w.ignore[abs] {
		return false
	}
	slashed := filepath.ToSlash(abs)
	for _, pattern := range w.patterns {
		if slashed == pattern {
			return true
		}
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern+"/**", slashed); ok {
			return true
		}
	}
	return false
}

// addDirectories registers the directories that can produce events for
// the watched paths: the static prefix of each pattern, walked recursively
// when the path is a pattern or a directory, or the parent of a file
func (w *Watcher) addDirectories() error {
	seen := make(map[string]bool)
	add := func(dir string) error {
		if seen[dir] {
			return nil
		}
		seen[dir] = true
		if err := w.fsw.Add(dir); err != nil {
			return errors.Wrapf(err, errors.ErrWatch, "failed to watch %s", dir)
		}
		return nil
	}

	for _, pattern := range w.patterns {
		glob := hasMeta(pattern)
		root := filepath.FromSlash(pattern)
		if glob {
			base, _ := doublestar.SplitPattern(pattern)
			root = filepath.FromSlash(base)
		}

		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			if !glob {
				// A plain file, existing or not: its directory reports changes
				root = filepath.Dir(root)
			}
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				w.logger.Warn().Str("path", root).Msg("directory does not exist, not watching")
				continue
			}
			if !glob {
				if err := add(root); err != nil {
					return err
				}
				continue
			}
		}

		w.roots = append(w.roots, root)
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				w.logger.Debug().Err(walkErr).Str("path", path).Msg("skipping inaccessible path")
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return add(path)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || !w.underRoot(path) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn().Err(err).Str("path", path).Msg("failed to watch new directory")
	}
}

// underRoot reports whether path lies inside a recursively watched directory
func (w *Watcher) underRoot(path string) bool {
	for _, root := range w.roots {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

func (w *Watcher) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(w.baseDir, path)
}

func (w *Watcher) rel(path string) string {
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return path
	}
	return rel
}
