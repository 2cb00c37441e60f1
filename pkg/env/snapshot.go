// Package env captures the build environment once per invocation.
//
// A Snapshot is immutable after Capture returns: environment variables,
// platform, toolchain version, timestamp and the debug-profile signal are
// read exactly once and then handed to every hook that needs them. This
// keeps resolution deterministic and lets tests inject a fixed
// environment instead of mutating the process.
package env

import (
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/arthur-debert/buildtiming/pkg/errors"
)

// Reserved environment variables
const (
	// SourceDateEpoch overrides the build timestamp (unix seconds)
	SourceDateEpoch = "SOURCE_DATE_EPOCH"
	// OutDirVar names the output directory when no explicit path is set
	OutDirVar = "BUILDTIMING_OUT_DIR"
	// LegacyOutDirVar is consulted after OutDirVar
	LegacyOutDirVar = "OUT_DIR"
	// DebugVar selects the debug profile when set to a true value
	DebugVar = "BUILDTIMING_DEBUG"
	// GoPackageVar is set by go generate to the package being generated
	GoPackageVar = "GOPACKAGE"
)

// Snapshot is an immutable view of the build environment
type Snapshot struct {
	vars      map[string]string
	goos      string
	goarch    string
	goVersion string
	now       time.Time
	debug     bool
}

// Option customizes a snapshot during Capture
type Option func(*captureConfig) error

type captureConfig struct {
	environ   []string
	vars      map[string]string
	dotenv    []string
	goos      string
	goarch    string
	goVersion string
	clock     func() time.Time
	debug     *bool
}

// WithEnviron replaces os.Environ() as the source of variables
func WithEnviron(environ []string) Option {
	return func(c *captureConfig) error {
		c.environ = environ
		return nil
	}
}

// WithVars sets variables on top of the captured environment
func WithVars(vars map[string]string) Option {
	return func(c *captureConfig) error {
		for k, v := range vars {
			c.vars[k] = v
		}
		return nil
	}
}

// WithDotenv overlays variables read from dotenv files. Variables already
// present in the process environment take precedence over file values.
func WithDotenv(paths ...string) Option {
	return func(c *captureConfig) error {
		c.dotenv = append(c.dotenv, paths...)
		return nil
	}
}

// WithPlatform overrides the GOOS/GOARCH pair
func WithPlatform(goos, goarch string) Option {
	return func(c *captureConfig) error {
		c.goos, c.goarch = goos, goarch
		return nil
	}
}

// WithGoVersion overrides the reported toolchain version
func WithGoVersion(v string) Option {
	return func(c *captureConfig) error {
		c.goVersion = v
		return nil
	}
}

// WithClock replaces time.Now as the timestamp source
func WithClock(clock func() time.Time) Option {
	return func(c *captureConfig) error {
		c.clock = clock
		return nil
	}
}

// WithDebug sets the debug-profile signal explicitly
func WithDebug(debug bool) Option {
	return func(c *captureConfig) error {
		c.debug = &debug
		return nil
	}
}

// Capture reads the environment once and returns an immutable snapshot
func Capture(opts ...Option) (*Snapshot, error) {
	cfg := &captureConfig{
		vars:      make(map[string]string),
		goos:      runtime.GOOS,
		goarch:    runtime.GOARCH,
		goVersion: runtime.Version(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	environ := cfg.environ
	if environ == nil {
		environ = os.Environ()
	}

	vars := make(map[string]string, len(environ)+len(cfg.vars))
	for _, path := range cfg.dotenv {
		fileVars, err := godotenv.Read(path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrExternalSignal, "failed to read env file %s", path)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = v
	}
	for k, v := range cfg.vars {
		vars[k] = v
	}

	// GOOS/GOARCH from go generate's environment describe the target platform
	goos, goarch := cfg.goos, cfg.goarch
	if v := vars["GOOS"]; v != "" && cfg.goos == runtime.GOOS {
		goos = v
	}
	if v := vars["GOARCH"]; v != "" && cfg.goarch == runtime.GOARCH {
		goarch = v
	}

	debug := false
	if cfg.debug != nil {
		debug = *cfg.debug
	} else {
		debug = truthy(vars[DebugVar])
	}

	return &Snapshot{
		vars:      vars,
		goos:      goos,
		goarch:    goarch,
		goVersion: cfg.goVersion,
		now:       cfg.clock(),
		debug:     debug,
	}, nil
}

// Getenv returns a captured variable
func (s *Snapshot) Getenv(key string) (string, bool) {
	v, ok := s.vars[key]
	return v, ok
}

// Platform returns the target GOOS and GOARCH
func (s *Snapshot) Platform() (string, string) {
	return s.goos, s.goarch
}

// Now returns the timestamp captured for this build
func (s *Snapshot) Now() time.Time {
	return s.now
}

// Debug reports the debug-profile signal
func (s *Snapshot) Debug() bool {
	return s.debug
}

// GoVersion returns the toolchain version
func (s *Snapshot) GoVersion() string {
	return s.goVersion
}

// Keys returns the captured variable names in sorted order
func (s *Snapshot) Keys() []string {
	keys := make([]string, 0, len(s.vars))
	for k := range s.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "debug":
		return true
	}
	return false
}
