// Package rebuild decides which signals should force the generation step
// to run again.
//
// A Pattern is selected once per build and consulted once. It never
// fails; it only decides which triggers to declare.
package rebuild

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/buildtiming/pkg/env"
	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// OutputFileName is the fixed name of the generated file
const OutputFileName = "buildtiming_gen.go"

// Mode enumerates the rebuild strategies
type Mode int

const (
	// Lazy declares nothing beyond the unconditional triggers in debug
	// builds and behaves like RealTime otherwise
	Lazy Mode = iota
	// RealTime relies on the unconditional triggers and the build tool's
	// own change detection
	RealTime
	// Custom additionally declares caller-provided paths and variables
	Custom
)

// String returns the configuration name of the mode
func (m Mode) String() string {
	switch m {
	case RealTime:
		return "realtime"
	case Custom:
		return "custom"
	default:
		return "lazy"
	}
}

// Pattern is a rebuild strategy plus its Custom-mode configuration
type Pattern struct {
	Mode          Mode
	IfPathChanged []string
	IfEnvChanged  []string
}

// LazyPattern returns the default pattern
func LazyPattern() Pattern {
	return Pattern{Mode: Lazy}
}

// RealTimePattern returns a pattern that always regenerates
func RealTimePattern() Pattern {
	return Pattern{Mode: RealTime}
}

// CustomPattern returns a pattern watching the given paths and variables
func CustomPattern(paths, vars []string) Pattern {
	return Pattern{
		Mode:          Custom,
		IfPathChanged: append([]string(nil), paths...),
		IfEnvChanged:  append([]string(nil), vars...),
	}
}

// ParseMode parses a mode name as used in configuration
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lazy":
		return Lazy, nil
	case "realtime", "real-time", "real_time":
		return RealTime, nil
	case "custom":
		return Custom, nil
	default:
		return Lazy, errors.Newf(errors.ErrInvalidInput, "unknown rebuild pattern: %s", s)
	}
}

// OutputPath returns the generated file's path inside outDir
func OutputPath(outDir string) string {
	return filepath.Join(outDir, OutputFileName)
}

// DeclareTriggers returns the trigger declarations for one build.
//
// extra names constants derived from the environment; each gets an env
// trigger so changing it forces regeneration. The SOURCE_DATE_EPOCH and
// generated-file triggers are always declared.
func (p Pattern) DeclareTriggers(extra []types.Identifier, outDir string, debug bool) []types.Trigger {
	var triggers []types.Trigger

	mode := p.Mode
	if mode == Lazy && !debug {
		mode = RealTime
	}

	// Lazy in a debug build and RealTime both rely on the unconditional set
	if mode == Custom {
		for _, v := range p.IfEnvChanged {
			triggers = append(triggers, types.EnvTrigger(v))
		}
		for _, path := range p.IfPathChanged {
			triggers = append(triggers, types.PathTrigger(path))
		}
	}

	for _, id := range extra {
		triggers = append(triggers, types.EnvTrigger(id.String()))
	}
	triggers = append(triggers,
		types.EnvTrigger(env.SourceDateEpoch),
		types.PathTrigger(OutputPath(outDir)),
	)

	return triggers
}
