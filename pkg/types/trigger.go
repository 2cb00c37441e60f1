package types

import (
	"strings"

	"github.com/arthur-debert/buildtiming/pkg/errors"
)

// TriggerPrefix starts every trigger line written to the notifier
const TriggerPrefix = "buildtiming:"

// TriggerKind distinguishes what a rebuild trigger watches
type TriggerKind int

const (
	// TriggerPath reruns generation when a path changes
	TriggerPath TriggerKind = iota
	// TriggerEnv reruns generation when an environment variable changes
	TriggerEnv
)

// String returns the directive name used in trigger lines
func (k TriggerKind) String() string {
	if k == TriggerEnv {
		return "rerun-if-env-changed"
	}
	return "rerun-if-changed"
}

// Trigger declares a signal that should force regeneration
type Trigger struct {
	Kind TriggerKind
	Key  string
}

// PathTrigger declares "rerun if path changes"
func PathTrigger(path string) Trigger {
	return Trigger{Kind: TriggerPath, Key: path}
}

// EnvTrigger declares "rerun if environment variable changes"
func EnvTrigger(name string) Trigger {
	return Trigger{Kind: TriggerEnv, Key: name}
}

// String renders the trigger as a notifier line
func (t Trigger) String() string {
	return TriggerPrefix + t.Kind.String() + "=" + t.Key
}

// ParseTrigger parses a line produced by Trigger.String
func ParseTrigger(line string) (Trigger, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), TriggerPrefix)
	if !ok {
		return Trigger{}, errors.Newf(errors.ErrInvalidInput, "not a trigger line: %q", line)
	}
	directive, key, ok := strings.Cut(rest, "=")
	if !ok || key == "" {
		return Trigger{}, errors.Newf(errors.ErrInvalidInput, "malformed trigger line: %q", line)
	}
	switch directive {
	case TriggerPath.String():
		return PathTrigger(key), nil
	case TriggerEnv.String():
		return EnvTrigger(key), nil
	default:
		return Trigger{}, errors.Newf(errors.ErrInvalidInput, "unknown trigger directive %q", directive)
	}
}
