package types

import (
	"time"
)

// Hook contributes one named build constant. Any external code can
// implement it and register it with a constant set.
type Hook interface {
	// Name returns the identifier the constant is emitted under
	Name() Identifier

	// Resolve computes the constant's value. It must not depend on other
	// hooks except through the context's resolved values.
	Resolve(ctx *ResolveContext) (Value, error)
}

// TemplateHook is a Hook whose value is a template referencing other
// constants as {NAME}. Template hooks resolve after every other hook.
type TemplateHook interface {
	Hook

	// Template returns the raw, unsubstituted template text
	Template() string
}

// IsTemplate reports whether h resolves through template substitution
func IsTemplate(h Hook) bool {
	_, ok := h.(TemplateHook)
	return ok
}

// Environment is the read-only view of the build environment hooks resolve against
type Environment interface {
	// Getenv returns an environment variable from the captured snapshot
	Getenv(key string) (string, bool)

	// Platform returns the target operating system and architecture
	Platform() (goos, goarch string)

	// Now returns the build timestamp captured for this invocation
	Now() time.Time

	// Debug reports whether this is a debug/development build
	Debug() bool

	// GoVersion returns the Go toolchain version
	GoVersion() string
}

// LookupState describes what a resolve context knows about an identifier
type LookupState int

const (
	// LookupUnknown means no hook with that identifier is registered
	LookupUnknown LookupState = iota
	// LookupPending means the hook is registered but not yet resolved
	LookupPending
	// LookupResolved means the hook's value is available
	LookupResolved
)

// ResolveContext carries the environment and the values resolved so far
// during one resolution pass.
type ResolveContext struct {
	Env Environment

	registered map[Identifier]bool
	resolved   map[Identifier]string
}

// NewResolveContext creates a context for a pass over the given identifiers
func NewResolveContext(env Environment, registered []Identifier) *ResolveContext {
	ctx := &ResolveContext{
		Env:        env,
		registered: make(map[Identifier]bool, len(registered)),
		resolved:   make(map[Identifier]string, len(registered)),
	}
	for _, id := range registered {
		ctx.registered[id] = true
	}
	return ctx
}

// Lookup returns the raw value of an already resolved constant
func (c *ResolveContext) Lookup(name Identifier) (string, LookupState) {
	if v, ok := c.resolved[name]; ok {
		return v, LookupResolved
	}
	if c.registered[name] {
		return "", LookupPending
	}
	return "", LookupUnknown
}

// Record stores a resolved raw value so later templates can reference it
func (c *ResolveContext) Record(name Identifier, raw string) {
	c.registered[name] = true
	c.resolved[name] = raw
}

// Known returns every registered identifier in sorted order
func (c *ResolveContext) Known() []Identifier {
	ids := make([]Identifier, 0, len(c.registered))
	for id := range c.registered {
		ids = append(ids, id)
	}
	SortIdentifiers(ids)
	return ids
}
