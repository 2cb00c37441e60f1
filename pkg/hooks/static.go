package hooks

import (
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// StaticHook returns a value fixed at registration time
type StaticHook struct {
	ID    types.Identifier
	Value types.Value
}

// Name returns the constant identifier
func (h *StaticHook) Name() types.Identifier { return h.ID }

// Resolve returns the fixed value
func (h *StaticHook) Resolve(*types.ResolveContext) (types.Value, error) {
	return h.Value, nil
}

// Static creates a hook for an arbitrary fixed value
func Static(name types.Identifier, value types.Value) *StaticHook {
	return &StaticHook{ID: name, Value: value}
}

// Literal creates a string constant
func Literal(name types.Identifier, desc, value string) *StaticHook {
	return Static(name, types.StringValue(desc, value))
}

// Bool creates a bool constant
func Bool(name types.Identifier, desc string, value bool) *StaticHook {
	return Static(name, types.BoolValue(desc, value))
}

// Uint creates an unsigned integer constant
func Uint(name types.Identifier, desc string, value uint64) *StaticHook {
	return Static(name, types.UintValue(desc, value))
}

// Bytes creates a byte-sequence variable
func Bytes(name types.Identifier, desc string, value []byte) *StaticHook {
	return Static(name, types.BytesValue(desc, value))
}

// FuncHook resolves through caller-supplied logic
type FuncHook struct {
	ID types.Identifier
	Fn func(ctx *types.ResolveContext) (types.Value, error)
}

// Name returns the constant identifier
func (h *FuncHook) Name() types.Identifier { return h.ID }

// Resolve calls the wrapped function
func (h *FuncHook) Resolve(ctx *types.ResolveContext) (types.Value, error) {
	return h.Fn(ctx)
}

// Func adapts a function into a hook
func Func(name types.Identifier, fn func(ctx *types.ResolveContext) (types.Value, error)) *FuncHook {
	return &FuncHook{ID: name, Fn: fn}
}
