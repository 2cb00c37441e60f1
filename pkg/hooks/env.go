package hooks

import (
	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// EnvHook reads a single variable from the environment snapshot
type EnvHook struct {
	ID          types.Identifier
	Description string
	Variable    string
	Kind        types.Kind
	Default     *string
}

// Env creates a string constant read from variable. Resolution fails
// when the variable is unset unless a default is configured.
func Env(name types.Identifier, desc, variable string) *EnvHook {
	return &EnvHook{ID: name, Description: desc, Variable: variable, Kind: types.KindString}
}

// WithDefault sets the value used when the variable is unset
func (h *EnvHook) WithDefault(v string) *EnvHook {
	h.Default = &v
	return h
}

// As sets the kind the value is emitted as
func (h *EnvHook) As(kind types.Kind) *EnvHook {
	h.Kind = kind
	return h
}

// Name returns the constant identifier
func (h *EnvHook) Name() types.Identifier { return h.ID }

// Resolve reads the variable from the snapshot
func (h *EnvHook) Resolve(ctx *types.ResolveContext) (types.Value, error) {
	v, ok := ctx.Env.Getenv(h.Variable)
	if !ok {
		if h.Default == nil {
			return types.Value{}, errors.Newf(errors.ErrExternalSignal,
				"environment variable %s is not set", h.Variable).
				WithDetail("variable", h.Variable)
		}
		v = *h.Default
	}
	return types.Value{Description: h.Description, Raw: v, Kind: h.Kind}, nil
}

// Variables returns the environment variable this hook depends on
func (h *EnvHook) Variables() []string {
	return []string{h.Variable}
}
