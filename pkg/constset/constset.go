// Package constset holds the hooks of one generation run and resolves
// them in a deterministic order.
//
// Non-template hooks resolve first, in identifier order. Template hooks
// resolve afterwards, also in identifier order, and may only reference
// constants resolved before them.
package constset

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/hooks"
	"github.com/arthur-debert/buildtiming/pkg/logging"
	"github.com/arthur-debert/buildtiming/pkg/registry"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// Set is an ordered collection of hooks keyed by identifier
type Set struct {
	hooks      registry.Registry[types.Identifier, types.Hook]
	collisions []types.Identifier
	logger     zerolog.Logger
}

// New creates a set seeded with the baseline BUILD_OS hook
func New() *Set {
	s := &Set{
		hooks:  registry.New[types.Identifier, types.Hook](),
		logger: logging.GetLogger("constset"),
	}
	baseline, _ := hooks.Builtin(hooks.BuildOS)
	_, _ = s.hooks.Put(baseline.Name(), baseline)
	return s
}

// Register adds h, replacing any hook with the same identifier. The last
// registration wins; every replacement is recorded and logged.
func (s *Set) Register(h types.Hook) (bool, error) {
	if h == nil {
		return false, errors.New(errors.ErrInvalidInput, "cannot register a nil hook")
	}
	name := h.Name()
	if err := name.Validate(); err != nil {
		return false, err
	}

	replaced, err := s.hooks.Put(name, h)
	if err != nil {
		return false, err
	}
	if replaced {
		s.collisions = append(s.collisions, name)
		s.logger.Warn().
			Str("constant", name.String()).
			Msg("constant registered more than once, keeping the last registration")
	}
	return replaced, nil
}

// Get returns the hook registered under name
func (s *Set) Get(name types.Identifier) (types.Hook, bool) {
	h, err := s.hooks.Get(name)
	if err != nil {
		return nil, false
	}
	return h, true
}

// Has reports whether name is registered
func (s *Set) Has(name types.Identifier) bool {
	return s.hooks.Has(name)
}

// Len returns the number of registered hooks
func (s *Set) Len() int {
	return s.hooks.Count()
}

// Names returns every registered identifier in sorted order
func (s *Set) Names() []types.Identifier {
	return s.hooks.Keys()
}

// Collisions returns the identifiers that were registered more than once,
// once per replacement, in registration order
func (s *Set) Collisions() []types.Identifier {
	return append([]types.Identifier(nil), s.collisions...)
}

// Ordered returns the hooks in resolution order
func (s *Set) Ordered() []types.Hook {
	all := s.hooks.Values()
	ordered := make([]types.Hook, 0, len(all))
	var templates []types.Hook
	for _, h := range all {
		if types.IsTemplate(h) {
			templates = append(templates, h)
			continue
		}
		ordered = append(ordered, h)
	}
	return append(ordered, templates...)
}

// ResolveAll resolves every hook against e and returns one value per
// identifier in resolution order. The first failure aborts the pass.
func (s *Set) ResolveAll(e types.Environment) ([]types.Resolved, error) {
	ordered := s.Ordered()
	ctx := types.NewResolveContext(e, s.Names())

	resolved := make([]types.Resolved, 0, len(ordered))
	for _, h := range ordered {
		name := h.Name()

		value, err := h.Resolve(ctx)
		if err != nil {
			code := errors.GetErrorCode(err)
			if code == errors.ErrUnknown {
				code = errors.ErrExternalSignal
			}
			return nil, errors.Wrapf(err, code, "failed to resolve constant %s", name).
				WithDetail("constant", name.String())
		}
		if _, err := value.Literal(); err != nil {
			return nil, errors.Wrapf(err, errors.ErrSerialization, "constant %s cannot be serialized", name).
				WithDetail("constant", name.String())
		}

		ctx.Record(name, value.Raw)
		resolved = append(resolved, types.Resolved{Name: name, Value: value})

		s.logger.Trace().
			Str("constant", name.String()).
			Str("kind", value.Kind.String()).
			Msg("resolved constant")
	}

	return resolved, nil
}
