package config

import (
	"github.com/arthur-debert/buildtiming/pkg/env"
	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/hooks"
	"github.com/arthur-debert/buildtiming/pkg/rebuild"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// Config is the merged buildtiming configuration
type Config struct {
	OutDir        string     `koanf:"out_dir" toml:"out_dir"`
	Package       string     `koanf:"package" toml:"package" validate:"omitempty,goident"`
	Pattern       string     `koanf:"pattern" toml:"pattern" validate:"required,pattern"`
	IfPathChanged []string   `koanf:"if_path_changed" toml:"if_path_changed" validate:"dive,required"`
	IfEnvChanged  []string   `koanf:"if_env_changed" toml:"if_env_changed" validate:"dive,required"`
	Allow         []string   `koanf:"allow" toml:"allow" validate:"dive,goident"`
	Debug         bool       `koanf:"debug" toml:"debug"`
	EnvFile       string     `koanf:"env_file" toml:"env_file"`
	SkipUnchanged bool       `koanf:"skip_unchanged" toml:"skip_unchanged"`
	Constants     []Constant `koanf:"constants" toml:"constants" validate:"dive"`

	// Sources lists the files that contributed to this configuration
	Sources []string `koanf:"-" toml:"-"`
}

// Constant declares a custom constant.
//
// With Env set the value is read from that variable, Value being the
// default when it is unset. With kind "template" Value is a template over
// other constants. Otherwise Value is emitted as is.
type Constant struct {
	Name        string `koanf:"name" toml:"name" validate:"required,goident"`
	Kind        string `koanf:"kind" toml:"kind,omitempty" validate:"omitempty,kind"`
	Value       string `koanf:"value" toml:"value,omitempty"`
	Description string `koanf:"description" toml:"description,omitempty"`
	Env         string `koanf:"env" toml:"env,omitempty"`
}

// Hook builds the hook that resolves this constant
func (c Constant) Hook() (types.Hook, error) {
	kind, err := types.ParseKind(c.Kind)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "constant %s", c.Name)
	}
	name := types.Identifier(c.Name)

	switch {
	case c.Env != "":
		if kind == types.KindTemplate {
			return nil, errors.Newf(errors.ErrConfigInvalid,
				"constant %s: a template cannot be read from the environment", c.Name)
		}
		h := hooks.Env(name, c.Description, c.Env).As(kind)
		if c.Value != "" {
			h = h.WithDefault(c.Value)
		}
		return h, nil
	case kind == types.KindTemplate:
		return hooks.Template(name, c.Description, c.Value), nil
	default:
		return hooks.Static(name, types.Value{Description: c.Description, Raw: c.Value, Kind: kind}), nil
	}
}

// Hooks builds one hook per declared constant, in declaration order
func (c *Config) Hooks() ([]types.Hook, error) {
	result := make([]types.Hook, 0, len(c.Constants))
	for _, constant := range c.Constants {
		h, err := constant.Hook()
		if err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	return result, nil
}

// RebuildPattern converts the pattern settings
func (c *Config) RebuildPattern() (rebuild.Pattern, error) {
	mode, err := rebuild.ParseMode(c.Pattern)
	if err != nil {
		return rebuild.Pattern{}, errors.Wrap(err, errors.ErrConfigInvalid, "invalid pattern")
	}
	switch mode {
	case rebuild.Custom:
		return rebuild.CustomPattern(c.IfPathChanged, c.IfEnvChanged), nil
	case rebuild.RealTime:
		return rebuild.RealTimePattern(), nil
	default:
		return rebuild.LazyPattern(), nil
	}
}

// AllowList returns the allowed constant identifiers
func (c *Config) AllowList() []types.Identifier {
	ids := make([]types.Identifier, len(c.Allow))
	for i, a := range c.Allow {
		ids[i] = types.Identifier(a)
	}
	return ids
}

// Snapshot captures the environment the way this configuration asks for:
// env_file is overlaid under the process environment and the debug flag
// is forced on when set
func (c *Config) Snapshot(opts ...env.Option) (*env.Snapshot, error) {
	var all []env.Option
	if c.EnvFile != "" {
		all = append(all, env.WithDotenv(c.EnvFile))
	}
	if c.Debug {
		all = append(all, env.WithDebug(true))
	}
	return env.Capture(append(all, opts...)...)
}
