package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/logging"
)

// EnvPrefix starts every environment variable read into the configuration
const EnvPrefix = "BUILDTIMING_"

// ProjectFiles are the project configuration names, in lookup order
var ProjectFiles = []string{"buildtiming.toml", ".buildtiming.toml", "buildtiming.yaml", "buildtiming.yml"}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ProjectDir is searched for a project file. Defaults to the working directory.
	ProjectDir string
	// File, when set, replaces the project file lookup
	File string
	// SkipUser ignores the user configuration file
	SkipUser bool
	// Overrides are applied last, keyed like the file ("out_dir", "allow").
	// The command line feeds its flags through here.
	Overrides map[string]interface{}
}

// Load reads and validates the layered configuration
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")
	var sources []string

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	if !opts.SkipUser {
		userPath := UserConfigPath()
		if _, err := os.Stat(userPath); err == nil {
			if err := loadFile(k, userPath); err != nil {
				return nil, err
			}
			sources = append(sources, userPath)
		}
	}

	// 3. Project file
	projectPath, err := findProjectFile(opts)
	if err != nil {
		return nil, err
	}
	if projectPath != "" {
		if err := loadFile(k, projectPath); err != nil {
			return nil, err
		}
		sources = append(sources, projectPath)
	}

	// 4. Environment
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 5. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 6. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				scalarToStringHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.Sources = sources

	// 7. Validate
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	logger.Debug().
		Strs("sources", sources).
		Str("pattern", cfg.Pattern).
		Int("constants", len(cfg.Constants)).
		Msg("configuration loaded")

	return &cfg, nil
}

// UserConfigPath returns the user configuration file location
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "buildtiming", "config.toml")
}

func findProjectFile(opts LoadOptions) (string, error) {
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", opts.File)
		}
		return opts.File, nil
	}

	dir := opts.ProjectDir
	if dir == "" {
		dir = "."
	}
	for _, name := range ProjectFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser = toml.Parser()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
	}
	return nil
}

// scalarToStringHookFunc keeps constant values typed in the file as
// numbers or booleans in their canonical text form
func scalarToStringHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t.Kind() != reflect.String {
			return data, nil
		}
		switch v := data.(type) {
		case bool:
			if v {
				return "true", nil
			}
			return "false", nil
		}
		return data, nil
	}
}
