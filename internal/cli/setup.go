package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/buildtiming/pkg/config"
	"github.com/arthur-debert/buildtiming/pkg/core"
	"github.com/arthur-debert/buildtiming/pkg/env"
	"github.com/arthur-debert/buildtiming/pkg/rebuild"
	"github.com/arthur-debert/buildtiming/pkg/types"
)

// buildFlags are the per-command overrides of the configuration
type buildFlags struct {
	outDir  string
	pkg     string
	pattern string
	allow   []string
	force   bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", "", MsgFlagOutDir)
	cmd.Flags().StringVarP(&f.pkg, "package", "p", "", MsgFlagPackage)
	cmd.Flags().StringVar(&f.pattern, "pattern", "", MsgFlagPattern)
	cmd.Flags().StringSliceVar(&f.allow, "allow", nil, MsgFlagAllow)
}

// overrides returns the flags that were given, keyed like the config file
func (f *buildFlags) overrides() map[string]interface{} {
	if f == nil {
		return nil
	}
	o := make(map[string]interface{})
	if f.outDir != "" {
		o["out_dir"] = f.outDir
	}
	if f.pkg != "" {
		o["package"] = f.pkg
	}
	if f.pattern != "" {
		o["pattern"] = f.pattern
	}
	if len(f.allow) > 0 {
		o["allow"] = f.allow
	}
	return o
}

// session is a loaded configuration ready to build
type session struct {
	cfg      *config.Config
	pattern  rebuild.Pattern
	snapshot *env.Snapshot
	options  []core.Option
}

// loadSession reads the configuration with the flags layered on top and
// turns the result into builder options
func loadSession(cmd *cobra.Command, g *globalOptions, f *buildFlags) (*session, error) {
	cfg, err := config.Load(config.LoadOptions{
		ProjectDir: g.dir,
		File:       g.configFile,
		Overrides:  f.overrides(),
	})
	if err != nil {
		return nil, err
	}

	pattern, err := cfg.RebuildPattern()
	if err != nil {
		return nil, err
	}
	hooks, err := cfg.Hooks()
	if err != nil {
		return nil, err
	}
	snapshot, err := cfg.Snapshot()
	if err != nil {
		return nil, err
	}

	options := []core.Option{
		core.WithSnapshot(snapshot),
		core.WithPattern(pattern),
		core.WithAllow(cfg.AllowList()...),
		core.WithHook(hooks...),
		core.WithBaseDir(g.dir),
		core.WithSkipUnchanged(cfg.SkipUnchanged),
		core.WithNotifier(cmd.OutOrStdout()),
		core.WithTriggers(configTriggers(cfg.Sources)...),
	}
	if cfg.OutDir != "" {
		outDir := cfg.OutDir
		if !filepath.IsAbs(outDir) {
			outDir = filepath.Join(g.dir, outDir)
		}
		options = append(options, core.WithOutDir(outDir))
	}
	if cfg.Package != "" {
		options = append(options, core.WithPackage(cfg.Package))
	}
	if f != nil && f.force {
		options = append(options, core.WithForce(true))
	}

	return &session{cfg: cfg, pattern: pattern, snapshot: snapshot, options: options}, nil
}

func (s *session) builder(extra ...core.Option) *core.Builder {
	return core.NewBuilder(append(append([]core.Option(nil), s.options...), extra...)...)
}

// configTriggers declares the loaded configuration files, which decide
// every constant and so must rerun the step when edited
func configTriggers(sources []string) []types.Trigger {
	triggers := make([]types.Trigger, 0, len(sources))
	for _, path := range sources {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		triggers = append(triggers, types.PathTrigger(path))
	}
	return triggers
}
