package cli

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/buildtiming/pkg/core"
	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/logging"
	"github.com/arthur-debert/buildtiming/pkg/stamp"
	"github.com/arthur-debert/buildtiming/pkg/ui"
	"github.com/arthur-debert/buildtiming/pkg/watch"
)

func newWatchCmd(g *globalOptions) *cobra.Command {
	flags := &buildFlags{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cli.watch")
			status := ui.NewRenderer(ui.FormatAuto, cmd.ErrOrStderr())

			s, err := loadSession(cmd, g, flags)
			if err != nil {
				return err
			}
			plan, err := s.builder().Plan()
			if err != nil {
				return err
			}

			paths := watchPaths(s.cfg.Sources, s.cfg.IfPathChanged, s.cfg.EnvFile)
			if len(paths) == 0 {
				return errors.New(errors.ErrInvalidInput, MsgWatchNoPaths)
			}

			regenerate := func(context.Context, []string) error {
				// Reload so edits to the configuration itself take effect
				s, err := loadSession(cmd, g, flags)
				if err != nil {
					return err
				}
				result, err := s.builder(core.WithForce(true)).Build()
				if err != nil {
					return err
				}
				if result.Written {
					status.Success(MsgGenerated, result.OutputPath, len(result.Resolved))
				}
				return nil
			}

			w, err := watch.New(watch.Config{
				BaseDir:  g.dir,
				Paths:    paths,
				Ignore:   []string{plan.OutputPath, stamp.Path(plan.OutDir)},
				Debounce: debounce,
				OnChange: regenerate,
				Logger:   &logger,
			})
			if err != nil {
				return err
			}

			if err := regenerate(commandContext(cmd), nil); err != nil {
				status.Error("%v", err)
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			status.Info(MsgWatching, len(paths))
			return w.Run(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, MsgFlagDebounce)
	return cmd
}

// watchPaths lists the configuration files, the custom pattern paths and
// the env file. Custom paths stay relative to the project directory; the
// others are resolved against the working directory.
func watchPaths(sources, custom []string, envFile string) []string {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}

	for _, p := range append(append([]string(nil), sources...), envFile) {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		add(p)
	}
	for _, p := range custom {
		add(p)
	}
	return paths
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
