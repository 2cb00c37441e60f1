package cli

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/buildtiming/pkg/logging"
	"github.com/arthur-debert/buildtiming/pkg/ui"
)

func newGenerateCmd(g *globalOptions) *cobra.Command {
	flags := &buildFlags{}
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   MsgGenerateShort,
		Long:    MsgGenerateLong,
		Example: MsgGenerateExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd, g, flags)
			if err != nil {
				return err
			}
			status := ui.NewRenderer(ui.FormatAuto, cmd.ErrOrStderr())

			if dryRun {
				plan, err := s.builder().Plan()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(plan.Source)
				return err
			}

			result, err := s.builder().Build()
			if err != nil {
				return err
			}
			logger := logging.GetLogger("cli.generate")
			logger.Debug().
				Bool("written", result.Written).
				Str("skipped", result.Skipped).
				Msg("generate finished")

			for _, name := range result.Collisions {
				status.Warning(MsgCollision, name)
			}
			switch {
			case result.Skipped != "":
				status.Info(MsgKept, result.OutputPath, result.Skipped)
			case result.Written:
				status.Success(MsgGenerated, result.OutputPath, len(result.Resolved))
			default:
				status.Info(MsgUnchanged, result.OutputPath)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	return cmd
}

func newTriggersCmd(g *globalOptions) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:     "triggers",
		Short:   MsgTriggersShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd, g, flags)
			if err != nil {
				return err
			}
			plan, err := s.builder().Plan()
			if err != nil {
				return err
			}
			for _, t := range plan.Triggers {
				if _, err := cmd.OutOrStdout().Write([]byte(t.String() + "\n")); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
