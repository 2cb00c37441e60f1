package cli

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/buildtiming/pkg/ui"
)

func newShowCmd(g *globalOptions) *cobra.Command {
	flags := &buildFlags{}
	var format string

	cmd := &cobra.Command{
		Use:     "show",
		Short:   MsgShowShort,
		Example: MsgShowExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ui.ParseFormat(format)
			if err != nil {
				return err
			}
			s, err := loadSession(cmd, g, flags)
			if err != nil {
				return err
			}
			plan, err := s.builder().Plan()
			if err != nil {
				return err
			}
			return ui.NewRenderer(f, cmd.OutOrStdout()).RenderReport(ui.NewReport(plan))
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)
	return cmd
}
