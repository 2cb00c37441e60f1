package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/buildtiming/pkg/core"
	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/ui"
)

// staleness is the outcome of evaluating the stamp manifest
type staleness struct {
	Stale   bool
	Reasons []string
}

func newCheckCmd(g *globalOptions) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd, g, flags)
			if err != nil {
				return err
			}
			b := s.builder()
			plan, err := b.Plan()
			if err != nil {
				return err
			}

			result, err := evaluateStamp(b, plan)
			if err != nil {
				return err
			}

			status := ui.NewRenderer(ui.FormatAuto, cmd.OutOrStdout())
			if !result.Stale {
				status.Success(MsgFresh, plan.OutputPath)
				return nil
			}
			for _, reason := range result.Reasons {
				status.Warning("%s", reason)
			}
			return errors.New(errors.ErrStale, MsgErrStale).WithDetail("reasons", result.Reasons)
		},
	}

	flags.register(cmd)
	return cmd
}

// evaluateStamp decides whether the output described by plan is stale
func evaluateStamp(b *core.Builder, plan *core.Plan) (*staleness, error) {
	f, err := b.Freshness(plan)
	if err != nil {
		return nil, err
	}

	result := &staleness{Stale: !f.Current()}
	switch f.State {
	case core.NoOutput:
		result.Reasons = []string{fmt.Sprintf(MsgStaleNoOutput, plan.OutputPath)}
	case core.NoStamp:
		result.Reasons = []string{fmt.Sprintf(MsgStaleNoStamp, f.Err)}
	case core.OutputEdited:
		result.Reasons = []string{fmt.Sprintf(MsgStaleEdited, plan.OutputPath)}
	case core.TriggersChanged:
		result.Reasons = []string{MsgStaleTriggers}
	case core.ConstantsChanged:
		result.Reasons = []string{MsgStaleConstants}
	case core.SignalsChanged:
		for _, c := range f.Changes {
			result.Reasons = append(result.Reasons, fmt.Sprintf(MsgStaleChange, c.Trigger, c.Reason))
		}
	}
	return result, nil
}
