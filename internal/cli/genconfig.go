package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/buildtiming/pkg/config"
	"github.com/arthur-debert/buildtiming/pkg/errors"
	"github.com/arthur-debert/buildtiming/pkg/filesystem"
	"github.com/arthur-debert/buildtiming/pkg/ui"
)

func newGenConfigCmd(g *globalOptions) *cobra.Command {
	var (
		write     bool
		commented bool
		force     bool
		defaults  bool
	)

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := cmd.OutOrStdout().Write([]byte(config.GetDefaultsContent()))
				return err
			}

			content, err := config.GenerateConfigContent(commented)
			if err != nil {
				return err
			}
			if !write {
				_, err := cmd.OutOrStdout().Write([]byte(content))
				return err
			}

			path := filepath.Join(g.dir, config.ProjectFiles[0])
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf(errors.ErrAlreadyExists, MsgConfigExists, path)
			}
			if err := filesystem.WriteAtomic(filesystem.NewOS(), path, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
			}
			ui.NewRenderer(ui.FormatAuto, cmd.ErrOrStderr()).Success(MsgConfigWritten, path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&commented, "commented", false, MsgFlagComment)
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}
