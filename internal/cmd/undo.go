package cmd

import (
	_ "embed"
	"fmt"
	"path/filepath"

	"github.com/ezerfernandes/mdsplit/internal/script"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//go:embed help/undo.md
var undoHelp string

func undoCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "undo output",
		Short: "Delete the files created by the last run",
		Long:  undoHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			path := filepath.Join(root, script.Name)

			status, err := script.Run(cmd.Context(), path, root, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if status != 0 {
				return fmt.Errorf("%s exited with %d", script.Name, status)
			}

			opts.log.Info("created files removed", zap.String("script", path))

			return nil
		},

		DisableAutoGenTag: true,
	}

	return cmd
}
