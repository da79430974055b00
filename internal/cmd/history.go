package cmd

import (
	"fmt"
	"io"

	"github.com/ezerfernandes/mdsplit/internal/history"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

const timeFormat = "2006-01-02 15:04"

func historyCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "history",
		Aliases: []string{"h"},
		Short:   "List previous runs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			journal, err := opts.journal()
			if err != nil {
				return err
			}

			recent := journal.Recent(limit)
			if len(recent) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")

				return nil
			}

			printRuns(cmd.OutOrStdout(), recent)

			return nil
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DisplayLimit, "number of runs to show, 0 for all")

	return cmd
}

func printRuns(out io.Writer, entries []history.Entry) {
	tbl := table.New("#", "Input", "Output", "Files", "When").WithWriter(out)

	for i, e := range entries {
		tbl.AddRow(fmt.Sprintf("%d.", i+1), e.Input, e.Output, e.Files, e.Time.Local().Format(timeFormat))
	}

	tbl.Print()
}
