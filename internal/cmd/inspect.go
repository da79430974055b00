package cmd

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/ezerfernandes/mdsplit/internal/commonmark"
	"github.com/ezerfernandes/mdsplit/internal/extract"
	"github.com/gobwas/glob"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/inspect.md
var inspectHelp string

func inspectCmd(_ *options) *cobra.Command {
	var lang string

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "inspect [flags] input",
		Aliases: []string{"i", "ls"},
		Short:   "List the blocks a run would extract",
		Long:    inspectHelp,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := glob.Compile(lang)
			if err != nil {
				return fmt.Errorf("lang pattern %q: %w", lang, err)
			}

			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			return inspectRun(cmd, src, filter)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "*", "only list blocks whose language matches this glob")

	return cmd
}

func inspectRun(cmd *cobra.Command, src []byte, filter glob.Glob) error {
	out := cmd.OutOrStdout()
	blocks := extract.Blocks(extract.Scan(string(src)))

	tbl := table.New("#", "Lines", "Lang", "Destination", "Action").WithWriter(out)

	for i, b := range blocks {
		if !filter.Match(b.Lang) {
			continue
		}

		tbl.AddRow(i+1, fmt.Sprintf("%d-%d", b.StartLine, b.EndLine), b.Lang, destination(b), action(b))
	}

	tbl.Print()

	fences, err := commonmark.Collect(src)
	if err != nil {
		return err
	}

	if notes := disagreements(blocks, fences); len(notes) != 0 {
		fmt.Fprintln(out)

		for _, note := range notes {
			fmt.Fprintln(out, "note:", note)
		}
	}

	return nil
}

// disagreements lists the line ranges that only one of the line scanner and
// the CommonMark parser treats as the start of a block.
func disagreements(blocks []*extract.Block, fences commonmark.Fences) []string {
	scanned := make(map[int]bool, len(blocks))
	for _, b := range blocks {
		scanned[b.StartLine] = true
	}

	parsed := make(map[int]bool, len(fences))

	var notes []string

	for _, f := range fences {
		parsed[f.StartLine] = true

		if !scanned[f.StartLine] {
			notes = append(notes, fmt.Sprintf("lines %d-%d are a separate block for CommonMark", f.StartLine, f.EndLine))
		}
	}

	for _, b := range blocks {
		if !parsed[b.StartLine] {
			notes = append(notes, fmt.Sprintf("lines %d-%d are not a block for CommonMark", b.StartLine, b.EndLine))
		}
	}

	return notes
}

func destination(b *extract.Block) string {
	if len(b.Path) == 0 {
		return "-"
	}

	return b.Path
}

func action(b *extract.Block) string {
	act := "inline"
	if len(b.Path) != 0 {
		act = "write"
	}

	if b.Warned {
		act += ", appended?"
	}

	if !b.Terminated() {
		act += ", unterminated"
	}

	return act
}
