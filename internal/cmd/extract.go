package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/ezerfernandes/mdsplit/internal/extract"
	"github.com/ezerfernandes/mdsplit/internal/runner"
	"github.com/ezerfernandes/mdsplit/internal/settings"
	"github.com/ezerfernandes/mdsplit/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const previewWidth = 80

func extractRun(cmd *cobra.Command, args []string, opts *options) error {
	var input, output string

	if len(args) > 0 {
		input = args[0]
	}

	if len(args) > 1 {
		output = args[1]
	}

	if len(output) == 0 {
		output = opts.conf.Get(settings.KeyOutputDir, "")
	}

	journal, err := opts.journal()

	switch {
	case len(input) != 0 && len(output) != 0:
		if err != nil {
			opts.log.Warn("run history not recorded", zap.Error(err))
		}
	case err != nil:
		return err
	default:
		input, output, err = prompt(cmd.InOrStdin(), cmd.OutOrStdout(), journal, input, output)
		if err != nil {
			return err
		}
	}

	policy, err := extract.ParsePolicy(opts.unknown)
	if err != nil {
		return err
	}

	cfg := runner.Config{
		Input:   input,
		Output:  output,
		Policy:  policy,
		Exclude: opts.exclude,
		Rewrite: opts.rewrite,
		Backup:  opts.backup,
		Clean:   opts.clean,
	}

	// Re-runs empty the output root.
	if opts.watch {
		if err := cfg.CheckClean(); err != nil {
			return err
		}
	}

	run := func(cfg runner.Config) (*runner.Result, error) {
		res, err := runner.Run(cfg, opts.log)
		if err != nil {
			return nil, err
		}

		if opts.preview {
			return res, preview(cmd.OutOrStdout(), res.Document)
		}

		return res, nil
	}

	res, err := run(cfg)
	if err != nil {
		return err
	}

	if journal != nil {
		journal.Append(input, output, len(res.Records), time.Now())

		if err := journal.Save(); err != nil {
			opts.log.Warn("could not save run history", zap.Error(err))
		}
	}

	if !opts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rerun := cfg.Rerun()

	return watch.Run(ctx, input, watch.DefaultDebounce, func() error {
		_, err := run(rerun)

		return err
	}, opts.log)
}

func preview(out io.Writer, document string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(previewWidth),
	)
	if err != nil {
		return err
	}

	rendered, err := renderer.Render(document)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(out, rendered)

	return err
}
