// Package cmd implements the mdsplit command line.
package cmd

import (
	"context"
	_ "embed"
	"io"
	"os"
	"path/filepath"

	"github.com/ezerfernandes/mdsplit/internal/history"
	"github.com/ezerfernandes/mdsplit/internal/logging"
	"github.com/ezerfernandes/mdsplit/internal/settings"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//go:embed help/root.md
var rootHelp string

const appName = "mdsplit"

type options struct {
	settingsFile string
	historyFile  string
	logFile      string
	quiet        bool
	verbose      bool

	unknown string
	exclude []string
	rewrite bool
	backup  bool
	clean   bool
	watch   bool
	preview bool

	conf     settings.Settings
	log      *zap.Logger
	closeLog func() error
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}

	return filepath.Join(dir, appName)
}

// Execute runs the command line and exits with status 1 on failure.
func Execute(args []string, stdout, stderr io.Writer) {
	opts := &options{}
	root := rootCmd(opts)

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())

	opts.close()

	if err != nil {
		os.Exit(1)
	}
}

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:          appName + " [flags] [input] [output]",
		Short:        "Extract fenced code blocks from a markdown document into files",
		Long:         rootHelp,
		Args:         cobra.MaximumNArgs(2), //nolint:gomnd
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return extractRun(cmd, args, opts)
		},

		DisableAutoGenTag: true,
	}

	dir := configDir()

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.settingsFile, "settings", filepath.Join(dir, "settings.env"), "settings file (key=value lines)")
	pf.StringVar(&opts.historyFile, "history", filepath.Join(dir, "history.yaml"), "run history file")
	pf.StringVar(&opts.logFile, "log-file", filepath.Join(dir, appName+".log"), "log file, empty to disable")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "only print warnings and errors")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "print debug output")

	f := cmd.Flags()
	f.StringVar(&opts.unknown, "unknown", "inline", "blocks without destination: inline or bucket")
	f.StringArrayVar(&opts.exclude, "exclude", nil, "glob of destinations to leave inline (repeatable)")
	f.BoolVar(&opts.rewrite, "rewrite", true, "write output.md with blocks replaced by links")
	f.BoolVar(&opts.backup, "backup", true, "zip a non-empty output folder before writing")
	f.BoolVar(&opts.clean, "clean", false, "empty the output folder before writing")
	f.BoolVarP(&opts.watch, "watch", "w", false, "run again whenever the input changes")
	f.BoolVar(&opts.preview, "preview", false, "render output.md on the terminal")

	cmd.AddCommand(inspectCmd(opts), historyCmd(opts), undoCmd(opts))

	return cmd
}

// setup loads the settings file and builds the logger. Settings fill in
// flags that were not given on the command line.
func (opts *options) setup(cmd *cobra.Command) error {
	console, closeConsole, err := logging.New(logging.Options{Console: cmd.ErrOrStderr(), Quiet: opts.quiet})
	if err != nil {
		return err
	}

	opts.conf, err = settings.Load(opts.settingsFile, console)
	_ = closeConsole()

	if err != nil {
		return err
	}

	if !changed(cmd, "log-file") {
		opts.logFile = opts.conf.Get(settings.KeyLogFile, opts.logFile)
	}

	if !changed(cmd, "unknown") {
		opts.unknown = opts.conf.Get(settings.KeyUnknownPolicy, opts.unknown)
	}

	if !changed(cmd, "exclude") {
		opts.exclude = append(opts.exclude, opts.conf.List(settings.KeyExclude)...)
	}

	opts.log, opts.closeLog, err = logging.New(logging.Options{
		File:    opts.logFile,
		Console: cmd.ErrOrStderr(),
		Quiet:   opts.quiet,
		Verbose: opts.verbose,
	})

	return err
}

func (opts *options) close() {
	if opts.closeLog != nil {
		_ = opts.closeLog()
		opts.closeLog = nil
	}
}

func (opts *options) journal() (*history.Journal, error) {
	return history.Load(opts.historyFile)
}

func changed(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)

	return flag != nil && flag.Changed
}
