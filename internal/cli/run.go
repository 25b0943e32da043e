package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pjeweb/sass-spec/internal/config"
	"github.com/pjeweb/sass-spec/internal/harness"
	"github.com/pjeweb/sass-spec/internal/hrx"
	"github.com/pjeweb/sass-spec/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigFile     string
	Implementation string
	Command        string
	CmdArgs        []string
	RunTodo        bool
	ProbeTodo      bool
	Database       string
	Filter         string

	// Invoker allows overriding how the implementation is started (for
	// testing). If nil, defaults to harness.ExecInvoker.
	Invoker harness.Invoker

	// RunIDs allows overriding the stored run ID generator (for testing).
	RunIDs store.IDGenerator
}

// RunReport is the JSON payload of the run command.
type RunReport struct {
	Summary harness.Summary  `json:"summary"`
	Results []harness.Result `json:"results"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <archive[/subpath]>...",
		Short: "Run spec cases against an implementation",
		Long: `Run every case beneath the given archive paths.

A path names an .hrx file, optionally followed by a directory inside it.
Settings come from defaults, the --config file, .env, SASS_SPEC_*
variables, and finally flags.

Exit codes:
  0 - No case failed
  1 - One or more cases failed
  2 - Command error (invalid paths, config, etc.)

Examples:
  sass-spec run spec/core_functions/color.hrx
  sass-spec run spec/core_functions/color.hrx/rgb --impl libsass --command sassc
  sass-spec run spec/directives/use.hrx --probe-todo --db results.db
  sass-spec run spec/values.hrx --filter "values.hrx/numbers/*" --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpecs(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "configuration file (.cue, .yaml, .yml)")
	cmd.Flags().StringVar(&opts.Implementation, "impl", "", "implementation name used for options and expectations")
	cmd.Flags().StringVar(&opts.Command, "command", "", "executable of the implementation")
	cmd.Flags().StringArrayVar(&opts.CmdArgs, "cmd-args", nil, "argument passed before the input file (repeatable)")
	cmd.Flags().BoolVar(&opts.RunTodo, "run-todo", false, "run todo cases and report their real outcome")
	cmd.Flags().BoolVar(&opts.ProbeTodo, "probe-todo", false, "fail todo cases that now pass")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record results in this SQLite database")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only cases whose path matches this glob")

	return cmd
}

func runSpecs(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := resolveRunConfig(opts, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	if opts.Filter != "" {
		if _, err := path.Match(opts.Filter, ""); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeConfig, fmt.Sprintf("invalid filter %q", opts.Filter), err)
		}
	}

	cache, err := hrx.NewCache(cfg.CacheSize)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to create archive cache", err)
	}
	targets := make([]archiveTarget, 0, len(paths))
	for _, p := range paths {
		target, err := openTarget(cache, p)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeArchive, "failed to open archive", err)
		}
		targets = append(targets, target)
	}
	if err := checkOverlap(targets); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "overlapping archive paths", err)
	}

	invoker := opts.Invoker
	if invoker == nil {
		invoker = harness.ExecInvoker{}
	}
	runner := harness.NewRunner(invoker, harness.Options{
		Implementation: cfg.Implementation,
		Command:        cfg.Command,
		Args:           cfg.Args,
		Mode:           cfg.Mode,
		Logger:         logger,
	})

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var results []harness.Result
	var runErr error
	for _, target := range targets {
		suite, err := runner.RunSuite(ctx, target.Entry, harness.SuiteOptions{
			TempDir: cfg.TempDir,
			Filter:  caseFilter(opts.Filter, target),
		})
		for _, res := range suite {
			res.Path = target.casePath(res.Path)
			results = append(results, res)
		}
		if err != nil {
			runErr = err
			break
		}
	}
	if results == nil {
		results = []harness.Result{}
	}

	runID, err := recordRun(ctx, opts, cfg, paths, results)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to record results", err)
	}
	if runID != "" {
		logger.Info("results recorded", "run_id", runID, "db", cfg.Database)
	}

	summary := harness.Summarize(results)
	if opts.Format == "json" {
		if err := formatter.SuccessWithRun(RunReport{Summary: summary, Results: results}, runID); err != nil {
			return err
		}
	} else if err := harness.WriteReport(cmd.OutOrStdout(), results, opts.Verbose); err != nil {
		return err
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return WrapExitError(ExitCommandError, "run interrupted", runErr)
		}
		return WrapExitError(ExitCommandError, "run aborted", runErr)
	}
	if summary.Fail > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d cases failed", summary.Fail, summary.Total))
	}
	return nil
}

// resolveRunConfig layers explicitly set flags over the loaded configuration.
func resolveRunConfig(opts *RunOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("impl") {
		cfg.Implementation = opts.Implementation
	}
	if flags.Changed("command") {
		cfg.Command = opts.Command
	}
	if flags.Changed("cmd-args") {
		cfg.Args = opts.CmdArgs
	}
	if flags.Changed("db") {
		cfg.Database = opts.Database
	}

	switch {
	case opts.RunTodo && opts.ProbeTodo:
		return nil, errors.New("--run-todo and --probe-todo are mutually exclusive")
	case opts.RunTodo:
		cfg.Mode = harness.ModeRunTodo
	case opts.ProbeTodo:
		cfg.Mode = harness.ModeProbeTodo
	}

	if strings.TrimSpace(cfg.Command) == "" {
		return nil, errors.New("no implementation command configured")
	}
	if strings.TrimSpace(cfg.Implementation) == "" {
		return nil, errors.New("no implementation name configured")
	}
	return cfg, nil
}

// caseFilter matches pattern against case paths as printed in reports.
func caseFilter(pattern string, target archiveTarget) func(string) bool {
	if pattern == "" {
		return nil
	}
	return func(casePath string) bool {
		ok, _ := path.Match(pattern, target.casePath(casePath))
		return ok
	}
}

// recordRun stores results when a database is configured and returns the
// run ID, or "" when nothing was recorded.
func recordRun(ctx context.Context, opts *RunOptions, cfg *config.Config, paths []string, results []harness.Result) (string, error) {
	if cfg.Database == "" {
		return "", nil
	}
	st, err := store.Open(cfg.Database)
	if err != nil {
		return "", err
	}
	defer st.Close()
	if opts.RunIDs != nil {
		st.WithIDGenerator(opts.RunIDs)
	}

	// Recording must survive an interrupted run.
	ctx = context.WithoutCancel(ctx)
	run, err := st.CreateRun(ctx, store.Run{
		Implementation: cfg.Implementation,
		Mode:           cfg.Mode.String(),
		Command:        cfg.Command,
		Args:           cfg.Args,
		Archive:        strings.Join(paths, " "),
	})
	if err != nil {
		return "", err
	}
	if err := st.RecordResults(ctx, run.ID, results); err != nil {
		return "", err
	}
	return run.ID, nil
}
