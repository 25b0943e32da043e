package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pjeweb/sass-spec/internal/harness"
	"github.com/pjeweb/sass-spec/internal/store"
)

// ResultsOptions holds flags for the results command.
type ResultsOptions struct {
	*RootOptions
	Database string
	List     bool
}

// StoredRun is the JSON payload of the results command for one run.
type StoredRun struct {
	ID             string           `json:"id"`
	Seq            int64            `json:"seq"`
	Implementation string           `json:"implementation"`
	Mode           string           `json:"mode"`
	Command        string           `json:"command"`
	Args           []string         `json:"args"`
	Archive        string           `json:"archive"`
	Summary        harness.Summary  `json:"summary"`
	Results        []harness.Result `json:"results,omitempty"`
}

// NewResultsCommand creates the results command.
func NewResultsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResultsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "results [run-id]",
		Short: "Show recorded run results",
		Long: `Show a run recorded by "sass-spec run --db".

Without a run ID the most recent run is shown. With --list every run is
summarized in creation order.

Examples:
  sass-spec results --db results.db
  sass-spec results --db results.db 0192f0c4-7d1e-7b3a-9c55-3e8f1a2b4c6d
  sass-spec results --db results.db --list --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runResults(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "summarize every recorded run")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runResults(opts *ResultsOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	// Opening would create an empty database.
	if _, err := os.Stat(opts.Database); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	if opts.List {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list runs", err)
		}
		stored := make([]StoredRun, 0, len(runs))
		for _, run := range runs {
			summary, err := st.Summarize(ctx, run.ID)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to summarize run", err)
			}
			stored = append(stored, newStoredRun(run, summary, nil))
		}
		if opts.Format == "json" {
			return formatter.Success(stored)
		}
		var sb strings.Builder
		for _, s := range stored {
			fmt.Fprintf(&sb, "%s\n  %s\n", s.header(), s.Summary)
		}
		fmt.Fprintf(&sb, "%d runs", len(stored))
		return formatter.Success(sb.String())
	}

	var run store.Run
	if runID == "" {
		run, err = st.LatestRun(ctx)
	} else {
		run, err = st.ReadRun(ctx, runID)
	}
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "run not found", err)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read run", err)
	}

	stored, err := st.ReadResults(ctx, run.ID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read results", err)
	}
	results := make([]harness.Result, len(stored))
	for i, r := range stored {
		results[i] = harness.Result{
			Path:     r.Path,
			Outcome:  r.Outcome,
			Message:  r.Message,
			ExitCode: r.ExitCode,
		}
	}
	report := newStoredRun(run, harness.Summarize(results), results)

	if opts.Format == "json" {
		return formatter.SuccessWithRun(report, run.ID)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.header())
	fmt.Fprintln(out)
	return harness.WriteReport(out, results, opts.Verbose)
}

func newStoredRun(run store.Run, summary harness.Summary, results []harness.Result) StoredRun {
	return StoredRun{
		ID:             run.ID,
		Seq:            run.Seq,
		Implementation: run.Implementation,
		Mode:           run.Mode,
		Command:        run.Command,
		Args:           run.Args,
		Archive:        run.Archive,
		Summary:        summary,
		Results:        results,
	}
}

func (s StoredRun) header() string {
	command := strings.TrimSpace(s.Command + " " + strings.Join(s.Args, " "))
	return fmt.Sprintf("Run #%d %s: %s (%s) mode=%s on %s", s.Seq, s.ID, s.Implementation, command, s.Mode, s.Archive)
}
