package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pjeweb/sass-spec/internal/hrx"
	"github.com/pjeweb/sass-spec/internal/spec"
)

// Options configures a Runner.
type Options struct {
	// Implementation selects implementation-specific expectations and
	// options, e.g. "dart-sass".
	Implementation string

	// Command is the executable under test.
	Command string

	// Args are passed before the input file name.
	Args []string

	Mode Mode

	// Logger receives per-case diagnostics. Defaults to discarding.
	Logger *slog.Logger
}

// Result is the outcome of running one case.
type Result struct {
	// Path is the case directory, slash-separated and relative to the
	// archive root.
	Path string `json:"path"`

	Outcome Outcome `json:"outcome"`

	// Message is the failure diagnostic, or the skip/todo reason.
	Message string `json:"message,omitempty"`

	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// Runner executes spec cases. It holds no per-case state, so one Runner may
// be reused for any number of cases.
type Runner struct {
	invoker Invoker
	opts    Options
	logger  *slog.Logger
}

// NewRunner creates a runner that invokes the implementation through invoker.
func NewRunner(invoker Invoker, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		invoker: invoker,
		opts:    opts,
		logger:  logger,
	}
}

// RunCase resolves and runs the case in dir, a directory beneath
// scope.Root. The result path is dir's archive path under scope.Path.
//
// Resolution errors fail the case rather than the run.
func (r *Runner) RunCase(ctx context.Context, scope spec.Scope, dir string) Result {
	rel, err := filepath.Rel(scope.Root, dir)
	if err != nil || rel == "." {
		rel = ""
	}
	res := Result{Path: hrx.Join(scope.Path, filepath.ToSlash(rel))}

	d, err := scope.Resolve(dir, r.opts.Implementation)
	if err != nil {
		r.logger.Warn("failed to resolve case", "path", res.Path, "error", err)
		res.Outcome = OutcomeFail
		res.Message = err.Error()
		return res
	}

	if d.Flags.Ignore {
		dec := Decide(d.Flags, Check{}, r.opts.Mode)
		res.Outcome, res.Message = dec.Outcome, dec.Message
		r.logger.Debug("case skipped", "path", res.Path, "reason", dec.Message)
		return res
	}

	inv := Invocation{
		Command: r.opts.Command,
		Args:    append(slices.Clone(r.opts.Args), d.Input),
		Dir:     dir,
	}
	var exitCode int
	out, invokeErr := Capture(func(stdout, stderr io.Writer) error {
		inv.Stdout, inv.Stderr = stdout, stderr
		var err error
		exitCode, err = r.invoker.Invoke(ctx, inv)
		return err
	})
	res.Stdout, res.Stderr, res.ExitCode = out.Stdout, out.Stderr, exitCode

	var check Check
	if invokeErr != nil {
		check.Crash = "crash: " + invokeErr.Error()
	} else {
		check = compare(d, out, exitCode, dirSpellings(dir))
	}

	dec := Decide(d.Flags, check, r.opts.Mode)
	res.Outcome, res.Message = dec.Outcome, dec.Message
	r.logger.Debug("case finished",
		"path", res.Path,
		"kind", d.Kind,
		"outcome", res.Outcome,
		"exit_code", exitCode,
	)
	return res
}

// SuiteOptions configures RunSuite.
type SuiteOptions struct {
	// TempDir is the parent of the materialized directory. Defaults to
	// os.TempDir().
	TempDir string

	// Filter selects cases by archive path. Nil runs every case.
	Filter func(casePath string) bool
}

// RunSuite materializes entry once, runs every case beneath it sequentially
// in archive order, and removes the materialized tree afterwards. Options
// files in the directories above entry apply to every case.
//
// Results collected before an error are always returned. A cleanup failure
// is joined to the returned error.
func (r *Runner) RunSuite(ctx context.Context, entry *hrx.Entry, opts SuiteOptions) (results []Result, err error) {
	m, err := hrx.Materialize(entry, opts.TempDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cleanupErr := m.Cleanup(); cleanupErr != nil {
			err = errors.Join(err, cleanupErr)
		}
	}()

	cases := CaseDirs(entry)
	r.logger.Info("running suite",
		"root", entry.Path(),
		"cases", len(cases),
		"implementation", r.opts.Implementation,
		"mode", r.opts.Mode,
	)

	base, baseErr := spec.AncestorOptions(entry)
	if baseErr != nil {
		r.logger.Warn("failed to read enclosing options", "root", entry.Path(), "error", baseErr)
	}
	scope := spec.Scope{Root: m.Root, Path: entry.Path(), Base: base}

	for _, rel := range cases {
		casePath := hrx.Join(entry.Path(), rel)
		if opts.Filter != nil && !opts.Filter(casePath) {
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results, fmt.Errorf("suite interrupted: %w", ctxErr)
		}

		if baseErr != nil {
			results = append(results, Result{Path: casePath, Outcome: OutcomeFail, Message: baseErr.Error()})
			continue
		}
		results = append(results, r.RunCase(ctx, scope, m.Dir(rel)))
	}
	return results, nil
}

// CaseDirs returns the directories beneath entry that contain an input
// file, relative to entry, in archive order. entry itself is included as ""
// when it is a case.
func CaseDirs(entry *hrx.Entry) []string {
	var dirs []string
	_ = hrx.Walk(entry, func(e *hrx.Entry) error {
		if !e.IsDir() {
			return nil
		}
		for _, name := range spec.InputFiles {
			if c, ok := e.Child(name); ok && !c.IsDir() {
				rel := strings.TrimPrefix(strings.TrimPrefix(e.Path(), entry.Path()), "/")
				dirs = append(dirs, rel)
				break
			}
		}
		return nil
	})
	return dirs
}

// dirSpellings returns dir and its symlink-resolved form.
func dirSpellings(dir string) []string {
	dirs := []string{dir}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil && resolved != dir {
		dirs = append(dirs, resolved)
	}
	return dirs
}
