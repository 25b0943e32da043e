package harness_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjeweb/sass-spec/internal/harness"
	"github.com/pjeweb/sass-spec/internal/hrx"
	"github.com/pjeweb/sass-spec/internal/spec"
	"github.com/pjeweb/sass-spec/internal/testutil"
)

const impl = "dart-sass"

// suiteArchive covers every outcome. Files named actual-stdout and
// actual-stderr script what the fake compiler prints for a case.
const suiteArchive = `
<===> basic/input.scss
a {b: c}
<===> basic/output.css
a {
  b: c;
}
<===> mismatch/input.scss
a {b: c}
<===> mismatch/output.css
a {
  b: c;
}
<===> mismatch/actual-stdout
a {
  b: d;
}
<===> ignored/options.yml
:ignore_for:
  - dart-sass
<===> ignored/input.scss
a {b: c}
<===> ignored/output.css
a {
  b: c;
}
<===> warning/order/options.yml
:expected_warnings:
  - "WARNING: a"
  - "WARNING: b"
<===> warning/order/input.scss
@warn "b";
@warn "a";
<===> warning/order/output.css
<===> warning/order/actual-stderr
WARNING: b

WARNING: a
<===> warning/todo/options.yml
:warning_todo:
  - dart-sass
<===> warning/todo/input.scss
@warn "actual";
a {b: c}
<===> warning/todo/output.css
a {
  b: c;
}
<===> warning/todo/warning
WARNING: expected
<===> warning/todo/actual-stderr
WARNING: actual
<===> todo/passing/options.yml
:todo:
  - dart-sass
<===> todo/passing/input.scss
a {b: c}
<===> todo/passing/output.css
a {
  b: c;
}
<===> todo/failing/options.yml
:todo:
  - dart-sass
<===> todo/failing/input.scss
a {b: c}
<===> todo/failing/output.css
a {
  b: c;
}
<===> todo/failing/actual-stdout
wrong
<===> error/basic/input.scss
a {
<===> error/basic/error
Error: expected "}".
  input.scss 1:4  root stylesheet
<===> ambiguous/input.scss
a {b: c}
<===> ambiguous/output.css
a {b: c}
<===> ambiguous/error
Error: x
`

func runSuite(t *testing.T, mode harness.Mode, subpath string) (map[string]harness.Result, *testutil.SpyInvoker) {
	t.Helper()
	root := testutil.Archive(t, suiteArchive)
	entry, err := hrx.Navigate(root, subpath)
	require.NoError(t, err)

	spy := &testutil.SpyInvoker{Respond: testutil.ReplayCompiler}
	runner := harness.NewRunner(spy, harness.Options{
		Implementation: impl,
		Command:        "sass",
		Mode:           mode,
	})
	results, err := runner.RunSuite(context.Background(), entry, harness.SuiteOptions{TempDir: t.TempDir()})
	require.NoError(t, err)

	byPath := make(map[string]harness.Result, len(results))
	for _, r := range results {
		byPath[r.Path] = r
	}
	return byPath, spy
}

func TestRunSuite_IgnoredCaseNeverInvokes(t *testing.T) {
	results, spy := runSuite(t, harness.ModeNormal, "ignored")

	require.Len(t, results, 1)
	res := results["ignored"]
	assert.Equal(t, harness.OutcomeSkip, res.Outcome)
	assert.Equal(t, "ignored for dart-sass", res.Message)
	assert.Equal(t, 0, spy.Calls())
}

func TestRunSuite_MatchingOutputPasses(t *testing.T) {
	results, spy := runSuite(t, harness.ModeNormal, "basic")

	assert.Equal(t, harness.OutcomePass, results["basic"].Outcome)
	assert.Empty(t, results["basic"].Message)
	assert.Equal(t, 1, spy.Calls())
}

func TestRunSuite_OutputMismatchFails(t *testing.T) {
	results, _ := runSuite(t, harness.ModeNormal, "mismatch")

	res := results["mismatch"]
	assert.Equal(t, harness.OutcomeFail, res.Outcome)
	assert.Contains(t, res.Message, "output mismatch")
	assert.Equal(t, "a {\n  b: d;\n}", res.Stdout)
}

func TestRunSuite_WarningOrderMatters(t *testing.T) {
	results, _ := runSuite(t, harness.ModeNormal, "warning/order")

	res := results["warning/order"]
	assert.Equal(t, harness.OutcomeFail, res.Outcome)
	assert.Contains(t, res.Message, "warnings mismatch")
}

func TestRunSuite_WarningTodoByMode(t *testing.T) {
	tests := []struct {
		mode    harness.Mode
		outcome harness.Outcome
	}{
		{harness.ModeNormal, harness.OutcomePass},
		{harness.ModeRunTodo, harness.OutcomeFail},
		{harness.ModeProbeTodo, harness.OutcomePass},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			results, _ := runSuite(t, tt.mode, "warning/todo")
			assert.Equal(t, tt.outcome, results["warning/todo"].Outcome)
		})
	}
}

func TestRunSuite_TodoByMode(t *testing.T) {
	tests := []struct {
		mode    harness.Mode
		passing harness.Outcome
		failing harness.Outcome
	}{
		{harness.ModeNormal, harness.OutcomeTodo, harness.OutcomeTodo},
		{harness.ModeRunTodo, harness.OutcomePass, harness.OutcomeFail},
		{harness.ModeProbeTodo, harness.OutcomeFail, harness.OutcomeTodo},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			results, spy := runSuite(t, tt.mode, "todo")
			assert.Equal(t, tt.passing, results["todo/passing"].Outcome)
			assert.Equal(t, tt.failing, results["todo/failing"].Outcome)
			assert.Equal(t, 2, spy.Calls(), "todo cases still run")
		})
	}
}

func TestRunSuite_ErrorCase(t *testing.T) {
	results, _ := runSuite(t, harness.ModeNormal, "error")
	assert.Equal(t, harness.OutcomePass, results["error/basic"].Outcome)
	assert.Equal(t, 65, results["error/basic"].ExitCode)
}

func TestRunSuite_AmbiguousCaseFailsAlone(t *testing.T) {
	results, spy := runSuite(t, harness.ModeNormal, "")

	res := results["ambiguous"]
	assert.Equal(t, harness.OutcomeFail, res.Outcome)
	assert.Contains(t, res.Message, "both output.css and error exist")

	assert.Equal(t, harness.OutcomePass, results["basic"].Outcome)
	assert.Len(t, results, 9)
	assert.Equal(t, 7, spy.Calls(), "ignored and ambiguous cases are not invoked")
}

func TestRunSuite_CrashFailsEvenForErrorCases(t *testing.T) {
	root := testutil.Archive(t, suiteArchive)
	entry, err := hrx.Navigate(root, "error")
	require.NoError(t, err)

	spy := &testutil.SpyInvoker{Default: testutil.Response{Err: assert.AnError}}
	runner := harness.NewRunner(spy, harness.Options{Implementation: impl, Command: "sass"})
	results, err := runner.RunSuite(context.Background(), entry, harness.SuiteOptions{TempDir: t.TempDir()})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, harness.OutcomeFail, results[0].Outcome)
	assert.True(t, strings.HasPrefix(results[0].Message, "crash: "))
	assert.Equal(t, -1, results[0].ExitCode)
}

func TestRunSuite_InvocationShape(t *testing.T) {
	root := testutil.Archive(t, suiteArchive)
	entry, err := hrx.Navigate(root, "basic")
	require.NoError(t, err)

	spy := &testutil.SpyInvoker{Respond: testutil.ReplayCompiler}
	runner := harness.NewRunner(spy, harness.Options{
		Implementation: impl,
		Command:        "sass",
		Args:           []string{"--no-unicode"},
	})
	_, err = runner.RunSuite(context.Background(), entry, harness.SuiteOptions{TempDir: t.TempDir()})
	require.NoError(t, err)

	invs := spy.Invocations()
	require.Len(t, invs, 1)
	assert.Equal(t, "sass", invs[0].Command)
	assert.Equal(t, []string{"--no-unicode", "input.scss"}, invs[0].Args)
	assert.True(t, filepath.IsAbs(invs[0].Dir))
}

func TestRunSuite_CleansUpAfterLastCase(t *testing.T) {
	root := testutil.Archive(t, suiteArchive)
	tmp := t.TempDir()

	var seen []string
	spy := &testutil.SpyInvoker{Respond: func(inv harness.Invocation) testutil.Response {
		_, err := os.Stat(inv.Dir)
		assert.NoError(t, err, "materialized before every case")
		seen = append(seen, inv.Dir)
		return testutil.ReplayCompiler(inv)
	}}
	runner := harness.NewRunner(spy, harness.Options{Implementation: impl, Command: "sass"})
	_, err := runner.RunSuite(context.Background(), root, harness.SuiteOptions{TempDir: tmp})
	require.NoError(t, err)
	require.NotEmpty(t, seen)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunSuite_FilterAndSubtreePaths(t *testing.T) {
	root := testutil.Archive(t, suiteArchive)
	entry, err := hrx.Navigate(root, "warning")
	require.NoError(t, err)

	spy := &testutil.SpyInvoker{Respond: testutil.ReplayCompiler}
	runner := harness.NewRunner(spy, harness.Options{Implementation: impl, Command: "sass"})
	results, err := runner.RunSuite(context.Background(), entry, harness.SuiteOptions{
		TempDir: t.TempDir(),
		Filter:  func(p string) bool { return p == "warning/todo" },
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "warning/todo", results[0].Path)
	assert.Equal(t, 1, spy.Calls())
}

func TestRunSuite_CanceledContext(t *testing.T) {
	root := testutil.Archive(t, suiteArchive)
	tmp := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spy := &testutil.SpyInvoker{Respond: testutil.ReplayCompiler}
	runner := harness.NewRunner(spy, harness.Options{Implementation: impl, Command: "sass"})
	results, err := runner.RunSuite(ctx, root, harness.SuiteOptions{TempDir: tmp})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Equal(t, 0, spy.Calls())

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "cleanup runs on early return")
}

func TestRunCase_ResultPathRelativeToRoot(t *testing.T) {
	root := testutil.Archive(t, suiteArchive)
	m, err := hrx.Materialize(root, t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, m.Cleanup()) }()

	runner := harness.NewRunner(&testutil.SpyInvoker{Respond: testutil.ReplayCompiler}, harness.Options{
		Implementation: impl,
		Command:        "sass",
	})
	res := runner.RunCase(context.Background(), spec.Scope{Root: m.Root}, m.Dir("error/basic"))
	assert.Equal(t, "error/basic", res.Path)
	assert.Equal(t, harness.OutcomePass, res.Outcome)
}

func TestRunCase_ResultPathUnderScopePath(t *testing.T) {
	root := testutil.Archive(t, suiteArchive)
	entry, err := hrx.Navigate(root, "error")
	require.NoError(t, err)
	m, err := hrx.Materialize(entry, t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, m.Cleanup()) }()

	runner := harness.NewRunner(&testutil.SpyInvoker{Respond: testutil.ReplayCompiler}, harness.Options{
		Implementation: impl,
		Command:        "sass",
	})
	res := runner.RunCase(context.Background(), spec.Scope{Root: m.Root, Path: "error"}, m.Dir("basic"))
	assert.Equal(t, "error/basic", res.Path)
	assert.Equal(t, harness.OutcomePass, res.Outcome)
}

// nestedArchive puts the options of a case two directories above it.
const nestedArchive = `
<===> parent/options.yml
:ignore_for:
  - dart-sass
<===> parent/child/input.scss
a {b: c}
<===> parent/child/output.css
a {
  b: c;
}
<===> error/missing/input.scss
a {
<===> broken/options.yml
:todo: [
<===> broken/case/input.scss
a {b: c}
<===> broken/case/output.css
a {
  b: c;
}
`

func TestRunSuite_InheritsOptionsAboveSubtree(t *testing.T) {
	for _, subpath := range []string{"", "parent", "parent/child"} {
		t.Run("root="+subpath, func(t *testing.T) {
			root := testutil.Archive(t, nestedArchive)
			entry, err := hrx.Navigate(root, subpath)
			require.NoError(t, err)

			spy := &testutil.SpyInvoker{Respond: testutil.ReplayCompiler}
			runner := harness.NewRunner(spy, harness.Options{Implementation: impl, Command: "sass"})
			results, err := runner.RunSuite(context.Background(), entry, harness.SuiteOptions{
				TempDir: t.TempDir(),
				Filter:  func(p string) bool { return strings.HasPrefix(p, "parent/") },
			})
			require.NoError(t, err)

			require.Len(t, results, 1)
			assert.Equal(t, "parent/child", results[0].Path)
			assert.Equal(t, harness.OutcomeSkip, results[0].Outcome)
			assert.Equal(t, "ignored for dart-sass", results[0].Message)
			assert.Equal(t, 0, spy.Calls())
		})
	}
}

func TestRunSuite_ErrorBranchFromArchivePath(t *testing.T) {
	root := testutil.Archive(t, nestedArchive)
	entry, err := hrx.Navigate(root, "error/missing")
	require.NoError(t, err)

	runner := harness.NewRunner(&testutil.SpyInvoker{Respond: testutil.ReplayCompiler}, harness.Options{
		Implementation: impl,
		Command:        "sass",
	})
	results, err := runner.RunSuite(context.Background(), entry, harness.SuiteOptions{TempDir: t.TempDir()})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "error/missing", results[0].Path)
	assert.Equal(t, harness.OutcomeFail, results[0].Outcome)
	assert.Contains(t, results[0].Message, "(case is under an error directory)")
}

func TestRunSuite_InvalidOptionsAboveSubtreeFailCases(t *testing.T) {
	root := testutil.Archive(t, nestedArchive)
	entry, err := hrx.Navigate(root, "broken/case")
	require.NoError(t, err)

	spy := &testutil.SpyInvoker{Respond: testutil.ReplayCompiler}
	runner := harness.NewRunner(spy, harness.Options{Implementation: impl, Command: "sass"})
	results, err := runner.RunSuite(context.Background(), entry, harness.SuiteOptions{TempDir: t.TempDir()})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "broken/case", results[0].Path)
	assert.Equal(t, harness.OutcomeFail, results[0].Outcome)
	assert.Contains(t, results[0].Message, "broken/options.yml")
	assert.Equal(t, 0, spy.Calls())
}

func TestCaseDirs_ArchiveOrder(t *testing.T) {
	root := testutil.Archive(t, suiteArchive)
	assert.Equal(t, []string{
		"basic",
		"mismatch",
		"ignored",
		"warning/order",
		"warning/todo",
		"todo/passing",
		"todo/failing",
		"error/basic",
		"ambiguous",
	}, harness.CaseDirs(root))

	entry, err := hrx.Navigate(root, "basic")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, harness.CaseDirs(entry))
}
