// Package harness runs materialized spec cases against a Sass implementation.
//
// Each case is resolved into a spec.Descriptor, the implementation is
// invoked on the case's input file, and the captured output is compared to
// the expectation. The final outcome is one of pass, fail, skip, or todo.
//
// # Decision Policy
//
// Outcomes are computed by Decide, a pure function of the case flags, the
// sub-check results, and the run Mode:
//
//   - ignore: skip, the implementation is never invoked
//   - todo in ModeNormal: todo, whatever the checks say
//   - todo in ModeRunTodo: the raw outcome
//   - todo in ModeProbeTodo: todo when the raw outcome fails, fail when it
//     passes so the marker can be removed
//   - warning_todo in ModeNormal: warnings are not checked
//   - warning_todo in ModeRunTodo: warnings are enforced
//
// A process that cannot be started or is killed by a signal always fails
// with the crash as its diagnostic. It is never treated as an expected
// error.
//
// # Usage
//
//	root, err := hrx.Load("spec/core.hrx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := harness.NewRunner(harness.ExecInvoker{}, harness.Options{
//	    Implementation: "dart-sass",
//	    Command:        "sass",
//	    Mode:           harness.ModeNormal,
//	})
//	results, err := runner.RunSuite(ctx, root, harness.SuiteOptions{})
package harness
