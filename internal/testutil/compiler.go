package testutil

import (
	"os"
	"path/filepath"

	"github.com/pjeweb/sass-spec/internal/harness"
)

// Files read by ReplayCompiler to script a case's actual output.
const (
	ActualStdoutFile = "actual-stdout"
	ActualStderrFile = "actual-stderr"
)

// ReplayCompiler is a SpyInvoker.Respond function that pretends to compile a
// case by replaying its expectation: the error file goes to stderr with exit
// code 65, otherwise output.css goes to stdout. actual-stdout and
// actual-stderr files in the case directory override either stream.
func ReplayCompiler(inv harness.Invocation) Response {
	read := func(name string) (string, bool) {
		data, err := os.ReadFile(filepath.Join(inv.Dir, name))
		return string(data), err == nil
	}

	var resp Response
	if errText, ok := read("error"); ok {
		resp.Stderr, resp.ExitCode = errText, 65
	} else if out, ok := read("output.css"); ok {
		resp.Stdout = out
	}
	if out, ok := read(ActualStdoutFile); ok {
		resp.Stdout = out
	}
	if errText, ok := read(ActualStderrFile); ok {
		resp.Stderr = errText
	}
	return resp
}
