package harness

import (
	"context"
	"fmt"
	"io"

	"github.com/pjeweb/sass-spec/internal/sass"
)

// Compiler compiles single stylesheets through an Invoker and reports
// failures as *sass.Exception values.
type Compiler struct {
	Invoker Invoker
	Command string
	Args    []string
}

// Compile compiles the file input in dir and returns the CSS.
//
// A nonzero exit with an "Error: " report returns the parsed exception.
// Crashes and unparseable failures return a plain error.
func (c Compiler) Compile(ctx context.Context, dir, input string) (string, error) {
	var exitCode int
	out, err := Capture(func(stdout, stderr io.Writer) error {
		var err error
		exitCode, err = c.Invoker.Invoke(ctx, Invocation{
			Command: c.Command,
			Args:    append(append([]string(nil), c.Args...), input),
			Dir:     dir,
			Stdout:  stdout,
			Stderr:  stderr,
		})
		return err
	})
	if err != nil {
		return "", err
	}
	if exitCode == 0 {
		return out.Stdout, nil
	}

	if exc, ok := sass.ParseException(Normalize(out.Stderr, dirSpellings(dir)...)); ok {
		return "", exc
	}
	return "", fmt.Errorf("%s exited with code %d: %s", c.Command, exitCode, Normalize(out.Stderr))
}
