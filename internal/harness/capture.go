package harness

import (
	"bytes"
	"io"
)

// Captured holds the output written by a captured block.
type Captured struct {
	Stdout string
	Stderr string
}

// Capture runs fn with fresh output sinks and returns what it wrote.
// The output is returned even when fn fails.
func Capture(fn func(stdout, stderr io.Writer) error) (Captured, error) {
	var stdout, stderr bytes.Buffer
	err := fn(&stdout, &stderr)
	return Captured{Stdout: stdout.String(), Stderr: stderr.String()}, err
}
