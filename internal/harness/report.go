package harness

import (
	"fmt"
	"io"
	"strings"
)

// Summary counts results by outcome.
type Summary struct {
	Total int `json:"total"`
	Pass  int `json:"pass"`
	Fail  int `json:"fail"`
	Skip  int `json:"skip"`
	Todo  int `json:"todo"`
}

// Summarize counts results by outcome.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case OutcomePass:
			s.Pass++
		case OutcomeFail:
			s.Fail++
		case OutcomeSkip:
			s.Skip++
		case OutcomeTodo:
			s.Todo++
		}
	}
	return s
}

// String renders the summary line.
func (s Summary) String() string {
	return fmt.Sprintf("%d cases: %d passed, %d failed, %d skipped, %d todo",
		s.Total, s.Pass, s.Fail, s.Skip, s.Todo)
}

// WriteReport writes a text report of results followed by the summary.
// Failures are always listed with their diagnostic; other outcomes only when
// verbose is set.
func WriteReport(w io.Writer, results []Result, verbose bool) error {
	var buf strings.Builder
	for _, r := range results {
		if r.Outcome != OutcomeFail && !verbose {
			continue
		}
		fmt.Fprintf(&buf, "%s %s", strings.ToUpper(string(r.Outcome)), r.Path)
		switch {
		case r.Outcome == OutcomeFail:
			buf.WriteByte('\n')
			writeIndented(&buf, r.Message)
		case r.Message != "" && r.Outcome == OutcomeSkip:
			fmt.Fprintf(&buf, " (%s)\n", r.Message)
		default:
			buf.WriteByte('\n')
		}
	}
	if buf.Len() > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteString(Summarize(results).String())
	buf.WriteByte('\n')

	_, err := io.WriteString(w, buf.String())
	return err
}

func writeIndented(buf *strings.Builder, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			buf.WriteByte('\n')
			continue
		}
		buf.WriteString("  ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}
