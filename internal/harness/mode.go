package harness

import "fmt"

// Mode governs how todo and warning_todo flags are honored.
// It is fixed for the duration of a run.
type Mode int

const (
	// ModeNormal reports todo cases as todo and skips warning checks for
	// warning_todo cases.
	ModeNormal Mode = iota

	// ModeRunTodo runs todo cases as ordinary cases.
	ModeRunTodo

	// ModeProbeTodo fails todo cases that have started passing.
	ModeProbeTodo
)

// String returns the mode name used in configuration and flags.
func (m Mode) String() string {
	switch m {
	case ModeRunTodo:
		return "run-todo"
	case ModeProbeTodo:
		return "probe-todo"
	default:
		return "normal"
	}
}

// ParseMode parses a mode name. The empty string is ModeNormal.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "normal":
		return ModeNormal, nil
	case "run-todo":
		return ModeRunTodo, nil
	case "probe-todo":
		return ModeProbeTodo, nil
	}
	return ModeNormal, fmt.Errorf("unknown mode %q (want normal, run-todo, or probe-todo)", s)
}

// Outcome classifies a case result.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
	OutcomeSkip Outcome = "skip"
	OutcomeTodo Outcome = "todo"
)
