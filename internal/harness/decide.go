package harness

import "github.com/pjeweb/sass-spec/internal/spec"

// Check holds the diagnostics of each sub-check of one invocation.
// An empty diagnostic means the sub-check held or was not applicable.
type Check struct {
	// Crash is set when the process could not run to completion.
	Crash string

	// Primary is the output or error mismatch, including exit code checks.
	Primary string

	// Warnings is the warning list mismatch.
	Warnings string
}

// Decision is the final classification of a case.
type Decision struct {
	Outcome Outcome

	// Message is the diagnostic for fail outcomes and the reason for skip
	// and todo outcomes.
	Message string
}

// Decide applies the decision policy. It performs no I/O.
func Decide(flags spec.Flags, check Check, mode Mode) Decision {
	if flags.Ignore {
		return Decision{Outcome: OutcomeSkip, Message: flags.IgnoreReason}
	}

	enforceWarnings := !flags.WarningTodo || mode != ModeNormal
	raw := rawDecision(check, enforceWarnings)

	switch {
	case flags.Todo:
		switch mode {
		case ModeRunTodo:
			return raw
		case ModeProbeTodo:
			if raw.Outcome == OutcomePass {
				return Decision{Outcome: OutcomeFail, Message: "case passes, todo can be removed"}
			}
			return Decision{Outcome: OutcomeTodo, Message: raw.Message}
		default:
			return Decision{Outcome: OutcomeTodo, Message: raw.Message}
		}

	case flags.WarningTodo && mode == ModeProbeTodo:
		if check.Crash != "" || check.Primary != "" {
			return raw
		}
		if check.Warnings != "" {
			return Decision{Outcome: OutcomePass}
		}
		return Decision{Outcome: OutcomeFail, Message: "warnings match, warning_todo can be removed"}
	}

	return raw
}

func rawDecision(check Check, enforceWarnings bool) Decision {
	switch {
	case check.Crash != "":
		return Decision{Outcome: OutcomeFail, Message: check.Crash}
	case check.Primary != "":
		return Decision{Outcome: OutcomeFail, Message: check.Primary}
	case enforceWarnings && check.Warnings != "":
		return Decision{Outcome: OutcomeFail, Message: check.Warnings}
	}
	return Decision{Outcome: OutcomePass}
}
