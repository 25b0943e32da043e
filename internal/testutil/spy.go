// Package testutil provides test doubles for the spec runner.
package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/pjeweb/sass-spec/internal/harness"
)

// Response is what a SpyInvoker writes and returns for one invocation.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// SpyInvoker is a harness.Invoker that records invocations and replies with
// canned responses instead of starting a process.
//
// Thread-safety: all methods are safe for concurrent use.
type SpyInvoker struct {
	// Default is returned when Respond is nil.
	Default Response

	// Respond computes the response for an invocation.
	Respond func(inv harness.Invocation) Response

	mu    sync.Mutex
	calls []harness.Invocation
}

// Invoke implements harness.Invoker.
func (s *SpyInvoker) Invoke(_ context.Context, inv harness.Invocation) (int, error) {
	s.mu.Lock()
	s.calls = append(s.calls, inv)
	s.mu.Unlock()

	resp := s.Default
	if s.Respond != nil {
		resp = s.Respond(inv)
	}
	if inv.Stdout != nil {
		_, _ = io.WriteString(inv.Stdout, resp.Stdout)
	}
	if inv.Stderr != nil {
		_, _ = io.WriteString(inv.Stderr, resp.Stderr)
	}
	if resp.Err != nil {
		return -1, resp.Err
	}
	return resp.ExitCode, nil
}

// Calls returns the number of invocations.
func (s *SpyInvoker) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Invocations returns a copy of the recorded invocations.
func (s *SpyInvoker) Invocations() []harness.Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]harness.Invocation(nil), s.calls...)
}
