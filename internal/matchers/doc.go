// Package matchers provides assertion helpers for Sass compiler APIs.
//
// Helpers are plain functions in the style of testify's assert package. They
// report failures through assert.TestingT and return whether the assertion
// held, so they compose with require-style early returns:
//
//	if !matchers.SassException(t, compile, matchers.ExceptionOptions{Line: matchers.Line(0)}) {
//	    return
//	}
package matchers
