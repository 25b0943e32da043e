package matchers

import (
	"fmt"

	"github.com/stretchr/testify/assert"
)

// Equaler is implemented by values with structural equality.
type Equaler interface {
	Equals(other any) bool
}

// Hasher is implemented by values with a hash code consistent with Equals.
type Hasher interface {
	HashCode() uint64
}

// EqualsWithHash asserts that candidate equals reference and that both have
// the same hash code.
func EqualsWithHash(t assert.TestingT, candidate, reference any, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	eq, ok := candidate.(Equaler)
	if !ok {
		return assert.Fail(t, fmt.Sprintf("%T has no Equals method", candidate), msgAndArgs...)
	}
	hasher, ok := candidate.(Hasher)
	if !ok {
		return assert.Fail(t, fmt.Sprintf("%T has no HashCode method", candidate), msgAndArgs...)
	}

	if !eq.Equals(reference) {
		return assert.Fail(t, fmt.Sprintf("expected %v to equal %v", candidate, reference), msgAndArgs...)
	}
	refHasher, ok := reference.(Hasher)
	if !ok {
		return assert.Fail(t, fmt.Sprintf("reference %T has no HashCode method", reference), msgAndArgs...)
	}
	if got, want := hasher.HashCode(), refHasher.HashCode(); got != want {
		return assert.Fail(t, fmt.Sprintf("equal values have different hash codes: %d != %d", got, want), msgAndArgs...)
	}
	return true
}
