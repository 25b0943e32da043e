package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pjeweb/sass-spec/internal/hrx"
)

// Archive decodes an archive written with "<===>" boundaries, failing the
// test if it is malformed. Leading newlines are trimmed so archives can be
// written as raw string literals.
func Archive(t testing.TB, text string) *hrx.Entry {
	t.Helper()
	root, err := hrx.Decode([]byte(strings.TrimLeft(text, "\n")))
	require.NoError(t, err)
	return root
}
