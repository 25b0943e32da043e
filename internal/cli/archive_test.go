package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjeweb/sass-spec/internal/hrx"
)

func TestCheckOverlap(t *testing.T) {
	root, err := hrx.Decode([]byte("<===> basic/input.scss\n<===> basically/input.scss\n<===> basic/nested/input.scss\n"))
	require.NoError(t, err)
	target := func(archive, sub string) archiveTarget {
		entry, err := hrx.Navigate(root, sub)
		require.NoError(t, err)
		return archiveTarget{Archive: archive, Entry: entry, abs: "/abs/" + archive}
	}

	tests := []struct {
		name    string
		targets []archiveTarget
		overlap bool
	}{
		{"sibling prefix", []archiveTarget{target("a.hrx", "basic"), target("a.hrx", "basically")}, false},
		{"other archive", []archiveTarget{target("a.hrx", ""), target("b.hrx", "basic")}, false},
		{"root covers all", []archiveTarget{target("a.hrx", "basic"), target("a.hrx", "")}, true},
		{"nested", []archiveTarget{target("a.hrx", "basic"), target("a.hrx", "basic/nested")}, true},
		{"repeated", []archiveTarget{target("a.hrx", "basically"), target("a.hrx", "basically")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkOverlap(tt.targets)
			if tt.overlap {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
