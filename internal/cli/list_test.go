package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Golden(t *testing.T) {
	inSuiteDir(t)
	g := newGoldie(t)

	tests := []struct {
		name string
		args []string
	}{
		{"list_dart_sass", []string{"suite.hrx"}},
		{"list_libsass", []string{"--impl", "libsass", "suite.hrx/pending"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewListCommand(&RootOptions{Format: "text"})
			stdout, _, err := execute(cmd, tt.args...)
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(stdout))
		})
	}
}

func TestList_InvalidCase(t *testing.T) {
	dir := inSuiteDir(t)
	writeFile(t, dir+"/bad.hrx", "<===> both/input.scss\na {b: c}\n<===> both/output.css\n<===> both/error\nError: x\n")

	stdout, _, err := execute(NewListCommand(&RootOptions{Format: "json"}), "bad.hrx")
	require.NoError(t, err)

	var resp struct {
		Data CaseList `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Cases, 1)
	assert.Equal(t, "bad.hrx/both", resp.Data.Cases[0].Path)
	assert.Contains(t, resp.Data.Cases[0].Error, "both output.css and error exist")
	assert.Empty(t, resp.Data.Cases[0].Kind)
}

func TestList_SubtreeInheritsEnclosingOptions(t *testing.T) {
	dir := inSuiteDir(t)
	writeFile(t, dir+"/nested.hrx", "<===> parent/options.yml\n:ignore_for: [dart-sass]\n<===> parent/child/input.scss\na {b: c}\n")

	stdout, _, err := execute(NewListCommand(&RootOptions{Format: "json"}), "nested.hrx/parent/child")
	require.NoError(t, err)

	var resp struct {
		Data CaseList `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Cases, 1)
	assert.Equal(t, "nested.hrx/parent/child", resp.Data.Cases[0].Path)
	assert.Equal(t, []string{"ignore: ignored for dart-sass"}, resp.Data.Cases[0].Flags)
	assert.Empty(t, resp.Data.Cases[0].Kind)
}
