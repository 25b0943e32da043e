package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjeweb/sass-spec/internal/hrx"
)

func TestExtract_Subtree(t *testing.T) {
	dir := inSuiteDir(t)
	dest := filepath.Join(dir, "out")

	stdout, _, err := execute(NewExtractCommand(&RootOptions{Format: "text"}), "suite.hrx/error", dest)
	require.NoError(t, err)
	assert.Equal(t, "Extracted 2 file(s) to "+dest+"\n", stdout)

	data, err := os.ReadFile(filepath.Join(dest, "parse", "input.scss"))
	require.NoError(t, err)
	assert.Equal(t, "a {", string(data))
	_, err = os.Stat(filepath.Join(dest, "basic"))
	assert.True(t, os.IsNotExist(err), "only the subtree is written")
}

func TestExtract_JSON(t *testing.T) {
	dir := inSuiteDir(t)
	dest := filepath.Join(dir, "out")

	stdout, _, err := execute(NewExtractCommand(&RootOptions{Format: "json"}), "suite.hrx", dest)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   ExtractResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, ExtractResult{Archive: "suite.hrx", Path: "", Dest: dest, Files: 12}, resp.Data)
}

func TestExtract_AsArchive(t *testing.T) {
	dir := inSuiteDir(t)
	dest := filepath.Join(dir, "out", "error.hrx")

	stdout, _, err := execute(NewExtractCommand(&RootOptions{Format: "text"}), "--hrx", "suite.hrx/error", dest)
	require.NoError(t, err)
	assert.Equal(t, "Extracted 2 file(s) to "+dest+"\n", stdout)

	root, err := hrx.Load(dest)
	require.NoError(t, err)
	parse, err := hrx.Navigate(root, "parse")
	require.NoError(t, err)
	input, ok := parse.File("input.scss")
	require.True(t, ok)
	assert.Equal(t, "a {", string(input))

	// The written archive runs like the subtree it came from.
	opts, spy := newTestRun("text")
	_, _, err = execute(newRunCommand(opts), dest)
	require.NoError(t, err)
	assert.Equal(t, 1, spy.Calls())
}

func TestExtract_MissingArchive(t *testing.T) {
	dir := inSuiteDir(t)

	stdout, _, err := execute(NewExtractCommand(&RootOptions{Format: "text"}), "other.hrx", filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E002]: failed to open archive")
}
