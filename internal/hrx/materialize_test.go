package hrx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialize_RoundTrip(t *testing.T) {
	root, err := Decode([]byte(sampleArchive))
	require.NoError(t, err)

	m, err := Materialize(root, t.TempDir())
	require.NoError(t, err)
	defer m.Cleanup()

	err = Walk(root, func(e *Entry) error {
		if e == root {
			return nil
		}
		onDisk := m.Dir(e.Path())
		info, err := os.Stat(onDisk)
		require.NoError(t, err, "missing %s", e.Path())
		if e.IsDir() {
			assert.True(t, info.IsDir(), "%s should be a directory", e.Path())
			return nil
		}
		data, err := os.ReadFile(onDisk)
		require.NoError(t, err)
		assert.Equal(t, e.Content(), data, "content of %s", e.Path())
		return nil
	})
	require.NoError(t, err)
}

func TestMaterialize_Subtree(t *testing.T) {
	root, err := Decode([]byte(sampleArchive))
	require.NoError(t, err)
	sub, err := Navigate(root, "error")
	require.NoError(t, err)

	m, err := Materialize(sub, t.TempDir())
	require.NoError(t, err)
	defer m.Cleanup()

	assert.FileExists(t, filepath.Join(m.Root, "input.scss"))
	assert.FileExists(t, filepath.Join(m.Root, "error"))
	assert.NoFileExists(t, filepath.Join(m.Root, "output.css"))
}

func TestMaterialize_SingleFile(t *testing.T) {
	root, err := Decode([]byte(sampleArchive))
	require.NoError(t, err)
	file, err := Navigate(root, "input.scss")
	require.NoError(t, err)

	m, err := Materialize(file, t.TempDir())
	require.NoError(t, err)
	defer m.Cleanup()

	data, err := os.ReadFile(filepath.Join(m.Root, "input.scss"))
	require.NoError(t, err)
	assert.Equal(t, "a {b: c}", string(data))
}

func TestMaterialize_FreshDirectoryPerCall(t *testing.T) {
	root, err := Decode([]byte(sampleArchive))
	require.NoError(t, err)
	parent := t.TempDir()

	first, err := Materialize(root, parent)
	require.NoError(t, err)
	defer first.Cleanup()
	second, err := Materialize(root, parent)
	require.NoError(t, err)
	defer second.Cleanup()

	assert.NotEqual(t, first.Root, second.Root)
}

func TestCleanup_Idempotent(t *testing.T) {
	root, err := Decode([]byte(sampleArchive))
	require.NoError(t, err)

	m, err := Materialize(root, t.TempDir())
	require.NoError(t, err)

	require.NoError(t, m.Cleanup())
	assert.NoDirExists(t, m.Root)

	// Second call must not fail.
	require.NoError(t, m.Cleanup())
}

func TestWriteTo_ExistingDirectory(t *testing.T) {
	root, err := Decode([]byte(sampleArchive))
	require.NoError(t, err)
	dest := filepath.Join(t.TempDir(), "out")

	require.NoError(t, WriteTo(root, dest))
	assert.DirExists(t, filepath.Join(dest, "empty"))
	assert.FileExists(t, filepath.Join(dest, "error", "input.scss"))
}
