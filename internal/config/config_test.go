package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjeweb/sass-spec/internal/harness"
	"github.com/pjeweb/sass-spec/internal/hrx"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func envMap(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "dart-sass", cfg.Implementation)
	assert.Equal(t, "sass", cfg.Command)
	assert.Equal(t, harness.ModeNormal, cfg.Mode)
	assert.Equal(t, hrx.DefaultCacheSize, cfg.CacheSize)
}

func TestMergeFile_CUE(t *testing.T) {
	path := writeFile(t, "sass-spec.cue", `
implementation: "libsass"
command:        "sassc"
args: ["--style", "expanded"]
mode:       "probe-todo"
database:   "results.db"
cache_size: 8
`)

	cfg := Default()
	require.NoError(t, cfg.MergeFile(path))

	assert.Equal(t, "libsass", cfg.Implementation)
	assert.Equal(t, "sassc", cfg.Command)
	assert.Equal(t, []string{"--style", "expanded"}, cfg.Args)
	assert.Equal(t, harness.ModeProbeTodo, cfg.Mode)
	assert.Equal(t, "results.db", cfg.Database)
	assert.Equal(t, 8, cfg.CacheSize)
}

func TestMergeFile_YAML(t *testing.T) {
	path := writeFile(t, "sass-spec.yaml", `
implementation: dart-sass
args:
  - --no-unicode
mode: run-todo
`)

	cfg := Default()
	require.NoError(t, cfg.MergeFile(path))

	assert.Equal(t, "sass", cfg.Command, "unset fields keep defaults")
	assert.Equal(t, []string{"--no-unicode"}, cfg.Args)
	assert.Equal(t, harness.ModeRunTodo, cfg.Mode)
}

func TestMergeFile_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown mode", "bad.yaml", "mode: sometimes\n"},
		{"unknown field", "bad.yaml", "compiler: sass\n"},
		{"empty command", "bad.cue", `command: ""`},
		{"non-positive cache", "bad.yml", "cache_size: 0\n"},
		{"wrong type", "bad.yaml", "args: sass\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			err := Default().MergeFile(path)
			require.Error(t, err)
			assert.True(t, IsInvalid(err), "got %v", err)
		})
	}
}

func TestMergeFile_ParseErrorHasPosition(t *testing.T) {
	path := writeFile(t, "broken.cue", "command: \"sass\"\nargs: [\n")

	err := Default().MergeFile(path)
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, ErrCodeParse, cfgErr.Code)
	assert.True(t, cfgErr.Pos.IsValid())
	assert.Contains(t, err.Error(), "broken.cue:")
}

func TestMergeFile_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "config.toml", "command = 'sass'")

	err := Default().MergeFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported config file extension ".toml"`)
}

func TestMergeFile_Missing(t *testing.T) {
	err := Default().MergeFile(filepath.Join(t.TempDir(), "missing.cue"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		EnvImplementation: "libsass",
		EnvCommand:        "/usr/bin/sassc",
		EnvArgs:           "  --style  expanded ",
		EnvMode:           "run-todo",
		EnvDatabase:       "runs.db",
		EnvTempDir:        "/scratch",
		EnvCacheSize:      "16",
	}))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Implementation: "libsass",
		Command:        "/usr/bin/sassc",
		Args:           []string{"--style", "expanded"},
		Mode:           harness.ModeRunTodo,
		Database:       "runs.db",
		TempDir:        "/scratch",
		CacheSize:      16,
	}, cfg)
}

func TestApplyEnv_Invalid(t *testing.T) {
	err := Default().ApplyEnv(envMap(map[string]string{EnvMode: "later"}))
	assert.True(t, IsInvalid(err))

	err = Default().ApplyEnv(envMap(map[string]string{EnvCacheSize: "-1"}))
	assert.True(t, IsInvalid(err))
	assert.Contains(t, err.Error(), EnvCacheSize)
}

func TestApplyEnv_EmptyKeepsDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{EnvImplementation: "", EnvMode: ""})))
	assert.Equal(t, Default(), cfg)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SASS_SPEC_TEST_DOTENV"
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := writeFile(t, ".env", key+"=from-dotenv\n")
	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "from-dotenv", os.Getenv(key))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, "sass-spec.yml", "implementation: from-file\ncommand: file-sass\n")
	t.Setenv(EnvImplementation, "from-env")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Implementation)
	assert.Equal(t, "file-sass", cfg.Command)
}
