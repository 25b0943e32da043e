// Package config loads runner configuration from defaults, a CUE or YAML
// file, .env files, and the environment.
//
// Later sources override earlier ones. Command-line flags are applied on top
// by the CLI.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"cuelang.org/go/encoding/yaml"
	"github.com/joho/godotenv"

	"github.com/pjeweb/sass-spec/internal/harness"
	"github.com/pjeweb/sass-spec/internal/hrx"
)

//go:embed schema.cue
var schemaSource string

// Environment variables read by ApplyEnv.
const (
	EnvImplementation = "SASS_SPEC_IMPL"
	EnvCommand        = "SASS_SPEC_COMMAND"
	EnvArgs           = "SASS_SPEC_ARGS"
	EnvMode           = "SASS_SPEC_MODE"
	EnvDatabase       = "SASS_SPEC_DB"
	EnvTempDir        = "SASS_SPEC_TMPDIR"
	EnvCacheSize      = "SASS_SPEC_CACHE_SIZE"
)

// DotEnvFile is loaded from the working directory when present.
const DotEnvFile = ".env"

// Config is the resolved runner configuration.
type Config struct {
	Implementation string
	Command        string
	Args           []string
	Mode           harness.Mode
	Database       string
	TempDir        string
	CacheSize      int
}

// Default returns the configuration used when nothing else is specified.
func Default() *Config {
	return &Config{
		Implementation: "dart-sass",
		Command:        "sass",
		Mode:           harness.ModeNormal,
		CacheSize:      hrx.DefaultCacheSize,
	}
}

// Load resolves the configuration from defaults, the file at path (skipped
// when empty), the .env file in the working directory, and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := LoadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv sets environment variables from the given files. Missing files
// are ignored and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		err := godotenv.Load(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// fileConfig mirrors #Config for decoding.
type fileConfig struct {
	Implementation string   `json:"implementation"`
	Command        string   `json:"command"`
	Args           []string `json:"args"`
	Mode           string   `json:"mode"`
	Database       string   `json:"database"`
	TempDir        string   `json:"temp_dir"`
	CacheSize      int      `json:"cache_size"`
}

// MergeFile overrides cfg with the fields set in a .cue, .yaml, or .yml file.
func (cfg *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("invalid embedded schema: %w", err)
	}

	var v cue.Value
	switch ext := filepath.Ext(path); ext {
	case ".cue":
		v = ctx.CompileBytes(data, cue.Filename(path))
	case ".yaml", ".yml":
		f, err := yaml.Extract(path, data)
		if err != nil {
			return formatCUEError(ErrCodeParse, err)
		}
		v = ctx.BuildFile(f)
	default:
		return &Error{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported config file extension %q", ext)}
	}
	if err := v.Err(); err != nil {
		return formatCUEError(ErrCodeParse, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(ErrCodeInvalid, err)
	}

	var fc fileConfig
	if err := unified.Decode(&fc); err != nil {
		return formatCUEError(ErrCodeInvalid, err)
	}
	return cfg.merge(fc)
}

func (cfg *Config) merge(fc fileConfig) error {
	if fc.Implementation != "" {
		cfg.Implementation = fc.Implementation
	}
	if fc.Command != "" {
		cfg.Command = fc.Command
	}
	if fc.Args != nil {
		cfg.Args = fc.Args
	}
	if fc.Mode != "" {
		mode, err := harness.ParseMode(fc.Mode)
		if err != nil {
			return &Error{Code: ErrCodeInvalid, Message: err.Error()}
		}
		cfg.Mode = mode
	}
	if fc.Database != "" {
		cfg.Database = fc.Database
	}
	if fc.TempDir != "" {
		cfg.TempDir = fc.TempDir
	}
	if fc.CacheSize > 0 {
		cfg.CacheSize = fc.CacheSize
	}
	return nil
}

// ApplyEnv overrides cfg with the SASS_SPEC_* variables found by lookup.
// SASS_SPEC_ARGS is split on whitespace.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvImplementation); ok && v != "" {
		cfg.Implementation = v
	}
	if v, ok := lookup(EnvCommand); ok && v != "" {
		cfg.Command = v
	}
	if v, ok := lookup(EnvArgs); ok {
		cfg.Args = strings.Fields(v)
	}
	if v, ok := lookup(EnvMode); ok && v != "" {
		mode, err := harness.ParseMode(v)
		if err != nil {
			return &Error{Code: ErrCodeInvalid, Message: fmt.Sprintf("%s: %v", EnvMode, err)}
		}
		cfg.Mode = mode
	}
	if v, ok := lookup(EnvDatabase); ok {
		cfg.Database = v
	}
	if v, ok := lookup(EnvTempDir); ok {
		cfg.TempDir = v
	}
	if v, ok := lookup(EnvCacheSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return &Error{Code: ErrCodeInvalid, Message: fmt.Sprintf("%s: expected a positive integer, got %q", EnvCacheSize, v)}
		}
		cfg.CacheSize = n
	}
	return nil
}

// Error is a configuration error, with the source position when known.
type Error struct {
	Code    ErrorCode
	Message string
	Pos     token.Pos
}

// ErrorCode categorizes configuration errors.
type ErrorCode string

const (
	// ErrCodeParse indicates the file is not valid CUE or YAML.
	ErrCodeParse ErrorCode = "CONFIG_PARSE"

	// ErrCodeInvalid indicates a value violates the schema.
	ErrCodeInvalid ErrorCode = "CONFIG_INVALID"

	// ErrCodeUnsupported indicates an unknown file format.
	ErrCodeUnsupported ErrorCode = "CONFIG_UNSUPPORTED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalid reports whether err is a schema violation.
func IsInvalid(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr) && cfgErr.Code == ErrCodeInvalid
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(code ErrorCode, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Code: code, Message: err.Error()}
	}

	first := errs[0]
	cfgErr := &Error{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		cfgErr.Pos = positions[0]
	}
	return cfgErr
}
