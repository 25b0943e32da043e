package spec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pjeweb/sass-spec/internal/hrx"
)

// Input file names, in lookup order.
var InputFiles = []string{"input.scss", "input.sass"}

// Generic expectation file names.
const (
	OutputFile  = "output.css"
	ErrorFile   = "error"
	WarningFile = "warning"
)

// Kind is the expected outcome kind of a case.
type Kind int

const (
	// KindOutput expects a successful compilation matching output.css.
	KindOutput Kind = iota

	// KindError expects a failed compilation matching the error file.
	KindError
)

// String returns "output" or "error".
func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "output"
}

// Flags are the behavioral flags of a case. They are orthogonal and may
// combine.
type Flags struct {
	Ignore       bool
	IgnoreReason string
	Todo         bool
	WarningTodo  bool
}

// Descriptor is the resolved configuration of one case.
type Descriptor struct {
	// Dir is the case directory on disk.
	Dir string

	// Input is the stylesheet file name inside Dir.
	// Empty for ignored cases.
	Input string

	// Kind selects output or error matching.
	Kind Kind

	// ExpectationFile is the file Expected was read from.
	ExpectationFile string

	// Expected is the expected stdout (KindOutput) or error text (KindError).
	Expected string

	// Warnings is the expected warning list. Nil means warnings are not
	// checked; an empty list expects no warnings.
	Warnings []string

	Flags Flags
}

// Resolve reads the descriptor of the case in dir for implementation impl,
// considering only dir's own options file.
func Resolve(dir, impl string) (*Descriptor, error) {
	return ResolveWithin(dir, dir, impl)
}

// ResolveWithin reads the descriptor of the case in dir, inheriting options
// files from root (a materialized spec root) down to dir.
func ResolveWithin(root, dir, impl string) (*Descriptor, error) {
	return Scope{Root: root}.Resolve(dir, impl)
}

// Scope places a materialized directory inside its archive.
type Scope struct {
	// Root is the materialized directory.
	Root string

	// Path is the slash-separated archive path Root was materialized from.
	// Empty for the archive root.
	Path string

	// Base holds the options inherited from the ancestors of Path. Nil
	// means none.
	Base *Options
}

// Resolve reads the descriptor of the case in dir, a descendant of s.Root.
// Options are inherited from s.Base, then from the options files between
// s.Root and dir.
func (s Scope) Resolve(dir, impl string) (*Descriptor, error) {
	base := s.Base
	if base == nil {
		base = newOptions()
	}
	opts, err := inheritOptions(base, s.Root, dir)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{
		Dir: dir,
		Flags: Flags{
			Todo:        opts.Todo.Includes(impl),
			WarningTodo: opts.WarningTodo.Includes(impl),
		},
	}

	switch {
	case opts.IgnoreFor.Includes(impl):
		d.Flags.Ignore = true
		d.Flags.IgnoreReason = fmt.Sprintf("ignored for %s", impl)
		if opts.Ignore != "" {
			d.Flags.IgnoreReason = opts.Ignore
		}
	case opts.Ignore != "":
		d.Flags.Ignore = true
		d.Flags.IgnoreReason = opts.Ignore
	}
	if d.Flags.Ignore {
		return d, nil
	}

	d.Input, err = findInput(dir)
	if err != nil {
		return nil, err
	}

	d.Kind, d.ExpectationFile, err = chooseExpectation(dir, impl, underErrorBranch(s.archivePath(dir)))
	if err != nil {
		return nil, err
	}
	expected, err := os.ReadFile(filepath.Join(dir, d.ExpectationFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", d.ExpectationFile, err)
	}
	d.Expected = string(expected)

	d.Warnings, err = expectedWarnings(dir, impl, opts)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func findInput(dir string) (string, error) {
	for _, name := range InputFiles {
		if exists(filepath.Join(dir, name)) {
			return name, nil
		}
	}
	return "", &ResolveError{
		Code:    ErrCodeMissingInput,
		Message: fmt.Sprintf("no input file (%s)", strings.Join(InputFiles, " or ")),
		Dir:     dir,
	}
}

// chooseExpectation applies the expectation priority explicitly:
// implementation-specific files first, then generic files. Within a level
// exactly one kind may be present.
//
// preferError only orders the lookup and the diagnostic; files decide.
func chooseExpectation(dir, impl string, preferError bool) (Kind, string, error) {
	kind, file, err := pickExpectation(dir, "output-"+impl+".css", "error-"+impl, preferError)
	if file != "" || err != nil {
		return kind, file, err
	}

	kind, file, err = pickExpectation(dir, OutputFile, ErrorFile, preferError)
	if err != nil {
		return 0, "", err
	}
	if file == "" {
		first, second := OutputFile, ErrorFile
		if preferError {
			first, second = second, first
		}
		msg := fmt.Sprintf("neither %s nor %s exists", first, second)
		if preferError {
			msg += " (case is under an error directory)"
		}
		return 0, "", &ResolveError{Code: ErrCodeAmbiguousExpectation, Message: msg, Dir: dir}
	}
	return kind, file, nil
}

// pickExpectation returns the single present file of the pair, an empty
// file name when neither is present, or an error when both are.
func pickExpectation(dir, outputFile, errorFile string, preferError bool) (Kind, string, error) {
	type candidate struct {
		kind Kind
		file string
	}
	candidates := []candidate{{KindOutput, outputFile}, {KindError, errorFile}}
	if preferError {
		candidates[0], candidates[1] = candidates[1], candidates[0]
	}

	var found []candidate
	for _, c := range candidates {
		if exists(filepath.Join(dir, c.file)) {
			found = append(found, c)
		}
	}

	switch len(found) {
	case 0:
		return 0, "", nil
	case 1:
		return found[0].kind, found[0].file, nil
	}
	return 0, "", &ResolveError{
		Code:    ErrCodeAmbiguousExpectation,
		Message: fmt.Sprintf("both %s and %s exist", found[0].file, found[1].file),
		Dir:     dir,
	}
}

// archivePath returns the archive path of dir.
func (s Scope) archivePath(dir string) string {
	rel, err := filepath.Rel(s.Root, dir)
	if err != nil || rel == "." {
		return s.Path
	}
	return hrx.Join(s.Path, filepath.ToSlash(rel))
}

// underErrorBranch reports whether a case path has a directory named "error".
func underErrorBranch(casePath string) bool {
	for _, seg := range strings.Split(casePath, "/") {
		if seg == "error" {
			return true
		}
	}
	return false
}

func expectedWarnings(dir, impl string, opts *Options) ([]string, error) {
	if opts.Has(KeyExpectedWarnings) {
		return opts.ExpectedWarnings, nil
	}
	for _, name := range []string{WarningFile + "-" + impl, WarningFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return SplitWarnings(string(data)), nil
	}
	return nil, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
