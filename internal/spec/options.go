package spec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pjeweb/sass-spec/internal/hrx"
)

// OptionsFile is the name of the per-directory options file.
const OptionsFile = "options.yml"

// Option keys, without the optional leading colon.
const (
	KeyTodo             = "todo"
	KeyWarningTodo      = "warning_todo"
	KeyIgnoreFor        = "ignore_for"
	KeyIgnore           = "ignore"
	KeyExpectedWarnings = "expected_warnings"
)

// ImplSet selects implementations a flag applies to.
// It is decoded from true/false, a single name, or a list of names.
type ImplSet struct {
	All   bool
	Names []string
}

// Includes reports whether the set applies to impl.
func (s ImplSet) Includes(impl string) bool {
	return s.All || slices.Contains(s.Names, impl)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *ImplSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!bool" {
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			*s = ImplSet{All: b}
			return nil
		}
		if node.Tag == "!!null" {
			*s = ImplSet{}
			return nil
		}
		*s = ImplSet{Names: []string{node.Value}}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*s = ImplSet{Names: names}
		return nil
	}
	return fmt.Errorf("line %d: expected true, an implementation name, or a list of names", node.Line)
}

// Options holds the flags read from options files.
type Options struct {
	Todo        ImplSet
	WarningTodo ImplSet
	IgnoreFor   ImplSet

	// Ignore is a free-form reason; a non-empty value ignores the case for
	// every implementation.
	Ignore string

	// ExpectedWarnings, when non-nil, is the authoritative warning list.
	ExpectedWarnings []string

	// present records which keys were set, for inheritance.
	present map[string]bool
}

// Has reports whether key was set explicitly.
func (o *Options) Has(key string) bool {
	return o.present[key]
}

// ParseOptions parses the contents of an options file.
// Unknown keys are rejected so typos do not silently change a case.
func ParseOptions(data []byte) (*Options, error) {
	opts := newOptions()

	var doc yaml.Node
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return opts, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return opts, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return opts, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: options must be a mapping", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		key := strings.TrimPrefix(keyNode.Value, ":")
		if opts.present[key] {
			return nil, fmt.Errorf("line %d: duplicate option %q", keyNode.Line, key)
		}

		var err error
		switch key {
		case KeyTodo:
			err = valNode.Decode(&opts.Todo)
		case KeyWarningTodo:
			err = valNode.Decode(&opts.WarningTodo)
		case KeyIgnoreFor:
			err = valNode.Decode(&opts.IgnoreFor)
		case KeyIgnore:
			err = valNode.Decode(&opts.Ignore)
		case KeyExpectedWarnings:
			opts.ExpectedWarnings = []string{}
			err = valNode.Decode(&opts.ExpectedWarnings)
		default:
			return nil, fmt.Errorf("line %d: unknown option %q", keyNode.Line, keyNode.Value)
		}
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", key, err)
		}
		opts.present[key] = true
	}

	return opts, nil
}

// ReadOptions reads the options file in dir.
// A missing file yields empty options.
func ReadOptions(dir string) (*Options, error) {
	path := filepath.Join(dir, OptionsFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return newOptions(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}

	opts, err := ParseOptions(data)
	if err != nil {
		return nil, &ResolveError{
			Code:    ErrCodeInvalidOptions,
			Message: fmt.Sprintf("%s: %v", OptionsFile, err),
			Dir:     dir,
		}
	}
	return opts, nil
}

// Inherit returns options where every key not set in o is taken from parent.
func (o *Options) Inherit(parent *Options) *Options {
	merged := newOptions()
	pick := func(key string) *Options {
		if o.present[key] {
			merged.present[key] = true
			return o
		}
		if parent.present[key] {
			merged.present[key] = true
		}
		return parent
	}

	merged.Todo = pick(KeyTodo).Todo
	merged.WarningTodo = pick(KeyWarningTodo).WarningTodo
	merged.IgnoreFor = pick(KeyIgnoreFor).IgnoreFor
	merged.Ignore = pick(KeyIgnore).Ignore
	merged.ExpectedWarnings = pick(KeyExpectedWarnings).ExpectedWarnings
	return merged
}

// ReadInheritedOptions merges options files from root down to dir.
// dir must be root or a descendant of it.
func ReadInheritedOptions(root, dir string) (*Options, error) {
	return inheritOptions(newOptions(), root, dir)
}

func inheritOptions(base *Options, root, dir string) (*Options, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("case directory %s is outside %s", dir, root)
	}

	dirs := []string{root}
	if rel != "." {
		cur := root
		for _, seg := range strings.Split(rel, string(filepath.Separator)) {
			cur = filepath.Join(cur, seg)
			dirs = append(dirs, cur)
		}
	}

	merged := base
	for _, d := range dirs {
		opts, err := ReadOptions(d)
		if err != nil {
			return nil, err
		}
		merged = opts.Inherit(merged)
	}
	return merged, nil
}

// AncestorOptions merges the options files of the directories above entry
// in its archive, from the archive root down to entry's parent. entry's own
// options file is not included.
func AncestorOptions(entry *hrx.Entry) (*Options, error) {
	var chain []*hrx.Entry
	for p := entry.Parent(); p != nil; p = p.Parent() {
		chain = append(chain, p)
	}

	merged := newOptions()
	for i := len(chain) - 1; i >= 0; i-- {
		data, ok := chain[i].File(OptionsFile)
		if !ok {
			continue
		}
		opts, err := ParseOptions(data)
		if err != nil {
			return nil, &ResolveError{
				Code:    ErrCodeInvalidOptions,
				Message: fmt.Sprintf("%s: %v", OptionsFile, err),
				Dir:     hrx.Join(chain[i].Path(), OptionsFile),
			}
		}
		merged = opts.Inherit(merged)
	}
	return merged, nil
}

func newOptions() *Options {
	return &Options{present: make(map[string]bool)}
}
