package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pjeweb/sass-spec/internal/config"
	"github.com/pjeweb/sass-spec/internal/harness"
	"github.com/pjeweb/sass-spec/internal/hrx"
	"github.com/pjeweb/sass-spec/internal/spec"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	ConfigFile     string
	Implementation string
}

// CaseListing describes one case as resolved for an implementation.
type CaseListing struct {
	Path  string   `json:"path"`
	Kind  string   `json:"kind,omitempty"`
	Flags []string `json:"flags,omitempty"`
	Error string   `json:"error,omitempty"`
}

// CaseList is the payload of the list command.
type CaseList struct {
	Implementation string        `json:"implementation"`
	Cases          []CaseListing `json:"cases"`
}

// String renders one line per case: path, kind, and flags.
func (l CaseList) String() string {
	var sb strings.Builder
	for _, c := range l.Cases {
		sb.WriteString(c.Path)
		switch {
		case c.Error != "":
			fmt.Fprintf(&sb, "  invalid: %s", c.Error)
		case c.Kind != "":
			sb.WriteString("  " + c.Kind)
		}
		if len(c.Flags) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(c.Flags, ", "))
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%d cases", len(l.Cases))
	return sb.String()
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list <archive[/subpath]>",
		Short: "List cases with their expectation kind and flags",
		Long: `List every case beneath an archive path as resolved for an implementation.

Each line shows the case path, whether it expects output or an error, and
the ignore, todo, and warning_todo flags that apply.

Example:
  sass-spec list spec/core_functions/color.hrx --impl libsass`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigFile, "config", "", "configuration file (.cue, .yaml, .yml)")
	cmd.Flags().StringVar(&opts.Implementation, "impl", "", "implementation name used for options and expectations")

	return cmd
}

func runList(opts *ListOptions, p string, cmd *cobra.Command) (err error) {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	if cmd.Flags().Changed("impl") {
		cfg.Implementation = opts.Implementation
	}

	cache, err := hrx.NewCache(1)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to create archive cache", err)
	}
	target, err := openTarget(cache, p)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArchive, "failed to open archive", err)
	}

	m, err := hrx.Materialize(target.Entry, cfg.TempDir)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to materialize archive", err)
	}
	defer func() {
		if cleanupErr := m.Cleanup(); cleanupErr != nil && err == nil {
			err = WrapExitError(ExitCommandError, "cleanup failed", cleanupErr)
		}
	}()

	base, baseErr := spec.AncestorOptions(target.Entry)
	scope := spec.Scope{Root: m.Root, Path: target.Entry.Path(), Base: base}

	list := CaseList{Implementation: cfg.Implementation, Cases: []CaseListing{}}
	for _, rel := range harness.CaseDirs(target.Entry) {
		listing := CaseListing{Path: target.casePath(hrx.Join(target.Entry.Path(), rel))}
		if baseErr != nil {
			listing.Error = baseErr.Error()
			list.Cases = append(list.Cases, listing)
			continue
		}
		d, err := scope.Resolve(m.Dir(rel), cfg.Implementation)
		if err != nil {
			listing.Error = err.Error()
			list.Cases = append(list.Cases, listing)
			continue
		}
		if !d.Flags.Ignore {
			listing.Kind = d.Kind.String()
		}
		listing.Flags = flagNames(d.Flags)
		list.Cases = append(list.Cases, listing)
	}

	return formatter.Success(list)
}

func flagNames(f spec.Flags) []string {
	var names []string
	if f.Ignore {
		names = append(names, "ignore: "+f.IgnoreReason)
	}
	if f.Todo {
		names = append(names, spec.KeyTodo)
	}
	if f.WarningTodo {
		names = append(names, spec.KeyWarningTodo)
	}
	return names
}
