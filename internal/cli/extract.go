package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pjeweb/sass-spec/internal/hrx"
)

// ExtractResult is the JSON payload of the extract command.
type ExtractResult struct {
	Archive string `json:"archive"`
	Path    string `json:"path"`
	Dest    string `json:"dest"`
	Files   int    `json:"files"`
}

// ExtractOptions holds flags for the extract command.
type ExtractOptions struct {
	*RootOptions
	HRX bool
}

func (r ExtractResult) String() string {
	return fmt.Sprintf("Extracted %d file(s) to %s", r.Files, r.Dest)
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExtractOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "extract <archive[/subpath]> <dest>",
		Short: "Write an archive subtree to a directory",
		Long: `Write the files beneath an archive path into dest, creating it if needed.
Existing files with the same names are overwritten.

With --hrx, dest is a file and the subtree is written to it as a new
archive whose paths are relative to the subtree.

Examples:
  sass-spec extract spec/core_functions/color.hrx/rgb ./rgb
  sass-spec extract spec/core_functions/color.hrx/rgb rgb.hrx --hrx`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.HRX, "hrx", false, "write a single archive file instead of a directory")

	return cmd
}

func runExtract(opts *ExtractOptions, p, dest string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cache, err := hrx.NewCache(1)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to create archive cache", err)
	}
	target, err := openTarget(cache, p)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArchive, "failed to open archive", err)
	}

	if err := writeExtract(target.Entry, dest, opts.HRX); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to extract", err)
	}

	files := 0
	_ = hrx.Walk(target.Entry, func(e *hrx.Entry) error {
		if !e.IsDir() {
			files++
		}
		return nil
	})
	formatter.VerboseLog("Wrote %s from %s", target.casePath(target.Entry.Path()), target.Archive)

	return formatter.Success(ExtractResult{
		Archive: target.Archive,
		Path:    target.Entry.Path(),
		Dest:    dest,
		Files:   files,
	})
}

func writeExtract(entry *hrx.Entry, dest string, asArchive bool) error {
	if !asArchive {
		if err := os.MkdirAll(dest, 0755); err != nil {
			return fmt.Errorf("create destination: %w", err)
		}
		return hrx.WriteTo(entry, dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	return os.WriteFile(dest, hrx.Encode(entry), 0644)
}
