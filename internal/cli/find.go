package cli

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vvka-141/recls/internal/files/filesystem"
	"github.com/vvka-141/recls/internal/search"
	"github.com/vvka-141/recls/internal/tui"
	"github.com/vvka-141/recls/pkg/recls"
)

func newFindCmd() *cobra.Command {
	var (
		showProgress bool
		archive      string
	)
	cmd := &cobra.Command{
		Use:   "find [root] [pattern]",
		Short: "Search a local directory tree",
		Long: `Search a local directory tree for entries whose names match pattern.

The root defaults to the working directory and the pattern to every entry.
Files are reported unless --dirs, --links or --devices select other types.
With --archive the search runs inside a zip file, whose top level is "/".`,
		Example: `  recls find ~/src "*.go|*.mod" -r
  recls find . "*_test.go" -r -o long
  recls find /etc "*.conf" -r --flag stop-on-access-failure
  recls find / "*.md" -r --archive release.zip`,
		Args: cobra.MaximumNArgs(2),
	}
	sf := bindSearchFlags(cmd,
		flagRecursive, flagFiles, flagDirectories, flagLinks, flagDevices,
		flagMarkDirs, flagHidden, flagNoFollow, flagReparse, flagStopOnDenied,
	)
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show live progress on an interactive terminal")
	cmd.Flags().StringVar(&archive, "archive", "", "Search inside a zip archive instead of the local disk")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runFind(cmd, sf, showProgress, archive, args)
	}
	return cmd
}

func runFind(cmd *cobra.Command, sf *searchFlags, showProgress bool, archive string, args []string) error {
	cfg, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}
	base, err := cfg.DefaultFlags()
	if err != nil {
		return fmt.Errorf("%w: %v", recls.ErrInvalidConfig, err)
	}
	flags, err := sf.resolve(cmd, base)
	if err != nil {
		return err
	}
	out, err := newEntryWriter(sf.outputFormat(cmd, cfg.Find.Format), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	root, pattern := targetArgs(args, cfg.Find.Pattern)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd)
	engine := engineFactory(logger)
	if archive != "" {
		zr, err := zip.OpenReader(archive)
		if err != nil {
			return fmt.Errorf("open archive %s: %v: %w", archive, err, recls.ErrDirectoryNotFound)
		}
		defer zr.Close()
		engine = archiveEngine(logger, zr)
	}

	display := startDisplay(cmd, showProgress)
	h, err := engine.SearchWithProgress(root, pattern, flags, progressFunc(ctx, display))
	if err == nil {
		err = drain(ctx, h, out, display)
	}
	display.Finish(err)
	return describeSearchError(err, root, pattern)
}

// archiveEngine searches the contents of fsys. A missing root means the
// archive's top level.
func archiveEngine(logger recls.Logger, fsys fs.FS) *search.Engine {
	return search.New(
		search.WithFileSystem(filesystem.NewEmbedFileSystem(fsys, ".")),
		search.WithEnvironment(search.FixedEnvironment{Home: "/", Wd: "/"}),
		search.WithLogger(logger),
	)
}

// targetArgs returns the search root and pattern from [root] [pattern].
func targetArgs(args []string, configured string) (string, recls.Pattern) {
	var root string
	pattern := recls.MatchAll
	if configured != "" {
		pattern = recls.Match(configured)
	}
	if len(args) > 0 {
		root = args[0]
	}
	if len(args) > 1 {
		pattern = recls.Match(args[1])
	}
	return root, pattern
}

func startDisplay(cmd *cobra.Command, enabled bool) *tui.Progress {
	interactive := enabled && tui.IsInteractive()
	return tui.StartProgress(cmd.ErrOrStderr(), interactive, tui.TerminalWidth(int(os.Stderr.Fd()), 80))
}

// progressFunc cancels the traversal once ctx is done, which is how an
// interrupt reaches a search that is busy listing directories.
func progressFunc(ctx context.Context, display *tui.Progress) recls.ProgressFunc {
	return func(dir string, depth int) recls.Control {
		if ctx.Err() != nil {
			return recls.Cancel
		}
		display.Directory(dir, depth)
		return recls.Continue
	}
}

// drain writes every remaining match of h and closes it.
func drain(ctx context.Context, h *search.Handle, out entryWriter, display *tui.Progress) error {
	defer h.Close()

	err := func() error {
		for {
			if ctx.Err() != nil {
				return fmt.Errorf("interrupted: %w", recls.ErrUserCancelledSearch)
			}
			entry, err := h.Details()
			if err != nil {
				return err
			}
			werr := out.Write(entry)
			entry.Close()
			if werr != nil {
				return werr
			}
			display.Match()

			if err := h.Advance(); err != nil {
				if errors.Is(err, recls.ErrNoMoreData) {
					return nil
				}
				return err
			}
		}
	}()

	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	return err
}

func describeSearchError(err error, root string, pattern recls.Pattern) error {
	if errors.Is(err, recls.ErrNoMoreData) {
		if root == "" {
			root = "."
		}
		return fmt.Errorf("nothing matches %s under %s: %w", pattern, root, recls.ErrNoMoreData)
	}
	return err
}
