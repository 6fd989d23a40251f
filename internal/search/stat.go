package search

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/vvka-141/recls/internal/files/filesystem"
	"github.com/vvka-141/recls/pkg/recls"
)

// Stat describes a single path as an Entry whose search directory is the
// path's parent.
//
// A missing path yields ErrNoMoreData, unless DetailsLater is given with
// a type flag: then a placeholder entry is returned as long as the parent
// directory exists, and ErrDirectoryNotFound otherwise.
func (e *Engine) Stat(path string, flags recls.Flags) (entry *recls.Entry, err error) {
	defer recoverBoundary(e.logger, &err)

	if path == "" {
		return nil, fmt.Errorf("stat: empty path: %w", recls.ErrInvalidName)
	}

	be := e.local()
	syntax := be.syntax()
	if syntax.hasHomeMarker(path) {
		home, err := be.HomeDir()
		if err != nil || home == "" {
			return nil, fmt.Errorf("expand %q: %v: %w", path, err, recls.ErrNoHome)
		}
		path, _ = syntax.expandHome(path, home)
	}
	path = syntax.canonical(path)
	if !syntax.isAbs(path) {
		wd, err := be.Getwd()
		if err != nil || wd == "" {
			return nil, fmt.Errorf("resolve %q: %v: %w", path, err, recls.ErrNoHome)
		}
		path = syntax.join(wd, path)
	}
	path = syntax.clean(path)

	var info filesystem.FileInfo
	if flags.Has(recls.NoFollowLinks) {
		info, err = be.Lstat(path)
	} else {
		info, err = be.Stat(path)
	}

	dir, name := syntax.split(path)
	src := recls.EntrySource{
		RootDirLen:      len(dir),
		SearchDirectory: dir,
		Path:            path,
		FileName:        name,
		Separator:       syntax.sep,
		Flags:           flags,
	}

	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("stat %s: %w", path, recls.ErrAccessDenied)
		}
		if !flags.Has(recls.DetailsLater) {
			return nil, recls.ErrNoMoreData
		}
		if !flags.Any(recls.Files | recls.Directories) {
			return nil, recls.ErrNoMoreData
		}
		parent, perr := be.Stat(syntax.clean(dir))
		if perr != nil || !parent.IsDir() {
			return nil, fmt.Errorf("stat %s: parent %s: %w", path, dir, recls.ErrDirectoryNotFound)
		}
		return recls.BuildEntry(src)
	}

	switch flags & (recls.Files | recls.Directories) {
	case recls.Files:
		if info.IsDir() {
			return nil, fmt.Errorf("stat %s: %w", path, recls.ErrEntryIsDirectory)
		}
	case recls.Directories:
		if !info.IsDir() {
			return nil, fmt.Errorf("stat %s: %w", path, recls.ErrEntryIsNotDirectory)
		}
	}

	src.Stat = filesystem.NativeStatOf(info)
	return recls.BuildEntry(src)
}
