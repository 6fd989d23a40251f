package filesystem

import (
	"io/fs"
	"time"

	"github.com/vvka-141/recls/pkg/recls"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// Providers in this package return values whose Sys() is a *recls.NativeStat.
type FileInfo = fs.FileInfo

// FileSystemProvider is the raw enumeration primitive the search engine
// consumes: list one directory, stat one path.
//
// Errors wrap fs.ErrNotExist, fs.ErrPermission or fs.ErrInvalid so callers
// can classify them with errors.Is.
type FileSystemProvider interface {
	// ReadDir returns the immediate children of path, sorted by name.
	// "." and ".." are never included. Children are described without
	// following symbolic links.
	ReadDir(path string) ([]FileInfo, error)

	// Stat describes path, following symbolic links.
	Stat(path string) (FileInfo, error)

	// Lstat describes path without following a final symbolic link.
	Lstat(path string) (FileInfo, error)
}

// NativeStatOf returns the native metadata carried by info. Infos that did
// not come from a provider in this package are converted from their
// portable fields.
func NativeStatOf(info FileInfo) *recls.NativeStat {
	if info == nil {
		return nil
	}
	if st, ok := info.Sys().(*recls.NativeStat); ok && st != nil {
		cp := *st
		return &cp
	}
	return &recls.NativeStat{
		Mode:       info.Mode(),
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		AccessTime: info.ModTime(),
		ChangeTime: info.ModTime(),
	}
}

// nativeFileInfo adapts a recls.NativeStat to fs.FileInfo.
type nativeFileInfo struct {
	name string
	st   recls.NativeStat
}

func (f *nativeFileInfo) Name() string       { return f.name }
func (f *nativeFileInfo) Size() int64        { return f.st.Size }
func (f *nativeFileInfo) Mode() fs.FileMode  { return f.st.Mode }
func (f *nativeFileInfo) ModTime() time.Time { return f.st.ModTime }
func (f *nativeFileInfo) IsDir() bool        { return f.st.Mode.IsDir() }
func (f *nativeFileInfo) Sys() interface{}   { return &f.st }
