package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/karrick/godirwalk"
)

// OSFileSystem implements FileSystemProvider for the OS filesystem.
// Directory listings come from godirwalk; per-entry metadata from the
// platform stat call (statx on Linux).
// OSFileSystem is stateless and safe for concurrent use.
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS filesystem provider.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (p *OSFileSystem) ReadDir(path string) ([]FileInfo, error) {
	dirents, err := godirwalk.ReadDirents(path, nil)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: unwrapPathError(err)}
	}
	sort.Sort(dirents)

	result := make([]FileInfo, 0, len(dirents))
	for _, de := range dirents {
		info, err := statPath(filepath.Join(path, de.Name()), false)
		if err != nil {
			// Removed between listing and stat.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		result = append(result, info)
	}

	return result, nil
}

func (p *OSFileSystem) Stat(path string) (FileInfo, error) {
	return statPath(path, true)
}

func (p *OSFileSystem) Lstat(path string) (FileInfo, error) {
	return statPath(path, false)
}

// unwrapPathError strips an *fs.PathError so the caller can re-wrap it
// with its own operation name.
func unwrapPathError(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

// Verify OSFileSystem implements the interface at compile time
var _ FileSystemProvider = (*OSFileSystem)(nil)
