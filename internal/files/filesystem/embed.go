package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// EmbedFileSystem implements FileSystemProvider over any fs.FS, typically an
// embed.FS. The fs.FS sub-tree at root is presented as the absolute
// directory "/", so searches run against paths such as "/subdir/file.txt".
// fs.FS has no notion of links; Lstat and Stat behave the same.
type EmbedFileSystem struct {
	fsys fs.FS
	root string // root path within the fs.FS (always uses forward slashes)
}

// NewEmbedFileSystem creates a new filesystem provider wrapping fsys.
// The root parameter specifies the subdirectory within fsys to treat as "/".
func NewEmbedFileSystem(fsys fs.FS, root string) *EmbedFileSystem {
	root = path.Clean(strings.ReplaceAll(root, "\\", "/"))
	root = strings.TrimPrefix(root, "/")
	if root == "" {
		root = "."
	}
	return &EmbedFileSystem{
		fsys: fsys,
		root: root,
	}
}

// fsPath maps an absolute virtual path onto a valid fs.FS name.
func (efs *EmbedFileSystem) fsPath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		return "", &fs.PathError{Op: "open", Path: p, Err: fmt.Errorf("path must be absolute: %w", fs.ErrInvalid)}
	}
	rel := strings.TrimPrefix(path.Clean(p), "/")
	if rel == "" {
		return efs.root, nil
	}
	return path.Join(efs.root, rel), nil
}

// ReadDir implements FileSystemProvider.ReadDir
func (efs *EmbedFileSystem) ReadDir(dirPath string) ([]FileInfo, error) {
	name, err := efs.fsPath(dirPath)
	if err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(efs.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}

	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), err)
		}
		result = append(result, &nativeFileInfo{name: info.Name(), st: *NativeStatOf(info)})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})

	return result, nil
}

// Stat implements FileSystemProvider.Stat
func (efs *EmbedFileSystem) Stat(statPath string) (FileInfo, error) {
	name, err := efs.fsPath(statPath)
	if err != nil {
		return nil, err
	}

	info, err := fs.Stat(efs.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %s: %w", statPath, err)
	}

	return &nativeFileInfo{name: path.Base(path.Clean("/" + statPath)), st: *NativeStatOf(info)}, nil
}

// Lstat implements FileSystemProvider.Lstat
func (efs *EmbedFileSystem) Lstat(statPath string) (FileInfo, error) {
	return efs.Stat(statPath)
}

// Verify EmbedFileSystem implements the interface at compile time
var _ FileSystemProvider = (*EmbedFileSystem)(nil)
