package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vvka-141/recls/pkg/recls"
)

const maxSymlinkHops = 40

// memoryNode is one file, directory or symbolic link.
type memoryNode struct {
	info    nativeFileInfo
	content []byte
	target  string // symlink target, as written
	denied  bool   // ReadDir fails with fs.ErrPermission
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// Paths use forward slashes; relative paths are resolved against the root
// given to NewMemoryFileSystem. Safe for concurrent use.
type MemoryFileSystem struct {
	mu        sync.RWMutex
	nodes     map[string]*memoryNode // map of absolute path -> node
	root      string
	nextInode uint64
	clock     time.Time
}

// NewMemoryFileSystem creates a new in-memory filesystem.
// The root path is normalized to use forward slashes for virtual filesystem consistency.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))
	if !path.IsAbs(root) {
		root = "/" + root
	}

	mfs := &MemoryFileSystem{
		nodes: make(map[string]*memoryNode),
		root:  root,
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	mfs.mkdirAll(root)

	return mfs
}

// Root returns the directory relative paths are resolved against.
func (mfs *MemoryFileSystem) Root() string { return mfs.root }

// AddFile adds a file to the in-memory filesystem, creating parent directories.
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	mfs.AddFileWithTime(filePath, content, time.Time{})
}

// AddFileWithTime adds a file with a specific modification time.
// A zero time uses the filesystem's internal clock.
func (mfs *MemoryFileSystem) AddFileWithTime(filePath string, content string, modTime time.Time) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	absPath := mfs.abs(filePath)
	mfs.mkdirAll(path.Dir(absPath))
	node := mfs.newNode(absPath, 0o644, modTime)
	node.content = []byte(content)
	node.info.st.Size = int64(len(node.content))
	mfs.nodes[absPath] = node
}

// AddDir adds an empty directory, creating parents as needed.
func (mfs *MemoryFileSystem) AddDir(dirPath string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	mfs.mkdirAll(mfs.abs(dirPath))
}

// AddSymlink adds a symbolic link at linkPath pointing to target.
// Relative targets are resolved against the link's directory.
func (mfs *MemoryFileSystem) AddSymlink(linkPath, target string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	absPath := mfs.abs(linkPath)
	mfs.mkdirAll(path.Dir(absPath))
	node := mfs.newNode(absPath, fs.ModeSymlink|0o777, time.Time{})
	node.target = filepath.ToSlash(target)
	node.info.st.Size = int64(len(node.target))
	mfs.nodes[absPath] = node
}

// Deny makes listings of dirPath fail with a permission error.
func (mfs *MemoryFileSystem) Deny(dirPath string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	if node, ok := mfs.nodes[mfs.abs(dirPath)]; ok {
		node.denied = true
	}
}

// ReadFile returns the content of a regular file.
func (mfs *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	absPath, node, err := mfs.resolve(mfs.abs(filePath), true)
	if err != nil {
		return nil, err
	}
	if node.info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: absPath, Err: fs.ErrInvalid}
	}
	return node.content, nil
}

// ReadDir implements FileSystemProvider.ReadDir
func (mfs *MemoryFileSystem) ReadDir(dirPath string) ([]FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	absPath, node, err := mfs.resolve(mfs.abs(dirPath), true)
	if err != nil {
		return nil, err
	}
	if !node.info.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: dirPath, Err: fmt.Errorf("not a directory: %w", fs.ErrInvalid)}
	}
	if node.denied {
		return nil, &fs.PathError{Op: "readdir", Path: dirPath, Err: fs.ErrPermission}
	}

	var result []FileInfo
	for p, child := range mfs.nodes {
		if p != absPath && path.Dir(p) == absPath {
			info := child.info
			result = append(result, &info)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})

	return result, nil
}

// Stat implements FileSystemProvider.Stat
func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	absPath := mfs.abs(statPath)
	_, node, err := mfs.resolve(absPath, true)
	if err != nil {
		return nil, err
	}
	info := node.info
	info.name = path.Base(absPath)
	return &info, nil
}

// Lstat implements FileSystemProvider.Lstat
func (mfs *MemoryFileSystem) Lstat(statPath string) (FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	_, node, err := mfs.resolve(mfs.abs(statPath), false)
	if err != nil {
		return nil, err
	}
	info := node.info
	return &info, nil
}

// abs normalizes p to a clean absolute slash path.
func (mfs *MemoryFileSystem) abs(p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return mfs.root
	}
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

// resolve looks up p, following symbolic links in every component, and in
// the final one only when follow is set.
func (mfs *MemoryFileSystem) resolve(p string, follow bool) (string, *memoryNode, error) {
	hops := 0
	for {
		resolved, err := mfs.resolveParents(p, &hops)
		if err != nil {
			return "", nil, err
		}
		node, ok := mfs.nodes[resolved]
		if !ok {
			return "", nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
		}
		if !follow || node.target == "" {
			return resolved, node, nil
		}
		if hops++; hops > maxSymlinkHops {
			return "", nil, &fs.PathError{Op: "stat", Path: p, Err: fmt.Errorf("too many levels of symbolic links: %w", fs.ErrInvalid)}
		}
		p = mfs.linkTarget(resolved, node.target)
	}
}

// resolveParents follows symbolic links in the directory components of p.
func (mfs *MemoryFileSystem) resolveParents(p string, hops *int) (string, error) {
	if p == "/" {
		return p, nil
	}
	dir, name := path.Split(p)
	dir = path.Clean(dir)
	for {
		node, ok := mfs.nodes[dir]
		if !ok {
			if dir == "/" {
				break
			}
			parent, err := mfs.resolveParents(dir, hops)
			if err != nil {
				return "", err
			}
			if parent == dir {
				return "", &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
			}
			dir = parent
			continue
		}
		if node.target == "" {
			break
		}
		if *hops++; *hops > maxSymlinkHops {
			return "", &fs.PathError{Op: "stat", Path: p, Err: fmt.Errorf("too many levels of symbolic links: %w", fs.ErrInvalid)}
		}
		dir = mfs.linkTarget(dir, node.target)
	}
	return path.Join(dir, name), nil
}

func (mfs *MemoryFileSystem) linkTarget(linkPath, target string) string {
	if path.IsAbs(target) {
		return path.Clean(target)
	}
	return path.Join(path.Dir(linkPath), target)
}

// mkdirAll creates directory entries for p and all its parents.
// Callers hold the write lock (or are the constructor).
func (mfs *MemoryFileSystem) mkdirAll(p string) {
	for {
		if _, exists := mfs.nodes[p]; exists {
			return
		}
		node := mfs.newNode(p, fs.ModeDir|0o755, time.Time{})
		node.info.st.Links = 2
		mfs.nodes[p] = node
		parent := path.Dir(p)
		if parent == p {
			return
		}
		p = parent
	}
}

func (mfs *MemoryFileSystem) newNode(p string, mode fs.FileMode, modTime time.Time) *memoryNode {
	if modTime.IsZero() {
		mfs.clock = mfs.clock.Add(time.Second)
		modTime = mfs.clock
	}
	mfs.nextInode++
	return &memoryNode{
		info: nativeFileInfo{
			name: path.Base(p),
			st: recls.NativeStat{
				Mode:       mode,
				ModTime:    modTime,
				AccessTime: modTime,
				ChangeTime: modTime,
				BirthTime:  modTime,
				Links:      1,
				Inode:      mfs.nextInode,
				Device:     1,
			},
		},
	}
}

// Verify MemoryFileSystem implements the interface at compile time
var _ FileSystemProvider = (*MemoryFileSystem)(nil)
