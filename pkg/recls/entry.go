package recls

import (
	"io/fs"
	"strings"
	"sync/atomic"
	"time"
)

// Process-wide diagnostics, not part of any correctness contract.
var (
	allocatedBlocks atomic.Int64
	sharedBlocks    atomic.Int64
)

// Diagnostics reports how many entries are currently alive and how many of
// those are held by more than one owner.
func Diagnostics() (allocated, shared int64) {
	return allocatedBlocks.Load(), sharedBlocks.Load()
}

// span is a [start,end) range into Entry.path.
type span struct {
	start, end int
}

// Entry describes one file-system object found by a search or a stat.
//
// Entries are immutable and reference counted: the creator holds one
// reference, every Copy adds one, every Close drops one. Entries may be
// handed to other goroutines; Copy and Close are safe for concurrent use.
type Entry struct {
	refs atomic.Int32

	path      string
	sep       byte
	dirStart  int // end of the drive designator
	nameStart int
	nameEnd   int // excludes the MarkDirs separator
	extStart  int
	parts     []span

	searchDir   string
	relPath     string
	numRelParts int

	mode   fs.FileMode
	size   int64
	btime  time.Time
	mtime  time.Time
	atime  time.Time
	ctime  time.Time
	links  uint64
	node   uint64
	device uint64

	placeholder bool
}

func newEntry() *Entry {
	e := &Entry{}
	e.refs.Store(1)
	allocatedBlocks.Add(1)
	return e
}

// Copy adds a reference and returns the same entry. Copy of nil is nil.
func (e *Entry) Copy() *Entry {
	if e == nil {
		return nil
	}
	if e.refs.Add(1) == 2 {
		sharedBlocks.Add(1)
	}
	return e
}

// Close drops a reference. The entry is released when the last reference
// goes away. Closing nil, or closing an already released entry, is a no-op.
func (e *Entry) Close() {
	if e == nil {
		return
	}
	for {
		n := e.refs.Load()
		if n <= 0 {
			return
		}
		if !e.refs.CompareAndSwap(n, n-1) {
			continue
		}
		switch n - 1 {
		case 1:
			sharedBlocks.Add(-1)
		case 0:
			allocatedBlocks.Add(-1)
		}
		return
	}
}

// Path returns the full path. Directories carry a trailing separator when
// the search used MarkDirs.
func (e *Entry) Path() string { return e.path }

// Drive returns the volume designator ("" on Unix and for FTP entries).
func (e *Entry) Drive() string { return e.path[:e.dirStart] }

// Directory returns the directory portion without the drive.
func (e *Entry) Directory() string { return e.path[e.dirStart:e.nameStart] }

// DirectoryPath returns the drive and directory, always ending in a separator.
func (e *Entry) DirectoryPath() string { return e.path[:e.nameStart] }

// FileName returns the name including the extension.
func (e *Entry) FileName() string { return e.path[e.nameStart:e.nameEnd] }

// FileBaseName returns the name without the extension.
func (e *Entry) FileBaseName() string { return e.path[e.nameStart:e.extStart] }

// FileExtension returns the extension including its leading '.', or "".
func (e *Entry) FileExtension() string { return e.path[e.extStart:e.nameEnd] }

// DirectoryParts returns the separator-terminated components of the
// directory, or nil unless the DirectoryParts flag was given.
func (e *Entry) DirectoryParts() []string {
	if e.parts == nil {
		return nil
	}
	parts := make([]string, len(e.parts))
	for i, p := range e.parts {
		parts[i] = e.path[p.start:p.end]
	}
	return parts
}

// NumDirectoryParts returns the number of directory parts (0 unless DirectoryParts was given).
func (e *Entry) NumDirectoryParts() int { return len(e.parts) }

// SearchDirectory returns the directory the search started from.
func (e *Entry) SearchDirectory() string { return e.searchDir }

// SearchRelativePath returns the path relative to SearchDirectory.
func (e *Entry) SearchRelativePath() string { return e.relPath }

// NumRelativeDirectoryParts counts the directories between SearchDirectory and the entry.
func (e *Entry) NumRelativeDirectoryParts() int { return e.numRelParts }

// Attributes returns the entry's mode bits.
func (e *Entry) Attributes() fs.FileMode { return e.mode }

// Size returns the size in bytes; always 0 for directories.
func (e *Entry) Size() int64 { return e.size }

// CreationTime returns the birth time where the platform records one.
func (e *Entry) CreationTime() time.Time { return e.btime }

// ModificationTime returns the last content modification time.
func (e *Entry) ModificationTime() time.Time { return e.mtime }

// LastAccessTime returns the last access time.
func (e *Entry) LastAccessTime() time.Time { return e.atime }

// LastStatusChangeTime returns the last metadata change time.
func (e *Entry) LastStatusChangeTime() time.Time { return e.ctime }

// NumLinks returns the hard-link count (0 unless LinkCount was given).
func (e *Entry) NumLinks() uint64 { return e.links }

// NodeIndex returns the inode number (0 unless NodeIndex was given).
func (e *Entry) NodeIndex() uint64 { return e.node }

// DeviceID returns the containing device (0 unless NodeIndex was given).
func (e *Entry) DeviceID() uint64 { return e.device }

// IsDirectory reports whether the entry is a directory.
func (e *Entry) IsDirectory() bool { return e.mode.IsDir() }

// IsLink reports whether the entry is a symbolic link.
func (e *Entry) IsLink() bool { return e.mode&fs.ModeSymlink != 0 }

// IsReadOnly reports whether no write permission bit is set.
func (e *Entry) IsReadOnly() bool { return !e.placeholder && e.mode.Perm()&0o222 == 0 }

// IsHidden reports whether the name starts with a dot.
func (e *Entry) IsHidden() bool { return strings.HasPrefix(e.FileName(), ".") }

// IsPlaceholder reports whether the entry names a path whose details were
// not available (Stat with DetailsLater on a missing path).
func (e *Entry) IsPlaceholder() bool { return e.placeholder }

// String implements fmt.Stringer.
func (e *Entry) String() string { return e.path }
