package recls

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// NativeStat is the platform metadata a file-system provider reports for
// one path. Fields a provider cannot supply are left zero.
type NativeStat struct {
	Mode       fs.FileMode
	Size       int64
	ModTime    time.Time
	AccessTime time.Time
	ChangeTime time.Time
	BirthTime  time.Time
	Links      uint64
	Inode      uint64
	Device     uint64
}

// EntrySource carries everything BuildEntry needs to describe one path.
type EntrySource struct {
	// RootDirLen is the length of the search directory prefix of Path.
	RootDirLen int

	// SearchDirectory is the directory the search was started from.
	SearchDirectory string

	// Path is the full path of the entry, without a trailing separator.
	Path string

	// FileName is the last component of Path ("" for a volume root).
	FileName string

	// Relative is used as the search-relative path when SearchDirectory is
	// not a literal prefix of Path. Defaults to FileName.
	Relative string

	// Separator is the path separator used in Path.
	Separator byte

	// Remote marks paths that carry no drive designator (FTP).
	Remote bool

	Flags Flags

	// Stat is nil for placeholder entries.
	Stat *NativeStat
}

// BuildEntry constructs an Entry from src. Inputs are expected to be
// validated by the caller; a FileName that is not a suffix of Path is
// rejected with ErrInvalidName.
func BuildEntry(src EntrySource) (*Entry, error) {
	sep := src.Separator
	if sep == 0 {
		sep = filepath.Separator
	}
	if !strings.HasSuffix(src.Path, src.FileName) {
		return nil, fmt.Errorf("entry name %q does not end path %q: %w", src.FileName, src.Path, ErrInvalidName)
	}

	isDir := src.Stat != nil && src.Stat.Mode.IsDir()
	mark := isDir && src.Flags.Has(MarkDirs) && !strings.HasSuffix(src.Path, string(sep))

	e := newEntry()
	e.sep = sep
	e.nameStart = len(src.Path) - len(src.FileName)
	e.nameEnd = len(src.Path)
	if !src.Remote {
		e.dirStart = len(filepath.VolumeName(src.Path))
		if e.dirStart > e.nameStart {
			e.dirStart = e.nameStart
		}
	}

	e.path = src.Path
	if mark {
		e.path += string(sep)
	}

	if dot := strings.LastIndexByte(src.FileName, '.'); dot >= 0 {
		e.extStart = e.nameStart + dot
	} else {
		e.extStart = e.nameEnd
	}

	if src.Flags.Has(DirectoryParts) {
		e.parts = splitParts(e.path, e.dirStart, e.nameStart, sep)
	}

	e.searchDir = src.SearchDirectory
	if src.RootDirLen <= len(src.Path) && strings.HasPrefix(src.Path, src.SearchDirectory) {
		e.relPath = src.Path[src.RootDirLen:]
	} else if src.Relative != "" {
		e.relPath = src.Relative
	} else {
		e.relPath = src.FileName
	}
	relName := len(src.FileName)
	if relName > len(e.relPath) {
		relName = len(e.relPath)
	}
	e.numRelParts = strings.Count(e.relPath[:len(e.relPath)-relName], string(sep))
	if mark {
		e.relPath += string(sep)
	}

	if src.Stat == nil {
		e.placeholder = true
		return e, nil
	}

	st := src.Stat
	e.mode = st.Mode
	if !isDir {
		e.size = st.Size
	}
	e.btime = st.BirthTime
	e.mtime = st.ModTime
	e.atime = st.AccessTime
	e.ctime = st.ChangeTime
	if src.Flags.Has(LinkCount) {
		e.links = st.Links
	}
	if src.Flags.Has(NodeIndex) {
		e.node = st.Inode
		e.device = st.Device
	}

	return e, nil
}

// splitParts records one span per separator-terminated component of
// path[start:end].
func splitParts(path string, start, end int, sep byte) []span {
	parts := make([]span, 0, strings.Count(path[start:end], string(sep)))
	begin := start
	for i := start; i < end; i++ {
		if path[i] == sep {
			parts = append(parts, span{start: begin, end: i + 1})
			begin = i + 1
		}
	}
	return parts
}
