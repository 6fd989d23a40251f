package search

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/vvka-141/recls/internal/files/filesystem"
	"github.com/vvka-141/recls/pkg/recls"
)

// searchNode is the cursor a Handle drives.
type searchNode interface {
	advance() error
	details() (*recls.Entry, error)
	close()
}

// traversal holds what every node of one search shares.
type traversal struct {
	be       backend
	syntax   pathSyntax
	flags    recls.Flags
	match    *matcher
	root     string // search directory, ending in a separator
	progress recls.ProgressFunc
	logger   recls.Logger
}

type nodeState int

const (
	enumeratingFiles nodeState = iota
	enumeratingSubdirectories
	exhausted
)

func (s nodeState) String() string {
	switch s {
	case enumeratingFiles:
		return "files"
	case enumeratingSubdirectories:
		return "subdirectories"
	default:
		return "exhausted"
	}
}

// fileID identifies a directory for link-cycle detection.
type fileID struct {
	device, inode uint64
}

// dirNode walks one directory: first its matching entries, then, when
// recursive, one child node per non-empty sub-directory. At most one of
// current and child is set, and only in the matching state.
type dirNode struct {
	t      *traversal
	dir    string // ends in a separator
	depth  int
	id     fileID
	parent *dirNode

	listing []filesystem.FileInfo
	next    int // index into listing of the next candidate entry
	subdirs []string
	nextSub int

	state   nodeState
	current *recls.Entry
	child   *dirNode
}

var _ searchNode = (*dirNode)(nil)

// newDirNode enters dir and positions the node on its first match.
// A directory that yields nothing, directly or below, is reported as
// ErrNoMoreData and never handed to the caller.
func newDirNode(t *traversal, dir string, depth int, id fileID, parent *dirNode) (*dirNode, error) {
	if t.progress != nil {
		switch t.progress(dir, depth) {
		case recls.Cancel:
			return nil, fmt.Errorf("entering %s: %w", dir, recls.ErrUserCancelledSearch)
		case recls.Skip:
			t.logger.Verbose("skipping %s", dir)
			return nil, recls.ErrNoMoreData
		}
	} else if t.flags.Has(recls.DirProgress) {
		t.logger.Verbose("entering %s", dir)
	}

	listing, err := t.be.ReadDir(dir)
	if err != nil {
		if depth == 0 || t.flags.Has(recls.StopOnAccessFailure) {
			return nil, fmt.Errorf("list %s: %v: %w", dir, err, recls.ErrAccessDenied)
		}
		t.logger.Verbose("skipping unreadable directory %s: %v", dir, err)
		return nil, recls.ErrNoMoreData
	}

	n := &dirNode{
		t:       t,
		dir:     dir,
		depth:   depth,
		id:      id,
		parent:  parent,
		listing: listing,
		state:   enumeratingFiles,
	}

	found, err := n.nextFile()
	if err != nil {
		n.close()
		return nil, err
	}
	if found {
		return n, nil
	}
	if err := n.enterSubdirectories(); err != nil {
		n.close()
		return nil, err
	}
	return n, nil
}

func (n *dirNode) advance() error {
	switch n.state {
	case enumeratingFiles:
		n.current.Close()
		n.current = nil
		found, err := n.nextFile()
		if err != nil {
			n.state = exhausted
			return err
		}
		if found {
			return nil
		}
		return n.enterSubdirectories()

	case enumeratingSubdirectories:
		err := n.child.advance()
		if err == nil {
			return nil
		}
		n.child.close()
		n.child = nil
		if !errors.Is(err, recls.ErrNoMoreData) {
			n.state = exhausted
			return err
		}
		return n.findChild()
	}
	return recls.ErrNoMoreData
}

func (n *dirNode) details() (*recls.Entry, error) {
	switch n.state {
	case enumeratingFiles:
		return n.current.Copy(), nil
	case enumeratingSubdirectories:
		return n.child.details()
	}
	return nil, recls.ErrNoMoreData
}

func (n *dirNode) close() {
	n.current.Close()
	n.current = nil
	if n.child != nil {
		n.child.close()
		n.child = nil
	}
	n.listing = nil
	n.subdirs = nil
	n.state = exhausted
}

// consistent reports whether the node's cursors agree with its state.
func (n *dirNode) consistent() bool {
	switch n.state {
	case enumeratingFiles:
		return n.current != nil && n.child == nil
	case enumeratingSubdirectories:
		return n.current == nil && n.child != nil && n.child.consistent()
	default:
		return n.current == nil && n.child == nil
	}
}

// nextFile moves to the next matching entry of the listing.
func (n *dirNode) nextFile() (bool, error) {
	for n.next < len(n.listing) {
		info := n.listing[n.next]
		n.next++

		resolved, ok := n.accept(info)
		if !ok {
			continue
		}
		entry, err := n.buildEntry(info.Name(), resolved)
		if err != nil {
			return false, err
		}
		n.current = entry
		return true, nil
	}
	return false, nil
}

// enterSubdirectories leaves the files phase. The node ends exhausted
// unless some sub-directory yields a match.
func (n *dirNode) enterSubdirectories() error {
	if !n.t.flags.Has(recls.Recursive) {
		n.state = exhausted
		n.listing = nil
		return recls.ErrNoMoreData
	}

	n.state = enumeratingSubdirectories
	for _, info := range n.listing {
		if n.traversable(info) {
			n.subdirs = append(n.subdirs, info.Name())
		}
	}
	n.listing = nil
	return n.findChild()
}

// findChild constructs children in listing order until one is non-empty.
func (n *dirNode) findChild() error {
	for n.nextSub < len(n.subdirs) {
		name := n.subdirs[n.nextSub]
		n.nextSub++

		dir := n.dir + name + string(n.t.syntax.sep)
		id, ok := n.childID(dir)
		if !ok {
			n.t.logger.Verbose("not following %s: link cycle", dir)
			continue
		}
		child, err := newDirNode(n.t, dir, n.depth+1, id, n)
		if err == nil {
			n.child = child
			return nil
		}
		if !errors.Is(err, recls.ErrNoMoreData) {
			n.state = exhausted
			n.subdirs = nil
			return err
		}
	}
	n.state = exhausted
	n.subdirs = nil
	return recls.ErrNoMoreData
}

// accept applies name, visibility and type filtering. It returns the
// metadata to report: the link target's unless links are reported as
// links or not followed.
func (n *dirNode) accept(info filesystem.FileInfo) (filesystem.FileInfo, bool) {
	flags := n.t.flags
	name := info.Name()
	if flags.Has(recls.IgnoreHiddenEntries) && isHidden(name) {
		return nil, false
	}
	if !n.t.match.match(name) {
		return nil, false
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		if flags.Has(recls.Links) {
			return info, true
		}
		info = n.follow(n.dir+name, info)
	}

	mode := info.Mode()
	switch {
	case mode.IsDir():
		return info, flags.Has(recls.Directories)
	case mode&(fs.ModeDevice|fs.ModeCharDevice|fs.ModeNamedPipe|fs.ModeSocket) != 0:
		return info, flags.Has(recls.Devices)
	default:
		return info, flags.Has(recls.Files)
	}
}

// traversable reports whether info names a directory to recurse into.
func (n *dirNode) traversable(info filesystem.FileInfo) bool {
	if n.t.flags.Has(recls.IgnoreHiddenEntries) && isHidden(info.Name()) {
		return false
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return info.IsDir()
	}
	if !n.t.flags.Has(recls.AllowReparseDirs) {
		return false
	}
	target, err := n.t.be.Stat(n.dir + info.Name())
	return err == nil && target.IsDir()
}

// follow resolves a link, keeping the link's own metadata when it dangles
// or links are not followed.
func (n *dirNode) follow(p string, link filesystem.FileInfo) filesystem.FileInfo {
	if n.t.flags.Has(recls.NoFollowLinks) {
		return link
	}
	target, err := n.t.be.Stat(p)
	if err != nil {
		n.t.logger.Verbose("dangling link %s: %v", p, err)
		return link
	}
	return target
}

// childID identifies dir and rejects it if an ancestor is the same
// directory, which only happens through followed links.
func (n *dirNode) childID(dir string) (fileID, bool) {
	if !n.t.flags.Has(recls.AllowReparseDirs) {
		return fileID{}, true
	}
	info, err := n.t.be.Stat(strings.TrimSuffix(dir, string(n.t.syntax.sep)))
	if err != nil {
		return fileID{}, true
	}
	st := filesystem.NativeStatOf(info)
	id := fileID{device: st.Device, inode: st.Inode}
	if id.inode == 0 {
		return id, true
	}
	for a := n; a != nil; a = a.parent {
		if a.id == id {
			return id, false
		}
	}
	return id, true
}

func (n *dirNode) buildEntry(name string, info filesystem.FileInfo) (*recls.Entry, error) {
	return recls.BuildEntry(recls.EntrySource{
		RootDirLen:      len(n.t.root),
		SearchDirectory: n.t.root,
		Path:            n.dir + name,
		FileName:        name,
		Separator:       n.t.syntax.sep,
		Remote:          n.t.syntax.remote,
		Flags:           n.t.flags,
		Stat:            filesystem.NativeStatOf(info),
	})
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
