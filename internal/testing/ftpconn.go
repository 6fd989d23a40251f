package testing

import (
	"fmt"
	"net/textproto"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
)

// FakeFtpConn serves LIST replies from an in-memory tree. It satisfies
// the connection interface of internal/ftp.
type FakeFtpConn struct {
	mu      sync.Mutex
	dirs    map[string][]*ftp.Entry
	denied  map[string]bool
	links   map[string]string
	cwd     string
	lists   []string
	quitted int
}

// NewFakeFtpConn creates an empty tree whose login directory is cwd.
func NewFakeFtpConn(cwd string) *FakeFtpConn {
	c := &FakeFtpConn{
		dirs:   map[string][]*ftp.Entry{"/": nil},
		denied: map[string]bool{},
		links:  map[string]string{},
		cwd:    cwd,
	}
	c.AddDir(cwd)
	return c
}

// AddFile adds a file of the given size, creating parent directories.
func (c *FakeFtpConn) AddFile(p string, size uint64, modTime time.Time) {
	c.add(p, &ftp.Entry{Type: ftp.EntryTypeFile, Size: size, Time: modTime})
}

// AddDir adds a directory and its parents.
func (c *FakeFtpConn) AddDir(p string) {
	p = path.Clean(p)
	if _, ok := c.dirs[p]; ok || p == "/" {
		return
	}
	c.add(p, &ftp.Entry{Type: ftp.EntryTypeFolder})
	c.dirs[p] = nil
}

// AddLink adds a symbolic link entry. Listing the link lists its target;
// relative targets resolve against the link's directory.
func (c *FakeFtpConn) AddLink(p, target string) {
	p = path.Clean(p)
	c.add(p, &ftp.Entry{Type: ftp.EntryTypeLink, Target: target})
	if !path.IsAbs(target) {
		target = path.Join(path.Dir(p), target)
	}
	c.links[p] = path.Clean(target)
}

// Deny makes LIST of dir fail with a 550 reply.
func (c *FakeFtpConn) Deny(dir string) {
	c.denied[path.Clean(dir)] = true
}

func (c *FakeFtpConn) add(p string, e *ftp.Entry) {
	p = path.Clean(p)
	dir, name := path.Split(p)
	dir = path.Clean(dir)
	c.AddDir(dir)
	e.Name = name
	c.dirs[dir] = append(c.dirs[dir], e)
}

// List implements the connection interface. Like many servers it
// includes "." and ".." in every listing.
func (c *FakeFtpConn) List(p string) ([]*ftp.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !strings.HasPrefix(p, "/") {
		p = path.Join(c.cwd, p)
	}
	p = path.Clean(p)
	c.lists = append(c.lists, p)
	if target, ok := c.links[p]; ok {
		p = target
	}

	if c.denied[p] {
		return nil, &textproto.Error{Code: ftp.StatusFileUnavailable, Msg: "Permission denied"}
	}
	entries, ok := c.dirs[p]
	if !ok {
		return nil, &textproto.Error{Code: ftp.StatusFileUnavailable, Msg: fmt.Sprintf("%s: No such file or directory", p)}
	}

	out := []*ftp.Entry{
		{Name: ".", Type: ftp.EntryTypeFolder},
		{Name: "..", Type: ftp.EntryTypeFolder},
	}
	return append(out, entries...), nil
}

// CurrentDir implements the connection interface.
func (c *FakeFtpConn) CurrentDir() (string, error) {
	return c.cwd, nil
}

// Quit implements the connection interface.
func (c *FakeFtpConn) Quit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quitted++
	return nil
}

// Quits reports how many times Quit was called.
func (c *FakeFtpConn) Quits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quitted
}

// Listed returns every directory listed so far, in order.
func (c *FakeFtpConn) Listed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lists...)
}
