package search

import (
	"github.com/vvka-141/recls/internal/files/filesystem"
	"github.com/vvka-141/recls/internal/ftp"
)

// backend is one traversable tree: a local disk or a remote FTP session.
// Directory nodes are written against backend only; a new kind of tree is
// a new backend, not a new node type.
type backend interface {
	filesystem.FileSystemProvider
	Environment

	syntax() pathSyntax
	Close() error
}

// localBackend walks a FileSystemProvider with native path syntax.
type localBackend struct {
	filesystem.FileSystemProvider
	Environment
}

func (localBackend) syntax() pathSyntax { return localSyntax() }
func (localBackend) Close() error       { return nil }

// ftpBackend walks a remote tree. "~" and relative roots resolve against
// the login directory.
type ftpBackend struct {
	*ftp.Client
}

func (b ftpBackend) HomeDir() (string, error) { return b.CurrentDir() }
func (b ftpBackend) Getwd() (string, error)   { return b.CurrentDir() }
func (ftpBackend) syntax() pathSyntax         { return remoteSyntax() }

var (
	_ backend = localBackend{}
	_ backend = ftpBackend{}
)
