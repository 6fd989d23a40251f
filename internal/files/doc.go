// Package files groups the file-system plumbing recls searches through.
//
// The filesystem sub-package defines FileSystemProvider, the directory
// listing and stat surface the search engine depends on, with OS,
// in-memory and io/fs implementations:
//
//	import "github.com/vvka-141/recls/internal/files/filesystem"
//
//	fsys := filesystem.NewOSFileSystem()
//	infos, err := fsys.ReadDir("/var/log")
//
// Remote trees implement the same interface in internal/ftp.
package files
