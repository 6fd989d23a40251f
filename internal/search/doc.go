// Package search implements recursive file-system searches.
//
// A search is a stack of directory nodes, one per directory between the
// search root and the entry currently reported. Each node first walks the
// matching entries of its own directory and then, for recursive searches,
// descends into its sub-directories one at a time. Sub-directories that
// contribute no matches are discarded as soon as that is known, so callers
// only ever see real matches.
//
// Before any node exists the root, pattern and flags go through a set of
// normalization rules that expand "~", resolve relative roots, default the
// pattern and the entry types, and reject malformed input.
//
// Searches run on a filesystem.FileSystemProvider (the local disk, an
// in-memory tree or an fs.FS) or on a remote FTP tree. All work happens
// on the calling goroutine; nothing is prefetched.
package search
