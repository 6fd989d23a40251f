// Package filesystem provides the raw enumeration primitives consumed by the
// search engine.
//
// This package defines a single interface for listing one directory and
// stat-ing one path, enabling testability through in-memory implementations
// while maintaining full native metadata on the OS filesystem.
//
// Implementations:
//   - OSFileSystem: godirwalk listings plus statx (Linux) or os.Lstat metadata
//   - MemoryFileSystem: In-memory tree with links and access failures for testing
//   - EmbedFileSystem: Any fs.FS (embed.FS, fstest.MapFS) mounted at "/"
//
// Every FileInfo returned carries a *recls.NativeStat in Sys(); use
// NativeStatOf to read it.
package filesystem
