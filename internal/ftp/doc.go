// Package ftp exposes a remote FTP tree through the filesystem provider
// interface so the search engine can traverse it like a local disk.
//
// Connections are opened with Dial, which validates Settings, retries
// transient failures with exponential backoff and logs in (anonymously when
// no username is given). Listings come from the LIST command; servers
// report names, types, sizes and modification times only.
package ftp
