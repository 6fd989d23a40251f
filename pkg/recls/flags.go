package recls

import (
	"fmt"
	"strings"
)

// Flags is the bit-field of search options.
type Flags uint32

const (
	// Files includes regular files.
	Files Flags = 1 << iota
	// Directories includes directories.
	Directories
	// Links includes symbolic links, reported as links.
	Links
	// Devices includes device, socket and pipe entries.
	Devices

	_
	_
	_
	_

	// Recursive descends into sub-directories.
	Recursive
	// NoFollowLinks reports links themselves instead of their targets.
	NoFollowLinks
	// DirectoryParts populates Entry.DirectoryParts.
	DirectoryParts
	// DetailsLater lets Stat describe a path that does not exist yet.
	DetailsLater
	// PassiveFtp uses plain PASV data connections instead of EPSV.
	PassiveFtp
	// MarkDirs appends a trailing separator to directory entries.
	MarkDirs
	// AllowReparseDirs recurses into symlinked directories.
	AllowReparseDirs
	// IgnoreHiddenEntries skips dot-named files and directories.
	IgnoreHiddenEntries
	// LinkCount populates Entry.NumLinks.
	LinkCount
	// NodeIndex populates Entry.NodeIndex and Entry.DeviceID.
	NodeIndex
	// DirProgress reports every directory entered to the progress callback.
	DirProgress
	// StopOnAccessFailure turns sub-directory access failures into ErrAccessDenied.
	StopOnAccessFailure
	// UseTildeOnNoSearchRoot searches the home directory when no root is given.
	UseTildeOnNoSearchRoot
)

// TypeMask selects the entry-type bits of Flags.
const TypeMask = Files | Directories | Links | Devices

var flagNames = []struct {
	flag Flags
	name string
}{
	{Files, "files"},
	{Directories, "directories"},
	{Links, "links"},
	{Devices, "devices"},
	{Recursive, "recursive"},
	{NoFollowLinks, "no-follow-links"},
	{DirectoryParts, "directory-parts"},
	{DetailsLater, "details-later"},
	{PassiveFtp, "passive-ftp"},
	{MarkDirs, "mark-dirs"},
	{AllowReparseDirs, "allow-reparse-dirs"},
	{IgnoreHiddenEntries, "ignore-hidden"},
	{LinkCount, "link-count"},
	{NodeIndex, "node-index"},
	{DirProgress, "dir-progress"},
	{StopOnAccessFailure, "stop-on-access-failure"},
	{UseTildeOnNoSearchRoot, "use-tilde"},
}

// Has reports whether every bit of mask is set in f.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// Any reports whether at least one bit of mask is set in f.
func (f Flags) Any(mask Flags) bool { return f&mask != 0 }

// String renders the set flags as a '|'-separated list of names.
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	rest := f
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
			rest &^= fn.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(names, "|")
}

// ParseFlag returns the flag with the given name, as printed by String.
func ParseFlag(name string) (Flags, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown flag %q", name)
}

// ParseFlags parses a list of flag names and ORs them together.
func ParseFlags(names []string) (Flags, error) {
	var f Flags
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		flag, err := ParseFlag(n)
		if err != nil {
			return 0, err
		}
		f |= flag
	}
	return f, nil
}
