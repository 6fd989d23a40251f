package recls

// Pattern is an optional multi-pattern of '|'-separated name globs.
//
// The zero value is "no pattern" and matches every entry. A pattern built
// from the empty string is a different thing: it has no tokens and matches
// nothing. Callers that assemble patterns from user input must keep that
// distinction in mind.
type Pattern struct {
	value string
	set   bool
}

// MatchAll is the unset pattern; it matches every entry.
var MatchAll = Pattern{}

// Match returns a pattern holding s. Match("") matches nothing.
func Match(s string) Pattern {
	return Pattern{value: s, set: true}
}

// IsSet reports whether the pattern was given explicitly.
func (p Pattern) IsSet() bool { return p.set }

// Value returns the raw pattern text ("" when unset).
func (p Pattern) Value() string { return p.value }

// String implements fmt.Stringer.
func (p Pattern) String() string {
	if !p.set {
		return "<all>"
	}
	return p.value
}

// Control is returned by callbacks to steer a traversal.
type Control int

const (
	// Continue proceeds normally.
	Continue Control = iota
	// Skip ignores the directory being entered (progress callbacks only;
	// process callbacks treat it like Continue).
	Skip
	// Cancel stops the traversal.
	Cancel
)

// String implements fmt.Stringer.
func (c Control) String() string {
	switch c {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// ProgressFunc is invoked once for every directory a search enters, before
// its contents are enumerated. depth is 0 for the search root.
type ProgressFunc func(directory string, depth int) Control

// ProcessFunc receives every entry found by a Process call. The entry is
// only valid for the duration of the call unless the callee Copies it.
type ProcessFunc func(entry *Entry) Control
