package search

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/vvka-141/recls/pkg/recls"
)

var errNoDirectory = errors.New("directory not available")

// knownFlags is every bit a caller may legitimately set.
const knownFlags = recls.TypeMask | recls.Recursive | recls.NoFollowLinks |
	recls.DirectoryParts | recls.DetailsLater | recls.PassiveFtp |
	recls.MarkDirs | recls.AllowReparseDirs | recls.IgnoreHiddenEntries |
	recls.LinkCount | recls.NodeIndex | recls.DirProgress |
	recls.StopOnAccessFailure | recls.UseTildeOnNoSearchRoot

// query is the (root, pattern, flags) triple being normalized.
type query struct {
	given   string // root exactly as the caller passed it
	root    string
	pattern recls.Pattern
	flags   recls.Flags
}

// tokens returns the pattern's tokens ("*" for an unset pattern).
func (q *query) tokens() []string {
	if !q.pattern.IsSet() {
		return []string{recls.WildcardsAll}
	}
	return splitPattern(q.pattern.Value())
}

// rewrite marks one rewriting rule. Validation rules carry no mark and
// run on every pass.
type rewrite uint32

const (
	rewrotePatternSeparators rewrite = 1 << iota
	rewroteRootedPattern
	rewroteEmptyRoot
	rewroteHome
	rewroteAbsoluteRoot
	rewroteDefaultPattern
	rewroteRootSeparators
	rewroteTypeFlags
	rewroteTrailingSeparator
)

type rule struct {
	name  string
	mark  rewrite
	apply func(n *normalizer, q *query) (bool, error)
}

// rules run in order. After a rule rewrites the query its mark is recorded
// and the list restarts from the top; a marked rule never runs again, so
// the loop ends after at most one pass per mark.
var rules = []rule{
	{"root characters", 0, (*normalizer).checkRootCharacters},
	{"pattern separators", rewrotePatternSeparators, (*normalizer).canonicalizePattern},
	{"rooted pattern", rewroteRootedPattern, (*normalizer).extractRootedPattern},
	{"empty root", rewroteEmptyRoot, (*normalizer).defaultRoot},
	{"home marker", rewroteHome, (*normalizer).expandHome},
	{"absolute root", rewroteAbsoluteRoot, (*normalizer).absoluteRoot},
	{"default pattern", rewroteDefaultPattern, (*normalizer).defaultPattern},
	{"root separators", rewroteRootSeparators, (*normalizer).canonicalizeRoot},
	{"type flags", rewroteTypeFlags, (*normalizer).defaultTypeFlags},
	{"search type", 0, (*normalizer).checkSearchType},
	{"pattern tokens", 0, (*normalizer).checkTokens},
	{"trailing separator", rewroteTrailingSeparator, (*normalizer).trailingSeparator},
}

// normalizer turns caller input into a well-formed traversal request.
type normalizer struct {
	syntax pathSyntax
	env    Environment
	logger recls.Logger
}

func (n *normalizer) normalize(root string, pattern recls.Pattern, flags recls.Flags) (query, error) {
	q := query{given: root, root: root, pattern: pattern, flags: flags}
	var done rewrite

	for {
		rewrote := false
		for _, r := range rules {
			if r.mark != 0 && done&r.mark != 0 {
				continue
			}
			changed, err := r.apply(n, &q)
			if err != nil {
				return query{}, err
			}
			if changed {
				n.logger.Verbose("normalize: %s -> root=%q pattern=%s flags=%s", r.name, q.root, q.pattern, q.flags)
				done |= r.mark
				rewrote = true
				break
			}
		}
		if !rewrote {
			return q, nil
		}
	}
}

func (n *normalizer) checkRootCharacters(q *query) (bool, error) {
	bad := recls.Wildcards
	if n.syntax.listSep != 0 {
		bad += string(n.syntax.listSep)
	}
	if strings.ContainsAny(q.given, bad) {
		return false, fmt.Errorf("search root %q: %w", q.given, recls.ErrSearchDirectoryInvalidCharacters)
	}
	return false, nil
}

func (n *normalizer) canonicalizePattern(q *query) (bool, error) {
	if !q.pattern.IsSet() {
		return false, nil
	}
	tokens := strings.Split(q.pattern.Value(), string(recls.PatternSeparator))
	changed := false
	for i, tok := range tokens {
		if c := n.syntax.canonical(tok); c != tok {
			tokens[i] = c
			changed = true
		}
	}
	if changed {
		q.pattern = recls.Match(strings.Join(tokens, string(recls.PatternSeparator)))
	}
	return changed, nil
}

// extractRootedPattern moves the directory of a single rooted token into
// the root. Recursion is switched off: the token names one place.
func (n *normalizer) extractRootedPattern(q *query) (bool, error) {
	if !q.pattern.IsSet() {
		return false, nil
	}
	tokens := splitPattern(q.pattern.Value())
	rooted := -1
	for i, tok := range tokens {
		if !n.syntax.isRooted(tok) {
			continue
		}
		if rooted >= 0 {
			return false, fmt.Errorf("pattern %q: %w", q.pattern.Value(), recls.ErrRootedPathsInPatterns)
		}
		rooted = i
	}
	if rooted < 0 {
		return false, nil
	}

	dir, name := n.syntax.split(tokens[rooted])
	if name == "" {
		name = recls.WildcardsAll
	}
	tokens[rooted] = name
	q.root = dir
	q.pattern = recls.Match(strings.Join(tokens, string(recls.PatternSeparator)))
	q.flags &^= recls.Recursive
	return true, nil
}

func (n *normalizer) defaultRoot(q *query) (bool, error) {
	if q.root != "" {
		return false, nil
	}
	if q.flags.Has(recls.UseTildeOnNoSearchRoot) {
		q.root = string(recls.HomeMarker)
		return true, nil
	}
	wd, err := n.env.Getwd()
	if err != nil || wd == "" {
		return false, fmt.Errorf("current directory: %v: %w", err, recls.ErrNoHome)
	}
	q.root = wd
	return true, nil
}

func (n *normalizer) expandHome(q *query) (bool, error) {
	if !n.syntax.hasHomeMarker(q.root) {
		return false, nil
	}
	home, err := n.env.HomeDir()
	if err != nil || home == "" {
		return false, fmt.Errorf("expand %q: %v: %w", q.root, err, recls.ErrNoHome)
	}
	q.root, _ = n.syntax.expandHome(q.root, home)
	return true, nil
}

// absoluteRoot canonicalizes separators before testing the root, so a
// root spelled entirely with the foreign separator is still seen as rooted.
func (n *normalizer) absoluteRoot(q *query) (bool, error) {
	root := n.syntax.canonical(q.root)
	if !n.syntax.isAbs(root) {
		wd, err := n.env.Getwd()
		if err != nil || wd == "" {
			return false, fmt.Errorf("resolve %q: %v: %w", q.root, err, recls.ErrNoHome)
		}
		if n.syntax.isRooted(root) {
			// `\dir` on Windows: rooted on the working directory's drive.
			root = filepath.VolumeName(wd) + root
		} else {
			root = n.syntax.join(wd, root)
		}
	}
	root = n.syntax.withTrailingSep(n.syntax.clean(root))
	if root == q.root {
		return false, nil
	}
	q.root = root
	return true, nil
}

func (n *normalizer) defaultPattern(q *query) (bool, error) {
	if q.pattern.IsSet() {
		return false, nil
	}
	q.pattern = recls.Match(recls.WildcardsAll)
	return true, nil
}

func (n *normalizer) canonicalizeRoot(q *query) (bool, error) {
	root := n.syntax.canonical(q.root)
	if root == q.root {
		return false, nil
	}
	q.root = root
	return true, nil
}

func (n *normalizer) defaultTypeFlags(q *query) (bool, error) {
	if q.flags.Any(recls.Files | recls.Directories) {
		return false, nil
	}
	q.flags |= recls.Files
	return true, nil
}

func (n *normalizer) checkSearchType(q *query) (bool, error) {
	if unknown := q.flags &^ knownFlags; unknown != 0 {
		return false, fmt.Errorf("unknown flag bits 0x%x: %w", uint32(unknown), recls.ErrInvalidSearchType)
	}
	return false, nil
}

func (n *normalizer) checkTokens(q *query) (bool, error) {
	for _, tok := range q.tokens() {
		switch {
		case tok == "..":
			return false, fmt.Errorf("pattern %q: %w", tok, recls.ErrDotRecursiveSearch)
		case tok == "." && q.flags.Has(recls.Recursive):
			return false, fmt.Errorf("pattern %q: %w", tok, recls.ErrDotRecursiveSearch)
		case len(tok) > recls.MaxPathComponentLength:
			return false, fmt.Errorf("pattern token of %d bytes: %w", len(tok), recls.ErrPathLimitExceeded)
		case !doublestar.ValidatePattern(tok):
			return false, fmt.Errorf("pattern %q: %w", tok, recls.ErrInvalidName)
		}
	}
	return false, nil
}

func (n *normalizer) trailingSeparator(q *query) (bool, error) {
	root := n.syntax.withTrailingSep(q.root)
	if root == q.root {
		return false, nil
	}
	q.root = root
	return true, nil
}
