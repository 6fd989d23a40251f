package search

import (
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/vvka-141/recls/pkg/recls"
)

// matcher tests entry names against the tokens of a multi-pattern.
type matcher struct {
	all    bool
	tokens []string
	fold   bool
}

// splitPattern returns the non-empty '|'-separated tokens of p.
func splitPattern(p string) []string {
	var tokens []string
	for _, tok := range strings.Split(p, string(recls.PatternSeparator)) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// newMatcher compiles p. An unset pattern matches everything; a set but
// empty one matches nothing. "*" and the legacy "*.*" match every name.
func newMatcher(p recls.Pattern, fold bool) *matcher {
	if !p.IsSet() {
		return &matcher{all: true}
	}
	m := &matcher{fold: fold}
	for _, tok := range splitPattern(p.Value()) {
		if tok == recls.WildcardsAll || tok == recls.WildcardsAllLegacy {
			return &matcher{all: true}
		}
		if fold {
			tok = strings.ToLower(tok)
		}
		m.tokens = append(m.tokens, tok)
	}
	return m
}

// foldNames reports whether names compare case-insensitively on the local disk.
func foldNames(remote bool) bool {
	return !remote && (runtime.GOOS == "windows" || runtime.GOOS == "darwin")
}

func (m *matcher) match(name string) bool {
	if m.all {
		return true
	}
	if m.fold {
		name = strings.ToLower(name)
	}
	for _, tok := range m.tokens {
		ok, err := doublestar.Match(tok, name)
		if err != nil {
			ok = tok == name
		}
		if ok {
			return true
		}
	}
	return false
}

