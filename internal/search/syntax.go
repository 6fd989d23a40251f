package search

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vvka-141/recls/pkg/recls"
)

// pathSyntax describes how paths are spelled on one kind of backend.
type pathSyntax struct {
	sep byte

	// foreign is the other separator users may type. When mixedOnly is
	// set it is rewritten only if sep also occurs in the same string,
	// since on Unix a lone backslash is a legal name character.
	foreign   byte
	mixedOnly bool

	// listSep separates roots in PATH-like lists; 0 when the backend has none.
	listSep byte

	remote bool
}

func localSyntax() pathSyntax {
	s := pathSyntax{
		sep:     filepath.Separator,
		listSep: os.PathListSeparator,
	}
	if s.sep == '/' {
		s.foreign, s.mixedOnly = '\\', true
	} else {
		s.foreign = '/'
	}
	return s
}

func remoteSyntax() pathSyntax {
	return pathSyntax{sep: '/', foreign: '\\', remote: true}
}

// canonical rewrites foreign separators in p.
func (s pathSyntax) canonical(p string) string {
	if s.foreign == 0 || strings.IndexByte(p, s.foreign) < 0 {
		return p
	}
	if s.mixedOnly && strings.IndexByte(p, s.sep) < 0 {
		return p
	}
	return strings.ReplaceAll(p, string(s.foreign), string(s.sep))
}

func (s pathSyntax) isAbs(p string) bool {
	if s.remote {
		return strings.HasPrefix(p, "/")
	}
	return filepath.IsAbs(p)
}

// isRooted also accepts drive-relative roots such as `\dir` on Windows.
func (s pathSyntax) isRooted(p string) bool {
	return s.isAbs(p) || (p != "" && p[0] == s.sep)
}

func (s pathSyntax) join(elem ...string) string {
	if s.remote {
		return path.Join(elem...)
	}
	return filepath.Join(elem...)
}

func (s pathSyntax) clean(p string) string {
	if s.remote {
		return path.Clean(p)
	}
	return filepath.Clean(p)
}

// split returns the directory, ending in a separator, and the last name.
func (s pathSyntax) split(p string) (dir, name string) {
	i := strings.LastIndexByte(p, s.sep)
	if !s.remote {
		if vol := len(filepath.VolumeName(p)); i < vol {
			i = vol - 1
		}
	}
	return p[:i+1], p[i+1:]
}

func (s pathSyntax) withTrailingSep(p string) string {
	if strings.HasSuffix(p, string(s.sep)) {
		return p
	}
	return p + string(s.sep)
}

// expandHome replaces a leading "~" component with home.
func (s pathSyntax) expandHome(p, home string) (string, bool) {
	if p == "" || p[0] != recls.HomeMarker {
		return p, false
	}
	if len(p) > 1 && p[1] != s.sep && p[1] != s.foreign {
		return p, false
	}
	return s.join(home, p[1:]), true
}

// hasHomeMarker reports whether p starts with a "~" component.
func (s pathSyntax) hasHomeMarker(p string) bool {
	_, ok := s.expandHome(p, "")
	return ok
}
