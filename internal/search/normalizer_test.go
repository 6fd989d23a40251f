package search

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/recls/internal/logging"
	"github.com/vvka-141/recls/pkg/recls"
)

func newTestNormalizer(env Environment) *normalizer {
	return &normalizer{syntax: localSyntax(), env: env, logger: logging.NewNullLogger()}
}

func TestNormalize_Rewrites(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix path fixtures")
	}
	env := FixedEnvironment{Home: "/home/user", Wd: "/work"}

	tests := []struct {
		name        string
		root        string
		pattern     recls.Pattern
		flags       recls.Flags
		wantRoot    string
		wantPattern recls.Pattern
		wantFlags   recls.Flags
	}{
		{
			name:        "empty root uses working directory",
			root:        "",
			pattern:     recls.Match("*.go"),
			wantRoot:    "/work/",
			wantPattern: recls.Match("*.go"),
			wantFlags:   recls.Files,
		},
		{
			name:        "empty root with tilde flag uses home",
			root:        "",
			pattern:     recls.Match("*.go"),
			flags:       recls.UseTildeOnNoSearchRoot,
			wantRoot:    "/home/user/",
			wantPattern: recls.Match("*.go"),
			wantFlags:   recls.Files | recls.UseTildeOnNoSearchRoot,
		},
		{
			name:        "home marker is expanded",
			root:        "~/docs",
			pattern:     recls.Match("*"),
			wantRoot:    "/home/user/docs/",
			wantPattern: recls.Match("*"),
			wantFlags:   recls.Files,
		},
		{
			name:        "relative root resolves against working directory",
			root:        "sub/dir",
			pattern:     recls.Match("*"),
			wantRoot:    "/work/sub/dir/",
			wantPattern: recls.Match("*"),
			wantFlags:   recls.Files,
		},
		{
			name:        "absolute root is cleaned",
			root:        "/a/b/../c",
			pattern:     recls.Match("*"),
			wantRoot:    "/a/c/",
			wantPattern: recls.Match("*"),
			wantFlags:   recls.Files,
		},
		{
			name:        "unset pattern defaults to match all",
			root:        "/data",
			pattern:     recls.MatchAll,
			wantRoot:    "/data/",
			wantPattern: recls.Match("*"),
			wantFlags:   recls.Files,
		},
		{
			name:        "empty pattern stays empty",
			root:        "/data",
			pattern:     recls.Match(""),
			wantRoot:    "/data/",
			wantPattern: recls.Match(""),
			wantFlags:   recls.Files,
		},
		{
			name:        "single rooted token becomes the root",
			root:        "/data",
			pattern:     recls.Match("*.c|/etc/*.conf"),
			flags:       recls.Recursive,
			wantRoot:    "/etc/",
			wantPattern: recls.Match("*.c|*.conf"),
			wantFlags:   recls.Files,
		},
		{
			name:        "mixed root separators are canonicalized",
			root:        `/a\b/c`,
			pattern:     recls.Match("*"),
			wantRoot:    "/a/b/c/",
			wantPattern: recls.Match("*"),
			wantFlags:   recls.Files,
		},
		{
			name:        "directories only is kept",
			root:        "/data",
			pattern:     recls.Match("*"),
			flags:       recls.Directories | recls.Recursive,
			wantRoot:    "/data/",
			wantPattern: recls.Match("*"),
			wantFlags:   recls.Directories | recls.Recursive,
		},
		{
			name:        "links alone gain files",
			root:        "/data",
			pattern:     recls.Match("*"),
			flags:       recls.Links,
			wantRoot:    "/data/",
			wantPattern: recls.Match("*"),
			wantFlags:   recls.Files | recls.Links,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := newTestNormalizer(env).normalize(tt.root, tt.pattern, tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoot, q.root)
			assert.Equal(t, tt.wantPattern, q.pattern)
			assert.Equal(t, tt.wantFlags, q.flags)
		})
	}
}

func TestNormalize_Rejects(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix path fixtures")
	}
	env := FixedEnvironment{Home: "/home/user", Wd: "/work"}

	tests := []struct {
		name    string
		env     Environment
		root    string
		pattern recls.Pattern
		flags   recls.Flags
		want    error
	}{
		{"wildcard in root", env, "/a*b", recls.MatchAll, 0, recls.ErrSearchDirectoryInvalidCharacters},
		{"question mark in root", env, "/a?", recls.MatchAll, 0, recls.ErrSearchDirectoryInvalidCharacters},
		{"path list in root", env, "/a:/b", recls.MatchAll, 0, recls.ErrSearchDirectoryInvalidCharacters},
		{"two rooted tokens", env, "/data", recls.Match("/a/*.c|/b/*.h"), 0, recls.ErrRootedPathsInPatterns},
		{"dot-dot", env, "/data", recls.Match(".."), 0, recls.ErrDotRecursiveSearch},
		{"dot-dot among others", env, "/data", recls.Match("*.go|.."), 0, recls.ErrDotRecursiveSearch},
		{"recursive dot", env, "/data", recls.Match("."), recls.Recursive, recls.ErrDotRecursiveSearch},
		{"overlong token", env, "/data", recls.Match(strings.Repeat("x", recls.MaxPathComponentLength+1)), 0, recls.ErrPathLimitExceeded},
		{"unknown type bits", env, "/data", recls.MatchAll, recls.Flags(1 << 5), recls.ErrInvalidSearchType},
		{"malformed glob", env, "/data", recls.Match("[a-"), 0, recls.ErrInvalidName},
		{"no home", FixedEnvironment{Wd: "/work"}, "~/x", recls.MatchAll, 0, recls.ErrNoHome},
		{"no working directory", FixedEnvironment{}, "", recls.MatchAll, 0, recls.ErrNoHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestNormalizer(tt.env).normalize(tt.root, tt.pattern, tt.flags)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, recls.StatusOf(err).Failed())
		})
	}
}

func TestNormalize_RemoteRoots(t *testing.T) {
	n := &normalizer{
		syntax: remoteSyntax(),
		env:    FixedEnvironment{Home: "/home/anon", Wd: "/home/anon"},
		logger: logging.NewNullLogger(),
	}

	tests := []struct {
		name     string
		root     string
		wantRoot string
	}{
		{"backslash rooted root", `\pub\docs`, "/pub/docs/"},
		{"backslash rooted with trailing separator", `\pub\`, "/pub/"},
		{"backslash relative root", `pub\docs`, "/home/anon/pub/docs/"},
		{"mixed separators", `/pub\docs`, "/pub/docs/"},
		{"home marker with backslash", `~\docs`, "/home/anon/docs/"},
		{"slash rooted root", "/pub/docs", "/pub/docs/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := n.normalize(tt.root, recls.MatchAll, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoot, q.root)

			again, err := n.normalize(q.root, q.pattern, q.flags)
			require.NoError(t, err)
			assert.Equal(t, q.root, again.root)
		})
	}
}

func TestNormalize_NonRecursiveDotIsLegal(t *testing.T) {
	env := FixedEnvironment{Home: "/home/user", Wd: "/work"}
	_, err := newTestNormalizer(env).normalize("/data", recls.Match("."), 0)
	assert.NoError(t, err)
}

func TestNormalize_IsIdempotent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix path fixtures")
	}
	n := newTestNormalizer(FixedEnvironment{Home: "/home/user", Wd: "/work"})

	first, err := n.normalize("~/a/../b", recls.Match("*.c|/etc/*.h"), recls.Recursive)
	require.NoError(t, err)

	second, err := n.normalize(first.root, first.pattern, first.flags)
	require.NoError(t, err)
	assert.Equal(t, first.root, second.root)
	assert.Equal(t, first.pattern, second.pattern)
	assert.Equal(t, first.flags, second.flags)
}

func TestMatcher(t *testing.T) {
	tests := []struct {
		name    string
		pattern recls.Pattern
		input   string
		want    bool
	}{
		{"unset matches everything", recls.MatchAll, "anything", true},
		{"empty matches nothing", recls.Match(""), "anything", false},
		{"star", recls.Match("*"), ".hidden", true},
		{"legacy star-dot-star", recls.Match("*.*"), "Makefile", true},
		{"extension", recls.Match("*.go"), "main.go", true},
		{"extension miss", recls.Match("*.go"), "main.c", false},
		{"second token", recls.Match("*.c|*.h"), "x.h", true},
		{"question mark", recls.Match("?.txt"), "a.txt", true},
		{"class", recls.Match("[ab].txt"), "c.txt", false},
		{"empty tokens ignored", recls.Match("|*.md|"), "README.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newMatcher(tt.pattern, false).match(tt.input))
		})
	}
}
