package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/recls/internal/files/filesystem"
	"github.com/vvka-141/recls/internal/ftp"
	"github.com/vvka-141/recls/internal/search"
	testhelpers "github.com/vvka-141/recls/internal/testing"
	"github.com/vvka-141/recls/pkg/recls"
	"gopkg.in/yaml.v3"
)

func cliTree() *filesystem.MemoryFileSystem {
	mfs := filesystem.NewMemoryFileSystem("/work")
	mfs.AddFileWithTime("main.go", "package main", time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC))
	mfs.AddFile("go.mod", "module x")
	mfs.AddFile("README.md", "# x")
	mfs.AddFile("pkg/util.go", "package pkg")
	mfs.AddFile("pkg/util_test.go", "package pkg")
	mfs.AddFile("/home/user/notes.txt", "n")
	return mfs
}

// useEngine points every command at an in-memory tree for the test.
func useEngine(t *testing.T, mfs *filesystem.MemoryFileSystem, dialer ftp.Dialer) {
	t.Helper()
	orig := engineFactory
	t.Cleanup(func() { engineFactory = orig })
	engineFactory = func(logger recls.Logger) *search.Engine {
		opts := []search.Option{
			search.WithFileSystem(mfs),
			search.WithEnvironment(search.FixedEnvironment{Home: "/home/user", Wd: mfs.Root()}),
			search.WithLogger(logger),
		}
		if dialer != nil {
			opts = append(opts, search.WithFtpDialer(dialer))
		}
		return search.New(opts...)
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestFind_Recursive(t *testing.T) {
	useEngine(t, cliTree(), nil)

	out, _, err := run(t, "find", "/work", "*.go", "-r")
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/main.go", "/work/pkg/util.go", "/work/pkg/util_test.go"}, lines(out))
}

func TestFind_DefaultsToWorkingDirectory(t *testing.T) {
	useEngine(t, cliTree(), nil)

	out, _, err := run(t, "find")
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/README.md", "/work/go.mod", "/work/main.go"}, lines(out))
}

func TestFind_DirectoriesOnly(t *testing.T) {
	useEngine(t, cliTree(), nil)

	out, _, err := run(t, "find", "/work", "--dirs", "--files=false", "--mark-dirs")
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/pkg/"}, lines(out))
}

func TestFind_HomeRoot(t *testing.T) {
	useEngine(t, cliTree(), nil)

	out, _, err := run(t, "find", "~", "*.txt")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/notes.txt\n", out)
}

func TestFind_LongFormat(t *testing.T) {
	useEngine(t, cliTree(), nil)

	out, _, err := run(t, "find", "/work", "main.go", "-o", "long")
	require.NoError(t, err)
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "/work/main.go")
	assert.Contains(t, out, "-rw-r--r--")
}

func TestFind_YAMLFormat(t *testing.T) {
	useEngine(t, cliTree(), nil)

	out, _, err := run(t, "find", "/work", "*.go", "-r", "-o", "yaml")
	require.NoError(t, err)

	dec := yaml.NewDecoder(strings.NewReader(out))
	var records []entryRecord
	for {
		var rec entryRecord
		if err := dec.Decode(&rec); err != nil {
			break
		}
		records = append(records, rec)
	}
	require.Len(t, records, 3)
	assert.Equal(t, "/work/pkg/util.go", records[1].Path)
	assert.Equal(t, "pkg/util.go", records[1].RelativePath)
	assert.Equal(t, ".go", records[1].Extension)
}

func TestFind_ExitCodes(t *testing.T) {
	useEngine(t, cliTree(), nil)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no matches", []string{"find", "/work", "*.rs"}, recls.ExitNoMatches},
		{"missing root", []string{"find", "/nowhere"}, recls.ExitPathError},
		{"dot pattern", []string{"find", "/work", "..", "-r"}, recls.ExitInvalidInput},
		{"bad format", []string{"find", "-o", "xml"}, recls.ExitUsageError},
		{"bad flag name", []string{"find", "--flag", "sideways"}, recls.ExitUsageError},
		{"too many args", []string{"find", "a", "b", "c"}, recls.ExitUsageError},
		{"missing config", []string{"find", "--config", "/nonexistent/recls.yaml"}, recls.ExitConfigError},
		{"missing archive", []string{"find", "/", "--archive", "/nonexistent/release.zip"}, recls.ExitPathError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, recls.ExitCodeForError(err), "error: %v", err)
		})
	}
}

func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "release.zip")
	f, err := os.Create(name)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for path, content := range files {
		w, err := zw.Create(path)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return name
}

func TestFind_Archive(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("archive paths are slash-rooted")
	}
	archive := writeZip(t, map[string]string{
		"README.md":      "# release",
		"b.txt":          "b",
		"docs/a.md":      "a",
		"docs/img/x.png": "x",
	})

	out, _, err := run(t, "find", "/", "*.md", "-r", "--archive", archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"/README.md", "/docs/a.md"}, lines(out))

	out, _, err = run(t, "find", "/docs", "--dirs", "--files=false", "--archive", archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"/docs/img"}, lines(out))

	_, _, err = run(t, "find", "--archive", archive, "", "*.go")
	assert.Equal(t, recls.ExitNoMatches, recls.ExitCodeForError(err))
}

func TestFind_ConfigDefaults(t *testing.T) {
	useEngine(t, cliTree(), nil)
	cfgPath := filepath.Join(t.TempDir(), "recls.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`find:
  pattern: "*_test.go"
  flags: [recursive]
`), 0644))

	out, _, err := run(t, "find", "/work", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "/work/pkg/util_test.go\n", out)

	// An explicit flag overrides the configured one.
	out, _, err = run(t, "find", "/work", "--config", cfgPath, "--recursive=false")
	assert.ErrorIs(t, err, recls.ErrNoMoreData)
	assert.Empty(t, out)
}

func TestFind_VerboseLogsDirectories(t *testing.T) {
	useEngine(t, cliTree(), nil)

	_, stderr, err := run(t, "find", "/work", "*.go", "-r", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[VERBOSE]")
}

func TestFind_CancelledContext(t *testing.T) {
	useEngine(t, cliTree(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"find", "/work", "-r"})
	err := cmd.ExecuteContext(ctx)
	assert.ErrorIs(t, err, recls.ErrUserCancelledSearch)
	assert.Equal(t, recls.ExitCancelled, recls.ExitCodeForError(err))
}

func TestStat(t *testing.T) {
	useEngine(t, cliTree(), nil)

	out, _, err := run(t, "stat", "main.go")
	require.NoError(t, err)
	assert.Equal(t, "/work/main.go\n", out)

	_, _, err = run(t, "stat", "pkg", "--files")
	assert.ErrorIs(t, err, recls.ErrEntryIsDirectory)

	out, _, err = run(t, "stat", "pkg/missing.go", "--files", "--details-later", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "placeholder: true")

	_, _, err = run(t, "stat")
	assert.Equal(t, recls.ExitUsageError, recls.ExitCodeForError(err))
}

func TestFtp(t *testing.T) {
	conn := testhelpers.NewFakeFtpConn("/")
	conn.AddFile("/pub/readme.txt", 10, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	conn.AddFile("/pub/docs/guide.txt", 20, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var seen ftp.Settings
	useEngine(t, cliTree(), func(_ context.Context, s ftp.Settings) (ftp.Conn, error) {
		seen = s
		return conn, nil
	})
	t.Setenv("RECLS_FTP_PASSWORD", "secret")

	out, _, err := run(t, "ftp", "ftp.example.com", "/pub", "*.txt", "-r", "--user", "reader", "--passive")
	require.NoError(t, err)
	assert.Equal(t, []string{"/pub/readme.txt", "/pub/docs/guide.txt"}, lines(out))

	assert.Equal(t, "ftp.example.com", seen.Host)
	assert.Equal(t, "reader", seen.Username)
	assert.Equal(t, "secret", seen.Password)
	assert.True(t, seen.DisableEPSV)
	assert.Equal(t, 1, conn.Quits())
}

func TestFtp_Profile(t *testing.T) {
	conn := testhelpers.NewFakeFtpConn("/")
	conn.AddFile("/a.txt", 1, time.Time{})

	var seen ftp.Settings
	useEngine(t, cliTree(), func(_ context.Context, s ftp.Settings) (ftp.Conn, error) {
		seen = s
		return conn, nil
	})
	cfgPath := filepath.Join(t.TempDir(), "recls.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`ftp:
  mirror:
    host: mirror.example.org
    port: 2121
    timeout: 5s
`), 0644))

	_, _, err := run(t, "ftp", "mirror", "--config", cfgPath, "--port", "2222")
	require.NoError(t, err)
	assert.Equal(t, "mirror.example.org", seen.Host)
	assert.Equal(t, 2222, seen.Port)
	assert.Equal(t, 5*time.Second, seen.Timeout)
}

func TestFtp_InvalidHost(t *testing.T) {
	useEngine(t, cliTree(), nil)

	_, _, err := run(t, "ftp", "bad host")
	assert.ErrorIs(t, err, recls.ErrFtpInitFailed)
	assert.Equal(t, recls.ExitConnectionError, recls.ExitCodeForError(err))
}
