//go:build ftpintegration

package ftp_test

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"os"
	"path"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/recls/internal/ftp"
	"github.com/vvka-141/recls/internal/search"
	"github.com/vvka-141/recls/internal/testinfra"
	"github.com/vvka-141/recls/pkg/recls"
)

var (
	serverOnce sync.Once
	server     *testinfra.FtpContainer
	serverErr  error
)

func startServer() (*testinfra.FtpContainer, error) {
	serverOnce.Do(func() {
		ctx := context.Background()
		server, serverErr = testinfra.StartFtp(ctx)
		if serverErr != nil {
			return
		}
		for name, content := range map[string]string{
			"pub/readme.txt":     "hello",
			"pub/docs/guide.txt": "guide",
			"pub/docs/logo.png":  "png",
		} {
			if serverErr = server.WriteFile(ctx, name, content); serverErr != nil {
				return
			}
		}
		serverErr = server.Symlink(ctx, "docs", "pub/latest")
	})
	return server, serverErr
}

// requireServer returns settings for a live server. RECLS_TEST_FTP
// (host:port) selects an existing one; otherwise a container is started.
func requireServer(t *testing.T) ftp.Settings {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := ftp.Settings{
		Username: testinfra.FtpUser,
		Password: testinfra.FtpPassword,
		Timeout:  10 * time.Second,
		Retries:  2,
	}
	if addr := os.Getenv("RECLS_TEST_FTP"); addr != "" {
		host, port, err := net.SplitHostPort(addr)
		require.NoError(t, err)
		s.Host = host
		s.Port, err = strconv.Atoi(port)
		require.NoError(t, err)
		return s
	}

	srv, err := startServer()
	if err != nil {
		t.Skipf("RECLS_TEST_FTP not set and Docker unavailable: %v", err)
	}
	s.Host, s.Port = srv.Host, srv.Port
	return s
}

func dialServer(t *testing.T) *ftp.Client {
	t.Helper()
	client, err := ftp.Dial(context.Background(), requireServer(t))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func pubDir(t *testing.T, client *ftp.Client) string {
	t.Helper()
	cwd, err := client.CurrentDir()
	require.NoError(t, err)
	return path.Join(cwd, "pub")
}

func TestServer_ReadDir(t *testing.T) {
	client := dialServer(t)

	infos, err := client.ReadDir(pubDir(t, client))
	require.NoError(t, err)

	byName := map[string]fs.FileInfo{}
	for _, info := range infos {
		byName[info.Name()] = info
	}
	require.Contains(t, byName, "readme.txt")
	require.Contains(t, byName, "docs")
	require.Contains(t, byName, "latest")
	assert.NotContains(t, byName, ".")
	assert.NotContains(t, byName, "..")

	assert.Equal(t, int64(5), byName["readme.txt"].Size())
	assert.False(t, byName["readme.txt"].ModTime().IsZero())
	assert.True(t, byName["docs"].IsDir())
	assert.NotZero(t, byName["latest"].Mode()&fs.ModeSymlink)
}

func TestServer_StatAndLstat(t *testing.T) {
	client := dialServer(t)
	pub := pubDir(t, client)

	info, err := client.Stat(path.Join(pub, "docs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	link, err := client.Lstat(path.Join(pub, "latest"))
	require.NoError(t, err)
	assert.NotZero(t, link.Mode()&fs.ModeSymlink)

	_, err = client.ReadDir(path.Join(pub, "missing"))
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}

func TestServer_LoginRejected(t *testing.T) {
	s := requireServer(t)
	s.Password = "wrong"
	s.Retries = 1

	_, err := ftp.Dial(context.Background(), s)
	assert.ErrorIs(t, err, recls.ErrFtpConnectionFailed)
}

func TestServer_SearchFtp(t *testing.T) {
	s := requireServer(t)

	h, err := search.New().SearchFtp(context.Background(), s, "pub", recls.Match("*.txt"), recls.Recursive, nil)
	require.NoError(t, err)
	defer h.Close()

	var names []string
	for {
		entry, err := h.Details()
		require.NoError(t, err)
		names = append(names, entry.SearchRelativePath())
		entry.Close()
		if err := h.Advance(); err != nil {
			require.ErrorIs(t, err, recls.ErrNoMoreData)
			break
		}
	}
	assert.Equal(t, []string{"readme.txt", "docs/guide.txt"}, names)
}
