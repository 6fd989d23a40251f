package testinfra

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	FtpImage    = "delfer/alpine-ftp-server:latest"
	FtpUser     = "recls"
	FtpPassword = "recls"

	ftpHome = "/ftp/recls"

	// vsftpd hands out data ports from this range. They are published on
	// the same host ports, since the server announces them verbatim.
	passivePortMin = 21000
	passivePortMax = 21004
)

type FtpContainer struct {
	testcontainers.Container
	Host string
	Port int
}

// StartFtp runs a vsftpd server with one account whose home directory
// starts empty. Populate it with WriteFile and Symlink.
func StartFtp(ctx context.Context) (*FtpContainer, error) {
	exposed := []string{"21/tcp"}
	for p := passivePortMin; p <= passivePortMax; p++ {
		exposed = append(exposed, fmt.Sprintf("%d:%d/tcp", p, p))
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        FtpImage,
			ExposedPorts: exposed,
			Env: map[string]string{
				"USERS":    fmt.Sprintf("%s|%s|%s", FtpUser, FtpPassword, ftpHome),
				"ADDRESS":  "127.0.0.1",
				"MIN_PORT": fmt.Sprint(passivePortMin),
				"MAX_PORT": fmt.Sprint(passivePortMax),
			},
			WaitingFor: wait.ForListeningPort("21/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start ftp: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get ftp host: %w", err)
	}
	port, err := ctr.MappedPort(ctx, "21/tcp")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get ftp port: %w", err)
	}

	return &FtpContainer{Container: ctr, Host: host, Port: port.Int()}, nil
}

// WriteFile creates name, relative to the account's home, with content.
func (c *FtpContainer) WriteFile(ctx context.Context, name, content string) error {
	return c.shell(ctx, `mkdir -p "$(dirname "$1")" && printf %s "$2" > "$1" && chmod 644 "$1"`,
		path.Join(ftpHome, name), content)
}

// Symlink creates a symbolic link at name pointing to target.
func (c *FtpContainer) Symlink(ctx context.Context, target, name string) error {
	return c.shell(ctx, `ln -s "$1" "$2"`, target, path.Join(ftpHome, name))
}

func (c *FtpContainer) shell(ctx context.Context, script string, args ...string) error {
	cmd := append([]string{"sh", "-c", script, "sh"}, args...)
	code, out, err := c.Exec(ctx, cmd)
	if err != nil {
		return fmt.Errorf("exec %q: %w", script, err)
	}
	if code != 0 {
		msg, _ := io.ReadAll(out)
		return fmt.Errorf("exec %q: exit %d: %s", script, code, strings.TrimSpace(string(msg)))
	}
	return nil
}
