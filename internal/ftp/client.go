package ftp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/textproto"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/vvka-141/recls/internal/files/filesystem"
	"github.com/vvka-141/recls/internal/logging"
	"github.com/vvka-141/recls/internal/retry"
	"github.com/vvka-141/recls/pkg/recls"
)

// Conn is the subset of *ftp.ServerConn the client needs.
type Conn interface {
	List(path string) ([]*ftp.Entry, error)
	CurrentDir() (string, error)
	Quit() error
}

var _ Conn = (*ftp.ServerConn)(nil)

// Dialer opens and authenticates a control connection.
type Dialer func(ctx context.Context, s Settings) (Conn, error)

// Settings identify an FTP server and the account to log in with.
type Settings struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
	Retries  int

	// DisableEPSV forces plain PASV data connections.
	DisableEPSV bool
}

// Address returns host:port, applying the default port.
func (s Settings) Address() string {
	port := s.Port
	if port == 0 {
		port = recls.DefaultFtpPort
	}
	return net.JoinHostPort(s.Host, strconv.Itoa(port))
}

// Validate checks that the settings can be used to connect.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Host) == "" {
		return fmt.Errorf("ftp host is required: %w", recls.ErrFtpInitFailed)
	}
	if strings.ContainsAny(s.Host, "/ ") {
		return fmt.Errorf("invalid ftp host %q: %w", s.Host, recls.ErrFtpInitFailed)
	}
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("invalid ftp port %d: %w", s.Port, recls.ErrFtpInitFailed)
	}
	return nil
}

// Option configures a Client at Dial time.
type Option func(*dialConfig)

type dialConfig struct {
	dialer   Dialer
	logger   recls.Logger
	strategy recls.BackoffStrategy
}

// WithDialer replaces the network dialer, mainly for tests.
func WithDialer(d Dialer) Option {
	return func(c *dialConfig) { c.dialer = d }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l recls.Logger) Option {
	return func(c *dialConfig) { c.logger = l }
}

// WithBackoff replaces the retry strategy.
func WithBackoff(b recls.BackoffStrategy) Option {
	return func(c *dialConfig) { c.strategy = b }
}

// Client presents a remote FTP tree as a filesystem.FileSystemProvider.
// Paths are absolute and use forward slashes. A Client wraps a single
// control connection and is not safe for concurrent use.
type Client struct {
	conn Conn
}

// NewClient wraps an already authenticated connection.
func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// Dial connects and logs in, retrying transient failures.
func Dial(ctx context.Context, s Settings, opts ...Option) (*Client, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	retries := s.Retries
	if retries == 0 {
		retries = recls.DefaultFtpRetryAttempts
	}
	cfg := dialConfig{
		dialer: dialServer,
		logger: logging.NewNullLogger(),
		strategy: retry.NewExponentialBackoff(retries,
			retry.WithInitialDelay(recls.DefaultRetryInitialDelay),
			retry.WithMaxDelay(recls.DefaultRetryMaxDelay),
		),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	executor := retry.NewExecutor(retry.NewFTPErrorClassifier(), cfg.strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			cfg.logger.Verbose("ftp connect to %s failed (attempt %d): %v; retrying in %v", s.Address(), attempt+1, err, delay)
		})

	var conn Conn
	err := executor.Execute(ctx, func(ctx context.Context) error {
		c, err := cfg.dialer(ctx, s)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %v: %w", s.Address(), err, recls.ErrFtpConnectionFailed)
	}

	cfg.logger.Verbose("connected to ftp://%s", s.Address())
	return NewClient(conn), nil
}

func dialServer(ctx context.Context, s Settings) (Conn, error) {
	timeout := s.Timeout
	if timeout == 0 {
		timeout = recls.DefaultFtpTimeout
	}
	conn, err := ftp.Dial(s.Address(),
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(timeout),
		ftp.DialWithDisabledEPSV(s.DisableEPSV),
	)
	if err != nil {
		return nil, err
	}

	user := s.Username
	password := s.Password
	if user == "" {
		user = "anonymous"
		if password == "" {
			password = "anonymous"
		}
	}
	if err := conn.Login(user, password); err != nil {
		_ = conn.Quit()
		return nil, err
	}
	return conn, nil
}

// CurrentDir returns the login directory.
func (c *Client) CurrentDir() (string, error) {
	dir, err := c.conn.CurrentDir()
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "/"
	}
	return dir, nil
}

// Close ends the session.
func (c *Client) Close() error {
	return c.conn.Quit()
}

// ReadDir lists dir, sorted by name. The "." and ".." entries some servers
// report are dropped.
func (c *Client) ReadDir(dir string) ([]filesystem.FileInfo, error) {
	entries, err := c.conn.List(dir)
	if err != nil {
		return nil, &fs.PathError{Op: "list", Path: dir, Err: replyError(err)}
	}

	result := make([]filesystem.FileInfo, 0, len(entries))
	for _, e := range entries {
		name := path.Base(e.Name)
		if name == "." || name == ".." || name == "/" {
			continue
		}
		result = append(result, newEntryInfo(name, e))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result, nil
}

// Stat describes p. Symbolic links that can be listed are reported as
// directories, others as files.
func (c *Client) Stat(p string) (filesystem.FileInfo, error) {
	info, err := c.Lstat(p)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return info, err
	}
	st := *filesystem.NativeStatOf(info)
	if _, err := c.conn.List(p); err == nil {
		st.Mode = fs.ModeDir | 0o755
	} else {
		st.Mode = 0o644
	}
	return &entryInfo{name: info.Name(), st: st}, nil
}

// Lstat describes p from its parent's listing.
func (c *Client) Lstat(p string) (filesystem.FileInfo, error) {
	p = path.Clean("/" + strings.TrimPrefix(p, "/"))
	if p == "/" {
		return &entryInfo{name: "/", st: recls.NativeStat{Mode: fs.ModeDir | 0o755}}, nil
	}

	dir, name := path.Split(p)
	entries, err := c.conn.List(dir)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: p, Err: replyError(err)}
	}
	for _, e := range entries {
		if path.Base(e.Name) == name {
			return newEntryInfo(name, e), nil
		}
	}
	return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
}

// replyError maps "550 no such file" style replies onto fs errors.
func replyError(err error) error {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) && protoErr.Code == ftp.StatusFileUnavailable {
		return fmt.Errorf("%w: %v", fs.ErrNotExist, err)
	}
	return err
}

var _ filesystem.FileSystemProvider = (*Client)(nil)
