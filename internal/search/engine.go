package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/vvka-141/recls/internal/files/filesystem"
	"github.com/vvka-141/recls/internal/ftp"
	"github.com/vvka-141/recls/internal/logging"
	"github.com/vvka-141/recls/pkg/recls"
)

// Engine runs searches against a file-system provider. The zero-option
// Engine searches the local disk; Engines are safe for concurrent use as
// long as their provider is.
type Engine struct {
	fs     filesystem.FileSystemProvider
	env    Environment
	logger recls.Logger
	dialer ftp.Dialer
}

// Option configures an Engine.
type Option func(*Engine)

// WithFileSystem replaces the local file-system provider.
func WithFileSystem(p filesystem.FileSystemProvider) Option {
	return func(e *Engine) { e.fs = p }
}

// WithEnvironment replaces the home and working directory lookups.
func WithEnvironment(env Environment) Option {
	return func(e *Engine) { e.env = env }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l recls.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithFtpDialer replaces how FTP connections are opened.
func WithFtpDialer(d ftp.Dialer) Option {
	return func(e *Engine) { e.dialer = d }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		fs:     filesystem.NewOSFileSystem(),
		env:    OSEnvironment{},
		logger: logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) local() backend {
	return localBackend{FileSystemProvider: e.fs, Environment: e.env}
}

// Search starts a search for entries under root whose names match pattern.
// When nothing matches, Search returns ErrNoMoreData and no handle.
//
// The pattern "." is accepted without Recursive, but listings never
// contain "." or "..", so such a search always ends with ErrNoMoreData.
// Use Stat to describe the root itself.
func (e *Engine) Search(root string, pattern recls.Pattern, flags recls.Flags) (*Handle, error) {
	return e.SearchWithProgress(root, pattern, flags, nil)
}

// SearchWithProgress is Search with a callback invoked for every directory
// entered. The callback may Skip the directory or Cancel the search.
func (e *Engine) SearchWithProgress(root string, pattern recls.Pattern, flags recls.Flags, progress recls.ProgressFunc) (h *Handle, err error) {
	defer recoverBoundary(e.logger, &err)
	return e.search(e.local(), root, pattern, flags, progress)
}

// SearchFtp searches a remote tree. The handle owns the connection and
// closes it on Close. An empty root searches the login directory.
func (e *Engine) SearchFtp(ctx context.Context, s ftp.Settings, root string, pattern recls.Pattern, flags recls.Flags, progress recls.ProgressFunc) (h *Handle, err error) {
	defer recoverBoundary(e.logger, &err)

	if flags.Has(recls.PassiveFtp) {
		s.DisableEPSV = true
	}
	opts := []ftp.Option{ftp.WithLogger(e.logger)}
	if e.dialer != nil {
		opts = append(opts, ftp.WithDialer(e.dialer))
	}
	client, err := ftp.Dial(ctx, s, opts...)
	if err != nil {
		return nil, err
	}
	return e.search(ftpBackend{Client: client}, root, pattern, flags, progress)
}

// Process calls fn for every match. Returning Cancel from fn stops the
// search with ErrSearchCancelled; a search that simply runs out of
// matches, including one that finds none, returns nil.
func (e *Engine) Process(root string, pattern recls.Pattern, flags recls.Flags, fn recls.ProcessFunc) (err error) {
	defer recoverBoundary(e.logger, &err)

	h, err := e.Search(root, pattern, flags)
	if errors.Is(err, recls.ErrNoMoreData) {
		return nil
	}
	if err != nil {
		return err
	}
	defer h.Close()

	for {
		entry, err := h.Details()
		if err != nil {
			return err
		}
		ctrl := fn(entry)
		entry.Close()
		if ctrl == recls.Cancel {
			return recls.ErrSearchCancelled
		}
		if err := h.Advance(); err != nil {
			if errors.Is(err, recls.ErrNoMoreData) {
				return nil
			}
			return err
		}
	}
}

// search normalizes the request and builds the root node. be is closed
// unless a handle takes ownership of it.
func (e *Engine) search(be backend, root string, pattern recls.Pattern, flags recls.Flags, progress recls.ProgressFunc) (h *Handle, err error) {
	defer func() {
		if h == nil {
			_ = be.Close()
		}
	}()

	syntax := be.syntax()
	n := normalizer{syntax: syntax, env: be, logger: e.logger}
	q, err := n.normalize(root, pattern, flags)
	if err != nil {
		return nil, err
	}

	info, err := be.Stat(syntax.clean(q.root))
	switch {
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("search root %s: %w", q.root, recls.ErrAccessDenied)
	case err != nil:
		return nil, fmt.Errorf("search root %s: %v: %w", q.root, err, recls.ErrDirectoryNotFound)
	case !info.IsDir():
		return nil, fmt.Errorf("search root %s: %w", q.root, recls.ErrPathIsNotDirectory)
	}

	t := &traversal{
		be:       be,
		syntax:   syntax,
		flags:    q.flags,
		match:    newMatcher(q.pattern, foldNames(syntax.remote)),
		root:     q.root,
		progress: progress,
		logger:   e.logger,
	}
	st := filesystem.NativeStatOf(info)
	node, err := newDirNode(t, q.root, 0, fileID{device: st.Device, inode: st.Inode}, nil)
	if err != nil {
		return nil, err
	}

	h = newHandle(node, be, e.logger)
	e.logger.Verbose("search %s: root=%s pattern=%s flags=%s", h.id, q.root, q.pattern, q.flags)
	return h, nil
}

var defaultEngine = New()

// Search runs Engine.Search on the local disk.
func Search(root string, pattern recls.Pattern, flags recls.Flags) (*Handle, error) {
	return defaultEngine.Search(root, pattern, flags)
}

// SearchWithProgress runs Engine.SearchWithProgress on the local disk.
func SearchWithProgress(root string, pattern recls.Pattern, flags recls.Flags, progress recls.ProgressFunc) (*Handle, error) {
	return defaultEngine.SearchWithProgress(root, pattern, flags, progress)
}

// Process runs Engine.Process on the local disk.
func Process(root string, pattern recls.Pattern, flags recls.Flags, fn recls.ProcessFunc) error {
	return defaultEngine.Process(root, pattern, flags, fn)
}

// Stat runs Engine.Stat on the local disk.
func Stat(path string, flags recls.Flags) (*recls.Entry, error) {
	return defaultEngine.Stat(path, flags)
}
