package search

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vvka-141/recls/pkg/recls"
)

// Handle is an active search positioned on its current entry. A Handle is
// driven by one goroutine at a time; entries it returns may be shared.
//
// Once Advance reports ErrNoMoreData, or any other error, the handle stays
// exhausted: every later Advance or Details returns ErrNoMoreData.
type Handle struct {
	id     uuid.UUID
	root   searchNode
	be     backend
	logger recls.Logger
	last   error
	closed bool
}

func newHandle(root searchNode, be backend, logger recls.Logger) *Handle {
	return &Handle{
		id:     uuid.New(),
		root:   root,
		be:     be,
		logger: logger,
	}
}

// ID identifies the search in log output.
func (h *Handle) ID() uuid.UUID {
	if h == nil {
		return uuid.Nil
	}
	return h.id
}

// Advance moves to the next entry.
func (h *Handle) Advance() (err error) {
	if h == nil || h.closed {
		return recls.ErrInvalidHandle
	}
	defer func() { h.last = err }()
	defer recoverBoundary(h.logger, &err)

	if h.root == nil {
		return recls.ErrNoMoreData
	}
	if err := h.root.advance(); err != nil {
		h.drop()
		if !errors.Is(err, recls.ErrNoMoreData) {
			h.logger.Verbose("search %s stopped: %v", h.id, err)
		}
		return err
	}
	return nil
}

// Details returns the current entry. The caller owns the returned
// reference and must Close it.
func (h *Handle) Details() (entry *recls.Entry, err error) {
	if h == nil || h.closed {
		return nil, recls.ErrInvalidHandle
	}
	defer func() { h.last = err }()
	defer recoverBoundary(h.logger, &err)

	if h.root == nil {
		return nil, recls.ErrNoMoreData
	}
	return h.root.details()
}

// AdvanceAndDetails advances and returns the new current entry.
func (h *Handle) AdvanceAndDetails() (*recls.Entry, error) {
	if err := h.Advance(); err != nil {
		return nil, err
	}
	return h.Details()
}

// LastError returns the result of the most recent Advance or Details.
func (h *Handle) LastError() error {
	if h == nil {
		return recls.ErrInvalidHandle
	}
	return h.last
}

// Close releases the search and any connection it holds. Closing twice
// is harmless.
func (h *Handle) Close() error {
	if h == nil {
		return recls.ErrInvalidHandle
	}
	if h.closed {
		return nil
	}
	h.closed = true
	h.drop()
	h.logger.Verbose("search %s closed", h.id)
	if err := h.be.Close(); err != nil {
		return fmt.Errorf("close search %s: %w", h.id, err)
	}
	return nil
}

func (h *Handle) drop() {
	if h.root != nil {
		h.root.close()
		h.root = nil
	}
}
