package search

import (
	"fmt"

	"github.com/vvka-141/recls/pkg/recls"
)

// recoverBoundary turns a panic escaping a public operation into
// ErrUnexpected. Use as: defer recoverBoundary(logger, &err).
func recoverBoundary(logger recls.Logger, err *error) {
	if r := recover(); r != nil {
		logger.Error("recovered from panic: %v", r)
		*err = fmt.Errorf("panic: %v: %w", r, recls.ErrUnexpected)
	}
}
