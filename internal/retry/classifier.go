package retry

import (
	"errors"
	"net"
	"net/textproto"
	"strings"
	"syscall"
)

// FTP reply codes for transient conditions (RFC 959 section 4.2).
// Every 4xx reply is a transient negative completion; these are the ones
// seen while connecting.
const (
	ftpCodeServiceNotAvailable = 421
	ftpCodeCannotOpenData      = 425
	ftpCodeTransferAborted     = 426
	ftpCodeFileUnavailable     = 450
	ftpCodeLocalError          = 451
	ftpCodeInsufficientStorage = 452
)

// FTPErrorClassifier implements ErrorClassifier for FTP control connections.
type FTPErrorClassifier struct{}

// NewFTPErrorClassifier creates a new FTP error classifier.
func NewFTPErrorClassifier() *FTPErrorClassifier {
	return &FTPErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *FTPErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	// FTP server replies
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return c.isTransientReply(protoErr.Code)
	}

	if c.isNetworkError(err) {
		return true
	}

	return c.isConnectionError(err)
}

// isTransientReply checks FTP reply codes for transient conditions.
func (c *FTPErrorClassifier) isTransientReply(code int) bool {
	switch code {
	case ftpCodeServiceNotAvailable,
		ftpCodeCannotOpenData,
		ftpCodeTransferAborted,
		ftpCodeFileUnavailable,
		ftpCodeLocalError,
		ftpCodeInsufficientStorage:
		return true
	}

	// Remaining 4xx replies are transient by definition; 5xx (including
	// 530 not logged in) are permanent.
	return code >= 400 && code < 500
}

// isNetworkError checks for network-level errors.
func (c *FTPErrorClassifier) isNetworkError(err error) bool {
	// DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	// Network operation errors
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}

		if opErr.Err != nil {
			// Connection refused (server not ready)
			if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
				return true
			}

			// Connection reset by peer
			if errors.Is(opErr.Err, syscall.ECONNRESET) {
				return true
			}

			// Network unreachable
			if errors.Is(opErr.Err, syscall.ENETUNREACH) {
				return true
			}

			// Host unreachable
			if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
				return true
			}
		}
	}

	return false
}

// isConnectionError matches connection failures that arrive as plain text.
func (c *FTPErrorClassifier) isConnectionError(err error) bool {
	errMsg := strings.ToLower(err.Error())

	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"network is unreachable",
		"i/o timeout",
		"broken pipe",
		"unexpected eof",
		"too many users",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
