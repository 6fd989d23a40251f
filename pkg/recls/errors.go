package recls

import (
	"errors"
	"fmt"
	"strings"
)

// Status is a recls result code. Zero is success; every failure is negative,
// so Failed reduces to a sign test.
//
// Status implements error, which lets the sentinel values below be wrapped
// with fmt.Errorf("...: %w", ...) and matched with errors.Is.
type Status int32

const (
	StatusOK Status = 0

	StatusNoMoreData                       Status = -1
	StatusOutOfMemory                      Status = -2
	StatusInvalidName                      Status = -3
	StatusSearchDirectoryInvalidCharacters Status = -4
	StatusRootedPathsInPatterns            Status = -5
	StatusDotRecursiveSearch               Status = -6
	StatusPathLimitExceeded                Status = -7
	StatusInvalidSearchType                Status = -8
	StatusDirectoryNotFound                Status = -9
	StatusPathIsNotDirectory               Status = -10
	StatusEntryIsDirectory                 Status = -11
	StatusEntryIsNotDirectory              Status = -12
	StatusAccessDenied                     Status = -13
	StatusNoHome                           Status = -14
	StatusUserCancelledSearch              Status = -15
	StatusSearchCancelled                  Status = -16
	StatusFtpInitFailed                    Status = -17
	StatusFtpConnectionFailed              Status = -18
	StatusInvalidHandle                    Status = -19
	StatusUnexpected                       Status = -20
)

var statusMessages = map[Status]string{
	StatusOK:                               "success",
	StatusNoMoreData:                       "no more data",
	StatusOutOfMemory:                      "out of memory",
	StatusInvalidName:                      "invalid name",
	StatusSearchDirectoryInvalidCharacters: "search directory contains invalid characters",
	StatusRootedPathsInPatterns:            "more than one rooted path in patterns",
	StatusDotRecursiveSearch:               "dot pattern not allowed in this search",
	StatusPathLimitExceeded:                "path limit exceeded",
	StatusInvalidSearchType:                "invalid search type",
	StatusDirectoryNotFound:                "directory not found",
	StatusPathIsNotDirectory:               "path is not a directory",
	StatusEntryIsDirectory:                 "entry is a directory",
	StatusEntryIsNotDirectory:              "entry is not a directory",
	StatusAccessDenied:                     "access denied",
	StatusNoHome:                           "home directory could not be determined",
	StatusUserCancelledSearch:              "search cancelled by progress callback",
	StatusSearchCancelled:                  "search cancelled by process callback",
	StatusFtpInitFailed:                    "ftp initialisation failed",
	StatusFtpConnectionFailed:              "ftp connection failed",
	StatusInvalidHandle:                    "invalid search handle",
	StatusUnexpected:                       "unexpected condition",
}

// Error implements error.
func (s Status) Error() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return fmt.Sprintf("recls status %d", int32(s))
}

// Failed reports whether s denotes a failure.
func (s Status) Failed() bool { return s < 0 }

// Sentinel errors for every failure status.
//
// Example usage:
//
//	h, err := search.Search("~/src", recls.Match("*.go"), recls.Recursive)
//	if errors.Is(err, recls.ErrNoMoreData) {
//	    // nothing matched
//	}
var (
	// ErrNoMoreData signals both "search exhausted" and "stat target absent".
	ErrNoMoreData error = StatusNoMoreData

	ErrOutOfMemory                      error = StatusOutOfMemory
	ErrInvalidName                      error = StatusInvalidName
	ErrSearchDirectoryInvalidCharacters error = StatusSearchDirectoryInvalidCharacters
	ErrRootedPathsInPatterns            error = StatusRootedPathsInPatterns
	ErrDotRecursiveSearch               error = StatusDotRecursiveSearch
	ErrPathLimitExceeded                error = StatusPathLimitExceeded
	ErrInvalidSearchType                error = StatusInvalidSearchType
	ErrDirectoryNotFound                error = StatusDirectoryNotFound
	ErrPathIsNotDirectory               error = StatusPathIsNotDirectory
	ErrEntryIsDirectory                 error = StatusEntryIsDirectory
	ErrEntryIsNotDirectory              error = StatusEntryIsNotDirectory
	ErrAccessDenied                     error = StatusAccessDenied
	ErrNoHome                           error = StatusNoHome

	// ErrUserCancelledSearch is returned when a progress callback cancels.
	ErrUserCancelledSearch error = StatusUserCancelledSearch

	// ErrSearchCancelled is returned when a process callback cancels.
	ErrSearchCancelled error = StatusSearchCancelled

	ErrFtpInitFailed       error = StatusFtpInitFailed
	ErrFtpConnectionFailed error = StatusFtpConnectionFailed
	ErrInvalidHandle       error = StatusInvalidHandle
	ErrUnexpected          error = StatusUnexpected
)

// ErrInvalidConfig is returned by front ends for unusable configuration
// files, profiles or flag combinations. It carries no Status.
var ErrInvalidConfig = errors.New("invalid configuration")

// StatusOf extracts the Status carried by err.
// Returns StatusOK for nil and StatusUnexpected for errors that carry no status.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return StatusUnexpected
}

// IsInputError reports whether err is one of the input-validity failures
// raised before any traversal starts.
func IsInputError(err error) bool {
	switch StatusOf(err) {
	case StatusInvalidName,
		StatusSearchDirectoryInvalidCharacters,
		StatusRootedPathsInPatterns,
		StatusDotRecursiveSearch,
		StatusPathLimitExceeded,
		StatusInvalidSearchType:
		return true
	}
	return false
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if isUsageError(err) {
		return ExitUsageError
	}
	if errors.Is(err, ErrInvalidConfig) {
		return ExitConfigError
	}

	switch s := StatusOf(err); {
	case s == StatusNoMoreData:
		return ExitNoMatches
	case IsInputError(err):
		return ExitInvalidInput
	case s == StatusDirectoryNotFound, s == StatusPathIsNotDirectory,
		s == StatusEntryIsDirectory, s == StatusEntryIsNotDirectory:
		return ExitPathError
	case s == StatusAccessDenied:
		return ExitAccessDenied
	case s == StatusUserCancelledSearch, s == StatusSearchCancelled:
		return ExitCancelled
	case s == StatusFtpInitFailed, s == StatusFtpConnectionFailed:
		return ExitConnectionError
	case s == StatusNoHome:
		return ExitConfigError
	}

	return ExitGeneralError
}

// isUsageError recognises the error strings cobra produces for bad invocations.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"accepts ",
		"requires at least",
		"required flag",
		"invalid argument",
		"flag needs an argument",
	} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
