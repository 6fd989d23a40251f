package recls

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Search completed
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or environment
	ExitConnectionError = 11 // FTP connection failed
	ExitNoMatches       = 12 // Nothing matched / stat target absent
	ExitInvalidInput    = 13 // Search root or pattern rejected
	ExitPathError       = 14 // Path missing or of the wrong type
	ExitAccessDenied    = 15 // Access failure with StopOnAccessFailure
	ExitCancelled       = 16 // Cancelled by a callback or signal
)

const (
	// PatternSeparator separates the tokens of a multi-pattern.
	PatternSeparator = '|'

	// HomeMarker introduces a home-relative search root or stat path.
	HomeMarker = '~'

	// Wildcards are the characters that make a string a pattern rather than a path.
	Wildcards = "*?"

	// WildcardsAll is the pattern that matches every entry.
	WildcardsAll = "*"

	// WildcardsAllLegacy is accepted as a synonym of WildcardsAll.
	WildcardsAllLegacy = "*.*"

	// MaxPathComponentLength is the longest name a single pattern token may have.
	MaxPathComponentLength = 255

	// DefaultFtpPort is used when an FTP host is given without a port.
	DefaultFtpPort = 21

	// DefaultFtpTimeout bounds FTP dial and control-connection operations.
	DefaultFtpTimeout = 30 * time.Second

	// DefaultFtpRetryAttempts is the number of reconnect attempts after a transient failure.
	DefaultFtpRetryAttempts = 3

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 200 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 10 * time.Second
)
