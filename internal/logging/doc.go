// Package logging provides concrete implementations of the recls.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes messages to stderr with colored level prefixes
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
