package logging

import "github.com/vvka-141/recls/pkg/recls"

// NullLogger discards everything. The search engine uses it when no
// logger is configured.
type NullLogger struct{}

var _ recls.Logger = (*NullLogger)(nil)

// NewNullLogger creates a new NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (*NullLogger) Verbose(string, ...interface{}) {}
func (*NullLogger) Info(string, ...interface{})    {}
func (*NullLogger) Error(string, ...interface{})   {}
