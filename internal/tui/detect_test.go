package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name           string
		nonInteractive string
		ci             string
		noColor        string
	}{
		{"explicit opt out", "1", "", ""},
		{"ci", "", "true", ""},
		{"no color", "", "", "1"},
		// Only "1" opts out; the terminal check still fails under go test.
		{"wrong value falls through", "true", "", ""},
		{"no terminal", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RECLS_NON_INTERACTIVE", tt.nonInteractive)
			t.Setenv("CI", tt.ci)
			t.Setenv("NO_COLOR", tt.noColor)

			assert.Equal(t, ModeNonInteractive, DetectMode())
			assert.False(t, IsInteractive())
		})
	}
}

func TestTerminalWidth_Fallback(t *testing.T) {
	assert.Equal(t, 80, TerminalWidth(-1, 80))
}
