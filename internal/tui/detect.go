package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for recls.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and redirected output.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is watching the terminal.
	ModeInteractive
)

// DetectMode determines whether recls may draw live progress.
//
// Returns ModeNonInteractive if:
//   - RECLS_NON_INTERACTIVE=1 is set
//   - CI=true is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//   - stderr is not a terminal (progress is drawn there)
//
// Returns ModeInteractive otherwise.
func DetectMode() Mode {
	if os.Getenv("RECLS_NON_INTERACTIVE") == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}

	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

// TerminalWidth returns the width of the terminal behind fd, or fallback.
func TerminalWidth(fd int, fallback int) int {
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
