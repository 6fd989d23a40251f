//go:build openbsd || dragonfly

package filesystem

import (
	"time"

	"golang.org/x/sys/unix"
)

// birthTime is unavailable here; the field stays zero.
func birthTime(*unix.Stat_t) time.Time {
	return time.Time{}
}
