//go:build !windows

package cli

import (
	"os"
	"syscall"
)

// focusSignals are treated like the window regaining focus.
func focusSignals() []os.Signal {
	return []os.Signal{syscall.SIGUSR1}
}
