//go:build windows

package cli

import "os"

func focusSignals() []os.Signal {
	return nil
}
