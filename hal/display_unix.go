//go:build linux || freebsd || netbsd || openbsd || dragonfly

package hal

import (
	"fmt"
	"os"
)

// ProbeDisplay reports ErrDisplayUnavailable when no X11 or Wayland display is reachable.
func ProbeDisplay() error {
	return probeDisplay(os.Getenv)
}

func probeDisplay(getenv func(string) string) error {
	if getenv("DISPLAY") != "" || getenv("WAYLAND_DISPLAY") != "" {
		return nil
	}
	return fmt.Errorf("%w: neither DISPLAY nor WAYLAND_DISPLAY is set", ErrDisplayUnavailable)
}
