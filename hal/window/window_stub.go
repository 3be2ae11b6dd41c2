//go:build !cgo && !windows

package window

import (
	"fmt"

	"tsvplot/hal"
)

func Run(_ string, _, _ int, _ hal.DrawFunc) error {
	return fmt.Errorf("%w: window mode requires cgo (build/run with CGO_ENABLED=1)", hal.ErrDisplayUnavailable)
}
