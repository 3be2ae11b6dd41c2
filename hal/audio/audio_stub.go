//go:build !cgo && !windows && !darwin

package audio

import (
	"context"
	"fmt"
	"io"

	"tsvplot/hal"
)

func Play(_ context.Context, _ int, _ io.Reader) error {
	return fmt.Errorf("%w: audio output requires cgo (build/run with CGO_ENABLED=1)", hal.ErrAudioUnavailable)
}
