package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"tsvplot/hal"
	"tsvplot/wav"
)

// PlayFunc plays interleaved 16-bit stereo PCM and blocks until it is done.
type PlayFunc func(ctx context.Context, sampleRate int, pcm io.Reader) error

// Play decodes the WAVE file at path and hands it to out.
func Play(ctx context.Context, log hal.Logger, path string, out PlayFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := wav.ReadSound(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if log != nil {
		h := s.Header()
		log.WriteLineString(fmt.Sprintf("%s: %s (%.1f seconds)", path, h, h.Seconds()))
	}

	pcm, err := s.PCM16Stereo()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return out(ctx, int(s.SampleRate), bytes.NewReader(pcm))
}
