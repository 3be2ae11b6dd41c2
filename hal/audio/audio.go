//go:build cgo || windows || darwin

// Package audio plays PCM through the host's sound output.
package audio

import (
	"context"
	"fmt"
	"io"
	"time"

	"tsvplot/hal"

	"github.com/ebitengine/oto/v3"
)

// Play streams interleaved little-endian 16-bit stereo PCM from pcm at
// sampleRate. It blocks until pcm is drained and played, or ctx is done.
func Play(ctx context.Context, sampleRate int, pcm io.Reader) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: invalid sample rate %d", hal.ErrAudioUnavailable, sampleRate)
	}
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   100 * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", hal.ErrAudioUnavailable, err)
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	p := otoCtx.NewPlayer(pcm)
	p.Play()

	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			p.Pause()
			return ctx.Err()
		case <-tick.C:
		}
	}
	if err := p.Err(); err != nil {
		return err
	}
	return otoCtx.Err()
}
