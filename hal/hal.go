package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// ErrDisplayUnavailable is returned when no window can be opened on this host.
var ErrDisplayUnavailable = errors.New("display unavailable")

// ErrAudioUnavailable is returned when no audio output can be opened.
var ErrAudioUnavailable = errors.New("audio unavailable")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// DrawFunc renders a full frame into fb.
type DrawFunc func(fb Framebuffer)
