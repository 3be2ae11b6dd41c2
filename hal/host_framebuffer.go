package hal

import (
	"image"
	"sync"
)

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

// NewFramebuffer allocates an in-memory RGB565 framebuffer.
// Non-positive dimensions are clamped to 1.
func NewFramebuffer(width, height int) Framebuffer {
	return newHostFramebuffer(width, height)
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }
func (f *hostFramebuffer) Present() error      { return nil }

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

// toRGBA expands the RGB565 buffer into dst, which must match the framebuffer size.
func (f *hostFramebuffer) toRGBA(dst *image.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()

	src := f.buf
	pix := dst.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(pix); i += 2 {
		r, g, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		pix[j+0] = r
		pix[j+1] = g
		pix[j+2] = b
		pix[j+3] = 0xFF
	}
}

// Snapshot converts a framebuffer to an RGBA image.
func Snapshot(fb Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	if hf, ok := fb.(*hostFramebuffer); ok {
		hf.toRGBA(img)
		return img
	}
	if fb.Format() != PixelFormatRGB565 {
		return img
	}
	buf := fb.Buffer()
	stride := fb.StrideBytes()
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			off := y*stride + x*2
			if off+1 >= len(buf) {
				continue
			}
			r, g, b := rgb888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
			j := img.PixOffset(x, y)
			img.Pix[j+0] = r
			img.Pix[j+1] = g
			img.Pix[j+2] = b
			img.Pix[j+3] = 0xFF
		}
	}
	return img
}
