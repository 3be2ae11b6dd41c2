package plot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"

	"tsvplot/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// fbDisplay draws into an RGB565 hal.Framebuffer for tinyfont and the renderer.
type fbDisplay struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = (*fbDisplay)(nil)

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	return &fbDisplay{fb: fb}
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.fill(int(x), int(y), 1, 1, c)
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) {
	d.fill(int(x), int(y), int(width), int(height), c)
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

// fill paints the part of the w x h rectangle at (x, y) that lies on the framebuffer.
func (d *fbDisplay) fill(x, y, w, h int, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 || w <= 0 || h <= 0 {
		return
	}
	bounds := image.Rect(0, 0, d.fb.Width(), d.fb.Height())
	r := image.Rect(x, y, x+w, y+h).Intersect(bounds)
	if r.Empty() {
		return
	}
	buf, stride := d.fb.Buffer(), d.fb.StrideBytes()
	if len(buf) < (r.Max.Y-1)*stride+2*r.Max.X {
		return
	}
	pixel := hal.RGB565(c.R, c.G, c.B)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := buf[py*stride:]
		for px := r.Min.X; px < r.Max.X; px++ {
			binary.LittleEndian.PutUint16(row[2*px:], pixel)
		}
	}
}

// textFont is the font used for titles, tick labels and the legend.
var textFont tinyfont.Fonter = &proggy.TinySZ8pt7b

type fontMetrics struct {
	width  int16 // cell advance
	height int16 // line height
	offset int16 // baseline from the top of the line
}

// computeMetrics derives monospace cell metrics from the printable ASCII glyphs of f.
//
// Line height is the font's YAdvance (or the glyph bounding box if larger) and
// the baseline is chosen so the tallest and deepest glyphs both fit.
func computeMetrics(f tinyfont.Fonter) (fontMetrics, error) {
	if f == nil {
		return fontMetrics{}, errors.New("nil font")
	}
	_, outboxWidth := tinyfont.LineWidth(f, "0")
	if outboxWidth == 0 {
		return fontMetrics{}, errors.New("zero-width font")
	}

	minY, maxY := 0, 0
	first := true
	for r := rune(0x21); r < 0x7f; r++ {
		info := f.GetGlyph(r).Info()
		if info.Height == 0 {
			continue
		}
		top := int(info.YOffset)
		bottom := top + int(info.Height)
		if first {
			minY, maxY = top, bottom
			first = false
			continue
		}
		if top < minY {
			minY = top
		}
		if bottom > maxY {
			maxY = bottom
		}
	}
	if first {
		return fontMetrics{}, errors.New("no glyphs")
	}

	bbox := maxY - minY
	h := int(f.GetYAdvance())
	if h < bbox {
		h = bbox
	}
	if h <= 0 || h > 127 {
		return fontMetrics{}, fmt.Errorf("invalid line height: %d", h)
	}
	off := -minY + (h-bbox)/2
	return fontMetrics{width: int16(outboxWidth), height: int16(h), offset: int16(off)}, nil
}
