package plot

// This file contains the framebuffer renderer: grid, axes, series and legend.

import (
	"fmt"
	"image/color"
	"math"
	"unicode/utf8"

	"tsvplot/hal"

	"tinygo.org/x/tinyfont"
)

var (
	colorBG       = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	colorFG       = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	colorDim      = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF}
	colorHeaderBG = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xFF}
	colorPanelBG  = color.RGBA{R: 0x08, G: 0x08, B: 0x08, A: 0xFF}
	colorGrid     = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xFF}
	colorAxis     = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xFF}
)

// palette cycles per series.
var palette = []color.RGBA{
	{R: 0x4A, G: 0xD1, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0xD1, B: 0x4A, A: 0xFF},
	{R: 0x7F, G: 0xFF, B: 0x7F, A: 0xFF},
	{R: 0xFF, G: 0x7F, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0x60, B: 0x60, A: 0xFF},
	{R: 0xB0, G: 0x90, B: 0xFF, A: 0xFF},
	{R: 0xFF, G: 0xA0, B: 0x40, A: 0xFF},
	{R: 0x40, G: 0xE0, B: 0xC0, A: 0xFF},
	{R: 0xC8, G: 0xC8, B: 0x50, A: 0xFF},
	{R: 0xFF, G: 0xB0, B: 0xC8, A: 0xFF},
}

const maxTicks = 256

// SeriesColor returns the line color used for the i-th series.
func SeriesColor(i int) color.RGBA { return palette[i%len(palette)] }

type renderer struct {
	d    *fbDisplay
	f    *Figure
	b    Bounds
	font tinyfont.Fonter
	m    fontMetrics
	cols int
}

// Draw renders the whole figure into fb.
func (f *Figure) Draw(fb hal.Framebuffer) {
	r, ok := newRenderer(f, fb)
	if !ok {
		return
	}
	r.render()
	_ = fb.Present()
}

func newRenderer(f *Figure, fb hal.Framebuffer) (*renderer, bool) {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil, false
	}
	m, err := computeMetrics(textFont)
	if err != nil {
		return nil, false
	}
	return &renderer{
		d:    newFBDisplay(fb),
		f:    f,
		b:    f.bounds,
		font: textFont,
		m:    m,
		cols: fb.Width() / int(m.width),
	}, true
}

// plotArea returns the pixel rectangle that holds the data.
func (r *renderer) plotArea() (x, y, w, h int16, ok bool) {
	dw, dh := r.d.Size()
	headerH := r.m.height + 2
	bottomMargin := r.m.height + 2

	x = r.leftMargin()
	y = headerH + r.m.height/2
	w = dw - x - r.m.width
	h = dh - y - bottomMargin - 1
	return x, y, w, h, w > 2 && h > 2
}

func (r *renderer) leftMargin() int16 { return int16(8) * r.m.width }

// toPixel maps a data point into plot-area-relative pixel coordinates.
func (r *renderer) toPixel(x, y float64, pw, ph int16) (float64, float64) {
	b := r.b
	return spanFrac(x, b.XMin, b.XMax) * float64(pw-1),
		(1 - spanFrac(y, b.YMin, b.YMax)) * float64(ph-1)
}

func (r *renderer) render() {
	w, h := r.d.Size()
	if w <= 0 || h <= 0 {
		return
	}
	r.d.FillRectangle(0, 0, w, h, colorBG)

	headerH := r.m.height + 2
	r.d.FillRectangle(0, 0, w, headerH, colorHeaderBG)
	r.drawStringClipped(r.m.width, 1, r.f.opts.Title, colorFG, r.cols-2)

	plotX, plotY, plotW, plotH, ok := r.plotArea()
	if !ok {
		return
	}

	r.d.FillRectangle(plotX, plotY, plotW, plotH, colorPanelBG)
	r.drawGrid(plotX, plotY, plotW, plotH, r.leftMargin())
	r.drawAxes(plotX, plotY, plotW, plotH)
	for i, s := range r.f.series {
		r.drawSeries(plotX, plotY, plotW, plotH, s.X, s.Y, SeriesColor(i))
	}
	r.drawLegend(plotX, plotY, plotW, plotH, r.f.series)
}

func (r *renderer) drawGrid(plotX, plotY, plotW, plotH, leftMargin int16) {
	b := r.b
	if b.XMin >= b.XMax || b.YMin >= b.YMax {
		return
	}

	xPxPerUnit := float64(plotW-1) / 2 / halfSpan(b.XMin, b.XMax)
	yPxPerUnit := float64(plotH-1) / 2 / halfSpan(b.YMin, b.YMax)
	if xPxPerUnit <= 0 || yPxPerUnit <= 0 || math.IsInf(xPxPerUnit, 0) || math.IsInf(yPxPerUnit, 0) {
		return
	}

	// Rows are integers, so x ticks never go below one row.
	stepX := math.Max(1, niceStep(60/xPxPerUnit))
	stepY := niceStep(36 / yPxPerUnit)

	xStart := math.Ceil(b.XMin/stepX) * stepX
	for n, x := 0, xStart; x <= b.XMax && n < maxTicks; n, x = n+1, x+stepX {
		ix := int16(spanFrac(x, b.XMin, b.XMax) * float64(plotW-1))
		for y := int16(0); y < plotH; y++ {
			r.d.SetPixel(plotX+ix, plotY+y, colorGrid)
		}
		lbl := fmtAxis(x)
		r.drawLabel(plotX+ix-r.labelWidth(lbl)/2, plotY+plotH+2, lbl, 0, int16(r.cols)*r.m.width)
	}

	yStart := math.Ceil(b.YMin/stepY) * stepY
	for n, y := 0, yStart; y <= b.YMax && n < maxTicks; n, y = n+1, y+stepY {
		iy := int16((1 - spanFrac(y, b.YMin, b.YMax)) * float64(plotH-1))
		for x := int16(0); x < plotW; x++ {
			r.d.SetPixel(plotX+x, plotY+iy, colorGrid)
		}
		lbl := fmtAxis(y)
		r.drawLabel(plotX-2-r.labelWidth(lbl), plotY+iy-r.m.height/2, lbl, plotX-leftMargin, plotX-1)
	}
}

func (r *renderer) drawAxes(px0, py0, pw, ph int16) {
	b := r.b
	if b.XMin >= b.XMax || b.YMin >= b.YMax {
		return
	}
	if b.XMin <= 0 && b.XMax >= 0 {
		x := int16(spanFrac(0, b.XMin, b.XMax) * float64(pw-1))
		for y := int16(0); y < ph; y++ {
			r.d.SetPixel(px0+x, py0+y, colorAxis)
		}
	}
	if b.YMin <= 0 && b.YMax >= 0 {
		y := int16((1 - spanFrac(0, b.YMin, b.YMax)) * float64(ph-1))
		for x := int16(0); x < pw; x++ {
			r.d.SetPixel(px0+x, py0+y, colorAxis)
		}
	}
}

// drawSeries draws a polyline through the finite points of xs/ys.
// Non-finite values break the line; points with no finite neighbor get a marker.
func (r *renderer) drawSeries(px0, py0, pw, ph int16, xs, ys []float64, c color.RGBA) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return
	}

	prevOK := false
	var prevX, prevY float64
	xMin := 0.0
	yMin := 0.0
	xMax := float64(pw - 1)
	yMax := float64(ph - 1)
	for i := range xs {
		x := xs[i]
		y := ys[i]
		if !finite(x) || !finite(y) {
			prevOK = false
			continue
		}

		curX, curY := r.toPixel(x, y, pw, ph)
		if prevOK {
			cx0, cy0, cx1, cy1, ok := clipLineToRect(prevX, prevY, curX, curY, xMin, yMin, xMax, yMax)
			if ok {
				r.drawLine(
					px0+roundInt16(cx0),
					py0+roundInt16(cy0),
					px0+roundInt16(cx1),
					py0+roundInt16(cy1),
					c,
				)
			}
		} else if curX >= xMin && curX <= xMax && curY >= yMin && curY <= yMax {
			nextOK := i+1 < len(xs) && finite(xs[i+1]) && finite(ys[i+1])
			if nextOK {
				r.d.SetPixel(px0+roundInt16(curX), py0+roundInt16(curY), c)
			} else {
				r.d.FillRectangle(px0+roundInt16(curX)-1, py0+roundInt16(curY)-1, 3, 3, c)
			}
		}
		prevOK = true
		prevX = curX
		prevY = curY
	}
}

func (r *renderer) drawLegend(px0, py0, pw, ph int16, series []Series) {
	if len(series) == 0 {
		return
	}
	fw, fh := r.m.width, r.m.height
	if pw <= 2*fw || ph <= fh {
		return
	}

	plotCols := int(pw / fw)
	if plotCols < 12 {
		return
	}

	maxLegendCols := plotCols / 2
	if maxLegendCols < 12 {
		maxLegendCols = 12
	}

	maxLabel := 0
	for _, s := range series {
		n := len([]rune(s.Name))
		if n > maxLabel {
			maxLabel = n
		}
	}
	if maxLabel > 18 {
		maxLabel = 18
	}

	swatchCols := 3
	cellCols := swatchCols + 1 + maxLabel + 1
	if cellCols < 8 {
		cellCols = 8
	}
	if cellCols > maxLegendCols {
		cellCols = maxLegendCols
	}

	columnsUsed := maxLegendCols / cellCols
	if columnsUsed < 1 {
		columnsUsed = 1
	}
	if len(series) < columnsUsed {
		columnsUsed = len(series)
	}

	maxRows := int((ph - 2) / fh)
	if maxRows < 1 {
		return
	}
	rows := (len(series) + columnsUsed - 1) / columnsUsed
	if rows > maxRows {
		rows = maxRows
	}

	boxW := int16(columnsUsed*cellCols)*fw + 2
	boxH := int16(rows)*fh + 2
	if boxW > pw-2 {
		boxW = pw - 2
	}
	if boxH > ph-2 {
		boxH = ph - 2
	}

	// Top-right corner of the plot area.
	x := px0 + pw - boxW - 1
	y := py0 + 1

	r.d.FillRectangle(x, y, boxW, boxH, colorHeaderBG)
	r.d.FillRectangle(x, y, boxW, 1, colorAxis)
	r.d.FillRectangle(x, y+boxH-1, boxW, 1, colorAxis)
	r.d.FillRectangle(x, y, 1, boxH, colorAxis)
	r.d.FillRectangle(x+boxW-1, y, 1, boxH, colorAxis)

	swatchW := int16(swatchCols) * fw
	if swatchW < 6 {
		swatchW = 6
	}
	textCols := cellCols - swatchCols - 2
	if textCols < 1 {
		return
	}

	for i, s := range series {
		row := i / columnsUsed
		col := i % columnsUsed
		if row >= rows {
			break
		}

		cx := x + 1 + int16(col*cellCols)*fw
		cy := y + 1 + int16(row)*fh

		r.d.FillRectangle(cx+1, cy+fh/2-1, swatchW, 3, SeriesColor(i))
		r.drawStringClipped(cx+1+swatchW+fw, cy, s.Name, colorFG, textCols)
	}
}

// drawLabel draws a tick label starting at x, moved right to at least minX and
// cut off at maxX.
func (r *renderer) drawLabel(x, y int16, s string, minX, maxX int16) {
	x = max(x, minX, 0)
	if cols := int((maxX - x) / r.m.width); cols > 0 {
		r.drawStringClipped(x, y, s, colorDim, cols)
	}
}

func (r *renderer) labelWidth(s string) int16 {
	return int16(utf8.RuneCountInString(s)) * r.m.width
}

// niceStep rounds raw up to the next 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if !(raw > 0) || math.IsInf(raw, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	if mag == 0 {
		return 1
	}
	for _, m := range [...]float64{1, 2, 5} {
		if raw <= m*mag {
			return m * mag
		}
	}
	return 10 * mag
}

func fmtAxis(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if math.Abs(v) < 1e-12 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100000 || av < 0.01:
		return fmt.Sprintf("%.2g", v)
	case av >= 10 || av == math.Trunc(av):
		return fmt.Sprintf("%.0f", v)
	case av >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}

// clipLineToRect clips a segment with Liang-Barsky.
func clipLineToRect(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	dx := x1 - x0
	dy := y1 - y0
	u1 := 0.0
	u2 := 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - xmin, xmax - x0, y0 - ymin, ymax - y0}
	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > u2 {
				return 0, 0, 0, 0, false
			}
			if t > u1 {
				u1 = t
			}
		} else {
			if t < u1 {
				return 0, 0, 0, 0, false
			}
			if t < u2 {
				u2 = t
			}
		}
	}

	cx0 = math.Min(math.Max(x0+u1*dx, xmin), xmax)
	cy0 = math.Min(math.Max(y0+u1*dy, ymin), ymax)
	cx1 = math.Min(math.Max(x0+u2*dx, xmin), xmax)
	cy1 = math.Min(math.Max(y0+u2*dy, ymin), ymax)
	return cx0, cy0, cx1, cy1, true
}

func roundInt16(v float64) int16 { return int16(math.Round(v)) }

// drawLine draws a Bresenham line including both end points.
func (r *renderer) drawLine(x0, y0, x1, y1 int16, c color.RGBA) {
	dx, sx := span16(x0, x1)
	dy, sy := span16(y0, y1)
	e := dx - dy
	for x, y := x0, y0; ; {
		r.d.SetPixel(x, y, c)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x += sx
		}
		if e2 < dx {
			e += dx
			y += sy
		}
	}
}

// span16 returns |b-a| and the unit step from a toward b.
func span16(a, b int16) (int, int16) {
	if b < a {
		return int(a) - int(b), -1
	}
	return int(b) - int(a), 1
}

func (r *renderer) drawStringClipped(x, y int16, s string, fg color.RGBA, cols int) {
	col := int16(0)
	for _, ch := range s {
		if int(col) >= cols {
			return
		}
		tinyfont.DrawChar(r.d, r.font, x+col*r.m.width, y+r.m.offset, ch, fg)
		col++
	}
}
