// Package plot renders table columns as line series against row index.
//
// A Figure is built once from a table and owns everything needed to draw it:
// the derived series, the axis bounds and the options. Drawing targets any
// hal.Framebuffer, so the same figure renders into a window or an in-memory
// buffer.
package plot

import (
	"errors"
	"fmt"
	"math"

	"tsvplot/hal"
	"tsvplot/table"
)

var (
	// ErrEmptyData reports a table with nothing to plot.
	ErrEmptyData = errors.New("empty data")
	// ErrTextColumn reports a text column under the TextReject policy.
	ErrTextColumn = errors.New("text column")
)

// TextPolicy selects how text columns are handled.
type TextPolicy uint8

const (
	// TextSkip leaves text columns out of the figure (default).
	TextSkip TextPolicy = iota
	// TextReject fails figure construction on the first text column.
	TextReject
	// TextCategorical plots text columns as ordinal codes, numbered by first appearance.
	TextCategorical
)

func (p TextPolicy) String() string {
	switch p {
	case TextSkip:
		return "skip"
	case TextReject:
		return "reject"
	case TextCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("TextPolicy(%d)", uint8(p))
	}
}

const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Options configures a Figure.
type Options struct {
	Title  string
	Text   TextPolicy
	Width  int // initial window width, DefaultWidth if <= 0
	Height int // initial window height, DefaultHeight if <= 0
}

// Series is one plotted column. X holds row positions.
type Series struct {
	Name string
	X    []float64
	Y    []float64
	// Categories is set for categorical series; Y[i] indexes into it.
	Categories []string
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.X) }

// Bounds is the data-space rectangle shown by the axes.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Figure is an explicitly owned chart.
type Figure struct {
	opts    Options
	series  []Series
	skipped []string
	bounds  Bounds
}

// New builds a figure with one series per plottable column of t.
func New(t *table.Table, opts Options) (*Figure, error) {
	if t.Rows() == 0 || t.NumColumns() == 0 {
		return nil, fmt.Errorf("%w: table has %d rows and %d columns", ErrEmptyData, t.Rows(), t.NumColumns())
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	xs := make([]float64, t.Rows())
	for i := range xs {
		xs[i] = float64(i)
	}

	f := &Figure{opts: opts}
	for _, c := range t.Columns() {
		switch c.Kind {
		case table.KindNumeric:
			f.series = append(f.series, Series{Name: c.Name, X: xs, Y: c.Values})
		case table.KindText:
			switch opts.Text {
			case TextReject:
				return nil, fmt.Errorf("%w: column %s is not numeric", ErrTextColumn, c.Name)
			case TextCategorical:
				f.series = append(f.series, categorical(c, xs))
			default:
				f.skipped = append(f.skipped, c.Name)
			}
		}
	}
	if len(f.series) == 0 {
		return nil, fmt.Errorf("%w: no numeric columns to plot", ErrEmptyData)
	}

	f.bounds = computeBounds(f.series, t.Rows())
	return f, nil
}

func categorical(c table.Column, xs []float64) Series {
	s := Series{Name: c.Name, X: xs, Y: make([]float64, c.Len())}
	codes := make(map[string]int)
	for i, v := range c.Text {
		if table.IsMissing(v) {
			s.Y[i] = math.NaN()
			continue
		}
		code, ok := codes[v]
		if !ok {
			code = len(s.Categories)
			codes[v] = code
			s.Categories = append(s.Categories, v)
		}
		s.Y[i] = float64(code)
	}
	return s
}

func computeBounds(series []Series, rows int) Bounds {
	b := Bounds{XMin: 0, XMax: float64(rows - 1)}
	if b.XMin >= b.XMax {
		b.XMin--
		b.XMax++
	}

	first := true
	for _, s := range series {
		for _, y := range s.Y {
			if !finite(y) {
				continue
			}
			if first {
				b.YMin, b.YMax = y, y
				first = false
				continue
			}
			b.YMin = math.Min(b.YMin, y)
			b.YMax = math.Max(b.YMax, y)
		}
	}
	if b.YMin >= b.YMax {
		d := math.Max(1, math.Abs(b.YMin)*0.5)
		b.YMin, b.YMax = clampFloat(b.YMin-d), clampFloat(b.YMax+d)
	}
	// 5% of the span, taken from the half span so it stays finite.
	pad := halfSpan(b.YMin, b.YMax) * 0.1
	b.YMin, b.YMax = clampFloat(b.YMin-pad), clampFloat(b.YMax+pad)
	return b
}

// halfSpan returns (hi-lo)/2 without overflowing for bounds near ±MaxFloat64.
func halfSpan(lo, hi float64) float64 { return hi/2 - lo/2 }

// spanFrac returns where v sits between lo and hi, 0 at lo and 1 at hi.
func spanFrac(v, lo, hi float64) float64 { return (v/2 - lo/2) / halfSpan(lo, hi) }

func clampFloat(v float64) float64 {
	return math.Max(-math.MaxFloat64, math.Min(v, math.MaxFloat64))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Series returns the plotted series in column order.
func (f *Figure) Series() []Series {
	out := make([]Series, len(f.series))
	copy(out, f.series)
	return out
}

// Skipped returns the names of text columns left out under TextSkip.
func (f *Figure) Skipped() []string {
	out := make([]string, len(f.skipped))
	copy(out, f.skipped)
	return out
}

// Bounds returns the axis ranges.
func (f *Figure) Bounds() Bounds { return f.bounds }

// Title returns the window and header title.
func (f *Figure) Title() string { return f.opts.Title }

// Runner opens a display surface and blocks until it is dismissed.
type Runner func(title string, width, height int, draw hal.DrawFunc) error

// Show displays the figure through run and blocks until the user closes it.
func (f *Figure) Show(run Runner) error {
	if run == nil {
		return fmt.Errorf("%w: no display runner", hal.ErrDisplayUnavailable)
	}
	return run(f.opts.Title, f.opts.Width, f.opts.Height, f.Draw)
}
