package plot

import (
	"errors"
	"image/color"
	"math"
	"strings"
	"testing"

	"tsvplot/hal"
	"tsvplot/table"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func mustParse(t *testing.T, in string) *table.Table {
	t.Helper()
	tbl, err := table.Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tbl
}

func quantized(c color.RGBA) color.RGBA {
	r, g, b := hal.RGB888(hal.RGB565(c.R, c.G, c.B))
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// pixelAt returns the color drawn for data point (x, y) of f in fb.
func pixelAt(t *testing.T, f *Figure, fb hal.Framebuffer, x, y float64) color.RGBA {
	t.Helper()
	r, ok := newRenderer(f, fb)
	if !ok {
		t.Fatal("newRenderer failed")
	}
	px, py, pw, ph, ok := r.plotArea()
	if !ok {
		t.Fatal("plot area too small")
	}
	cx, cy := r.toPixel(x, y, pw, ph)
	return hal.Snapshot(fb).RGBAAt(int(px+roundInt16(cx)), int(py+roundInt16(cy)))
}

func TestNewTwoNumericColumns(t *testing.T) {
	f, err := New(mustParse(t, "1\t4\n2\t5\n3\t6"), Options{Title: "data.tsv"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := []Series{
		{Name: "0", X: []float64{0, 1, 2}, Y: []float64{1, 2, 3}},
		{Name: "1", X: []float64{0, 1, 2}, Y: []float64{4, 5, 6}},
	}
	if diff := cmp.Diff(want, f.Series(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("series (-want +got):\n%s", diff)
	}
	b := f.Bounds()
	if b.XMin != 0 || b.XMax != 2 {
		t.Fatalf("x bounds = [%v, %v]", b.XMin, b.XMax)
	}
	if b.YMin >= 1 || b.YMax <= 6 {
		t.Fatalf("y bounds [%v, %v] do not cover data", b.YMin, b.YMax)
	}
	if f.Title() != "data.tsv" || len(f.Skipped()) != 0 {
		t.Fatalf("title=%q skipped=%v", f.Title(), f.Skipped())
	}
}

func TestNewEmpty(t *testing.T) {
	for _, in := range []string{"", "\n\n"} {
		_, err := New(mustParse(t, in), Options{})
		if !errors.Is(err, ErrEmptyData) {
			t.Fatalf("New(%q) err = %v, want ErrEmptyData", in, err)
		}
	}
}

func TestTextPolicies(t *testing.T) {
	tbl := mustParse(t, "1\tred\n2\tblue\n3\tred\n4\tNA")

	f, err := New(tbl, Options{})
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if len(f.Series()) != 1 || f.Series()[0].Name != "0" {
		t.Fatalf("skip: series = %+v", f.Series())
	}
	if diff := cmp.Diff([]string{"1"}, f.Skipped()); diff != "" {
		t.Fatalf("skip: skipped (-want +got):\n%s", diff)
	}

	if _, err := New(tbl, Options{Text: TextReject}); !errors.Is(err, ErrTextColumn) {
		t.Fatalf("reject: err = %v, want ErrTextColumn", err)
	}

	f, err = New(tbl, Options{Text: TextCategorical})
	if err != nil {
		t.Fatalf("categorical: %v", err)
	}
	s := f.Series()[1]
	if diff := cmp.Diff([]string{"red", "blue"}, s.Categories); diff != "" {
		t.Fatalf("categories (-want +got):\n%s", diff)
	}
	if s.Y[0] != 0 || s.Y[1] != 1 || s.Y[2] != 0 || !math.IsNaN(s.Y[3]) {
		t.Fatalf("codes = %v", s.Y)
	}
}

func TestOnlyTextColumnsIsEmpty(t *testing.T) {
	_, err := New(mustParse(t, "a\tb\nc\td"), Options{})
	if !errors.Is(err, ErrEmptyData) {
		t.Fatalf("err = %v, want ErrEmptyData", err)
	}
}

func TestBoundsDegenerate(t *testing.T) {
	f, err := New(mustParse(t, "7"), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b := f.Bounds()
	if !(b.XMin < 0 && b.XMax > 0) {
		t.Fatalf("x bounds = [%v, %v]", b.XMin, b.XMax)
	}
	if !(b.YMin < 7 && b.YMax > 7) {
		t.Fatalf("y bounds = [%v, %v]", b.YMin, b.YMax)
	}

	f, err = New(mustParse(t, "NaN\nNaN"), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b = f.Bounds()
	if !(b.YMin < b.YMax) || math.IsNaN(b.YMin) {
		t.Fatalf("all-NaN y bounds = [%v, %v]", b.YMin, b.YMax)
	}
}

func TestBoundsExtremeValues(t *testing.T) {
	for _, in := range []string{"-1e308\n1e308\n0", "1.7e308", "-1.7e308\n1.7e308"} {
		f, err := New(mustParse(t, in), Options{})
		if err != nil {
			t.Fatalf("New(%q): %v", in, err)
		}
		b := f.Bounds()
		if !finite(b.YMin) || !finite(b.YMax) || !(b.YMin < b.YMax) {
			t.Fatalf("%q: y bounds = [%v, %v]", in, b.YMin, b.YMax)
		}
	}
}

func TestDrawExtremeValues(t *testing.T) {
	f, err := New(mustParse(t, "-1e308\n1e308\n0"), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fb := hal.NewFramebuffer(400, 300)
	f.Draw(fb)

	c0 := quantized(SeriesColor(0))
	for i, y := range []float64{-1e308, 1e308, 0} {
		if got := pixelAt(t, f, fb, float64(i), y); got != c0 {
			t.Fatalf("point %d = %v, want %v", i, got, c0)
		}
	}

	// The segment from the top point back down must not be drawn as a flat line.
	r, _ := newRenderer(f, fb)
	px, py, pw, ph, _ := r.plotArea()
	_, top := r.toPixel(1, 1e308, pw, ph)
	_, mid := r.toPixel(2, 0, pw, ph)
	if !(top < mid) {
		t.Fatalf("top=%v mid=%v", top, mid)
	}
	img := hal.Snapshot(fb)
	row := int(py + roundInt16(top))
	n := 0
	for x := int(px); x < int(px+pw); x++ {
		if img.RGBAAt(x, row) == c0 {
			n++
		}
	}
	if n > int(pw)/2 {
		t.Fatalf("%d of %d pixels on row %d use the series color", n, pw, row)
	}
}

func TestDrawSinglePoint(t *testing.T) {
	f, err := New(mustParse(t, "7\n"), Options{Title: "one"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n := f.Series()[0].Len(); n != 1 {
		t.Fatalf("series length = %d", n)
	}
	fb := hal.NewFramebuffer(400, 300)
	f.Draw(fb)
	if got, want := pixelAt(t, f, fb, 0, 7), quantized(SeriesColor(0)); got != want {
		t.Fatalf("marker pixel = %v, want %v", got, want)
	}
}

func TestDrawSeriesPoints(t *testing.T) {
	f, err := New(mustParse(t, "1\t4\n2\t5\n3\t6"), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fb := hal.NewFramebuffer(640, 480)
	f.Draw(fb)

	c0 := quantized(SeriesColor(0))
	for i, y := range []float64{1, 2, 3} {
		if got := pixelAt(t, f, fb, float64(i), y); got != c0 {
			t.Fatalf("series 0 point %d = %v, want %v", i, got, c0)
		}
	}
	if got, want := pixelAt(t, f, fb, 0, 4), quantized(SeriesColor(1)); got != want {
		t.Fatalf("series 1 first point = %v, want %v", got, want)
	}
}

func TestDrawTinyFramebuffers(t *testing.T) {
	f, err := New(mustParse(t, "1\t2\n3\t4"), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, sz := range [][2]int{{1, 1}, {5, 5}, {40, 20}, {2000, 10}} {
		f.Draw(hal.NewFramebuffer(sz[0], sz[1]))
	}
	f.Draw(nil)
}

func TestShow(t *testing.T) {
	f, err := New(mustParse(t, "1\n2"), Options{Title: "t.tsv"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var gotTitle string
	var gotW, gotH int
	err = f.Show(func(title string, w, h int, draw hal.DrawFunc) error {
		gotTitle, gotW, gotH = title, w, h
		draw(hal.NewFramebuffer(w, h))
		return nil
	})
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if gotTitle != "t.tsv" || gotW != DefaultWidth || gotH != DefaultHeight {
		t.Fatalf("runner got %q %dx%d", gotTitle, gotW, gotH)
	}

	if err := f.Show(nil); !errors.Is(err, hal.ErrDisplayUnavailable) {
		t.Fatalf("nil runner: err = %v", err)
	}

	boom := errors.New("boom")
	if err := f.Show(func(string, int, int, hal.DrawFunc) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("runner error not propagated: %v", err)
	}
}

func TestNiceStep(t *testing.T) {
	cases := map[float64]float64{
		0.7: 1, 1.5: 2, 3: 5, 7: 10, 0.03: 0.05, 120: 200, 0: 1, -3: 1,
	}
	for in, want := range cases {
		if got := niceStep(in); math.Abs(got-want) > 1e-12 {
			t.Fatalf("niceStep(%v) = %v, want %v", in, got, want)
		}
	}
	if niceStep(math.NaN()) != 1 || niceStep(math.Inf(1)) != 1 {
		t.Fatal("niceStep of non-finite should be 1")
	}
}

func TestFmtAxis(t *testing.T) {
	cases := map[float64]string{
		0: "0", 1e-15: "0", 2: "2", 25: "25", 2.5: "2.50", 0.25: "0.250", 1e6: "1e+06",
	}
	for in, want := range cases {
		if got := fmtAxis(in); got != want {
			t.Fatalf("fmtAxis(%v) = %q, want %q", in, got, want)
		}
	}
	if fmtAxis(math.NaN()) != "" {
		t.Fatal("fmtAxis(NaN) should be empty")
	}
}

func TestClipLineToRect(t *testing.T) {
	x0, y0, x1, y1, ok := clipLineToRect(-5, 5, 15, 5, 0, 0, 10, 10)
	if !ok || x0 != 0 || y0 != 5 || x1 != 10 || y1 != 5 {
		t.Fatalf("clip = (%v,%v)-(%v,%v) ok=%v", x0, y0, x1, y1, ok)
	}
	if _, _, _, _, ok := clipLineToRect(-5, -5, -1, -1, 0, 0, 10, 10); ok {
		t.Fatal("segment outside the rectangle should be rejected")
	}
}

func TestComputeMetrics(t *testing.T) {
	m, err := computeMetrics(textFont)
	if err != nil {
		t.Fatalf("computeMetrics: %v", err)
	}
	if m.width <= 0 || m.height <= 0 || m.offset <= 0 || m.offset > m.height {
		t.Fatalf("metrics = %+v", m)
	}
	if _, err := computeMetrics(nil); err == nil {
		t.Fatal("nil font should fail")
	}
}

func TestTextPolicyString(t *testing.T) {
	if TextSkip.String() != "skip" || TextReject.String() != "reject" || TextCategorical.String() != "categorical" {
		t.Fatal("unexpected policy names")
	}
}

func TestFBDisplayClips(t *testing.T) {
	fb := hal.NewFramebuffer(4, 3)
	d := newFBDisplay(fb)
	c := color.RGBA{R: 0xFF, A: 0xFF}
	d.FillRectangle(-2, -2, 4, 4, c)
	d.FillRectangle(3, 2, -5, 1, c)
	d.SetPixel(9, 9, c)
	d.SetPixel(3, 2, c)

	img := hal.Snapshot(fb)
	want := quantized(c)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			lit := (x < 2 && y < 2) || (x == 3 && y == 2)
			if got := img.RGBAAt(x, y) == want; got != lit {
				t.Fatalf("pixel (%d,%d) lit=%v, want %v", x, y, got, lit)
			}
		}
	}
}

func TestDrawLineEndpoints(t *testing.T) {
	f, err := New(mustParse(t, "1"), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fb := hal.NewFramebuffer(20, 20)
	r, ok := newRenderer(f, fb)
	if !ok {
		t.Fatal("newRenderer failed")
	}
	c := color.RGBA{G: 0xFF, A: 0xFF}
	r.drawLine(15, 2, 3, 10, c)

	img := hal.Snapshot(fb)
	want := quantized(c)
	n := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if img.RGBAAt(x, y) == want {
				n++
			}
		}
	}
	if img.RGBAAt(15, 2) != want || img.RGBAAt(3, 10) != want {
		t.Fatal("end points not drawn")
	}
	// One pixel per step along the major axis.
	if n != 13 {
		t.Fatalf("line has %d pixels, want 13", n)
	}
}
