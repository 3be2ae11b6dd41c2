//go:build cgo || windows

package window

import (
	"errors"
	"fmt"

	"tsvplot/hal"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Run opens a resizable desktop window of the given size and shows the frame
// produced by draw. draw runs again whenever the window size changes.
// It blocks until the window is closed or Escape/Q is pressed.
func Run(title string, width, height int, draw hal.DrawFunc) (err error) {
	if err := hal.ProbeDisplay(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid window size: %dx%d", width, height)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", hal.ErrDisplayUnavailable, r)
		}
	}()

	g := &hostGame{draw: draw}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(30)
	if err := ebiten.RunGame(g); err != nil {
		if errors.Is(err, errClosed) {
			return nil
		}
		return fmt.Errorf("%w: %w", hal.ErrDisplayUnavailable, err)
	}
	return nil
}

var errClosed = errors.New("window closed")

type hostGame struct {
	draw  hal.DrawFunc
	fb    hal.Framebuffer
	fbImg *ebiten.Image
	dirty bool
}

func (g *hostGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return errClosed
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.fb == nil {
		return
	}
	if g.dirty || g.fbImg == nil {
		if g.draw != nil {
			g.draw(g.fb)
		}
		img := hal.Snapshot(g.fb)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(g.fb.Width(), g.fb.Height())
		g.fbImg.WritePixels(img.Pix)
		g.dirty = false
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	if g.fb == nil || g.fb.Width() != outsideWidth || g.fb.Height() != outsideHeight {
		g.fb = hal.NewFramebuffer(outsideWidth, outsideHeight)
		g.dirty = true
	}
	return outsideWidth, outsideHeight
}
