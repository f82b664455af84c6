package render

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// fbDisplayer adapts a Framebuffer to drivers.Displayer so tinyfont can
// draw text onto it.
type fbDisplayer struct {
	fb *Framebuffer
}

var _ drivers.Displayer = (*fbDisplayer)(nil)

func (d *fbDisplayer) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	w, h := d.fb.Size()
	return int16(w), int16(h)
}

func (d *fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil {
		return
	}
	d.fb.SetPixel(int(x), int(y), c)
}

func (d *fbDisplayer) Display() error { return nil }
