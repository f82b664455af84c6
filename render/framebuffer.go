// Package render turns projected engine state into drawing primitives and
// rasterizes them software-side into an RGBA framebuffer. The surface only
// blits the result.
package render

import "image/color"

// Framebuffer is an RGBA8888 software render target.
type Framebuffer struct {
	w, h int
	pix  []byte
}

// NewFramebuffer allocates a w×h target.
func NewFramebuffer(w, h int) *Framebuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Framebuffer{w: w, h: h, pix: make([]byte, w*h*4)}
}

// Size returns the target dimensions.
func (fb *Framebuffer) Size() (w, h int) { return fb.w, fb.h }

// Pix returns the raw RGBA pixel data, row-major.
func (fb *Framebuffer) Pix() []byte { return fb.pix }

// Clear fills the target with c.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := 0; i < len(fb.pix); i += 4 {
		fb.pix[i+0] = c.R
		fb.pix[i+1] = c.G
		fb.pix[i+2] = c.B
		fb.pix[i+3] = c.A
	}
}

// SetPixel writes one pixel, clipping out-of-bounds coordinates.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.w || y < 0 || y >= fb.h {
		return
	}
	off := (y*fb.w + x) * 4
	fb.pix[off+0] = c.R
	fb.pix[off+1] = c.G
	fb.pix[off+2] = c.B
	fb.pix[off+3] = c.A
}

// DrawLine draws a 1px Bresenham line.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// FillCircle draws a filled disc of radius r.
func (fb *Framebuffer) FillCircle(cx, cy, r int, c color.RGBA) {
	if r <= 0 {
		fb.SetPixel(cx, cy, c)
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				fb.SetPixel(cx+dx, cy+dy, c)
			}
		}
	}
}

// StrokeCircle draws a midpoint circle outline of radius r.
func (fb *Framebuffer) StrokeCircle(cx, cy, r int, c color.RGBA) {
	if r <= 0 {
		fb.SetPixel(cx, cy, c)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		fb.SetPixel(cx+x, cy+y, c)
		fb.SetPixel(cx+y, cy+x, c)
		fb.SetPixel(cx-y, cy+x, c)
		fb.SetPixel(cx-x, cy+y, c)
		fb.SetPixel(cx-x, cy-y, c)
		fb.SetPixel(cx-y, cy-x, c)
		fb.SetPixel(cx+y, cy-x, c)
		fb.SetPixel(cx+x, cy-y, c)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
