package render

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"tinygo.org/x/tinyfont"

	"grandtour/engine"
)

var (
	colorBG     = color.RGBA{R: 0x0A, G: 0x0A, B: 0x0E, A: 0xFF}
	colorAxis   = color.RGBA{R: 0x55, G: 0x55, B: 0x60, A: 0xFF}
	colorHandle = color.RGBA{R: 0xCC, G: 0xCC, B: 0xD4, A: 0xFF}
	colorLabel  = color.RGBA{R: 0x9A, G: 0x9A, B: 0xA4, A: 0xFF}
	colorLasso  = color.RGBA{R: 0xFF, G: 0xD1, B: 0x4A, A: 0xFF}
	colorSelect = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorHUD    = color.RGBA{R: 0x88, G: 0x88, B: 0x90, A: 0xFF}
)

// Sprite is one point ready to draw.
type Sprite struct {
	X, Y     int
	R        int
	Color    color.RGBA
	Depth    float64
	Selected bool
}

// Handle is one axis drawn as a segment from the origin plus a grab target.
type Handle struct {
	X0, Y0 int
	X1, Y1 int
	Label  string
}

// Frame is everything drawn for one refresh.
type Frame struct {
	Points []Sprite
	Handle []Handle
	Lasso  []mgl64.Vec2
	HUD    string

	spbuf []engine.ScreenPoint
}

// Build assembles the frame for the current engine state.
//
// Depth policy: points are ordered back-to-front by projected depth,
// descending, stable by row index for equal depths. This applies in both
// projection modes; orthographic uses the third basis component as depth.
func (f *Frame) Build(sess *engine.Session, g *engine.Gestures, vp engine.Viewport) {
	f.spbuf = sess.ScreenPoints(vp, f.spbuf)
	t := sess.Table()

	sel := make(map[int]bool, len(sess.Selection()))
	for _, i := range sess.Selection() {
		sel[i] = true
	}

	f.Points = f.Points[:0]
	for i, sp := range f.spbuf {
		r := int(sp.Size + 0.5)
		if r < 1 {
			r = 1
		}
		f.Points = append(f.Points, Sprite{
			X:        int(sp.Pos.X() + 0.5),
			Y:        int(sp.Pos.Y() + 0.5),
			R:        r,
			Color:    t.Color(i),
			Depth:    sp.Depth,
			Selected: sel[i],
		})
	}
	sort.SliceStable(f.Points, func(a, b int) bool {
		return f.Points[a].Depth > f.Points[b].Depth
	})

	origin := sess.Origin(vp)
	f.Handle = f.Handle[:0]
	for i := 0; i < sess.Axes().Len(); i++ {
		hp := sess.HandlePos(i, vp)
		f.Handle = append(f.Handle, Handle{
			X0:    int(origin.X() + 0.5),
			Y0:    int(origin.Y() + 0.5),
			X1:    int(hp.X() + 0.5),
			Y1:    int(hp.Y() + 0.5),
			Label: sess.Axes().At(i).Name,
		})
	}

	f.Lasso = f.Lasso[:0]
	if g != nil && g.Phase() == engine.GestureLassoing {
		f.Lasso = append(f.Lasso, g.Lasso().Vertices()...)
	}

	cam := sess.Camera()
	f.HUD = fmt.Sprintf("%s  fov %.0f  dist %.1f  sel %d",
		cam.Mode, cam.ViewAngle, cam.Distance, len(sess.Selection()))
}

// Draw rasterizes the frame into fb.
func (f *Frame) Draw(fb *Framebuffer) {
	fb.Clear(colorBG)
	d := &fbDisplayer{fb: fb}

	for _, h := range f.Handle {
		fb.DrawLine(h.X0, h.Y0, h.X1, h.Y1, colorAxis)
		fb.FillCircle(h.X1, h.Y1, 3, colorHandle)
		tinyfont.WriteLine(d, &tinyfont.TomThumb, int16(h.X1+6), int16(h.Y1+2), h.Label, colorLabel)
	}

	for _, p := range f.Points {
		fb.FillCircle(p.X, p.Y, p.R, p.Color)
		if p.Selected {
			fb.StrokeCircle(p.X, p.Y, p.R+2, colorSelect)
		}
	}

	for i := 1; i < len(f.Lasso); i++ {
		a, b := f.Lasso[i-1], f.Lasso[i]
		fb.DrawLine(int(a.X()+0.5), int(a.Y()+0.5), int(b.X()+0.5), int(b.Y()+0.5), colorLasso)
	}

	if f.HUD != "" {
		tinyfont.WriteLine(d, &tinyfont.TomThumb, 4, 10, f.HUD, colorHUD)
	}
}
