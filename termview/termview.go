// Package termview renders a session into terminal cells with tcell: the
// same engine, gestures and sync channel as the desktop surface, drawn as
// colored runes instead of pixels.
package termview

import (
	"fmt"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"grandtour/bridge"
	"grandtour/engine"
	"grandtour/tour"
)

// Config sets up the terminal view.
type Config struct {
	// Tour, when non-nil, can be toggled with the t key.
	Tour tour.Driver
}

const frameInterval = 40 * time.Millisecond

// Run takes over the terminal and blocks until the user quits.
//
// Mouse drags drive the same gesture state machine as the desktop surface;
// Shift starts a lasso, Alt flips. Arrow keys rotate the axis selected with
// the number keys. Detach aborts any in-flight gesture.
func Run(cfg Config, sess *engine.Session, pub *bridge.Publisher, inbox *bridge.Inbox) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("termview: screen init failed: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("termview: screen start failed: %w", err)
	}
	defer s.Fini()
	s.EnableMouse()

	v := &view{
		cfg:   cfg,
		sess:  sess,
		g:     engine.NewGestures(sess),
		pub:   pub,
		inbox: inbox,
	}
	defer v.detach()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if done := v.handle(s, ev); done {
				return nil
			}
		case <-ticker.C:
			v.step()
			v.draw(s)
		}
	}
}

type view struct {
	cfg   Config
	sess  *engine.Session
	g     *engine.Gestures
	pub   *bridge.Publisher
	inbox *bridge.Inbox

	writes []bridge.PropWrite
	spbuf  []engine.ScreenPoint

	axis    int // keyboard-selected axis
	tourOn  bool
	dragged bool
}

// viewport doubles the cell rows so terminal cell aspect does not squash
// the projection; cell y = screen y / 2.
func (v *view) viewport(s tcell.Screen) engine.Viewport {
	w, h := s.Size()
	return engine.Viewport{W: w, H: (h - 1) * 2}
}

func (v *view) detach() {
	v.g.Abort()
	if v.pub != nil {
		v.pub.Reset()
	}
}

// step runs the frame-boundary work: apply host writes, advance the tour,
// flush coalesced publications.
func (v *view) step() {
	if v.inbox != nil {
		v.writes = v.inbox.Drain(v.writes, v.pub)
		bridge.Apply(v.sess, v.writes, v.pub)
	}
	if v.tourOn && v.cfg.Tour != nil && v.g.Phase() == engine.GestureIdle {
		v.cfg.Tour.Step(v.sess.Axes(), frameInterval.Seconds())
	}
	if v.pub != nil {
		v.pub.Flush()
	}
}

func mouseMods(m tcell.ModMask) engine.Modifier {
	var mods engine.Modifier
	if m&tcell.ModShift != 0 {
		mods |= engine.ModSelect
	}
	if m&tcell.ModAlt != 0 {
		mods |= engine.ModFlip
	}
	return mods
}

func (v *view) handle(s tcell.Screen, ev tcell.Event) (done bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyLeft:
			v.sess.Axes().Rotate(v.axis, 0.1)
		case tcell.KeyRight:
			v.sess.Axes().Rotate(v.axis, -0.1)
		case tcell.KeyRune:
			switch r := ev.Rune(); {
			case r == 'q' || r == 'Q':
				return true
			case r == 'f':
				v.sess.Axes().Flip(v.axis)
			case r == 't':
				v.tourOn = !v.tourOn
			case r == 'c':
				v.sess.ClearSelection()
			case r >= '1' && r <= '9':
				if i := int(r - '1'); i < v.sess.Axes().Len() {
					v.axis = i
				}
			}
		}

	case *tcell.EventMouse:
		vp := v.viewport(s)
		x, y := ev.Position()
		pos := mgl64.Vec2{float64(x), float64(y * 2)}
		pressed := ev.Buttons()&tcell.Button1 != 0

		switch {
		case pressed && !v.dragged:
			v.dragged = true
			v.g.PointerDown(vp, pos, mouseMods(ev.Modifiers()))
		case pressed:
			v.g.PointerMove(vp, pos)
		case v.dragged:
			v.dragged = false
			if v.g.PointerUp(vp, pos) && v.pub != nil {
				v.pub.PublishSelection(v.sess.Selection())
			}
		}

	case *tcell.EventResize:
		s.Sync()
	}
	return false
}

type cellPoint struct {
	x, y  int
	r     rune
	depth float64
	color tcell.Color
	sel   bool
}

func (v *view) draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()
	if w <= 15 || h <= 6 {
		s.Show()
		return
	}
	vp := v.viewport(s)

	// Axis segments and labels.
	origin := v.sess.Origin(vp)
	for i := 0; i < v.sess.Axes().Len(); i++ {
		hp := v.sess.HandlePos(i, vp)
		drawCellLine(s, int(origin.X()), int(origin.Y())/2, int(hp.X()), int(hp.Y())/2,
			tcell.StyleDefault.Foreground(tcell.ColorGray))
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		if i == v.axis {
			style = style.Bold(true)
		}
		drawText(s, int(hp.X())+1, int(hp.Y())/2, style, v.sess.Axes().At(i).Name)
	}

	// Points, back to front.
	v.spbuf = v.sess.ScreenPoints(vp, v.spbuf)
	selected := make(map[int]bool, len(v.sess.Selection()))
	for _, i := range v.sess.Selection() {
		selected[i] = true
	}

	cells := make([]cellPoint, 0, len(v.spbuf))
	for i, sp := range v.spbuf {
		c := v.sess.Table().Color(i)
		r := '·'
		if sp.Size >= 2 {
			r = '•'
		}
		if sp.Size >= 5 {
			r = '●'
		}
		cells = append(cells, cellPoint{
			x:     int(sp.Pos.X()),
			y:     int(sp.Pos.Y()) / 2,
			r:     r,
			depth: sp.Depth,
			color: tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)),
			sel:   selected[i],
		})
	}
	sort.SliceStable(cells, func(a, b int) bool { return cells[a].depth > cells[b].depth })
	for _, c := range cells {
		style := tcell.StyleDefault.Foreground(c.color)
		if c.sel {
			style = style.Reverse(true)
		}
		s.SetContent(c.x, c.y, c.r, nil, style)
	}

	cam := v.sess.Camera()
	info := fmt.Sprintf("%s fov %.0f dist %.1f axis %s sel %d [1-9 axis, arrows rotate, f flip, t tour, q quit]",
		cam.Mode, cam.ViewAngle, cam.Distance, v.sess.Axes().At(v.axis).Name, len(v.sess.Selection()))
	drawText(s, 1, h-1, tcell.StyleDefault.Foreground(tcell.ColorDarkGray), info)
	s.Show()
}

func drawCellLine(s tcell.Screen, x0, y0, x1, y1 int, style tcell.Style) {
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
		s.SetContent(x0, y0, '·', nil, style)
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

func drawText(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for i, r := range str {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
