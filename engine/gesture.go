package engine

import (
	"github.com/go-gl/mathgl/mgl64"

	"grandtour/geom"
)

// Modifier is the set of modifier keys held during a pointer event.
type Modifier uint8

const (
	// ModFlip makes a handle press flip the axis instead of starting a drag.
	ModFlip Modifier = 1 << iota
	// ModSelect makes a press start a lasso selection anywhere on the canvas.
	ModSelect
)

// Phase is the gesture state. Exactly one phase is active at any instant.
type Phase uint8

const (
	GestureIdle Phase = iota
	GestureRotating
	GestureLassoing
)

func (p Phase) String() string {
	switch p {
	case GestureIdle:
		return "idle"
	case GestureRotating:
		return "rotating"
	case GestureLassoing:
		return "lassoing"
	default:
		return "unknown"
	}
}

const (
	// HandleHitRadius is the pixel radius within which a press grabs a handle.
	HandleHitRadius = 12.0

	// lassoMinVertexDist bounds polygon growth during a slow drag.
	lassoMinVertexDist = 3.0
)

// Gestures is the pointer state machine driving a session.
//
// It is re-entrant per pointer: a down/move/up sequence runs one gesture,
// and Abort cancels it without committing partial state.
type Gestures struct {
	s *Session

	phase Phase

	// Rotating.
	axis      int
	preDir    mgl64.Vec3
	lastAngle float64

	// Lassoing.
	lasso geom.Polygon

	spbuf []ScreenPoint
}

// NewGestures creates the state machine for a session.
func NewGestures(s *Session) *Gestures {
	return &Gestures{s: s, axis: -1}
}

// Phase returns the active gesture phase.
func (g *Gestures) Phase() Phase { return g.phase }

// Lasso exposes the in-progress polygon for rendering the outline.
func (g *Gestures) Lasso() *geom.Polygon { return &g.lasso }

// PointerDown begins a gesture. pos is in pixels.
//
// A press on a handle starts a rotation; with ModFlip held it flips the axis
// immediately instead. With ModSelect held a lasso starts anywhere. Presses
// elsewhere are ignored. A press during an active gesture is ignored.
func (g *Gestures) PointerDown(vp Viewport, pos mgl64.Vec2, mods Modifier) {
	if g.phase != GestureIdle {
		return
	}

	if mods&ModSelect != 0 {
		g.lasso.Reset()
		g.lasso.Add(pos, 0)
		g.phase = GestureLassoing
		return
	}

	i, ok := g.hitHandle(vp, pos)
	if !ok {
		return
	}
	if mods&ModFlip != 0 {
		g.s.axes.Flip(i)
		return
	}

	g.phase = GestureRotating
	g.axis = i
	g.preDir = g.s.axes.At(i).Dir
	g.lastAngle = g.planeAngle(vp, pos)
}

// PointerMove advances the active gesture.
func (g *Gestures) PointerMove(vp Viewport, pos mgl64.Vec2) {
	switch g.phase {
	case GestureRotating:
		a := g.planeAngle(vp, pos)
		g.s.axes.Rotate(g.axis, geom.AngleDelta(g.lastAngle, a))
		g.lastAngle = a
	case GestureLassoing:
		g.lasso.Add(pos, lassoMinVertexDist)
	}
}

// PointerUp completes the active gesture. It reports whether a lasso
// finished, which replaces the session selection (possibly with an empty
// set, which is a valid result).
func (g *Gestures) PointerUp(vp Viewport, pos mgl64.Vec2) (selected bool) {
	switch g.phase {
	case GestureRotating:
		g.phase = GestureIdle
		g.axis = -1
		return false

	case GestureLassoing:
		g.lasso.Add(pos, lassoMinVertexDist)
		g.spbuf = g.s.ScreenPoints(vp, g.spbuf)

		var sel []int
		for i, sp := range g.spbuf {
			if g.lasso.Contains(sp.Pos) {
				sel = append(sel, i)
			}
		}
		g.s.setSelection(sel)
		g.lasso.Reset()
		g.phase = GestureIdle
		return true
	}
	return false
}

// Abort cancels any in-flight gesture without committing it: a rotation
// reverts the axis to its pre-gesture direction, a lasso is discarded
// leaving the selection unchanged.
func (g *Gestures) Abort() {
	switch g.phase {
	case GestureRotating:
		g.s.axes.setDir(g.axis, g.preDir)
		g.axis = -1
	case GestureLassoing:
		g.lasso.Reset()
	}
	g.phase = GestureIdle
}

// hitHandle returns the nearest axis handle within HandleHitRadius of pos.
func (g *Gestures) hitHandle(vp Viewport, pos mgl64.Vec2) (int, bool) {
	best := -1
	bestDist := HandleHitRadius
	for i := 0; i < g.s.axes.Len(); i++ {
		d := g.s.HandlePos(i, vp).Sub(pos).Len()
		if d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best, best >= 0
}

// planeAngle is the pointer angle about the axis origin, measured in plane
// coordinates so rotation deltas carry the data-space sign.
func (g *Gestures) planeAngle(vp Viewport, pos mgl64.Vec2) float64 {
	origin := vp.FromScreen(g.s.Origin(vp))
	return geom.Angle(origin, vp.FromScreen(pos))
}
