package engine

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"grandtour/dataset"
)

// testSession builds a 3-axis session over the given rows.
func testSession(t *testing.T, rows [][]float64) *Session {
	t.Helper()

	names := []string{"A1", "A2", "A3"}
	columns := make(map[string][]float64, len(names))
	categories := make([]string, len(rows))
	for ci, name := range names {
		col := make([]float64, len(rows))
		for ri, row := range rows {
			col[ri] = row[ci]
		}
		columns[name] = col
	}
	for i := range categories {
		categories[i] = "pts"
	}

	table, err := dataset.New(
		dataset.Schema{AxisColumns: names, CategoryColumn: "cat"},
		columns, categories,
		map[string]color.RGBA{"pts": {R: 0xFF, A: 0xFF}},
	)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	sess, err := NewSession(table, 3)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return sess
}

var gestureRows = [][]float64{
	{0, 0, 0},
	{0.3, 0.1, 0},
	{-0.2, 0.4, 0},
	{0.1, -0.3, 0},
	{-0.4, -0.1, 0},
}

func TestGestureRotateDrag(t *testing.T) {
	sess := testSession(t, gestureRows)
	g := NewGestures(sess)
	vp := Viewport{W: 100, H: 100}

	// Handle of axis 0 (e1, AxisLen 1) sits at (95, 50).
	g.PointerDown(vp, mgl64.Vec2{95, 50}, 0)
	if g.Phase() != GestureRotating {
		t.Fatalf("phase %v, want rotating", g.Phase())
	}

	// Drag to the top of the canvas: plane angle π/2.
	g.PointerMove(vp, mgl64.Vec2{50, 5})
	if g.PointerUp(vp, mgl64.Vec2{50, 5}) {
		t.Fatalf("rotation must not complete a selection")
	}
	if g.Phase() != GestureIdle {
		t.Fatalf("phase %v after up, want idle", g.Phase())
	}

	dir := sess.Axes().At(0).Dir
	want := mgl64.Vec3{0, 1, 0}
	if dir.Sub(want).Len() > 1e-9 {
		t.Fatalf("axis after quarter-turn drag: %v, want %v", dir, want)
	}
}

func TestGestureAbortRevertsRotation(t *testing.T) {
	sess := testSession(t, gestureRows)
	g := NewGestures(sess)
	vp := Viewport{W: 100, H: 100}

	before := sess.Axes().At(0).Dir
	g.PointerDown(vp, mgl64.Vec2{95, 50}, 0)
	g.PointerMove(vp, mgl64.Vec2{50, 5})
	g.Abort()

	if g.Phase() != GestureIdle {
		t.Fatalf("phase %v after abort, want idle", g.Phase())
	}
	if sess.Axes().At(0).Dir != before {
		t.Fatalf("abort did not revert: %v, want %v", sess.Axes().At(0).Dir, before)
	}
}

func TestGestureFlipModifier(t *testing.T) {
	sess := testSession(t, gestureRows)
	g := NewGestures(sess)
	vp := Viewport{W: 100, H: 100}

	g.PointerDown(vp, mgl64.Vec2{95, 50}, ModFlip)
	if g.Phase() != GestureIdle {
		t.Fatalf("flip press entered phase %v", g.Phase())
	}
	ax := sess.Axes().At(0)
	if !ax.Flipped {
		t.Fatalf("axis not flipped")
	}
	if ax.Dir.Sub(mgl64.Vec3{-1, 0, 0}).Len() > 1e-9 {
		t.Fatalf("flipped direction %v", ax.Dir)
	}
}

func TestGestureIgnoresPressOffHandle(t *testing.T) {
	sess := testSession(t, gestureRows)
	g := NewGestures(sess)
	vp := Viewport{W: 100, H: 100}

	g.PointerDown(vp, mgl64.Vec2{20, 20}, 0)
	if g.Phase() != GestureIdle {
		t.Fatalf("press off-handle entered phase %v", g.Phase())
	}
}

func TestLassoSelectsAndReplaces(t *testing.T) {
	sess := testSession(t, gestureRows)
	g := NewGestures(sess)
	vp := Viewport{W: 100, H: 100}

	// Enclose the whole canvas.
	g.PointerDown(vp, mgl64.Vec2{5, 5}, ModSelect)
	if g.Phase() != GestureLassoing {
		t.Fatalf("phase %v, want lassoing", g.Phase())
	}
	g.PointerMove(vp, mgl64.Vec2{95, 5})
	g.PointerMove(vp, mgl64.Vec2{95, 95})
	if !g.PointerUp(vp, mgl64.Vec2{5, 95}) {
		t.Fatalf("lasso did not complete a selection")
	}
	if got := len(sess.Selection()); got != len(gestureRows) {
		t.Fatalf("enclosing lasso selected %d of %d", got, len(gestureRows))
	}

	// A tiny off-corner lasso replaces the selection with nothing.
	g.PointerDown(vp, mgl64.Vec2{1, 1}, ModSelect)
	g.PointerMove(vp, mgl64.Vec2{9, 1})
	if !g.PointerUp(vp, mgl64.Vec2{9, 9}) {
		t.Fatalf("empty lasso is still a completed selection")
	}
	if got := len(sess.Selection()); got != 0 {
		t.Fatalf("selection not replaced, still %d entries", got)
	}
}

func TestLassoAbortKeepsSelection(t *testing.T) {
	sess := testSession(t, gestureRows)
	g := NewGestures(sess)
	vp := Viewport{W: 100, H: 100}

	g.PointerDown(vp, mgl64.Vec2{5, 5}, ModSelect)
	g.PointerMove(vp, mgl64.Vec2{95, 5})
	g.PointerMove(vp, mgl64.Vec2{95, 95})
	g.PointerUp(vp, mgl64.Vec2{5, 95})
	want := len(sess.Selection())

	g.PointerDown(vp, mgl64.Vec2{1, 1}, ModSelect)
	g.PointerMove(vp, mgl64.Vec2{50, 50})
	g.Abort()

	if got := len(sess.Selection()); got != want {
		t.Fatalf("aborted lasso changed selection: %d, want %d", got, want)
	}
	if g.Phase() != GestureIdle {
		t.Fatalf("phase %v after abort", g.Phase())
	}
}

func TestEndToEndQuarterTurnScenario(t *testing.T) {
	// 5 points, 3 axis columns, orthographic; rotate axis 1 by 90° and the
	// basis' first column must equal the pre-rotation second column.
	sess := testSession(t, gestureRows)
	if err := sess.SetMode(Orthographic); err != nil {
		t.Fatalf("set mode: %v", err)
	}

	second := sess.Axes().At(1).Dir
	sess.Axes().Rotate(0, math.Pi/2)

	first := sess.Axes().Basis()[0]
	if first.Sub(second).Len() > 1e-9 {
		t.Fatalf("first column %v, want %v", first, second)
	}
}

func TestConfigRejectionRetainsValue(t *testing.T) {
	sess := testSession(t, gestureRows)
	prev := sess.Camera().ViewAngle

	err := sess.SetViewAngle(200)
	if err == nil {
		t.Fatalf("viewAngle=200 accepted")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("got %T, want *ConfigError", err)
	}
	if sess.Camera().ViewAngle != prev {
		t.Fatalf("rejected write changed viewAngle to %v", sess.Camera().ViewAngle)
	}
}
