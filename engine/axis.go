package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"grandtour/geom"
)

// Axis is one named data dimension with its current direction in display
// space. In a 2D session the Z component stays 0.
type Axis struct {
	Name    string
	Dir     mgl64.Vec3
	Flipped bool
}

// Axes owns the fixed set of axis direction vectors for a session.
//
// The count never changes after construction; only orientations mutate.
type Axes struct {
	axes []Axis
	dims int
}

// NewAxes creates one axis per name, projecting into dims display dimensions.
//
// The first dims axes start as the standard basis; any further axes are
// spread evenly around the screen-plane unit circle so every handle starts
// at a distinct position.
func NewAxes(names []string, dims int) *Axes {
	a := &Axes{
		axes: make([]Axis, len(names)),
		dims: dims,
	}
	for i, name := range names {
		var dir mgl64.Vec3
		switch {
		case i < dims:
			dir[i] = 1
		default:
			ang := 2 * math.Pi * float64(i) / float64(len(names))
			dir = mgl64.Vec3{math.Cos(ang), math.Sin(ang), 0}
		}
		a.axes[i] = Axis{Name: name, Dir: dir}
	}
	return a
}

// Len returns the axis count.
func (a *Axes) Len() int { return len(a.axes) }

// Dims returns the display dimensionality (2 or 3).
func (a *Axes) Dims() int { return a.dims }

// At returns the i-th axis by value.
func (a *Axes) At(i int) Axis { return a.axes[i] }

// Rotate rotates axis i within the screen plane by delta radians and
// re-normalizes. A zero delta is a no-op; deltas outside ±2π are reduced.
func (a *Axes) Rotate(i int, delta float64) {
	if i < 0 || i >= len(a.axes) || delta == 0 {
		return
	}
	delta = geom.NormalizeAngle(delta)

	ax := &a.axes[i]
	xy := mgl64.Rotate2D(delta).Mul2x1(mgl64.Vec2{ax.Dir.X(), ax.Dir.Y()})
	ax.Dir = normalize(mgl64.Vec3{xy.X(), xy.Y(), ax.Dir.Z()})
}

// Flip negates axis i's direction and toggles its orientation flag.
// Flipping twice is the identity.
func (a *Axes) Flip(i int) {
	if i < 0 || i >= len(a.axes) {
		return
	}
	ax := &a.axes[i]
	ax.Dir = ax.Dir.Mul(-1)
	ax.Flipped = !ax.Flipped
}

// setDir restores a direction verbatim. Used by gesture abort.
func (a *Axes) setDir(i int, dir mgl64.Vec3) {
	if i < 0 || i >= len(a.axes) {
		return
	}
	a.axes[i].Dir = dir
}

// Basis returns the current N×D basis as one unit column per axis.
//
// The slice is freshly allocated; callers may keep it across mutations as a
// snapshot.
func (a *Axes) Basis() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(a.axes))
	for i := range a.axes {
		out[i] = a.axes[i].Dir
	}
	return out
}

// Apply maps an N-dimensional data point through the basis into display
// space: world = Σᵢ point[i]·dirᵢ.
func (a *Axes) Apply(point []float64) mgl64.Vec3 {
	var world mgl64.Vec3
	n := len(point)
	if len(a.axes) < n {
		n = len(a.axes)
	}
	for i := 0; i < n; i++ {
		world = world.Add(a.axes[i].Dir.Mul(point[i]))
	}
	return world
}

func normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
