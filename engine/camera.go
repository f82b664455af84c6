package engine

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mode selects the projection formula.
type Mode uint8

const (
	Orthographic Mode = iota
	Perspective
)

func (m Mode) String() string {
	switch m {
	case Orthographic:
		return "orthographic"
	case Perspective:
		return "perspective"
	default:
		return "unknown"
	}
}

// ParseMode resolves a projection mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "orthographic":
		return Orthographic, nil
	case "perspective":
		return Perspective, nil
	default:
		return 0, &ConfigError{Prop: "projection", Reason: fmt.Sprintf("unknown mode %q", s)}
	}
}

// ConfigError reports a property write outside its domain. The write is
// rejected and the previous value retained; the session keeps running.
type ConfigError struct {
	Prop   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Prop, e.Reason)
}

// nearPlane is the minimum camera-space depth after translation. Points at
// or behind it are clamped rather than dropped.
const nearPlane = 0.05

// Camera holds the projection configuration of a session.
type Camera struct {
	Mode      Mode
	ViewAngle float64 // degrees, open (0, 180); perspective only
	Distance  float64 // camera offset along the depth axis
	PointSize float64 // baseline rendered point radius, pixels
	AxisLen   float64 // visual scale of axis handles; no effect on points
}

// DefaultCamera returns the configuration a session starts with.
func DefaultCamera() Camera {
	return Camera{
		Mode:      Orthographic,
		ViewAngle: 60,
		Distance:  3,
		PointSize: 3,
		AxisLen:   1,
	}
}

// Validate checks every field domain.
func (c Camera) Validate() error {
	if c.Mode != Orthographic && c.Mode != Perspective {
		return &ConfigError{Prop: "projection", Reason: fmt.Sprintf("unknown mode %d", c.Mode)}
	}
	if c.ViewAngle <= 0 || c.ViewAngle >= 180 || math.IsNaN(c.ViewAngle) {
		return &ConfigError{Prop: "viewAngle", Reason: fmt.Sprintf("%g outside (0, 180)", c.ViewAngle)}
	}
	if math.IsInf(c.Distance, 0) || math.IsNaN(c.Distance) {
		return &ConfigError{Prop: "cameraDistance", Reason: "not finite"}
	}
	if c.PointSize <= 0 || math.IsNaN(c.PointSize) {
		return &ConfigError{Prop: "basePointSize", Reason: fmt.Sprintf("%g not positive", c.PointSize)}
	}
	if c.AxisLen <= 0 || math.IsNaN(c.AxisLen) {
		return &ConfigError{Prop: "axisLength", Reason: fmt.Sprintf("%g not positive", c.AxisLen)}
	}
	return nil
}

// Projected is one point mapped to the screen plane.
type Projected struct {
	XY    mgl64.Vec2
	Depth float64 // draw-order cue; larger is farther
	Scale float64 // point size multiplier
}

// Project maps a display-space position through the camera.
//
// Orthographic drops the depth axis (keeping it as a draw-order cue);
// perspective translates along depth by Distance, scales by the
// field-of-view factor 1/tan(viewAngle/2) and divides by depth.
func (c Camera) Project(world mgl64.Vec3) Projected {
	switch c.Mode {
	case Perspective:
		zp := world.Z() + c.Distance
		if zp < nearPlane {
			zp = nearPlane
		}
		f := 1 / math.Tan(c.ViewAngle*math.Pi/360)
		return Projected{
			XY:    mgl64.Vec2{f * world.X() / zp, f * world.Y() / zp},
			Depth: zp,
			Scale: f / zp,
		}
	default:
		return Projected{
			XY:    mgl64.Vec2{world.X(), world.Y()},
			Depth: world.Z(),
			Scale: 1,
		}
	}
}

// Viewport maps plane coordinates (unit scale, Y up, origin at center) to
// pixels (Y down).
type Viewport struct {
	W, H int
}

func (v Viewport) scale() float64 {
	m := v.W
	if v.H < m {
		m = v.H
	}
	return float64(m) * 0.45
}

// ToScreen converts a plane coordinate to pixels.
func (v Viewport) ToScreen(p mgl64.Vec2) mgl64.Vec2 {
	s := v.scale()
	return mgl64.Vec2{
		float64(v.W)/2 + p.X()*s,
		float64(v.H)/2 - p.Y()*s,
	}
}

// FromScreen converts a pixel position back to plane coordinates.
func (v Viewport) FromScreen(p mgl64.Vec2) mgl64.Vec2 {
	s := v.scale()
	if s == 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{
		(p.X() - float64(v.W)/2) / s,
		(float64(v.H)/2 - p.Y()) / s,
	}
}
