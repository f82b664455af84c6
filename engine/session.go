// Package engine is the interactive projection core: it owns the axis basis,
// derives screen coordinates from it, and interprets pointer gestures into
// rotations, flips and lasso selections.
//
// A Session is single-owner state driven from one frame loop. Host-originated
// property writes arrive through the bridge and are applied between frames;
// nothing in this package blocks.
package engine

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"grandtour/dataset"
)

// Session is the engine state for one loaded dataset.
type Session struct {
	table *dataset.Table
	axes  *Axes
	cam   Camera

	sel []int

	ptbuf []float64
}

// NewSession creates a session projecting the table into dims (2 or 3)
// display dimensions with the default camera.
func NewSession(table *dataset.Table, dims int) (*Session, error) {
	if dims != 2 && dims != 3 {
		return nil, fmt.Errorf("engine: dims must be 2 or 3, got %d", dims)
	}
	return &Session{
		table: table,
		axes:  NewAxes(table.Schema().AxisColumns, dims),
		cam:   DefaultCamera(),
	}, nil
}

// Table returns the dataset snapshot.
func (s *Session) Table() *dataset.Table { return s.table }

// Axes returns the mutable axis set.
func (s *Session) Axes() *Axes { return s.axes }

// Camera returns the current camera configuration.
func (s *Session) Camera() Camera { return s.cam }

// SetCamera validates and installs a full camera configuration.
//
// On error the previous configuration is retained unchanged.
func (s *Session) SetCamera(c Camera) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.cam = c
	return nil
}

// SetMode switches the projection formula.
func (s *Session) SetMode(m Mode) error {
	c := s.cam
	c.Mode = m
	return s.SetCamera(c)
}

// SetViewAngle sets the perspective field of view in degrees.
func (s *Session) SetViewAngle(deg float64) error {
	c := s.cam
	c.ViewAngle = deg
	return s.SetCamera(c)
}

// SetDistance sets the perspective camera offset along the depth axis.
func (s *Session) SetDistance(d float64) error {
	c := s.cam
	c.Distance = d
	return s.SetCamera(c)
}

// SetPointSize sets the baseline rendered point size.
func (s *Session) SetPointSize(v float64) error {
	c := s.cam
	c.PointSize = v
	return s.SetCamera(c)
}

// SetAxisLen sets the visual axis handle scale.
func (s *Session) SetAxisLen(v float64) error {
	c := s.cam
	c.AxisLen = v
	return s.SetCamera(c)
}

// Selection returns the current selected row indices. The slice is owned by
// the session and replaced wholesale on the next completed lasso; callers
// must not mutate it.
func (s *Session) Selection() []int { return s.sel }

// ClearSelection empties the selection.
func (s *Session) ClearSelection() { s.sel = nil }

func (s *Session) setSelection(idx []int) { s.sel = idx }

// ScreenPoint is one data point mapped to pixels.
type ScreenPoint struct {
	Pos   mgl64.Vec2
	Depth float64
	Size  float64
}

// ScreenPoints projects every row into vp, appending to dst.
//
// Reusing dst across frames keeps the projection loop allocation-free.
func (s *Session) ScreenPoints(vp Viewport, dst []ScreenPoint) []ScreenPoint {
	dst = dst[:0]
	for i := 0; i < s.table.Len(); i++ {
		s.ptbuf = s.table.Point(i, s.ptbuf)
		p := s.cam.Project(s.axes.Apply(s.ptbuf))
		dst = append(dst, ScreenPoint{
			Pos:   vp.ToScreen(p.XY),
			Depth: p.Depth,
			Size:  s.cam.PointSize * p.Scale,
		})
	}
	return dst
}

// HandlePos returns the pixel position of axis i's handle: the projected
// endpoint of its direction vector scaled by the axis length.
func (s *Session) HandlePos(i int, vp Viewport) mgl64.Vec2 {
	p := s.cam.Project(s.axes.At(i).Dir.Mul(s.cam.AxisLen))
	return vp.ToScreen(p.XY)
}

// Origin returns the pixel position all axes emanate from.
func (s *Session) Origin(vp Viewport) mgl64.Vec2 {
	p := s.cam.Project(mgl64.Vec3{})
	return vp.ToScreen(p.XY)
}
