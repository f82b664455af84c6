package geom

import "github.com/go-gl/mathgl/mgl64"

// Polygon is a freehand vertex list accumulated during a lasso gesture.
//
// The zero value is an empty polygon that contains nothing.
type Polygon struct {
	verts []mgl64.Vec2
}

// Add appends p unless it is closer than minDist to the last vertex.
//
// The threshold bounds vertex growth during a slow drag. The first vertex is
// always accepted. Reports whether the vertex was kept.
func (pg *Polygon) Add(p mgl64.Vec2, minDist float64) bool {
	if n := len(pg.verts); n > 0 {
		if p.Sub(pg.verts[n-1]).Len() < minDist {
			return false
		}
	}
	pg.verts = append(pg.verts, p)
	return true
}

// Len returns the vertex count.
func (pg *Polygon) Len() int { return len(pg.verts) }

// Vertices returns the accumulated vertex list. Callers must not mutate it.
func (pg *Polygon) Vertices() []mgl64.Vec2 { return pg.verts }

// Reset discards all vertices.
func (pg *Polygon) Reset() { pg.verts = pg.verts[:0] }

// Contains reports whether p is inside the polygon under the even-odd rule.
//
// Self-intersecting polygons are resolved by crossing parity, so any vertex
// list yields a deterministic answer. Fewer than 3 vertices, and therefore
// zero-area polygons, contain nothing.
func (pg *Polygon) Contains(p mgl64.Vec2) bool {
	n := len(pg.verts)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		a := pg.verts[i]
		b := pg.verts[j]
		if (a.Y() > p.Y()) != (b.Y() > p.Y()) {
			x := a.X() + (p.Y()-a.Y())/(b.Y()-a.Y())*(b.X()-a.X())
			if p.X() < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Bounds returns the axis-aligned bounding box, or false for an empty polygon.
func (pg *Polygon) Bounds() (min, max mgl64.Vec2, ok bool) {
	if len(pg.verts) == 0 {
		return mgl64.Vec2{}, mgl64.Vec2{}, false
	}
	min = pg.verts[0]
	max = pg.verts[0]
	for _, v := range pg.verts[1:] {
		if v.X() < min.X() {
			min[0] = v.X()
		}
		if v.Y() < min.Y() {
			min[1] = v.Y()
		}
		if v.X() > max.X() {
			max[0] = v.X()
		}
		if v.Y() > max.Y() {
			max[1] = v.Y()
		}
	}
	return min, max, true
}
