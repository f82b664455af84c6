// Package geom provides the small amount of screen-plane geometry the
// projection engine needs: pointer angles about an origin and even-odd
// polygon containment for lasso selection.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Angle returns the angle of p about origin, in radians, in (-π, π].
func Angle(origin, p mgl64.Vec2) float64 {
	return math.Atan2(p.Y()-origin.Y(), p.X()-origin.X())
}

// NormalizeAngle reduces a into (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// AngleDelta returns the signed shortest rotation taking prev to cur.
func AngleDelta(prev, cur float64) float64 {
	return NormalizeAngle(cur - prev)
}
