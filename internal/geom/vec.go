// Package geom holds the 2D primitives and contact queries used by the
// collision systems. Vectors are mgl32.Vec2 in world units.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultDirection is what NormalizeOr falls back to for coincident points.
var DefaultDirection = mgl32.Vec2{1, 0}

// NormalizeOr returns v scaled to unit length, or fallback when v is zero.
func NormalizeOr(v, fallback mgl32.Vec2) mgl32.Vec2 {
	l := v.Len()
	if l == 0 || math.IsNaN(float64(l)) {
		return fallback
	}
	return mgl32.Vec2{v[0] / l, v[1] / l}
}

// Direction is the unit vector from one point to another.
func Direction(from, to mgl32.Vec2) mgl32.Vec2 {
	return NormalizeOr(to.Sub(from), DefaultDirection)
}

func sign(x float32) float32 {
	if x < 0 {
		return -1
	}
	return 1
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
