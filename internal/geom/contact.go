package geom

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/l1jgo/skirmish/internal/component"
)

// ErrUnknownShape means a shape value outside the Rectangle/Circle union
// reached the narrow phase.
var ErrUnknownShape = errors.New("unknown shape")

// Primitive is a concrete collision shape centred on a body position.
type Primitive interface {
	isPrimitive()
}

// Box is an axis-aligned rectangle given by its half extents.
type Box struct {
	Half mgl32.Vec2
}

// Ball is a circle.
type Ball struct {
	Radius float32
}

func (Box) isPrimitive()  {}
func (Ball) isPrimitive() {}

// FromShape builds the primitive for a shape descriptor.
func FromShape(s component.Shape) (Primitive, error) {
	switch v := s.(type) {
	case component.Rectangle:
		return Box{Half: mgl32.Vec2{v.Width / 2, v.Height / 2}}, nil
	case component.Circle:
		return Ball{Radius: v.Radius}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownShape, s)
	}
}

// ContactBetween computes the contact between a at pa and b at pb. It
// reports false when the bodies are farther apart than margin. The
// returned Normal points from a to b and PointB == PointA + Normal*Distance.
func ContactBetween(pa mgl32.Vec2, a Primitive, pb mgl32.Vec2, b Primitive, margin float32) (component.Contact, bool, error) {
	var c component.Contact
	switch sa := a.(type) {
	case Box:
		switch sb := b.(type) {
		case Box:
			c = boxBox(pa, sa, pb, sb)
		case Ball:
			c = boxBall(pa, sa, pb, sb)
		default:
			return c, false, fmt.Errorf("%w: %T", ErrUnknownShape, b)
		}
	case Ball:
		switch sb := b.(type) {
		case Box:
			c = flip(boxBall(pb, sb, pa, sa))
		case Ball:
			c = ballBall(pa, sa, pb, sb)
		default:
			return c, false, fmt.Errorf("%w: %T", ErrUnknownShape, b)
		}
	default:
		return c, false, fmt.Errorf("%w: %T", ErrUnknownShape, a)
	}
	if c.Distance > margin {
		return component.Contact{}, false, nil
	}
	return c, true, nil
}

func flip(c component.Contact) component.Contact {
	return component.Contact{
		Distance: c.Distance,
		PointA:   c.PointB,
		PointB:   c.PointA,
		Normal:   c.Normal.Mul(-1),
	}
}

// overlapMid is the centre of the overlap of [a0,a1] and [b0,b1].
func overlapMid(a0, a1, b0, b1 float32) float32 {
	return (max(a0, b0) + min(a1, b1)) / 2
}

func boxBox(pa mgl32.Vec2, a Box, pb mgl32.Vec2, b Box) component.Contact {
	d := pb.Sub(pa)
	sx, sy := sign(d[0]), sign(d[1])
	ox := abs(d[0]) - (a.Half[0] + b.Half[0])
	oy := abs(d[1]) - (a.Half[1] + b.Half[1])
	midX := overlapMid(pa[0]-a.Half[0], pa[0]+a.Half[0], pb[0]-b.Half[0], pb[0]+b.Half[0])
	midY := overlapMid(pa[1]-a.Half[1], pa[1]+a.Half[1], pb[1]-b.Half[1], pb[1]+b.Half[1])

	if ox <= 0 && oy <= 0 {
		// Penetrating: separate along the axis of least penetration.
		var c component.Contact
		if ox >= oy {
			c.Distance = ox
			c.Normal = mgl32.Vec2{sx, 0}
			c.PointA = mgl32.Vec2{pa[0] + sx*a.Half[0], midY}
		} else {
			c.Distance = oy
			c.Normal = mgl32.Vec2{0, sy}
			c.PointA = mgl32.Vec2{midX, pa[1] + sy*a.Half[1]}
		}
		c.PointB = c.PointA.Add(c.Normal.Mul(c.Distance))
		return c
	}

	gx, gy := max(ox, 0), max(oy, 0)
	c := component.Contact{
		Distance: mgl32.Vec2{gx, gy}.Len(),
		Normal:   NormalizeOr(mgl32.Vec2{sx * gx, sy * gy}, DefaultDirection),
		PointA:   mgl32.Vec2{midX, midY},
		PointB:   mgl32.Vec2{midX, midY},
	}
	if ox > 0 {
		c.PointA[0] = pa[0] + sx*a.Half[0]
		c.PointB[0] = pb[0] - sx*b.Half[0]
	}
	if oy > 0 {
		c.PointA[1] = pa[1] + sy*a.Half[1]
		c.PointB[1] = pb[1] - sy*b.Half[1]
	}
	return c
}

func ballBall(pa mgl32.Vec2, a Ball, pb mgl32.Vec2, b Ball) component.Contact {
	d := pb.Sub(pa)
	n := NormalizeOr(d, DefaultDirection)
	return component.Contact{
		Distance: d.Len() - a.Radius - b.Radius,
		Normal:   n,
		PointA:   pa.Add(n.Mul(a.Radius)),
		PointB:   pb.Sub(n.Mul(b.Radius)),
	}
}

func boxBall(pa mgl32.Vec2, a Box, pb mgl32.Vec2, b Ball) component.Contact {
	closest := mgl32.Vec2{
		clamp(pb[0], pa[0]-a.Half[0], pa[0]+a.Half[0]),
		clamp(pb[1], pa[1]-a.Half[1], pa[1]+a.Half[1]),
	}
	delta := pb.Sub(closest)
	if l := delta.Len(); l > 0 {
		n := mgl32.Vec2{delta[0] / l, delta[1] / l}
		return component.Contact{
			Distance: l - b.Radius,
			Normal:   n,
			PointA:   closest,
			PointB:   pb.Sub(n.Mul(b.Radius)),
		}
	}

	// Centre inside the box: push out through the nearest face.
	d := pb.Sub(pa)
	px := a.Half[0] - abs(d[0])
	py := a.Half[1] - abs(d[1])
	var c component.Contact
	if px <= py {
		c.Normal = mgl32.Vec2{sign(d[0]), 0}
		c.Distance = -px - b.Radius
		c.PointA = mgl32.Vec2{pa[0] + sign(d[0])*a.Half[0], pb[1]}
	} else {
		c.Normal = mgl32.Vec2{0, sign(d[1])}
		c.Distance = -py - b.Radius
		c.PointA = mgl32.Vec2{pb[0], pa[1] + sign(d[1])*a.Half[1]}
	}
	c.PointB = pb.Sub(c.Normal.Mul(b.Radius))
	return c
}
