package component

// Shape is a closed union of Rectangle and Circle. The unexported method
// keeps other packages from adding variants.
type Shape interface {
	isShape()
	// HalfExtents is the half size of the axis-aligned bounds.
	HalfExtents() (float32, float32)
}

type Rectangle struct {
	Width, Height float32
}

type Circle struct {
	Radius float32
}

func (Rectangle) isShape() {}
func (Circle) isShape()    {}

func (r Rectangle) HalfExtents() (float32, float32) { return r.Width / 2, r.Height / 2 }
func (c Circle) HalfExtents() (float32, float32)    { return c.Radius, c.Radius }
