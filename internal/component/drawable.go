package component

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

var (
	ColorRed   = Color{255, 0, 0}
	ColorGreen = Color{0, 255, 0}
	ColorBlue  = Color{0, 0, 255}
	ColorBlack = Color{0, 0, 0}
	ColorWhite = Color{255, 255, 255}
)

// Drawable marks an entity for rendering with the given shape and color.
type Drawable struct {
	Shape Shape
	Color Color
}
