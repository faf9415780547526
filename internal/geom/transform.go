// internal/geom/transform.go
package geom

// PageSpace converts between overlay pixel coordinates (top-left origin,
// scaled) and PDF user-space coordinates (bottom-left origin, points).
//
// Overlay pixels are the page's intrinsic size multiplied by Scale; PDF
// space is the intrinsic size itself. The vertical axis flips between the
// two systems.
type PageSpace struct {
	// PageW, PageH are the intrinsic (unscaled) page dimensions in points.
	PageW float64
	PageH float64

	// Scale is the render scale that produced the overlay surface.
	Scale float64
}

// ToPage maps an overlay point into PDF user space.
func (s PageSpace) ToPage(p Point) Point {
	return Point{
		X: p.X / s.Scale,
		Y: s.PageH - p.Y/s.Scale,
	}
}

// FromPage maps a PDF user-space point back into overlay pixels.
func (s PageSpace) FromPage(p Point) Point {
	return Point{
		X: p.X * s.Scale,
		Y: (s.PageH - p.Y) * s.Scale,
	}
}

// RectToPage maps an overlay rectangle into PDF user space.
// The result keeps PDF conventions: origin is the lower-left corner.
func (s PageSpace) RectToPage(r Rect) Rect {
	r = r.Normalize()
	ll := s.ToPage(Point{X: r.X, Y: r.Y + r.H})
	return Rect{X: ll.X, Y: ll.Y, W: r.W / s.Scale, H: r.H / s.Scale}
}

// LengthToPage converts a length (stroke width, font size) from overlay
// pixels to points.
func (s PageSpace) LengthToPage(v float64) float64 {
	return v / s.Scale
}
