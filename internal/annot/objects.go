// internal/annot/objects.go
package annot

import (
	"math"

	"inkmark/internal/geom"
)

// Text is an editable text run.
type Text struct {
	B          Base
	Content    string
	FontFamily string
	FontSize   float64 // overlay pixels
	Bold       bool
	Italic     bool
	Underline  bool
}

func (t *Text) Kind() Kind        { return KindText }
func (t *Text) Base() *Base       { return &t.B }
func (t *Text) Bounds() geom.Rect { return t.B.Rect.Normalize() }
func (t *Text) Clone() Object     { c := *t; return &c }
func (t *Text) sealed()           {}

// Rectangle is an axis-aligned rectangle outline with optional fill.
type Rectangle struct {
	B Base
}

func (r *Rectangle) Kind() Kind        { return KindRect }
func (r *Rectangle) Base() *Base       { return &r.B }
func (r *Rectangle) Bounds() geom.Rect { return r.B.Rect.Normalize() }
func (r *Rectangle) Clone() Object     { c := *r; return &c }
func (r *Rectangle) sealed()           {}

// Ellipse is inscribed in its bounding rectangle.
type Ellipse struct {
	B Base
}

func (e *Ellipse) Kind() Kind        { return KindEllipse }
func (e *Ellipse) Base() *Base       { return &e.B }
func (e *Ellipse) Bounds() geom.Rect { return e.B.Rect.Normalize() }
func (e *Ellipse) Clone() Object     { c := *e; return &c }
func (e *Ellipse) sealed()           {}

// Line is a straight segment from P1 to P2.
type Line struct {
	B  Base
	P1 geom.Point
	P2 geom.Point
}

func (l *Line) Kind() Kind  { return KindLine }
func (l *Line) Base() *Base { return &l.B }

func (l *Line) Bounds() geom.Rect {
	return geom.RectFromCorners(l.P1, l.P2)
}

func (l *Line) Clone() Object { c := *l; return &c }
func (l *Line) sealed()       {}

// Angle returns the direction of the line in radians, measured from P1
// toward P2 in overlay coordinates.
func (l *Line) Angle() float64 {
	return math.Atan2(l.P2.Y-l.P1.Y, l.P2.X-l.P1.X)
}

// ArrowHead is the filled triangle capping an arrow line. It is a
// standalone object so it stays selectable independently of the line it
// was created with.
type ArrowHead struct {
	B Base
	// Tip, Left, Right are the triangle vertices; Tip coincides with the
	// arrow line's terminal point at creation time.
	Tip   geom.Point
	Left  geom.Point
	Right geom.Point
}

func (a *ArrowHead) Kind() Kind  { return KindArrowHead }
func (a *ArrowHead) Base() *Base { return &a.B }

func (a *ArrowHead) Bounds() geom.Rect {
	r := geom.RectFromCorners(a.Tip, a.Left)
	return r.Union(geom.RectFromCorners(a.Tip, a.Right))
}

func (a *ArrowHead) Clone() Object { c := *a; return &c }
func (a *ArrowHead) sealed()       {}

// Path is a freehand stroke: consecutive points joined by straight
// segments.
type Path struct {
	B      Base
	Points []geom.Point
}

func (p *Path) Kind() Kind  { return KindPath }
func (p *Path) Base() *Base { return &p.B }

func (p *Path) Bounds() geom.Rect {
	if len(p.Points) == 0 {
		return p.B.Rect
	}
	r := geom.Rect{X: p.Points[0].X, Y: p.Points[0].Y}
	for _, pt := range p.Points[1:] {
		r = r.Union(geom.Rect{X: pt.X, Y: pt.Y})
	}
	return r
}

func (p *Path) Clone() Object {
	c := *p
	c.Points = append([]geom.Point(nil), p.Points...)
	return &c
}

func (p *Path) sealed() {}

// Append adds a point to the stroke while the pointer is down.
func (p *Path) Append(pt geom.Point) {
	p.Points = append(p.Points, pt)
}

// Image is an embedded raster placed on the overlay.
type Image struct {
	B Base
	// Data is the encoded source image (PNG or JPEG bytes).
	Data []byte
	// IntrinsicW, IntrinsicH are the pixel dimensions of Data.
	IntrinsicW int
	IntrinsicH int
}

func (i *Image) Kind() Kind        { return KindImage }
func (i *Image) Base() *Base       { return &i.B }
func (i *Image) Bounds() geom.Rect { return i.B.Rect.Normalize() }

func (i *Image) Clone() Object {
	c := *i
	c.Data = append([]byte(nil), i.Data...)
	return &c
}

func (i *Image) sealed() {}
