// internal/overlay/handles.go
package overlay

import (
	"math"

	"inkmark/internal/annot"
	"inkmark/internal/geom"
)

// Handle identifies one of the eight resize handles on a selection's
// bounding rectangle.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

// handleRadius is the pick radius around each handle, in overlay pixels.
const handleRadius = 6.0

// minSize is the smallest dimension a resize may produce.
const minSize = 1.0

// HandlePositions returns the eight handle anchor points for r.
func HandlePositions(r geom.Rect) [8]geom.Point {
	r = r.Normalize()
	return [8]geom.Point{
		{X: r.X, Y: r.Y},               // NW
		{X: r.X + r.W/2, Y: r.Y},       // N
		{X: r.X + r.W, Y: r.Y},         // NE
		{X: r.X + r.W, Y: r.Y + r.H/2}, // E
		{X: r.X + r.W, Y: r.Y + r.H},   // SE
		{X: r.X + r.W/2, Y: r.Y + r.H}, // S
		{X: r.X, Y: r.Y + r.H},         // SW
		{X: r.X, Y: r.Y + r.H/2},       // W
	}
}

// HandleAt returns the handle under p for the current selection, or
// HandleNone when p misses every handle (or nothing is selected).
func (o *Overlay) HandleAt(p geom.Point) Handle {
	sel := o.Selected()
	if sel == nil {
		return HandleNone
	}
	for i, hp := range HandlePositions(sel.Bounds()) {
		if p.Dist(hp) <= handleRadius {
			return Handle(i + 1)
		}
	}
	return HandleNone
}

// MoveSelected translates the selection by d.
func (o *Overlay) MoveSelected(d geom.Point) {
	sel := o.Selected()
	if sel == nil {
		return
	}
	translate(sel, d)
}

// ResizeSelected drags the given handle to p, reshaping the selection's
// bounding rectangle. Line-like objects scale their defining points with
// the rect so they keep their shape.
func (o *Overlay) ResizeSelected(h Handle, p geom.Point) {
	sel := o.Selected()
	if sel == nil || h == HandleNone {
		return
	}
	old := sel.Bounds().Normalize()
	neu := dragHandle(old, h, p)
	reshape(sel, old, neu)
}

func dragHandle(r geom.Rect, h Handle, p geom.Point) geom.Rect {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.W, r.Y+r.H
	switch h {
	case HandleNW:
		x0, y0 = p.X, p.Y
	case HandleN:
		y0 = p.Y
	case HandleNE:
		x1, y0 = p.X, p.Y
	case HandleE:
		x1 = p.X
	case HandleSE:
		x1, y1 = p.X, p.Y
	case HandleS:
		y1 = p.Y
	case HandleSW:
		x0, y1 = p.X, p.Y
	case HandleW:
		x0 = p.X
	}
	out := geom.RectFromCorners(geom.Point{X: x0, Y: y0}, geom.Point{X: x1, Y: y1})
	out.W = math.Max(out.W, minSize)
	out.H = math.Max(out.H, minSize)
	return out
}

func translate(obj annot.Object, d geom.Point) {
	b := obj.Base()
	b.Rect = b.Rect.Translate(d)
	switch x := obj.(type) {
	case *annot.Line:
		x.P1 = x.P1.Add(d)
		x.P2 = x.P2.Add(d)
	case *annot.ArrowHead:
		x.Tip = x.Tip.Add(d)
		x.Left = x.Left.Add(d)
		x.Right = x.Right.Add(d)
	case *annot.Path:
		for i := range x.Points {
			x.Points[i] = x.Points[i].Add(d)
		}
	}
}

// reshape maps the object's geometry from the old bounding rect onto the
// new one.
func reshape(obj annot.Object, old, neu geom.Rect) {
	sx, sy := 1.0, 1.0
	if old.W > 0 {
		sx = neu.W / old.W
	}
	if old.H > 0 {
		sy = neu.H / old.H
	}
	remap := func(p geom.Point) geom.Point {
		return geom.Point{
			X: neu.X + (p.X-old.X)*sx,
			Y: neu.Y + (p.Y-old.Y)*sy,
		}
	}

	switch x := obj.(type) {
	case *annot.Line:
		x.P1 = remap(x.P1)
		x.P2 = remap(x.P2)
	case *annot.ArrowHead:
		x.Tip = remap(x.Tip)
		x.Left = remap(x.Left)
		x.Right = remap(x.Right)
	case *annot.Path:
		for i := range x.Points {
			x.Points[i] = remap(x.Points[i])
		}
	}
	obj.Base().Rect = neu
}
