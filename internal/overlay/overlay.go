// Package overlay implements the vector-object layer that sits on top of
// a rendered page. It owns the annotation objects of exactly one page and
// provides hit testing, selection and whole-state snapshots for undo.
package overlay

import (
	"math"

	"inkmark/internal/annot"
	"inkmark/internal/geom"
)

// hitSlop widens line and path hit targets beyond the stroke itself, so
// thin strokes remain clickable.
const hitSlop = 3.0

// Overlay is the vector-object collection for one page.
//
// Objects are kept in insertion order, which is also paint order; the
// last object is topmost. All methods must be called from the UI
// goroutine.
type Overlay struct {
	objects  []annot.Object
	selected string // ID of the active selection, "" for none
}

// New returns an empty overlay.
func New() *Overlay {
	return &Overlay{}
}

// Add appends an object on top of the stack.
func (o *Overlay) Add(obj annot.Object) {
	o.objects = append(o.objects, obj)
}

// Remove deletes the object with the given ID. It returns true if an
// object was removed.
func (o *Overlay) Remove(id string) bool {
	for i, obj := range o.objects {
		if obj.Base().ID == id {
			o.objects = append(o.objects[:i], o.objects[i+1:]...)
			if o.selected == id {
				o.selected = ""
			}
			return true
		}
	}
	return false
}

// Objects returns the objects in paint order. The slice is shared;
// callers must not mutate it.
func (o *Overlay) Objects() []annot.Object {
	return o.objects
}

// Len reports the number of objects.
func (o *Overlay) Len() int {
	return len(o.objects)
}

// ByID returns the object with the given ID, or nil.
func (o *Overlay) ByID(id string) annot.Object {
	for _, obj := range o.objects {
		if obj.Base().ID == id {
			return obj
		}
	}
	return nil
}

// HitTest returns the topmost object under p, or nil.
func (o *Overlay) HitTest(p geom.Point) annot.Object {
	for i := len(o.objects) - 1; i >= 0; i-- {
		if hit(o.objects[i], p) {
			return o.objects[i]
		}
	}
	return nil
}

// Select marks the object with the given ID as the active selection.
// An empty ID clears the selection.
func (o *Overlay) Select(id string) {
	if id == "" || o.ByID(id) != nil {
		o.selected = id
	}
}

// ClearSelection drops the active selection.
func (o *Overlay) ClearSelection() {
	o.selected = ""
}

// Selected returns the active selection, or nil.
func (o *Overlay) Selected() annot.Object {
	if o.selected == "" {
		return nil
	}
	return o.ByID(o.selected)
}

// Snapshot serializes the full overlay content. The result is
// independent of live state.
func (o *Overlay) Snapshot() ([]byte, error) {
	clones := make([]annot.Object, len(o.objects))
	for i, obj := range o.objects {
		clones[i] = obj.Clone()
	}
	return annot.MarshalObjects(clones)
}

// Restore replaces the overlay content with a previously taken snapshot.
// The selection survives only if the selected object still exists.
func (o *Overlay) Restore(snapshot []byte) error {
	objs, err := annot.UnmarshalObjects(snapshot)
	if err != nil {
		return err
	}
	o.objects = objs
	if o.selected != "" && o.ByID(o.selected) == nil {
		o.selected = ""
	}
	return nil
}

// Rescale re-projects every object to a new render scale. Geometry,
// stroke widths and font sizes multiply by factor and each object's
// recorded scale follows, so document-space positions are unchanged.
func (o *Overlay) Rescale(factor float64) {
	if factor == 1 {
		return
	}
	for _, obj := range o.objects {
		rescaleObject(obj, factor)
	}
}

// rescaleObject multiplies one object's geometry, stroke width, font
// size and recorded scale by factor.
func rescaleObject(obj annot.Object, factor float64) {
	b := obj.Base()
	b.Rect = b.Rect.Scale(factor)
	b.StrokeWidth *= factor
	b.Scale *= factor
	switch x := obj.(type) {
	case *annot.Line:
		x.P1 = scalePoint(x.P1, factor)
		x.P2 = scalePoint(x.P2, factor)
	case *annot.ArrowHead:
		x.Tip = scalePoint(x.Tip, factor)
		x.Left = scalePoint(x.Left, factor)
		x.Right = scalePoint(x.Right, factor)
	case *annot.Path:
		for i := range x.Points {
			x.Points[i] = scalePoint(x.Points[i], factor)
		}
	case *annot.Text:
		x.FontSize *= factor
	}
}

func scalePoint(p geom.Point, factor float64) geom.Point {
	return geom.Point{X: p.X * factor, Y: p.Y * factor}
}

// NormalizeScale re-projects each object individually to the target
// render scale. Needed after restoring a snapshot that was taken at a
// different zoom level.
func (o *Overlay) NormalizeScale(target float64) {
	for _, obj := range o.objects {
		b := obj.Base()
		if b.Scale <= 0 || b.Scale == target {
			continue
		}
		rescaleObject(obj, target/b.Scale)
	}
}

func hit(obj annot.Object, p geom.Point) bool {
	switch x := obj.(type) {
	case *annot.Line:
		return segDist(p, x.P1, x.P2) <= x.B.StrokeWidth/2+hitSlop
	case *annot.Path:
		for i := 1; i < len(x.Points); i++ {
			if segDist(p, x.Points[i-1], x.Points[i]) <= x.B.StrokeWidth/2+hitSlop {
				return true
			}
		}
		return false
	default:
		return obj.Bounds().Contains(p)
	}
}

// segDist returns the distance from p to the segment ab.
func segDist(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Dist(geom.Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y})
}
