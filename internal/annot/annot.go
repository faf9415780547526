// Package annot defines the annotation object model: a closed set of
// object kinds that live on a page overlay and survive round-trips
// through history snapshots and PDF export.
package annot

import (
	"github.com/google/uuid"

	"inkmark/internal/geom"
)

// Kind identifies one of the supported annotation variants.
// The set is closed: drawing, hit testing and export all switch over Kind
// and treat anything else as a programming error.
type Kind string

const (
	KindText      Kind = "text"
	KindRect      Kind = "rect"
	KindEllipse   Kind = "ellipse"
	KindLine      Kind = "line"
	KindArrowHead Kind = "arrowhead"
	KindPath      Kind = "path"
	KindImage     Kind = "image"
)

// Object is the interface shared by all annotation variants.
//
// All geometry is in overlay pixel space at the render scale recorded in
// Base().Scale. Implementations are the concrete structs in this package
// and nothing else; the sealed() method keeps the set closed.
type Object interface {
	// Kind reports the variant tag.
	Kind() Kind

	// Base returns the attributes shared by every variant. The pointer
	// aliases the object's own storage, so mutations are visible.
	Base() *Base

	// Bounds returns the object's bounding rectangle in overlay pixels.
	Bounds() geom.Rect

	// Clone returns a deep copy. Snapshots rely on this to decouple
	// history entries from live overlay state.
	Clone() Object

	sealed()
}

// Base holds the attributes common to all annotation variants.
type Base struct {
	// ID is a stable identity, assigned at creation.
	ID string

	// Rect is the bounding geometry in overlay pixels. For line-like
	// objects the rect is derived from the endpoints instead; see the
	// concrete types.
	Rect geom.Rect

	// Stroke is the outline color.
	Stroke Color

	// StrokeWidth is the outline width in overlay pixels.
	StrokeWidth float64

	// Fill, if non-nil, is the interior color.
	Fill *Color

	// Opacity in [0,1]; 1 is fully opaque. Highlight strokes use this.
	Opacity float64

	// Scale is the render scale at which the object was created.
	// Document-space geometry is Rect scaled by 1/Scale, which keeps
	// exported positions stable across zoom teardown/rebuild cycles.
	Scale float64
}

// NewBase returns a Base with a fresh ID and full opacity.
func NewBase(r geom.Rect, stroke Color, width, scale float64) Base {
	return Base{
		ID:          uuid.NewString(),
		Rect:        r,
		Stroke:      stroke,
		StrokeWidth: width,
		Opacity:     1,
		Scale:       scale,
	}
}
