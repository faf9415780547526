// Package render builds per-page surfaces: the rasterized page image
// plus the overlay holding that page's annotations. Surfaces are torn
// down and rebuilt as a set when the document or the zoom changes.
package render

import (
	"image"

	"inkmark/internal/document"
	"inkmark/internal/geom"
	"inkmark/internal/overlay"
)

// PageSurface is one page's render state. Index is 1-based. Img is nil
// while the page image is unavailable (rasterization failed); the
// overlay stays usable either way.
type PageSurface struct {
	Index   int
	Size    document.PageSize
	Scale   float64
	Img     image.Image
	Overlay *overlay.Overlay
	Failed  bool
}

// PixelW returns the surface width in overlay pixels.
func (s *PageSurface) PixelW() int {
	return int(s.Size.W*s.Scale + 0.5)
}

// PixelH returns the surface height in overlay pixels.
func (s *PageSurface) PixelH() int {
	return int(s.Size.H*s.Scale + 0.5)
}

// Space returns the overlay-to-page coordinate mapping for this
// surface.
func (s *PageSurface) Space() geom.PageSpace {
	return geom.PageSpace{PageW: s.Size.W, PageH: s.Size.H, Scale: s.Scale}
}
