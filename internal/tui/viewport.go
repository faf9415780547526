// internal/tui/viewport.go
package tui

import (
	"inkmark/internal/geom"
	"inkmark/internal/render"
)

// pageGap is the vertical space between stacked pages, in overlay
// pixels.
const pageGap = 16.0

// Viewport maps the vertically stacked page surfaces onto terminal
// cells. Every page starts at overlay x 0; pages follow each other top
// to bottom separated by pageGap.
//
// CellW and CellH say how many overlay pixels one terminal cell covers.
// Terminal cells are roughly twice as tall as wide, so the defaults
// keep page proportions close to the real thing.
type Viewport struct {
	CellW   float64
	CellH   float64
	OffsetX float64 // overlay px scrolled to the right
	OffsetY float64 // overlay px scrolled down
}

// NewViewport returns a viewport at the top-left of the first page.
func NewViewport() *Viewport {
	return &Viewport{CellW: 8, CellH: 16}
}

// Scroll moves the viewport by the given number of cells.
func (v *Viewport) Scroll(dxCells, dyCells int, surfaces []*render.PageSurface) {
	v.OffsetX += float64(dxCells) * v.CellW
	v.OffsetY += float64(dyCells) * v.CellH
	if v.OffsetX < 0 {
		v.OffsetX = 0
	}
	if v.OffsetY < 0 {
		v.OffsetY = 0
	}
	if max := v.TotalHeight(surfaces) - v.CellH; v.OffsetY > max && max >= 0 {
		v.OffsetY = max
	}
}

// PageTop returns the overlay y where the given 1-based page starts.
func (v *Viewport) PageTop(surfaces []*render.PageSurface, pageIndex int) float64 {
	top := 0.0
	for _, s := range surfaces {
		if s.Index == pageIndex {
			return top
		}
		top += float64(s.PixelH()) + pageGap
	}
	return top
}

// TotalHeight returns the overlay height of the whole page stack.
func (v *Viewport) TotalHeight(surfaces []*render.PageSurface) float64 {
	h := 0.0
	for _, s := range surfaces {
		h += float64(s.PixelH()) + pageGap
	}
	return h
}

// ScrollToPage aligns the top of the given 1-based page with the top of
// the screen.
func (v *Viewport) ScrollToPage(surfaces []*render.PageSurface, pageIndex int) {
	v.OffsetY = v.PageTop(surfaces, pageIndex)
}

// FirstVisiblePage returns the 1-based index of the topmost page in
// view, or 0 without surfaces.
func (v *Viewport) FirstVisiblePage(surfaces []*render.PageSurface) int {
	top := 0.0
	for _, s := range surfaces {
		bottom := top + float64(s.PixelH()) + pageGap
		if v.OffsetY < bottom {
			return s.Index
		}
		top = bottom
	}
	if len(surfaces) > 0 {
		return surfaces[len(surfaces)-1].Index
	}
	return 0
}

// Locate maps a terminal cell to a page and an overlay-pixel point on
// that page. ok is false over gaps and outside every page.
func (v *Viewport) Locate(surfaces []*render.PageSurface, cx, cy int) (pageIndex int, p geom.Point, ok bool) {
	gx := v.OffsetX + (float64(cx)+0.5)*v.CellW
	gy := v.OffsetY + (float64(cy)+0.5)*v.CellH

	top := 0.0
	for _, s := range surfaces {
		h := float64(s.PixelH())
		if gy >= top && gy < top+h && gx >= 0 && gx < float64(s.PixelW()) {
			return s.Index, geom.Point{X: gx, Y: gy - top}, true
		}
		top += h + pageGap
	}
	return 0, geom.Point{}, false
}

// LocateOn maps a terminal cell onto a specific page, even when the
// cell lies outside the page bounds. Drag gestures stay attached to the
// page they started on.
func (v *Viewport) LocateOn(surfaces []*render.PageSurface, pageIndex, cx, cy int) geom.Point {
	top := v.PageTop(surfaces, pageIndex)
	return geom.Point{
		X: v.OffsetX + (float64(cx)+0.5)*v.CellW,
		Y: v.OffsetY + (float64(cy)+0.5)*v.CellH - top,
	}
}

// CellOf maps an overlay-pixel point on a page to a terminal cell.
func (v *Viewport) CellOf(surfaces []*render.PageSurface, pageIndex int, p geom.Point) (cx, cy int) {
	top := v.PageTop(surfaces, pageIndex)
	cx = int((p.X - v.OffsetX) / v.CellW)
	cy = int((top + p.Y - v.OffsetY) / v.CellH)
	return cx, cy
}
