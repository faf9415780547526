// internal/render/render.go
package render

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"inkmark/internal/document"
	"inkmark/internal/event"
	"inkmark/internal/logger"
	"inkmark/internal/overlay"
)

// Rasterizer turns one page of a PDF file into pixels. scale is overlay
// pixels per PDF point.
type Rasterizer interface {
	RenderPage(path string, pageIndex int, size document.PageSize, scale float64) (image.Image, error)
}

// Renderer builds and rebuilds the surface set for a document.
type Renderer struct {
	ras    Rasterizer
	events *event.Manager
}

// NewRenderer creates a renderer. events may be nil in tests.
func NewRenderer(ras Rasterizer, events *event.Manager) *Renderer {
	return &Renderer{ras: ras, events: events}
}

// BuildSurfaces renders every page of the document at the given scale.
// Pages are rendered sequentially in order. A page that fails to
// rasterize gets a surface without an image and the build continues;
// annotations on failed pages still work.
func (r *Renderer) BuildSurfaces(doc *document.Document, scale float64) []*PageSurface {
	surfaces := make([]*PageSurface, 0, doc.PageCount)
	for i := 1; i <= doc.PageCount; i++ {
		s := r.buildPage(doc, i, scale)
		surfaces = append(surfaces, s)
	}
	return surfaces
}

// RebuildSurfaces re-renders page images at a new scale, carrying each
// page's overlay over re-projected to the new scale. Surfaces for pages
// beyond the current page count are dropped.
func (r *Renderer) RebuildSurfaces(doc *document.Document, old []*PageSurface, scale float64) []*PageSurface {
	surfaces := make([]*PageSurface, 0, doc.PageCount)
	for i := 1; i <= doc.PageCount; i++ {
		s := r.buildPage(doc, i, scale)
		if i <= len(old) && old[i-1] != nil {
			prev := old[i-1]
			prev.Overlay.Rescale(scale / prev.Scale)
			s.Overlay = prev.Overlay
		}
		surfaces = append(surfaces, s)
	}
	return surfaces
}

func (r *Renderer) buildPage(doc *document.Document, pageIndex int, scale float64) *PageSurface {
	s := &PageSurface{
		Index:   pageIndex,
		Size:    doc.PageSizes[pageIndex-1],
		Scale:   scale,
		Overlay: overlay.New(),
	}
	img, err := r.ras.RenderPage(doc.Path(), pageIndex, s.Size, scale)
	if err != nil {
		s.Failed = true
		logger.Warnf("render: page %d failed: %v", pageIndex, err)
		r.dispatch(event.TypePageRenderFailed, event.PageRenderFailedData{PageIndex: pageIndex, Err: err})
		return s
	}
	s.Img = img
	r.dispatch(event.TypePageRendered, event.PageRenderedData{PageIndex: pageIndex})
	return s
}

func (r *Renderer) dispatch(t event.Type, data interface{}) {
	if r.events != nil {
		r.events.Dispatch(t, data)
	}
}

// QuickRescale stretches the existing page images to a new scale for
// immediate feedback while the crisp re-render runs. The surfaces keep
// their old Scale; only the images change.
func QuickRescale(surfaces []*PageSurface, scale float64) {
	for _, s := range surfaces {
		if s.Img == nil || s.Scale == scale {
			continue
		}
		w := int(s.Size.W*scale + 0.5)
		h := int(s.Size.H*scale + 0.5)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), s.Img, s.Img.Bounds(), xdraw.Src, nil)
		s.Img = dst
	}
}
