// internal/render/rasterizer.go
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/novvoo/go-pdf/pkg/gopdf"

	"inkmark/internal/document"
)

// PDFRasterizer renders pages through the go-pdf engine. A fresh reader
// is opened per call because the backing file is rewritten on save.
type PDFRasterizer struct{}

func (PDFRasterizer) RenderPage(path string, pageIndex int, size document.PageSize, scale float64) (image.Image, error) {
	r := gopdf.NewPDFReader(path)
	defer r.Close()

	// The engine works in DPI; overlay pixels per point times 72.
	img, err := r.RenderPageToImage(pageIndex, 72*scale)
	if err != nil {
		return nil, fmt.Errorf("rasterize page %d of %s: %w", pageIndex, path, err)
	}
	return img, nil
}

// FlatRasterizer produces plain single-color pages. It backs headless
// tests and is the fallback when real rasterization is unavailable.
type FlatRasterizer struct {
	Color color.Color
}

func (f FlatRasterizer) RenderPage(path string, pageIndex int, size document.PageSize, scale float64) (image.Image, error) {
	c := f.Color
	if c == nil {
		c = color.White
	}
	w := int(size.W*scale + 0.5)
	h := int(size.H*scale + 0.5)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("degenerate page size %gx%g", size.W, size.H)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img, nil
}
