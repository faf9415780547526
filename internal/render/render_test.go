package render

import (
	"context"
	"errors"
	"image"
	"testing"

	"inkmark/internal/annot"
	"inkmark/internal/document"
	"inkmark/internal/event"
	"inkmark/internal/export"
	"inkmark/internal/geom"
)

func loadFixture(t *testing.T, pages int) *document.Document {
	t.Helper()
	data, err := export.Blank(pages, 612, 792)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	doc, err := document.Load(context.Background(), document.ByteSource{DocName: "fixture.pdf", Data: data})
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	t.Cleanup(doc.Close)
	return doc
}

// failingRasterizer fails for one specific page.
type failingRasterizer struct {
	failPage int
}

func (f failingRasterizer) RenderPage(path string, pageIndex int, size document.PageSize, scale float64) (image.Image, error) {
	if pageIndex == f.failPage {
		return nil, errors.New("simulated rasterizer failure")
	}
	return FlatRasterizer{}.RenderPage(path, pageIndex, size, scale)
}

func TestBuildSurfaces(t *testing.T) {
	doc := loadFixture(t, 3)
	r := NewRenderer(FlatRasterizer{}, nil)

	surfaces := r.BuildSurfaces(doc, 1.5)
	if len(surfaces) != 3 {
		t.Fatalf("got %d surfaces, want 3", len(surfaces))
	}
	for _, s := range surfaces {
		if s.Failed || s.Img == nil {
			t.Errorf("page %d did not render", s.Index)
		}
		if s.PixelW() != 918 || s.PixelH() != 1188 {
			t.Errorf("page %d pixel size = %dx%d, want 918x1188", s.Index, s.PixelW(), s.PixelH())
		}
		if s.Overlay == nil || s.Overlay.Len() != 0 {
			t.Errorf("page %d overlay not empty", s.Index)
		}
	}
}

func TestBuildSurfacesIsolatesFailures(t *testing.T) {
	doc := loadFixture(t, 3)
	events := event.NewManager()
	var failed []int
	events.Subscribe(event.TypePageRenderFailed, func(e event.Event) bool {
		failed = append(failed, e.Data.(event.PageRenderFailedData).PageIndex)
		return true
	})

	r := NewRenderer(failingRasterizer{failPage: 2}, events)
	surfaces := r.BuildSurfaces(doc, 1)

	if len(surfaces) != 3 {
		t.Fatalf("got %d surfaces, want 3", len(surfaces))
	}
	if !surfaces[1].Failed || surfaces[1].Img != nil {
		t.Error("page 2 should have failed without an image")
	}
	if surfaces[0].Failed || surfaces[2].Failed {
		t.Error("failure on page 2 leaked to other pages")
	}
	if len(failed) != 1 || failed[0] != 2 {
		t.Errorf("failure events = %v, want [2]", failed)
	}

	// The failed page still accepts annotations.
	surfaces[1].Overlay.Add(&annot.Rectangle{
		B: annot.NewBase(geom.Rect{X: 1, Y: 1, W: 5, H: 5}, annot.Red, 1, 1),
	})
	if surfaces[1].Overlay.Len() != 1 {
		t.Error("annotation on failed page was lost")
	}
}

func TestRebuildReprojectsOverlay(t *testing.T) {
	doc := loadFixture(t, 1)
	r := NewRenderer(FlatRasterizer{}, nil)

	surfaces := r.BuildSurfaces(doc, 1)
	rect := &annot.Rectangle{
		B: annot.NewBase(geom.Rect{X: 100, Y: 100, W: 50, H: 50}, annot.Red, 2, 1),
	}
	surfaces[0].Overlay.Add(rect)

	rebuilt := r.RebuildSurfaces(doc, surfaces, 2)
	if len(rebuilt) != 1 {
		t.Fatalf("got %d surfaces, want 1", len(rebuilt))
	}
	s := rebuilt[0]
	if s.Scale != 2 {
		t.Errorf("scale = %v, want 2", s.Scale)
	}
	if s.Overlay.Len() != 1 {
		t.Fatal("overlay object lost across rebuild")
	}
	b := s.Overlay.Objects()[0].Base()
	if b.Rect.X != 200 || b.Rect.W != 100 {
		t.Errorf("rect after rescale = %+v, want X=200 W=100", b.Rect)
	}
	if b.Scale != 2 {
		t.Errorf("recorded object scale = %v, want 2", b.Scale)
	}

	// Document-space position is invariant: overlay coords divided by
	// the recorded scale match before and after.
	if got := b.Rect.X / b.Scale; got != 100 {
		t.Errorf("document-space X = %v, want 100", got)
	}
}

func TestQuickRescale(t *testing.T) {
	doc := loadFixture(t, 1)
	r := NewRenderer(FlatRasterizer{}, nil)
	surfaces := r.BuildSurfaces(doc, 1)

	QuickRescale(surfaces, 2)
	bounds := surfaces[0].Img.Bounds()
	if bounds.Dx() != 1224 || bounds.Dy() != 1584 {
		t.Errorf("rescaled image = %dx%d, want 1224x1584", bounds.Dx(), bounds.Dy())
	}
}
