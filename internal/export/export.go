// Package export flattens overlay annotations into native PDF content.
// The original document is read into memory, every annotated page gets
// its content wrapped in a saved graphics state and an appended overlay
// stream, and the whole file is rewritten. The original bytes are never
// modified in place.
package export

import (
	"bytes"
	"fmt"
	"io"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"inkmark/internal/annot"
	"inkmark/internal/geom"
	"inkmark/internal/logger"
)

// PageOverlay is one page's worth of annotations to flatten. Space
// carries the page size in points; each object converts through its own
// recorded scale so zooming between draw and export changes nothing.
type PageOverlay struct {
	PageIndex int // 1-based
	Space     geom.PageSpace
	Objects   []annot.Object
}

// Annotate returns a copy of original with every page overlay drawn
// into the page content. Pages without objects pass through untouched.
func Annotate(original []byte, pages []PageOverlay) ([]byte, error) {
	data, err := pdf.Read(bytes.NewReader(original), nil)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	refs, err := pagetree.FindPages(data)
	if err != nil {
		return nil, fmt.Errorf("find pages: %w", err)
	}

	annotated := 0
	for _, po := range pages {
		if len(po.Objects) == 0 {
			continue
		}
		if po.PageIndex < 1 || po.PageIndex > len(refs) {
			return nil, fmt.Errorf("page %d out of range (document has %d pages)", po.PageIndex, len(refs))
		}
		if err := annotatePage(data, refs[po.PageIndex-1], po); err != nil {
			return nil, fmt.Errorf("page %d: %w", po.PageIndex, err)
		}
		annotated++
	}

	var buf bytes.Buffer
	if err := data.Write(&buf); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	logger.Infof("export: flattened %d page(s), %d bytes", annotated, buf.Len())
	return buf.Bytes(), nil
}

func annotatePage(data *pdf.Data, ref pdf.Reference, po PageOverlay) error {
	pageDict, err := pdf.GetDict(data, ref)
	if err != nil {
		return err
	}
	if pageDict == nil {
		return fmt.Errorf("missing page dictionary")
	}

	res := newResources(data)
	ops, err := buildOps(po, res)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		return nil
	}

	// The guard stream saves the graphics state before the page's own
	// content runs; the overlay stream restores it so our operators
	// start from the state the page started with.
	guardRef := data.Alloc()
	gw, err := data.OpenStream(guardRef, nil)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(gw, "q\n"); err != nil {
		return err
	}
	if err := gw.Close(); err != nil {
		return err
	}

	ovlRef := data.Alloc()
	ow, err := data.OpenStream(ovlRef, nil, pdf.FilterFlate{})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(ow, "Q\n"); err != nil {
		return err
	}
	if err := ops.Write(ow); err != nil {
		return err
	}
	if err := ow.Close(); err != nil {
		return err
	}

	contents, err := contentRefs(data, pageDict["Contents"])
	if err != nil {
		return err
	}
	newContents := make(pdf.Array, 0, len(contents)+2)
	newContents = append(newContents, guardRef)
	newContents = append(newContents, contents...)
	newContents = append(newContents, ovlRef)
	pageDict["Contents"] = newContents

	if err := res.mergeInto(pageDict); err != nil {
		return err
	}
	return data.Put(ref, pageDict)
}

// contentRefs normalizes the page's Contents entry into a flat array of
// stream references.
func contentRefs(data *pdf.Data, raw pdf.Object) (pdf.Array, error) {
	switch c := raw.(type) {
	case nil:
		return nil, nil
	case pdf.Array:
		return c, nil
	case pdf.Reference:
		obj, err := data.Get(c, true)
		if err != nil {
			return nil, err
		}
		if arr, ok := obj.(pdf.Array); ok {
			return arr, nil
		}
		return pdf.Array{c}, nil
	default:
		return nil, fmt.Errorf("unexpected Contents type %T", raw)
	}
}
