// internal/export/blank.go
package export

import (
	"bytes"
	"fmt"
	"io"

	"seehuhn.de/go/pdf"
)

// Blank builds a minimal PDF with the given number of empty pages, all
// sized w x h points. New-document workflows start from this, and tests
// use it as a known-geometry fixture.
func Blank(pages int, w, h float64) ([]byte, error) {
	if pages < 1 {
		return nil, fmt.Errorf("blank document needs at least one page, got %d", pages)
	}

	data := pdf.NewData(pdf.V1_7)
	pagesRef := data.Alloc()

	kids := make(pdf.Array, 0, pages)
	for i := 0; i < pages; i++ {
		contentRef := data.Alloc()
		cw, err := data.OpenStream(contentRef, nil)
		if err != nil {
			return nil, err
		}
		// A no-op content stream keeps strict viewers happy.
		if _, err := io.WriteString(cw, "q\nQ\n"); err != nil {
			return nil, err
		}
		if err := cw.Close(); err != nil {
			return nil, err
		}

		pageRef := data.Alloc()
		pageDict := pdf.Dict{
			"Type":      pdf.Name("Page"),
			"Parent":    pagesRef,
			"MediaBox":  pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Real(w), pdf.Real(h)},
			"Contents":  contentRef,
			"Resources": pdf.Dict{},
		}
		if err := data.Put(pageRef, pageDict); err != nil {
			return nil, err
		}
		kids = append(kids, pageRef)
	}

	err := data.Put(pagesRef, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  kids,
		"Count": pdf.Integer(pages),
	})
	if err != nil {
		return nil, err
	}
	data.GetMeta().Catalog.Pages = pagesRef

	var buf bytes.Buffer
	if err := data.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
