// internal/export/resources.go
package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
	"seehuhn.de/go/pdf"

	"inkmark/internal/annot"
)

// resources accumulates the fonts, graphics states and image XObjects
// an overlay stream refers to, and merges them into the page's resource
// dictionary under collision-free names.
type resources struct {
	data *pdf.Data

	fonts   map[string]pdf.Name // key: BaseFont name
	gstates map[int]pdf.Name    // key: opacity in 1/1000
	refs    map[pdf.Name]pdf.Reference

	images map[pdf.Name]pdf.Reference

	nFont, nGS, nImg int
}

func newResources(data *pdf.Data) *resources {
	return &resources{
		data:    data,
		fonts:   make(map[string]pdf.Name),
		gstates: make(map[int]pdf.Name),
		refs:    make(map[pdf.Name]pdf.Reference),
		images:  make(map[pdf.Name]pdf.Reference),
	}
}

// font returns the resource name of a standard Type1 font for the given
// family and style, writing the font dictionary on first use.
func (r *resources) font(family string, bold, italic bool) (pdf.Name, error) {
	base := baseFont(family, bold, italic)
	if name, ok := r.fonts[base]; ok {
		return name, nil
	}

	r.nFont++
	name := pdf.Name(fmt.Sprintf("OvF%d", r.nFont))
	ref := r.data.Alloc()
	dict := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name(base),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}
	if err := r.data.Put(ref, dict); err != nil {
		return "", err
	}
	r.fonts[base] = name
	r.refs[name] = ref
	return name, nil
}

// gstate returns the resource name of an ExtGState setting both stroke
// and fill alpha to opacity.
func (r *resources) gstate(opacity float64) (pdf.Name, error) {
	key := int(opacity * 1000)
	if name, ok := r.gstates[key]; ok {
		return name, nil
	}

	r.nGS++
	name := pdf.Name(fmt.Sprintf("OvG%d", r.nGS))
	ref := r.data.Alloc()
	dict := pdf.Dict{
		"Type": pdf.Name("ExtGState"),
		"CA":   pdf.Real(opacity),
		"ca":   pdf.Real(opacity),
	}
	if err := r.data.Put(ref, dict); err != nil {
		return "", err
	}
	r.gstates[key] = name
	r.refs[name] = ref
	return name, nil
}

// image decodes the annotation's image bytes and writes them as a
// flate-compressed DeviceRGB XObject.
func (r *resources) image(img *annot.Image) (pdf.Name, error) {
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("decode image annotation: %w", err)
	}

	bounds := src.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), src, bounds.Min, xdraw.Src)

	rgb := make([]byte, 0, bounds.Dx()*bounds.Dy()*3)
	for y := 0; y < bounds.Dy(); y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+bounds.Dx()*4]
		for x := 0; x < bounds.Dx(); x++ {
			rgb = append(rgb, row[x*4], row[x*4+1], row[x*4+2])
		}
	}

	r.nImg++
	name := pdf.Name(fmt.Sprintf("OvX%d", r.nImg))
	ref := r.data.Alloc()
	dict := pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(bounds.Dx()),
		"Height":           pdf.Integer(bounds.Dy()),
		"ColorSpace":       pdf.Name("DeviceRGB"),
		"BitsPerComponent": pdf.Integer(8),
	}
	w, err := r.data.OpenStream(ref, dict, pdf.FilterFlate{})
	if err != nil {
		return "", err
	}
	if _, err := w.Write(rgb); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	r.images[name] = ref
	r.refs[name] = ref
	return name, nil
}

// mergeInto adds the accumulated resources to the page's Resources
// dictionary, resolving an indirect dictionary first if needed.
func (r *resources) mergeInto(pageDict pdf.Dict) error {
	resDict, err := pdf.GetDict(r.data, pageDict["Resources"])
	if err != nil {
		return err
	}
	if resDict == nil {
		resDict = pdf.Dict{}
	}

	merge := func(category pdf.Name, names map[pdf.Name]bool) error {
		if len(names) == 0 {
			return nil
		}
		sub, err := pdf.GetDict(r.data, resDict[category])
		if err != nil {
			return err
		}
		if sub == nil {
			sub = pdf.Dict{}
		}
		for name := range names {
			sub[name] = r.refs[name]
		}
		resDict[category] = sub
		return nil
	}

	fontNames := make(map[pdf.Name]bool)
	for _, name := range r.fonts {
		fontNames[name] = true
	}
	gsNames := make(map[pdf.Name]bool)
	for _, name := range r.gstates {
		gsNames[name] = true
	}
	imgNames := make(map[pdf.Name]bool)
	for name := range r.images {
		imgNames[name] = true
	}

	if err := merge("Font", fontNames); err != nil {
		return err
	}
	if err := merge("ExtGState", gsNames); err != nil {
		return err
	}
	if err := merge("XObject", imgNames); err != nil {
		return err
	}
	pageDict["Resources"] = resDict
	return nil
}

// baseFont maps a font family plus style to one of the fourteen
// standard PDF fonts.
func baseFont(family string, bold, italic bool) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		switch {
		case bold && italic:
			return "Courier-BoldOblique"
		case bold:
			return "Courier-Bold"
		case italic:
			return "Courier-Oblique"
		}
		return "Courier"
	case strings.Contains(f, "times"), strings.Contains(f, "serif") && !strings.Contains(f, "sans"):
		switch {
		case bold && italic:
			return "Times-BoldItalic"
		case bold:
			return "Times-Bold"
		case italic:
			return "Times-Italic"
		}
		return "Times-Roman"
	default:
		switch {
		case bold && italic:
			return "Helvetica-BoldOblique"
		case bold:
			return "Helvetica-Bold"
		case italic:
			return "Helvetica-Oblique"
		}
		return "Helvetica"
	}
}
