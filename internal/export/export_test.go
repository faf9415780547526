package export

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics/content"
	"seehuhn.de/go/pdf/pagetree"

	"inkmark/internal/annot"
	"inkmark/internal/geom"
)

func letterSpace(scale float64) geom.PageSpace {
	return geom.PageSpace{PageW: 612, PageH: 792, Scale: scale}
}

func readBack(t *testing.T, doc []byte) (*pdf.Data, []pdf.Reference) {
	t.Helper()
	data, err := pdf.Read(bytes.NewReader(doc), nil)
	if err != nil {
		t.Fatalf("reading document back: %v", err)
	}
	refs, err := pagetree.FindPages(data)
	if err != nil {
		t.Fatalf("finding pages: %v", err)
	}
	return data, refs
}

func pageOps(t *testing.T, data *pdf.Data, ref pdf.Reference) content.Stream {
	t.Helper()
	pageDict, err := pdf.GetDict(data, ref)
	if err != nil {
		t.Fatalf("page dict: %v", err)
	}
	r, err := pagetree.ContentStream(data, pageDict)
	if err != nil {
		t.Fatalf("content stream: %v", err)
	}
	ops, err := content.ReadStream(r)
	if err != nil && err != io.EOF {
		t.Fatalf("parsing content: %v", err)
	}
	return ops
}

func TestBlankGeometry(t *testing.T) {
	doc, err := Blank(3, 612, 792)
	if err != nil {
		t.Fatalf("Blank: %v", err)
	}
	_, refs := readBack(t, doc)
	if len(refs) != 3 {
		t.Fatalf("page count = %d, want 3", len(refs))
	}
}

func TestAnnotateRectCoordinateFlip(t *testing.T) {
	doc, err := Blank(1, 612, 792)
	if err != nil {
		t.Fatalf("Blank: %v", err)
	}

	// Overlay pixels at scale 1.5: the rect (75,150,150,75) must land
	// at page points (50, 642) with size 100x50, measured from the
	// bottom-left corner.
	rect := &annot.Rectangle{
		B: annot.NewBase(geom.Rect{X: 75, Y: 150, W: 150, H: 75}, annot.Red, 3, 1.5),
	}
	out, err := Annotate(doc, []PageOverlay{{
		PageIndex: 1,
		Space:     letterSpace(1.5),
		Objects:   []annot.Object{rect},
	}})
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	data, refs := readBack(t, out)
	ops := pageOps(t, data, refs[0])

	var re *content.Operator
	for i := range ops {
		if ops[i].Name == content.OpRectangle {
			re = &ops[i]
			break
		}
	}
	if re == nil {
		t.Fatal("no rectangle operator in page content")
	}
	got := make([]float64, len(re.Args))
	for i, a := range re.Args {
		got[i] = argFloat(t, a)
	}
	want := []float64{50, 642, 100, 50}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rectangle args (-want +got):\n%s", diff)
	}

	// Stroke width converts through the same scale.
	for _, op := range ops {
		if op.Name == content.OpSetLineWidth {
			if w := argFloat(t, op.Args[0]); w != 2 {
				t.Errorf("line width = %v, want 2", w)
			}
		}
	}
}

func TestAnnotateWrapsOriginalContent(t *testing.T) {
	doc, err := Blank(1, 612, 792)
	if err != nil {
		t.Fatalf("Blank: %v", err)
	}
	line := &annot.Line{
		B:  annot.NewBase(geom.Rect{X: 10, Y: 10, W: 90, H: 0}, annot.Black, 2, 1),
		P1: geom.Point{X: 10, Y: 10},
		P2: geom.Point{X: 100, Y: 10},
	}
	out, err := Annotate(doc, []PageOverlay{{
		PageIndex: 1,
		Space:     letterSpace(1),
		Objects:   []annot.Object{line},
	}})
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	data, refs := readBack(t, out)

	// Contents becomes [guard, original, overlay].
	pageDict, err := pdf.GetDict(data, refs[0])
	if err != nil {
		t.Fatalf("page dict: %v", err)
	}
	arr, ok := pageDict["Contents"].(pdf.Array)
	if !ok {
		t.Fatalf("Contents is %T, want array", pageDict["Contents"])
	}
	if len(arr) != 3 {
		t.Fatalf("Contents has %d streams, want 3", len(arr))
	}

	// The combined stream opens with the guard's q; the overlay part
	// opens with the balancing Q before any drawing.
	ops := pageOps(t, data, refs[0])
	if len(ops) == 0 || ops[0].Name != content.OpPushGraphicsState {
		t.Fatal("page content does not start with the q guard")
	}
	sawStroke := false
	for _, op := range ops {
		if op.Name == content.OpStroke {
			sawStroke = true
		}
	}
	if !sawStroke {
		t.Error("no stroke operator for the line annotation")
	}
}

func TestAnnotateOnlyTouchesListedPages(t *testing.T) {
	doc, err := Blank(3, 612, 792)
	if err != nil {
		t.Fatalf("Blank: %v", err)
	}
	rect := &annot.Rectangle{
		B: annot.NewBase(geom.Rect{X: 10, Y: 10, W: 50, H: 50}, annot.Red, 2, 1),
	}
	out, err := Annotate(doc, []PageOverlay{
		{PageIndex: 1, Space: letterSpace(1), Objects: nil},
		{PageIndex: 2, Space: letterSpace(1), Objects: []annot.Object{rect}},
	})
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	data, refs := readBack(t, out)
	for _, pageNo := range []int{1, 3} {
		pageDict, err := pdf.GetDict(data, refs[pageNo-1])
		if err != nil {
			t.Fatalf("page %d dict: %v", pageNo, err)
		}
		if _, ok := pageDict["Contents"].(pdf.Array); ok {
			t.Errorf("page %d content was rewritten without annotations", pageNo)
		}
	}
	page2, err := pdf.GetDict(data, refs[1])
	if err != nil {
		t.Fatalf("page 2 dict: %v", err)
	}
	if _, ok := page2["Contents"].(pdf.Array); !ok {
		t.Error("page 2 content was not wrapped")
	}
}

func TestAnnotateTextUsesStandardFont(t *testing.T) {
	doc, err := Blank(1, 612, 792)
	if err != nil {
		t.Fatalf("Blank: %v", err)
	}
	txt := &annot.Text{
		B:          annot.NewBase(geom.Rect{X: 30, Y: 30, W: 200, H: 24}, annot.Black, 0, 1),
		Content:    "hello — world",
		FontFamily: "Helvetica",
		FontSize:   16,
		Bold:       true,
	}
	out, err := Annotate(doc, []PageOverlay{{
		PageIndex: 1,
		Space:     letterSpace(1),
		Objects:   []annot.Object{txt},
	}})
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	data, refs := readBack(t, out)
	pageDict, err := pdf.GetDict(data, refs[0])
	if err != nil {
		t.Fatalf("page dict: %v", err)
	}
	resDict, err := pdf.GetDict(data, pageDict["Resources"])
	if err != nil || resDict == nil {
		t.Fatalf("resources: %v", err)
	}
	fonts, err := pdf.GetDict(data, resDict["Font"])
	if err != nil || len(fonts) != 1 {
		t.Fatalf("font resources = %v (err %v), want one entry", fonts, err)
	}
	for _, ref := range fonts {
		fontDict, err := pdf.GetDict(data, ref)
		if err != nil {
			t.Fatalf("font dict: %v", err)
		}
		if got := fontDict["BaseFont"]; got != pdf.Name("Helvetica-Bold") {
			t.Errorf("BaseFont = %v, want Helvetica-Bold", got)
		}
		if got := fontDict["Encoding"]; got != pdf.Name("WinAnsiEncoding") {
			t.Errorf("Encoding = %v, want WinAnsiEncoding", got)
		}
	}

	// The em dash must survive as the WinAnsi byte, not a '?'.
	ops := pageOps(t, data, refs[0])
	found := false
	for _, op := range ops {
		if op.Name == content.OpTextShow && len(op.Args) == 1 {
			if s, ok := op.Args[0].(pdf.String); ok && bytes.Contains([]byte(s), []byte{0x97}) {
				found = true
			}
		}
	}
	if !found {
		t.Error("em dash was not encoded as WinAnsi 0x97")
	}
}

func TestAnnotatePageOutOfRange(t *testing.T) {
	doc, err := Blank(1, 612, 792)
	if err != nil {
		t.Fatalf("Blank: %v", err)
	}
	rect := &annot.Rectangle{
		B: annot.NewBase(geom.Rect{X: 0, Y: 0, W: 10, H: 10}, annot.Red, 1, 1),
	}
	_, err = Annotate(doc, []PageOverlay{{
		PageIndex: 5,
		Space:     letterSpace(1),
		Objects:   []annot.Object{rect},
	}})
	if err == nil {
		t.Fatal("annotating page 5 of a 1-page document succeeded")
	}
}

func TestAnnotateTwiceLayers(t *testing.T) {
	doc, err := Blank(1, 612, 792)
	if err != nil {
		t.Fatalf("Blank: %v", err)
	}
	rect := &annot.Rectangle{
		B: annot.NewBase(geom.Rect{X: 10, Y: 10, W: 40, H: 40}, annot.Red, 2, 1),
	}
	first, err := Annotate(doc, []PageOverlay{{
		PageIndex: 1, Space: letterSpace(1), Objects: []annot.Object{rect},
	}})
	if err != nil {
		t.Fatalf("first Annotate: %v", err)
	}

	// A second export over the first one's output must parse and keep
	// both rectangles, since save replaces the working bytes.
	second, err := Annotate(first, []PageOverlay{{
		PageIndex: 1, Space: letterSpace(1), Objects: []annot.Object{rect.Clone()},
	}})
	if err != nil {
		t.Fatalf("second Annotate: %v", err)
	}
	data, refs := readBack(t, second)
	ops := pageOps(t, data, refs[0])
	count := 0
	for _, op := range ops {
		if op.Name == content.OpRectangle {
			count++
		}
	}
	if count != 2 {
		t.Errorf("rectangle operators = %d, want 2", count)
	}
}

func argFloat(t *testing.T, obj pdf.Object) float64 {
	t.Helper()
	switch v := obj.(type) {
	case pdf.Number:
		return float64(v)
	case pdf.Real:
		return float64(v)
	case pdf.Integer:
		return float64(v)
	default:
		t.Fatalf("unexpected numeric arg type %T", obj)
		return 0
	}
}
