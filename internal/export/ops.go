// internal/export/ops.go
package export

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics/content"

	"inkmark/internal/annot"
	"inkmark/internal/geom"
)

// Bezier circle approximation constant.
const kappa = 0.551784

// buildOps translates the overlay objects into a content stream. Each
// object is bracketed in its own q/Q pair so state never leaks between
// objects.
func buildOps(po PageOverlay, res *resources) (content.Stream, error) {
	var ops content.Stream
	for _, obj := range po.Objects {
		sp := po.Space
		if s := obj.Base().Scale; s > 0 {
			sp.Scale = s
		}
		objOps, err := objectOps(obj, sp, res)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", obj.Kind(), obj.Base().ID, err)
		}
		if len(objOps) == 0 {
			continue
		}
		ops = append(ops, op(content.OpPushGraphicsState))
		ops = append(ops, objOps...)
		ops = append(ops, op(content.OpPopGraphicsState))
	}
	return ops, nil
}

func objectOps(obj annot.Object, sp geom.PageSpace, res *resources) (content.Stream, error) {
	switch x := obj.(type) {
	case *annot.Rectangle:
		return shapeOps(x.B, sp, res, rectPath(sp.RectToPage(x.B.Rect)))
	case *annot.Ellipse:
		return shapeOps(x.B, sp, res, ellipsePath(sp.RectToPage(x.B.Rect)))
	case *annot.Line:
		return shapeOps(x.B, sp, res, content.Stream{
			moveTo(sp.ToPage(x.P1)),
			lineTo(sp.ToPage(x.P2)),
		})
	case *annot.ArrowHead:
		return headOps(x, sp, res)
	case *annot.Path:
		return pathOps(x, sp, res)
	case *annot.Text:
		return textOps(x, sp, res)
	case *annot.Image:
		return imageOps(x, sp, res)
	default:
		return nil, fmt.Errorf("unhandled annotation kind %s", obj.Kind())
	}
}

// shapeOps wraps a path in stroke (and optionally fill) state. The path
// ops must leave a current path ready for a painting operator.
func shapeOps(b annot.Base, sp geom.PageSpace, res *resources, path content.Stream) (content.Stream, error) {
	ops, err := strokeState(b, sp, res)
	if err != nil {
		return nil, err
	}
	paint := content.OpStroke
	if b.Fill != nil {
		fr, fg, fb := b.Fill.Floats()
		ops = append(ops, op(content.OpSetFillRGB, pdf.Number(fr), pdf.Number(fg), pdf.Number(fb)))
		paint = content.OpFillAndStroke
	}
	ops = append(ops, path...)
	ops = append(ops, op(paint))
	return ops, nil
}

// strokeState emits line width, stroke color and, when translucent, the
// alpha graphics state.
func strokeState(b annot.Base, sp geom.PageSpace, res *resources) (content.Stream, error) {
	var ops content.Stream
	if b.Opacity < 1 {
		gs, err := res.gstate(b.Opacity)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op(content.OpSetExtGState, gs))
	}
	ops = append(ops, op(content.OpSetLineWidth, pdf.Number(sp.LengthToPage(b.StrokeWidth))))
	sr, sg, sb := b.Stroke.Floats()
	ops = append(ops, op(content.OpSetStrokeRGB, pdf.Number(sr), pdf.Number(sg), pdf.Number(sb)))
	return ops, nil
}

func rectPath(r geom.Rect) content.Stream {
	return content.Stream{
		op(content.OpRectangle, pdf.Number(r.X), pdf.Number(r.Y), pdf.Number(r.W), pdf.Number(r.H)),
	}
}

// ellipsePath approximates the ellipse inscribed in r with four cubic
// Bezier segments.
func ellipsePath(r geom.Rect) content.Stream {
	cx := r.X + r.W/2
	cy := r.Y + r.H/2
	rx := r.W / 2
	ry := r.H / 2
	ox := rx * kappa
	oy := ry * kappa

	return content.Stream{
		moveTo(geom.Point{X: cx + rx, Y: cy}),
		curveTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry),
		curveTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy),
		curveTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry),
		curveTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy),
		op(content.OpClosePath),
	}
}

// headOps fills the arrow head triangle.
func headOps(h *annot.ArrowHead, sp geom.PageSpace, res *resources) (content.Stream, error) {
	var ops content.Stream
	if h.B.Opacity < 1 {
		gs, err := res.gstate(h.B.Opacity)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op(content.OpSetExtGState, gs))
	}
	fill := h.B.Stroke
	if h.B.Fill != nil {
		fill = *h.B.Fill
	}
	fr, fg, fb := fill.Floats()
	ops = append(ops,
		op(content.OpSetFillRGB, pdf.Number(fr), pdf.Number(fg), pdf.Number(fb)),
		moveTo(sp.ToPage(h.Tip)),
		lineTo(sp.ToPage(h.Left)),
		lineTo(sp.ToPage(h.Right)),
		op(content.OpClosePath),
		op(content.OpFill),
	)
	return ops, nil
}

// pathOps strokes a freehand polyline with round caps and joins.
func pathOps(p *annot.Path, sp geom.PageSpace, res *resources) (content.Stream, error) {
	if len(p.Points) < 2 {
		return nil, nil
	}
	ops, err := strokeState(p.B, sp, res)
	if err != nil {
		return nil, err
	}
	ops = append(ops,
		op(content.OpSetLineCap, pdf.Integer(1)),
		op(content.OpSetLineJoin, pdf.Integer(1)),
	)
	ops = append(ops, moveTo(sp.ToPage(p.Points[0])))
	for _, pt := range p.Points[1:] {
		ops = append(ops, lineTo(sp.ToPage(pt)))
	}
	ops = append(ops, op(content.OpStroke))
	return ops, nil
}

// textOps renders the text block line by line in a standard Type1 font.
// Underlines are drawn as thin rules under an approximated line width,
// since the standard fonts ship no metrics we could measure with.
func textOps(t *annot.Text, sp geom.PageSpace, res *resources) (content.Stream, error) {
	if strings.TrimSpace(t.Content) == "" {
		return nil, nil
	}
	fontName, err := res.font(t.FontFamily, t.Bold, t.Italic)
	if err != nil {
		return nil, err
	}

	size := sp.LengthToPage(t.FontSize)
	leading := size * 1.2
	origin := sp.ToPage(geom.Point{X: t.B.Rect.X, Y: t.B.Rect.Y})
	baseline := origin.Y - size*0.8

	fr, fg, fb := t.B.Stroke.Floats()
	lines := strings.Split(t.Content, "\n")

	var ops content.Stream
	if t.B.Opacity < 1 {
		gs, err := res.gstate(t.B.Opacity)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op(content.OpSetExtGState, gs))
	}
	ops = append(ops,
		op(content.OpSetFillRGB, pdf.Number(fr), pdf.Number(fg), pdf.Number(fb)),
		op(content.OpTextBegin),
		op(content.OpTextSetFont, fontName, pdf.Number(size)),
		op(content.OpTextSetLeading, pdf.Number(leading)),
		op(content.OpTextMoveOffset, pdf.Number(origin.X), pdf.Number(baseline)),
	)
	for i, line := range lines {
		if i > 0 {
			ops = append(ops, op(content.OpTextNextLine))
		}
		ops = append(ops, op(content.OpTextShow, winAnsi(line)))
	}
	ops = append(ops, op(content.OpTextEnd))

	if t.Underline {
		ops = append(ops,
			op(content.OpSetLineWidth, pdf.Number(size/14)),
			op(content.OpSetStrokeRGB, pdf.Number(fr), pdf.Number(fg), pdf.Number(fb)),
		)
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			// Helvetica averages roughly half an em per glyph.
			width := 0.5 * size * float64(uniseg.GraphemeClusterCount(line))
			y := baseline - float64(i)*leading - size*0.12
			ops = append(ops,
				moveTo(geom.Point{X: origin.X, Y: y}),
				lineTo(geom.Point{X: origin.X + width, Y: y}),
			)
		}
		ops = append(ops, op(content.OpStroke))
	}
	return ops, nil
}

// imageOps places the image XObject into the annotation's rectangle.
func imageOps(img *annot.Image, sp geom.PageSpace, res *resources) (content.Stream, error) {
	name, err := res.image(img)
	if err != nil {
		return nil, err
	}
	r := sp.RectToPage(img.B.Rect)
	if r.W <= 0 || r.H <= 0 {
		return nil, nil
	}
	var ops content.Stream
	if img.B.Opacity < 1 {
		gs, err := res.gstate(img.B.Opacity)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op(content.OpSetExtGState, gs))
	}
	ops = append(ops,
		op(content.OpTransform,
			pdf.Number(r.W), pdf.Number(0), pdf.Number(0),
			pdf.Number(r.H), pdf.Number(r.X), pdf.Number(r.Y)),
		op(content.OpXObject, name),
	)
	return ops, nil
}

func op(name content.OpName, args ...pdf.Object) content.Operator {
	return content.Operator{Name: name, Args: args}
}

func moveTo(p geom.Point) content.Operator {
	return op(content.OpMoveTo, pdf.Number(p.X), pdf.Number(p.Y))
}

func lineTo(p geom.Point) content.Operator {
	return op(content.OpLineTo, pdf.Number(p.X), pdf.Number(p.Y))
}

func curveTo(x1, y1, x2, y2, x3, y3 float64) content.Operator {
	return op(content.OpCurveTo,
		pdf.Number(x1), pdf.Number(y1),
		pdf.Number(x2), pdf.Number(y2),
		pdf.Number(x3), pdf.Number(y3))
}

// winAnsiExtra maps the few common runes WinAnsiEncoding places in the
// 0x80-0x9F range.
var winAnsiExtra = map[rune]byte{
	'€': 0x80, // euro sign
	'‚': 0x82,
	'ƒ': 0x83,
	'„': 0x84,
	'…': 0x85, // ellipsis
	'†': 0x86,
	'‡': 0x87,
	'ˆ': 0x88,
	'‰': 0x89,
	'Š': 0x8a,
	'‹': 0x8b,
	'Œ': 0x8c,
	'Ž': 0x8e,
	'‘': 0x91, // left single quote
	'’': 0x92, // right single quote
	'“': 0x93, // left double quote
	'”': 0x94, // right double quote
	'•': 0x95, // bullet
	'–': 0x96, // en dash
	'—': 0x97, // em dash
	'˜': 0x98,
	'™': 0x99, // trademark
	'š': 0x9a,
	'›': 0x9b,
	'œ': 0x9c,
	'ž': 0x9e,
	'Ÿ': 0x9f,
}

// winAnsi encodes s for a WinAnsiEncoding font, substituting '?' for
// anything outside the encoding.
func winAnsi(s string) pdf.String {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r < 0x80:
			out = append(out, byte(r))
		case r >= 0xa0 && r <= 0xff:
			out = append(out, byte(r))
		default:
			if b, ok := winAnsiExtra[r]; ok {
				out = append(out, b)
			} else {
				out = append(out, '?')
			}
		}
	}
	return pdf.String(out)
}
