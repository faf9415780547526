// internal/tui/drawing.go
package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"inkmark/internal/annot"
	"inkmark/internal/config"
	"inkmark/internal/editor"
	"inkmark/internal/geom"
	"inkmark/internal/overlay"
	"inkmark/internal/render"
	"inkmark/internal/theme"
)

// DrawPages renders the page stack and every overlay object into the
// area above the status bar. The caller clears the screen first.
func DrawPages(t *TUI, ed *editor.Editor, vp *Viewport, activeTheme *theme.Theme) {
	screen := t.GetScreen()
	width, height := t.Size()
	contentH := height - config.StatusBarHeight
	if contentH <= 0 || width <= 0 {
		return
	}

	surfaces := ed.Surfaces()
	c := canvas{
		screen: screen,
		vp:     vp,
		theme:  activeTheme,
		width:  width,
		height: contentH,
	}

	c.drawBackground(surfaces)
	for _, s := range surfaces {
		c.drawOverlay(surfaces, s)
	}
	c.drawTextCursor(surfaces, ed)
}

// canvas bundles the clipped drawing state for one frame.
type canvas struct {
	screen tcell.Screen
	vp     *Viewport
	theme  *theme.Theme
	width  int
	height int
}

func (c *canvas) put(x, y int, r rune, style tcell.Style) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.screen.SetContent(x, y, r, nil, style)
}

// drawBackground paints each cell with the page raster underneath it.
// Cells over a gap keep the default background.
func (c *canvas) drawBackground(surfaces []*render.PageSurface) {
	pageStyle := c.theme.GetStyle("Page")
	failedStyle := c.theme.GetStyle("PageFailed")

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			pageIndex, p, ok := c.vp.Locate(surfaces, x, y)
			if !ok {
				continue
			}
			s := surfaces[pageIndex-1]
			style := pageStyle
			switch {
			case s.Failed:
				style = failedStyle
			case s.Img != nil:
				r, g, b, _ := s.Img.At(int(p.X), int(p.Y)).RGBA()
				bg := tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
				style = pageStyle.Background(bg)
			}
			c.put(x, y, ' ', style)
		}
	}

	for _, s := range surfaces {
		if !s.Failed {
			continue
		}
		cx, cy := c.vp.CellOf(surfaces, s.Index, geom.Point{})
		c.writeString(cx+1, cy+1, "page failed to render", failedStyle)
	}
}

func (c *canvas) writeString(x, y int, text string, style tcell.Style) {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		if len(runes) > 0 {
			c.put(x, y, runes[0], style)
		}
		x += g.Width()
	}
}

// drawOverlay draws one page's annotation objects in paint order, then
// the selection handles on top.
func (c *canvas) drawOverlay(surfaces []*render.PageSurface, s *render.PageSurface) {
	for _, obj := range s.Overlay.Objects() {
		c.drawObject(surfaces, s, obj)
	}

	sel := s.Overlay.Selected()
	if sel == nil {
		return
	}
	handleStyle := c.theme.GetStyle("Handle")
	for _, hp := range overlay.HandlePositions(sel.Bounds()) {
		cx, cy := c.vp.CellOf(surfaces, s.Index, hp)
		c.put(cx, cy, '■', handleStyle)
	}
}

func (c *canvas) drawObject(surfaces []*render.PageSurface, s *render.PageSurface, obj annot.Object) {
	ink := c.theme.PageStyle(obj.Base().Stroke)
	b := obj.Bounds()
	x0, y0 := c.vp.CellOf(surfaces, s.Index, b.Origin())
	x1, y1 := c.vp.CellOf(surfaces, s.Index, b.Corner())

	switch x := obj.(type) {
	case *annot.Rectangle:
		c.drawBox(x0, y0, x1, y1, ink, obj.Base().Fill, false)
	case *annot.Ellipse:
		c.drawBox(x0, y0, x1, y1, ink, obj.Base().Fill, true)
	case *annot.Line:
		a := cell{}
		a.x, a.y = c.vp.CellOf(surfaces, s.Index, x.P1)
		bEnd := cell{}
		bEnd.x, bEnd.y = c.vp.CellOf(surfaces, s.Index, x.P2)
		c.drawSegment(a, bEnd, ink, lineGlyph(a, bEnd))
	case *annot.ArrowHead:
		cx, cy := c.vp.CellOf(surfaces, s.Index, x.Tip)
		c.put(cx, cy, '◆', ink)
	case *annot.Path:
		if x.B.Opacity < 1 {
			// Highlight strokes paint the background instead of glyphs.
			hl := tcell.StyleDefault.Background(theme.TerminalColor(x.B.Stroke)).
				Foreground(tcell.ColorBlack)
			for i := 1; i < len(x.Points); i++ {
				a, bEnd := cell{}, cell{}
				a.x, a.y = c.vp.CellOf(surfaces, s.Index, x.Points[i-1])
				bEnd.x, bEnd.y = c.vp.CellOf(surfaces, s.Index, x.Points[i])
				c.drawSegment(a, bEnd, hl, ' ')
			}
			return
		}
		for i := 1; i < len(x.Points); i++ {
			a, bEnd := cell{}, cell{}
			a.x, a.y = c.vp.CellOf(surfaces, s.Index, x.Points[i-1])
			bEnd.x, bEnd.y = c.vp.CellOf(surfaces, s.Index, x.Points[i])
			c.drawSegment(a, bEnd, ink, '·')
		}
	case *annot.Text:
		style := ink.Bold(x.Bold).Italic(x.Italic).Underline(x.Underline)
		c.drawWrappedText(x.Content, x0, y0, x1, style)
	case *annot.Image:
		for y := y0; y <= y1; y++ {
			for cxi := x0; cxi <= x1; cxi++ {
				c.put(cxi, y, '▒', ink)
			}
		}
	}
}

// drawBox outlines a rectangle or ellipse bounding box; rounded corners
// distinguish the ellipse.
func (c *canvas) drawBox(x0, y0, x1, y1 int, ink tcell.Style, fill *annot.Color, rounded bool) {
	if fill != nil {
		fillStyle := tcell.StyleDefault.Background(theme.TerminalColor(*fill))
		for y := y0 + 1; y < y1; y++ {
			for x := x0 + 1; x < x1; x++ {
				c.put(x, y, ' ', fillStyle)
			}
		}
	}

	corners := [4]rune{'┌', '┐', '└', '┘'}
	if rounded {
		corners = [4]rune{'╭', '╮', '╰', '╯'}
	}
	for x := x0 + 1; x < x1; x++ {
		c.put(x, y0, '─', ink)
		c.put(x, y1, '─', ink)
	}
	for y := y0 + 1; y < y1; y++ {
		c.put(x0, y, '│', ink)
		c.put(x1, y, '│', ink)
	}
	c.put(x0, y0, corners[0], ink)
	c.put(x1, y0, corners[1], ink)
	c.put(x0, y1, corners[2], ink)
	c.put(x1, y1, corners[3], ink)
}

type cell struct{ x, y int }

func lineGlyph(a, b cell) rune {
	dx := b.x - a.x
	dy := b.y - a.y
	switch {
	case abs(dx) >= 3*abs(dy):
		return '─'
	case abs(dy) >= 3*abs(dx):
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// drawSegment plots the cells between a and b.
func (c *canvas) drawSegment(a, b cell, style tcell.Style, glyph rune) {
	steps := max(abs(b.x-a.x), abs(b.y-a.y))
	if steps == 0 {
		c.put(a.x, a.y, glyph, style)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := a.x + int(math.Round(t*float64(b.x-a.x)))
		y := a.y + int(math.Round(t*float64(b.y-a.y)))
		c.put(x, y, glyph, style)
	}
}

// drawWrappedText renders text cell by cell, wrapping at the bounding
// box's right edge.
func (c *canvas) drawWrappedText(text string, x0, y0, x1 int, style tcell.Style) {
	if x1 <= x0 {
		x1 = x0 + 1
	}
	x, y := x0, y0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		if len(runes) == 1 && runes[0] == '\n' {
			x, y = x0, y+1
			continue
		}
		if x > x1 {
			x, y = x0, y+1
		}
		if len(runes) > 0 {
			c.put(x, y, runes[0], style)
		}
		x += g.Width()
	}
}

// drawTextCursor places the terminal cursor after the edited text, so
// typing has a visible insertion point.
func (c *canvas) drawTextCursor(surfaces []*render.PageSurface, ed *editor.Editor) {
	txt := ed.EditedText()
	if txt == nil {
		c.screen.HideCursor()
		return
	}
	var pageSurface *render.PageSurface
	for _, s := range surfaces {
		if s.Overlay.ByID(txt.B.ID) != nil {
			pageSurface = s
			break
		}
	}
	if pageSurface == nil {
		c.screen.HideCursor()
		return
	}

	b := txt.Bounds()
	x0, y0 := c.vp.CellOf(surfaces, pageSurface.Index, b.Origin())
	x1, _ := c.vp.CellOf(surfaces, pageSurface.Index, b.Corner())
	if x1 <= x0 {
		x1 = x0 + 1
	}

	x, y := x0, y0
	g := uniseg.NewGraphemes(txt.Content)
	for g.Next() {
		runes := g.Runes()
		if len(runes) == 1 && runes[0] == '\n' {
			x, y = x0, y+1
			continue
		}
		if x > x1 {
			x, y = x0, y+1
		}
		x += g.Width()
	}
	c.screen.ShowCursor(x, y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
