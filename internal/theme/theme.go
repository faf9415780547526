// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"inkmark/internal/annot"
	"inkmark/internal/logger"
)

// Theme maps named UI elements to terminal styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle looks up a style by name with base-name fallback, so
// "StatusBar.Dirty" falls back to "StatusBar" and finally "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	baseName := name
	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName = name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.Debugf("Theme '%s': style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': style '%s' and 'Default' not found, using tcell default", t.Name, name)
	return tcell.StyleDefault
}

// TerminalColor converts an annotation color to a tcell color so the
// canvas can preview ink in roughly the hue that ends up in the PDF.
func TerminalColor(c annot.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// PageStyle returns the page background style with an annotation color
// as foreground. Glyphs drawn with it read as ink on paper.
func (t *Theme) PageStyle(c annot.Color) tcell.Style {
	return t.GetStyle("Page").Foreground(TerminalColor(c))
}

// --- Paper Light theme ---
//
// Annotating happens on top of a rendered page, so unlike most terminal
// apps the central area is light by default.

var PaperLight Theme

// --- Slate Dark theme ---

var SlateDark Theme

func init() {
	paper := tcell.NewHexColor(0xfcfcf7)
	paperInk := tcell.NewHexColor(0x1f2430)
	paperEdge := tcell.NewHexColor(0xb8b8ad)
	barBg := tcell.NewHexColor(0x2a2f38)
	barFg := tcell.NewHexColor(0xc5cdd9)
	accent := tcell.NewHexColor(0x61afef)
	warn := tcell.NewHexColor(0xe5c07b)
	fail := tcell.NewHexColor(0xe06c75)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(barFg)
	page := tcell.StyleDefault.Background(paper).Foreground(paperInk)

	PaperLight = Theme{
		Name:   "Paper Light",
		IsDark: false,
		Styles: map[string]tcell.Style{
			"Default":          base,
			"Page":             page,
			"PageBorder":       base.Foreground(paperEdge),
			"PageFailed":       tcell.StyleDefault.Background(paperEdge).Foreground(fail).Bold(true),
			"Selection":        page.Foreground(accent).Bold(true),
			"Handle":           page.Foreground(accent).Reverse(true),
			"TextEdit":         page.Underline(true),
			"StatusBar":        tcell.StyleDefault.Background(barBg).Foreground(barFg),
			"StatusBarDirty":   tcell.StyleDefault.Background(barBg).Foreground(warn),
			"StatusBarMessage": tcell.StyleDefault.Background(barBg).Foreground(barFg).Bold(true),
			"StatusBarCommand": tcell.StyleDefault.Background(barBg).Foreground(accent).Bold(true),
		},
	}

	slate := tcell.NewHexColor(0x3a3f4b)
	slateInk := tcell.NewHexColor(0xd8dee9)
	darkPage := tcell.StyleDefault.Background(slate).Foreground(slateInk)

	SlateDark = Theme{
		Name:   "Slate Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			"Default":          base,
			"Page":             darkPage,
			"PageBorder":       base.Foreground(tcell.NewHexColor(0x5c6370)),
			"PageFailed":       darkPage.Foreground(fail).Bold(true),
			"Selection":        darkPage.Foreground(accent).Bold(true),
			"Handle":           darkPage.Foreground(accent).Reverse(true),
			"TextEdit":         darkPage.Underline(true),
			"StatusBar":        tcell.StyleDefault.Background(barBg).Foreground(barFg),
			"StatusBarDirty":   tcell.StyleDefault.Background(barBg).Foreground(warn),
			"StatusBarMessage": tcell.StyleDefault.Background(barBg).Foreground(barFg).Bold(true),
			"StatusBarCommand": tcell.StyleDefault.Background(barBg).Foreground(accent).Bold(true),
		},
	}
}
