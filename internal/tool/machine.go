// internal/tool/machine.go
package tool

import (
	"math"

	"inkmark/internal/annot"
	"inkmark/internal/geom"
	"inkmark/internal/logger"
	"inkmark/internal/overlay"
)

// Result reports what a pointer event did, so the caller can record
// history and dispatch events. A zero Result means nothing happened.
type Result struct {
	// Committed is true when the gesture produced a mutation that must
	// be recorded in history (object add/change/delete, path completion).
	Committed bool

	// SelectionChanged is true when the active selection moved.
	SelectionChanged bool

	// EditText, when non-nil, is a text object that should enter inline
	// edit mode.
	EditText *annot.Text

	// Pan, when non-zero, is the viewport scroll requested by the pan
	// tool's drag.
	Pan geom.Point
}

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureShape
	gestureFreehand
	gestureMove
	gestureResize
	gesturePan
)

// Machine routes pointer events into overlay mutations according to the
// active tool. A single Machine is shared by all page surfaces; the
// active-tool swap is one atomic field write on the UI goroutine.
type Machine struct {
	settings *Settings
	active   Tool

	// in-flight gesture, nil-page (-1) when idle
	kind     gestureKind
	page     int
	ovl      *overlay.Overlay
	start    geom.Point
	last     geom.Point
	obj      annot.Object
	handle   overlay.Handle
	moved    bool
	headless bool // arrow gesture whose head is still pending
}

// NewMachine creates a machine reading from the given session settings.
func NewMachine(settings *Settings) *Machine {
	return &Machine{settings: settings, active: Select, page: -1}
}

// Settings returns the session settings the machine reads from.
func (m *Machine) Settings() *Settings { return m.settings }

// Active returns the current tool.
func (m *Machine) Active() Tool { return m.active }

// SetActive swaps the active tool. Switching mid-gesture abandons the
// in-progress shape without recording history; leaving select or text
// clears the caller's selection (the caller owns that, since the machine
// does not know which page holds it).
func (m *Machine) SetActive(t Tool) (abandoned bool) {
	if m.kind != gestureNone {
		m.abandon()
		abandoned = true
	}
	m.active = t
	return abandoned
}

// abandon discards the in-progress gesture. Objects created at press
// time are removed again; no history entry is written.
func (m *Machine) abandon() {
	if m.obj != nil && (m.kind == gestureShape || m.kind == gestureFreehand) {
		m.ovl.Remove(m.obj.Base().ID)
		logger.Debugf("tool: abandoned in-progress %s", m.obj.Kind())
	}
	m.reset()
}

func (m *Machine) reset() {
	m.kind = gestureNone
	m.page = -1
	m.ovl = nil
	m.obj = nil
	m.handle = overlay.HandleNone
	m.moved = false
	m.headless = false
}

// Press starts a gesture on the given page overlay. scale is the render
// scale of the surface, recorded on created objects and used to keep
// highlight width zoom-consistent.
func (m *Machine) Press(page int, ovl *overlay.Overlay, p geom.Point, scale float64) Result {
	if m.kind != gestureNone {
		// A second press while a gesture is active (e.g. a missed
		// release event) abandons the first gesture.
		m.abandon()
	}
	m.page = page
	m.ovl = ovl
	m.start = p
	m.last = p

	switch m.active {
	case Select:
		return m.pressSelect(p)
	case Pan:
		m.kind = gesturePan
		return Result{}
	case Text:
		return m.pressText(p, scale)
	case Draw, Highlight:
		return m.pressFreehand(p, scale)
	case Rect, Circle, Line, Arrow:
		return m.pressShape(p, scale)
	case Eraser:
		return m.pressEraser(p)
	}
	return Result{}
}

// Drag continues the gesture at p.
func (m *Machine) Drag(p geom.Point) Result {
	defer func() { m.last = p }()

	switch m.kind {
	case gestureShape:
		m.resizeLive(p)
		m.moved = true
	case gestureFreehand:
		if path, ok := m.obj.(*annot.Path); ok {
			path.Append(p)
		}
		m.moved = true
	case gestureMove:
		m.ovl.MoveSelected(p.Sub(m.last))
		m.moved = true
	case gestureResize:
		m.ovl.ResizeSelected(m.handle, p)
		m.moved = true
	case gesturePan:
		return Result{Pan: p.Sub(m.last)}
	}
	return Result{}
}

// Release finishes the gesture at p.
func (m *Machine) Release(p geom.Point) Result {
	defer m.reset()

	switch m.kind {
	case gestureShape:
		return m.releaseShape(p)
	case gestureFreehand:
		if path, ok := m.obj.(*annot.Path); ok && len(path.Points) < 2 {
			// a click without movement draws nothing
			m.ovl.Remove(path.B.ID)
			return Result{}
		}
		return Result{Committed: true}
	case gestureMove, gestureResize:
		if m.moved {
			return Result{Committed: true}
		}
		return Result{}
	}
	return Result{}
}

func (m *Machine) pressSelect(p geom.Point) Result {
	if h := m.ovl.HandleAt(p); h != overlay.HandleNone {
		m.kind = gestureResize
		m.handle = h
		return Result{}
	}
	hit := m.ovl.HitTest(p)
	if hit == nil {
		changed := m.ovl.Selected() != nil
		m.ovl.ClearSelection()
		m.reset()
		return Result{SelectionChanged: changed}
	}
	changed := m.ovl.Selected() == nil || m.ovl.Selected().Base().ID != hit.Base().ID
	m.ovl.Select(hit.Base().ID)
	m.kind = gestureMove
	return Result{SelectionChanged: changed}
}

func (m *Machine) pressText(p geom.Point, scale float64) Result {
	// Clicking an existing text object edits it instead of stacking a
	// duplicate underneath.
	if hit := m.ovl.HitTest(p); hit != nil {
		m.reset()
		if txt, ok := hit.(*annot.Text); ok {
			m.ovl.Select(txt.B.ID)
			return Result{SelectionChanged: true, EditText: txt}
		}
		return Result{}
	}

	s := m.settings
	txt := &annot.Text{
		B: annot.NewBase(geom.Rect{
			X: p.X,
			Y: p.Y,
			W: s.FontSize * scale * 6,
			H: s.FontSize * scale * 1.4,
		}, s.StrokeColor, 0, scale),
		FontFamily: s.FontFamily,
		FontSize:   s.FontSize * scale,
		Bold:       s.Bold,
		Italic:     s.Italic,
		Underline:  s.Underline,
	}
	m.ovl.Add(txt)
	m.ovl.Select(txt.B.ID)
	m.reset()
	return Result{Committed: true, SelectionChanged: true, EditText: txt}
}

func (m *Machine) pressFreehand(p geom.Point, scale float64) Result {
	s := m.settings
	width := s.StrokeWidth * scale
	color := s.StrokeColor
	opacity := 1.0
	if m.active == Highlight {
		width = highlightWidth * scale
		opacity = highlightOpacity
	}
	path := &annot.Path{
		B:      annot.NewBase(geom.Rect{X: p.X, Y: p.Y}, color, width, scale),
		Points: []geom.Point{p},
	}
	path.B.Opacity = opacity
	m.ovl.Add(path)
	m.obj = path
	m.kind = gestureFreehand
	return Result{}
}

func (m *Machine) pressShape(p geom.Point, scale float64) Result {
	s := m.settings
	b := annot.NewBase(geom.Rect{X: p.X, Y: p.Y}, s.StrokeColor, s.StrokeWidth*scale, scale)
	if s.FillEnabled && (m.active == Rect || m.active == Circle) {
		fill := s.FillColor
		b.Fill = &fill
	}

	var obj annot.Object
	switch m.active {
	case Rect:
		obj = &annot.Rectangle{B: b}
	case Circle:
		obj = &annot.Ellipse{B: b}
	case Line:
		obj = &annot.Line{B: b, P1: p, P2: p}
	case Arrow:
		obj = &annot.Line{B: b, P1: p, P2: p}
		m.headless = true
	}
	m.ovl.Add(obj)
	m.obj = obj
	m.kind = gestureShape
	return Result{}
}

// pressEraser deletes whatever is directly under the pointer, with no
// confirmation. Pressing empty canvas mutates nothing and records no
// history entry.
func (m *Machine) pressEraser(p geom.Point) Result {
	ovl := m.ovl
	m.reset()
	hit := ovl.HitTest(p)
	if hit == nil {
		return Result{}
	}
	ovl.Remove(hit.Base().ID)
	logger.Debugf("tool: eraser removed %s %s", hit.Kind(), hit.Base().ID)
	return Result{Committed: true}
}

func (m *Machine) resizeLive(p geom.Point) {
	switch x := m.obj.(type) {
	case *annot.Rectangle:
		x.B.Rect = geom.RectFromCorners(m.start, p)
	case *annot.Ellipse:
		x.B.Rect = geom.RectFromCorners(m.start, p)
	case *annot.Line:
		x.P2 = p
		x.B.Rect = geom.RectFromCorners(x.P1, x.P2)
	}
}

func (m *Machine) releaseShape(p geom.Point) Result {
	m.resizeLive(p)

	// A click without a drag leaves a zero-size shape; discard it.
	if !m.moved || m.start.Dist(p) < 1 {
		m.ovl.Remove(m.obj.Base().ID)
		return Result{}
	}

	if m.headless {
		line, ok := m.obj.(*annot.Line)
		if ok {
			head := makeArrowHead(line)
			m.ovl.Add(head)
		}
	}
	return Result{Committed: true}
}

// makeArrowHead builds the filled triangle capping the arrow line. The
// head is its own object so it stays independently selectable.
func makeArrowHead(line *annot.Line) *annot.ArrowHead {
	angle := line.Angle()
	length := 4*line.B.StrokeWidth + 8
	spread := math.Pi / 7

	tip := line.P2
	left := geom.Point{
		X: tip.X - length*math.Cos(angle-spread),
		Y: tip.Y - length*math.Sin(angle-spread),
	}
	right := geom.Point{
		X: tip.X - length*math.Cos(angle+spread),
		Y: tip.Y - length*math.Sin(angle+spread),
	}

	b := annot.NewBase(geom.RectFromCorners(left, right), line.B.Stroke, line.B.StrokeWidth, line.B.Scale)
	fill := line.B.Stroke
	b.Fill = &fill
	head := &annot.ArrowHead{B: b, Tip: tip, Left: left, Right: right}
	head.B.Rect = head.Bounds()
	return head
}
