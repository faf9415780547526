// internal/annot/codec.go
package annot

import (
	"encoding/json"
	"fmt"

	"inkmark/internal/geom"
)

// snapshotVersion guards the snapshot envelope. History entries and
// bridge payloads share this codec, so the format must stay stable
// within a session.
const snapshotVersion = 1

// record is the flat wire form of an Object. One struct covers all
// variants; fields that do not apply to a kind are omitted.
type record struct {
	Kind        Kind         `json:"kind"`
	ID          string       `json:"id"`
	Rect        geom.Rect    `json:"rect"`
	Stroke      string       `json:"stroke"`
	StrokeWidth float64      `json:"strokeWidth"`
	Fill        string       `json:"fill,omitempty"`
	Opacity     float64      `json:"opacity"`
	Scale       float64      `json:"scale"`
	Content     string       `json:"content,omitempty"`
	FontFamily  string       `json:"fontFamily,omitempty"`
	FontSize    float64      `json:"fontSize,omitempty"`
	Bold        bool         `json:"bold,omitempty"`
	Italic      bool         `json:"italic,omitempty"`
	Underline   bool         `json:"underline,omitempty"`
	P1          *geom.Point  `json:"p1,omitempty"`
	P2          *geom.Point  `json:"p2,omitempty"`
	Tip         *geom.Point  `json:"tip,omitempty"`
	Left        *geom.Point  `json:"left,omitempty"`
	Right       *geom.Point  `json:"right,omitempty"`
	Points      []geom.Point `json:"points,omitempty"`
	Data        []byte       `json:"data,omitempty"`
	IntrinsicW  int          `json:"intrinsicW,omitempty"`
	IntrinsicH  int          `json:"intrinsicH,omitempty"`
}

type envelope struct {
	V       int      `json:"v"`
	Objects []record `json:"objects"`
}

// MarshalObjects serializes a slice of objects into a snapshot blob.
func MarshalObjects(objs []Object) ([]byte, error) {
	env := envelope{V: snapshotVersion, Objects: make([]record, 0, len(objs))}
	for _, o := range objs {
		rec, err := toRecord(o)
		if err != nil {
			return nil, err
		}
		env.Objects = append(env.Objects, rec)
	}
	return json.Marshal(env)
}

// UnmarshalObjects decodes a snapshot blob back into objects.
func UnmarshalObjects(data []byte) ([]Object, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if env.V != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", env.V)
	}
	objs := make([]Object, 0, len(env.Objects))
	for _, rec := range env.Objects {
		o, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		objs = append(objs, o)
	}
	return objs, nil
}

func toRecord(o Object) (record, error) {
	b := o.Base()
	rec := record{
		Kind:        o.Kind(),
		ID:          b.ID,
		Rect:        b.Rect,
		Stroke:      b.Stroke.Hex(),
		StrokeWidth: b.StrokeWidth,
		Opacity:     b.Opacity,
		Scale:       b.Scale,
	}
	if b.Fill != nil {
		rec.Fill = b.Fill.Hex()
	}

	switch x := o.(type) {
	case *Text:
		rec.Content = x.Content
		rec.FontFamily = x.FontFamily
		rec.FontSize = x.FontSize
		rec.Bold = x.Bold
		rec.Italic = x.Italic
		rec.Underline = x.Underline
	case *Rectangle, *Ellipse:
		// geometry fully described by Rect
	case *Line:
		p1, p2 := x.P1, x.P2
		rec.P1, rec.P2 = &p1, &p2
	case *ArrowHead:
		tip, left, right := x.Tip, x.Left, x.Right
		rec.Tip, rec.Left, rec.Right = &tip, &left, &right
	case *Path:
		rec.Points = x.Points
	case *Image:
		rec.Data = x.Data
		rec.IntrinsicW = x.IntrinsicW
		rec.IntrinsicH = x.IntrinsicH
	default:
		return record{}, fmt.Errorf("unknown annotation type %T", o)
	}
	return rec, nil
}

func fromRecord(rec record) (Object, error) {
	stroke, err := ParseColor(rec.Stroke)
	if err != nil {
		return nil, err
	}
	b := Base{
		ID:          rec.ID,
		Rect:        rec.Rect,
		Stroke:      stroke,
		StrokeWidth: rec.StrokeWidth,
		Opacity:     rec.Opacity,
		Scale:       rec.Scale,
	}
	if rec.Fill != "" {
		fill, err := ParseColor(rec.Fill)
		if err != nil {
			return nil, err
		}
		b.Fill = &fill
	}

	switch rec.Kind {
	case KindText:
		return &Text{
			B:          b,
			Content:    rec.Content,
			FontFamily: rec.FontFamily,
			FontSize:   rec.FontSize,
			Bold:       rec.Bold,
			Italic:     rec.Italic,
			Underline:  rec.Underline,
		}, nil
	case KindRect:
		return &Rectangle{B: b}, nil
	case KindEllipse:
		return &Ellipse{B: b}, nil
	case KindLine:
		if rec.P1 == nil || rec.P2 == nil {
			return nil, fmt.Errorf("line %s: missing endpoints", rec.ID)
		}
		return &Line{B: b, P1: *rec.P1, P2: *rec.P2}, nil
	case KindArrowHead:
		if rec.Tip == nil || rec.Left == nil || rec.Right == nil {
			return nil, fmt.Errorf("arrowhead %s: missing vertices", rec.ID)
		}
		return &ArrowHead{B: b, Tip: *rec.Tip, Left: *rec.Left, Right: *rec.Right}, nil
	case KindPath:
		return &Path{B: b, Points: rec.Points}, nil
	case KindImage:
		return &Image{B: b, Data: rec.Data, IntrinsicW: rec.IntrinsicW, IntrinsicH: rec.IntrinsicH}, nil
	default:
		return nil, fmt.Errorf("unknown annotation kind %q", rec.Kind)
	}
}
