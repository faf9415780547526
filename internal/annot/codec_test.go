// internal/annot/codec_test.go
package annot

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"inkmark/internal/geom"
)

func TestSnapshotRoundTrip(t *testing.T) {
	fill := Yellow
	objs := []Object{
		&Line{
			B:  NewBase(geom.Rect{X: 5, Y: 5, W: 95, H: 45}, Black, 3, 1.5),
			P1: geom.Point{X: 5, Y: 5},
			P2: geom.Point{X: 100, Y: 50},
		},
		&Text{
			B:          NewBase(geom.Rect{X: 10, Y: 10, W: 120, H: 30}, Red, 0, 1.5),
			Content:    "review this (première page)",
			FontFamily: "Helvetica",
			FontSize:   24,
			Bold:       true,
			Underline:  true,
		},
		&Path{
			B:      NewBase(geom.Rect{X: 0, Y: 0}, fill, 18, 1.5),
			Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 2}, {X: 20, Y: 1}},
		},
	}
	objs[2].Base().Opacity = 0.35
	objs[2].Base().Fill = &fill

	blob, err := MarshalObjects(objs)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalObjects(blob)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(objs, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestUnmarshalRejectsUnknownVersion(t *testing.T) {
	blob, err := json.Marshal(map[string]interface{}{"v": 99, "objects": []interface{}{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalObjects(blob); err == nil || !strings.Contains(err.Error(), "version") {
		t.Errorf("unknown version error = %v", err)
	}
}

func TestUnmarshalRejectsIncompleteLine(t *testing.T) {
	line := &Line{
		B:  NewBase(geom.Rect{}, Black, 1, 1),
		P1: geom.Point{X: 1, Y: 1},
		P2: geom.Point{X: 2, Y: 2},
	}
	blob, err := MarshalObjects([]Object{line})
	if err != nil {
		t.Fatal(err)
	}
	broken := strings.Replace(string(blob), `"p2"`, `"px"`, 1)
	if _, err := UnmarshalObjects([]byte(broken)); err == nil {
		t.Error("line without endpoints was accepted")
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := &Path{
		B:      NewBase(geom.Rect{}, Black, 2, 1),
		Points: []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}},
	}
	c := p.Clone().(*Path)
	c.Points[0].X = 99
	if p.Points[0].X != 1 {
		t.Error("clone shares point storage with the original")
	}

	img := &Image{B: NewBase(geom.Rect{}, Black, 0, 1), Data: []byte{1, 2, 3}}
	ci := img.Clone().(*Image)
	ci.Data[0] = 9
	if img.Data[0] != 1 {
		t.Error("clone shares image bytes with the original")
	}
}
