package svg

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/bubbleset/pkg/core/geom"
	"github.com/matzehuels/bubbleset/pkg/document"
)

func sample() document.Layout {
	return document.Layout{
		Width: 200, Height: 100, Strategy: "pack",
		Circles: []document.Circle{
			{Set: "A", X: 60, Y: 50, Radius: 40},
			{Set: "B<&>", X: 120, Y: 50, Radius: 40},
		},
		Regions: []document.Region{
			{Key: "A", Sets: []string{"A"}, Center: geom.Point{X: 40, Y: 50}, InnerRadius: 10, Outline: "M 0 0", Frames: []string{"M 1 1", "M 2 2"}},
		},
		Records: []document.Record{
			{ID: "r1", Label: "first", Sets: []string{"A"}, Key: "A", X: 40, Y: 50, Placed: true},
			{ID: "r2", Sets: []string{"A"}, Key: "A"},
		},
	}
}

func TestRenderWellFormed(t *testing.T) {
	out := Render(sample(), WithLabels(), WithRegions(), WithInnerRadius(), WithAnimation(1.5))
	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, out)
		}
	}
}

func TestRenderContent(t *testing.T) {
	s := string(Render(sample(), WithLabels()))
	if !strings.Contains(s, `viewBox="0 0 200.0 100.0"`) {
		t.Error("missing viewBox")
	}
	if got := strings.Count(s, `class="record"`); got != 1 {
		t.Errorf("rendered %d records, want 1 (unplaced records skipped)", got)
	}
	if !strings.Contains(s, "B&lt;&amp;&gt;") {
		t.Error("set name not escaped")
	}
	if strings.Contains(s, "<animate") {
		t.Error("animation rendered without WithAnimation")
	}
	if !strings.Contains(s, `fill="#4e79a7"`) {
		t.Error("first palette color not used")
	}
}

func TestRenderAnimation(t *testing.T) {
	s := string(Render(sample(), WithAnimation(2)))
	if !strings.Contains(s, `values="M 1 1;M 2 2"`) || !strings.Contains(s, `dur="2s"`) {
		t.Errorf("animation missing:\n%s", s)
	}
}

func TestPalette(t *testing.T) {
	s := string(Render(sample(), WithPalette("red")))
	if strings.Count(s, `stroke="red"`) != 2 {
		t.Error("palette did not cycle")
	}
}
