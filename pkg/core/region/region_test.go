package region

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/bubbleset/pkg/core/geom"
	"github.com/matzehuels/bubbleset/pkg/core/sets"
)

func twoCircles() *geom.Table {
	t := geom.NewTable()
	t.Set("A", geom.Circle{X: 0, Y: 0, Radius: 10})
	t.Set("B", geom.Circle{X: 12, Y: 0, Radius: 10})
	return t
}

func TestInnerRadiusLens(t *testing.T) {
	r := &sets.Region{Key: "A,B", Sets: []string{"A", "B"}, Center: geom.Point{X: 6, Y: 0}}

	got := InnerRadius(r, twoCircles(), 0)
	if got != 4 {
		t.Errorf("InnerRadius = %v, want 4", got)
	}
}

func TestClassify(t *testing.T) {
	circles := twoCircles()
	circles.Set("C", geom.Circle{X: 100, Y: 0, Radius: 5})
	r := &sets.Region{Key: "A", Sets: []string{"A"}, Center: geom.Point{X: -4, Y: 0}}

	got := Classify(r, circles)
	want := []Classification{
		{Set: "A", Kind: Interior, Bound: 6},
		// B's center (12) is outside A's radius (10): not overlapping by this rule.
		{Set: "B", Kind: ExteriorDisjoint, Bound: 26},
		{Set: "C", Kind: ExteriorDisjoint, Bound: 109},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d classifications, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestClassifyOverlapping(t *testing.T) {
	circles := geom.NewTable()
	circles.Set("A", geom.Circle{X: 0, Y: 0, Radius: 10})
	circles.Set("B", geom.Circle{X: 8, Y: 0, Radius: 6})
	r := &sets.Region{Key: "A", Sets: []string{"A"}, Center: geom.Point{X: -5, Y: 0}}

	cls := Classify(r, circles)
	if cls[1].Kind != ExteriorOverlapping {
		t.Fatalf("B kind = %v, want %v", cls[1].Kind, ExteriorOverlapping)
	}
	if cls[1].Bound != 7 {
		t.Errorf("B bound = %v, want 7", cls[1].Bound)
	}
	if got := InnerRadius(r, circles, 0); got != 5 {
		t.Errorf("InnerRadius = %v, want 5", got)
	}
}

func TestInnerRadiusFallback(t *testing.T) {
	r := &sets.Region{Key: "A", Sets: []string{"A"}}
	if got := InnerRadius(r, geom.NewTable(), 3); got != 3 {
		t.Errorf("empty table: got %v, want fallback 3", got)
	}
	if got := InnerRadius(r, nil, 2); got != 2 {
		t.Errorf("nil table: got %v, want fallback 2", got)
	}
}

func TestInnerRadiusClampsNegative(t *testing.T) {
	r := &sets.Region{Key: "A", Sets: []string{"A"}, Center: geom.Point{X: 50, Y: 0}}
	if got := InnerRadius(r, twoCircles(), 1); got != 0 {
		t.Errorf("center outside its own circle: got %v, want 0", got)
	}
}

func TestEnrich(t *testing.T) {
	regions := sets.Aggregate([]*sets.Record{
		{Sets: []string{"A"}},
		{Sets: []string{"A", "B"}},
	})
	centers := map[string]geom.Point{"A,B": {X: 6, Y: 0}, "A": {X: -4, Y: 0}}

	Enrich(regions, twoCircles(), centers, 1.5)

	ab, _ := regions.Get("A,B")
	if ab.Center != (geom.Point{X: 6, Y: 0}) || ab.InnerRadius != 4 {
		t.Errorf("A,B = center %+v radius %v", ab.Center, ab.InnerRadius)
	}
	b, _ := regions.Get("B")
	if b.InnerRadius != 1.5 {
		t.Errorf("B without center: radius %v, want fallback 1.5", b.InnerRadius)
	}
}

func TestInnerRadiusFiniteProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("inner radius is finite and non-negative", prop.ForAll(
		func(ax, ar, bx, br, cx, cy float64) bool {
			circles := geom.NewTable()
			circles.Set("A", geom.Circle{X: ax, Radius: ar})
			circles.Set("B", geom.Circle{X: bx, Radius: br})
			r := &sets.Region{Key: "A", Sets: []string{"A"}, Center: geom.Point{X: cx, Y: cy}}
			got := InnerRadius(r, circles, 0)
			return !math.IsInf(got, 0) && !math.IsNaN(got) && got >= 0
		},
		gen.Float64Range(-100, 100),
		gen.Float64Range(0, 50),
		gen.Float64Range(-100, 100),
		gen.Float64Range(0, 50),
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
	))

	properties.TestingRun(t)
}
