package place

import (
	"context"
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/bubbleset/pkg/core/force"
	"github.com/matzehuels/bubbleset/pkg/core/geom"
	"github.com/matzehuels/bubbleset/pkg/core/region"
	"github.com/matzehuels/bubbleset/pkg/core/sets"
	"github.com/matzehuels/bubbleset/pkg/core/venn"
)

const tol = 1e-6

// lens builds two overlapping circles A and B with records spread over the
// regions A, B and A,B, and enriches the regions with centers and inner radii.
func lens(t *testing.T, perRegion int) (*sets.Regions, *geom.Table, []*sets.Record) {
	t.Helper()
	var records []*sets.Record
	for _, members := range [][]string{{"A"}, {"B"}, {"A", "B"}} {
		for i := range perRegion {
			records = append(records, &sets.Record{ID: fmt.Sprint(members, i), Sets: members})
		}
	}
	regions := sets.Aggregate(records)

	circles := geom.NewTable()
	circles.Set("A", geom.Circle{X: 100, Y: 100, Radius: 60})
	circles.Set("B", geom.Circle{X: 180, Y: 100, Radius: 60})
	region.Enrich(regions, circles, venn.Centers(circles, regions), 10)
	return regions, circles, records
}

func TestPackContainment(t *testing.T) {
	regions, _, _ := lens(t, 12)
	Pack(regions, PackConfig{Padding: 1, Seed: 3})

	for _, r := range regions.All() {
		for i, a := range r.Records {
			if !a.Positioned || a.Radius <= 0 {
				t.Errorf("%s[%d]: positioned=%v radius=%v", r.Key, i, a.Positioned, a.Radius)
			}
			d := math.Hypot(a.X-r.Center.X, a.Y-r.Center.Y)
			if d+a.Radius > r.InnerRadius+tol {
				t.Errorf("%s[%d] escapes inner circle: d=%v r=%v inner=%v", r.Key, i, d, a.Radius, r.InnerRadius)
			}
			for _, b := range r.Records[i+1:] {
				if math.Hypot(a.X-b.X, a.Y-b.Y) < a.Radius+b.Radius-tol {
					t.Errorf("%s: records overlap", r.Key)
				}
			}
		}
	}
}

func TestPackWeighted(t *testing.T) {
	records := []*sets.Record{
		{Sets: []string{"A"}, Value: 1},
		{Sets: []string{"A"}, Value: 16},
	}
	regions := sets.Aggregate(records)
	r, _ := regions.Get("A")
	r.Center, r.InnerRadius = geom.Point{X: 50, Y: 50}, 50

	Pack(regions, PackConfig{})
	if math.Abs(records[0].Radius-records[1].Radius) > tol {
		t.Errorf("uniform radii = %v, %v, want equal", records[0].Radius, records[1].Radius)
	}

	Pack(regions, PackConfig{Weighted: true})
	if ratio := records[1].Radius / records[0].Radius; math.Abs(ratio-4) > 1e-6 {
		t.Errorf("weighted radius ratio = %v, want 4", ratio)
	}

	Pack(regions, PackConfig{Weighted: true, Value: func(*sets.Record) float64 { return 1 }})
	if math.Abs(records[0].Radius-records[1].Radius) > tol {
		t.Error("custom value function ignored")
	}
}

func TestDistributeInvariants(t *testing.T) {
	regions, circles, records := lens(t, 25)
	stats := Distribute(regions, circles, DefaultDistributeConfig())

	if stats.Placed+stats.Fallbacks != len(records) {
		t.Errorf("stats = %+v, want %d records accounted for", stats, len(records))
	}
	for _, r := range regions.All() {
		for i, rec := range r.Records {
			if !rec.Positioned {
				t.Fatalf("%s[%d] not positioned", r.Key, i)
			}
			p := geom.Point{X: rec.X, Y: rec.Y}
			if p == r.Center {
				continue
			}
			circles.Each(func(name string, c geom.Circle) {
				if r.Has(name) && !c.Contains(p, geom.Small) {
					t.Errorf("%s[%d] outside member circle %s", r.Key, i, name)
				}
				if !r.Has(name) && !c.Excludes(p) {
					t.Errorf("%s[%d] inside non-member circle %s", r.Key, i, name)
				}
			})
		}
	}
}

func TestDistributeProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 50
	properties := gopter.NewProperties(params)

	properties.Property("every record is valid or on its center", prop.ForAll(
		func(seed uint64, n int) bool {
			var records []*sets.Record
			for _, members := range [][]string{{"A"}, {"B"}, {"A", "B"}} {
				for range n {
					records = append(records, &sets.Record{Sets: members})
				}
			}
			regions := sets.Aggregate(records)
			circles := geom.NewTable()
			circles.Set("A", geom.Circle{X: 100, Y: 100, Radius: 60})
			circles.Set("B", geom.Circle{X: 180, Y: 100, Radius: 60})
			region.Enrich(regions, circles, venn.Centers(circles, regions), 10)

			cfg := DefaultDistributeConfig()
			cfg.Seed = seed
			stats := Distribute(regions, circles, cfg)
			if stats.Placed+stats.Fallbacks != len(records) {
				return false
			}
			for _, r := range regions.All() {
				for _, rec := range r.Records {
					p := geom.Point{X: rec.X, Y: rec.Y}
					if !rec.Positioned {
						return false
					}
					if p == r.Center {
						continue
					}
					ok := true
					circles.Each(func(name string, c geom.Circle) {
						if r.Has(name) && !c.Contains(p, geom.Small) {
							ok = false
						}
						if !r.Has(name) && !c.Excludes(p) {
							ok = false
						}
					})
					if !ok {
						return false
					}
				}
			}
			return true
		},
		gen.UInt64(),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}

func TestDistributeFallback(t *testing.T) {
	records := []*sets.Record{
		{Sets: []string{"A", "B"}},
		{Sets: []string{"A", "B"}},
		{Sets: []string{"A", "B"}},
	}
	regions := sets.Aggregate(records)
	circles := geom.NewTable()
	circles.Set("A", geom.Circle{X: 0, Y: 0, Radius: 5})
	circles.Set("B", geom.Circle{X: 100, Y: 0, Radius: 5})

	r, _ := regions.Get("A,B")
	r.Center = geom.Point{X: 50, Y: 0}

	stats := Distribute(regions, circles, DefaultDistributeConfig())
	for i, rec := range records {
		if rec.X != 50 || rec.Y != 0 {
			t.Errorf("record %d = (%v, %v), want region center (50, 0)", i, rec.X, rec.Y)
		}
	}
	if stats.Fallbacks != 2 || stats.Placed != 1 {
		t.Errorf("stats = %+v, want 1 placed and 2 fallbacks", stats)
	}
}

func TestForcePullMonotonic(t *testing.T) {
	regions, _, records := lens(t, 3)
	for i, rec := range records {
		rec.Place(float64(i*37%200), float64(i*53%200))
	}
	cfg := DefaultForceConfig()
	cfg.Collide = false
	sim := Force(regions, records, nil, cfg)

	dist := func(rec *sets.Record) float64 {
		r, _ := regions.Get(rec.Key)
		return math.Hypot(rec.X-r.Center.X, rec.Y-r.Center.Y)
	}
	last := make([]float64, len(records))
	for i, rec := range records {
		last[i] = dist(rec)
	}
	for sim.Step() != force.Ended {
		for i, rec := range records {
			d := dist(rec)
			if d > last[i]+tol {
				t.Fatalf("record %d moved away from its center: %v -> %v", i, last[i], d)
			}
			last[i] = d
		}
	}
}

func TestForceCollide(t *testing.T) {
	regions, _, records := lens(t, 6)
	cfg := DefaultForceConfig()
	sim := Force(regions, records, nil, cfg)
	if err := sim.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	minGap := 2 * cfg.CollisionRadius(&sets.Record{})
	for i, a := range records {
		for _, b := range records[i+1:] {
			if d := math.Hypot(a.X-b.X, a.Y-b.Y); d < 0.7*minGap {
				t.Errorf("records too close after relaxation: %v < %v", d, minGap)
			}
		}
	}
}

func TestForceSeedsAndSkips(t *testing.T) {
	regions, _, records := lens(t, 1)
	stale := &sets.Record{Key: "Z", X: 1, Y: 2, Positioned: true}
	sim := Force(regions, append(records, stale), nil, DefaultForceConfig())

	if got := len(sim.Nodes()); got != len(records) {
		t.Errorf("nodes = %d, want %d (stale record skipped)", got, len(records))
	}
	for _, rec := range records {
		r, _ := regions.Get(rec.Key)
		if rec.X != r.Center.X || rec.Y != r.Center.Y {
			t.Errorf("%s not seeded at its center", rec.Key)
		}
	}
	sim.Step()
	if stale.X != 1 || stale.Y != 2 {
		t.Error("stale record moved")
	}
}

func TestForceReusesHandle(t *testing.T) {
	regions, _, records := lens(t, 2)
	var starts, ends int
	cfg := DefaultForceConfig()
	cfg.OnStart = func(*force.Simulation) { starts++ }
	cfg.OnEnd = func(*force.Simulation) { ends++ }

	sim := Force(regions, records, nil, cfg)
	if err := sim.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	again := Force(regions, records, sim, DefaultForceConfig())
	if again != sim {
		t.Fatal("previous handle not reused")
	}
	if again.State() != force.Idle {
		t.Errorf("reused ended handle state = %v, want idle", again.State())
	}
	if err := again.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if starts != 2 || ends != 2 {
		t.Errorf("starts=%d ends=%d, want hooks preserved across reuse", starts, ends)
	}
}

func TestCollisionRadius(t *testing.T) {
	cfg := ForceConfig{Padding: 3, MaxRadius: 8}
	tests := []struct {
		radius, want float64
	}{
		{0, 11},
		{2, 5},
		{20, 11},
	}
	for _, tt := range tests {
		if got := cfg.CollisionRadius(&sets.Record{Radius: tt.radius}); got != tt.want {
			t.Errorf("CollisionRadius(%v) = %v, want %v", tt.radius, got, tt.want)
		}
	}
}

func TestApplyOptions(t *testing.T) {
	fc, ignored := ApplyForceOptions(DefaultForceConfig(), map[string]any{
		"padding":   5,
		"maxRadius": 12.5,
		"collider":  false,
		"color":     "red",
		"pull":      "nope",
	})
	if fc.Padding != 5 || fc.MaxRadius != 12.5 || fc.Collide {
		t.Errorf("force config = %+v", fc)
	}
	if fc.Pull != 0.2 {
		t.Errorf("pull = %v, want default kept for unusable value", fc.Pull)
	}
	if want := []string{"color", "pull"}; !slices.Equal(ignored, want) {
		t.Errorf("ignored = %v, want %v", ignored, want)
	}

	pc, ignored := ApplyPackOptions(DefaultPackConfig(), map[string]any{"padding": 2.0, "weighted": "true", "value": 1})
	if pc.Padding != 2 || !pc.Weighted || !slices.Equal(ignored, []string{"value"}) {
		t.Errorf("pack config = %+v, ignored = %v", pc, ignored)
	}

	dc, ignored := ApplyDistributeOptions(DefaultDistributeConfig(), map[string]any{"attempts": int64(10), "seed": -1})
	if dc.Attempts != 10 || dc.Inflation != 100 || !slices.Equal(ignored, []string{"seed"}) {
		t.Errorf("distribute config = %+v, ignored = %v", dc, ignored)
	}
}
