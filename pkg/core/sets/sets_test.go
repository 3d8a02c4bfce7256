package sets

import (
	"math"
	"reflect"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func records(lists ...[]string) []*Record {
	out := make([]*Record, len(lists))
	for i, l := range lists {
		out[i] = &Record{Sets: l}
	}
	return out
}

func TestAggregateThreeRegions(t *testing.T) {
	recs := records([]string{"A"}, []string{"B"}, []string{"A", "B"})
	regions := Aggregate(recs)

	if got := regions.Keys(); !slices.Equal(got, []string{"A", "B", "A,B"}) {
		t.Fatalf("Keys = %v, want [A B A,B]", got)
	}
	for _, r := range regions.All() {
		if r.Count != 1 {
			t.Errorf("region %q count = %d, want 1", r.Key, r.Count)
		}
		if r.Synthetic {
			t.Errorf("region %q should not be synthetic", r.Key)
		}
		if r.Size != 1 {
			t.Errorf("region %q size = %v, want 1", r.Key, r.Size)
		}
	}
	if recs[2].Key != "A,B" {
		t.Errorf("record key = %q, want A,B", recs[2].Key)
	}
}

func TestAggregateSortsSignature(t *testing.T) {
	recs := records([]string{"b", "a"}, []string{"a", "b", "a"})
	regions := Aggregate(recs)

	r, ok := regions.Get("a,b")
	if !ok {
		t.Fatalf("missing region a,b; have %v", regions.Keys())
	}
	if r.Count != 2 || len(r.Records) != 2 {
		t.Errorf("count = %d, records = %d, want 2, 2", r.Count, len(r.Records))
	}
	if !slices.Equal(r.Sets, []string{"a", "b"}) {
		t.Errorf("Sets = %v", r.Sets)
	}
	if !r.Has("a") || r.Has("c") {
		t.Error("Has mismatch")
	}
}

func TestAggregateAddsSyntheticSingles(t *testing.T) {
	recs := records([]string{"A", "B"}, []string{"A", "B"}, []string{"B", "C"})
	regions := Aggregate(recs)

	want := []string{"A,B", "B,C", "A", "B", "C"}
	if got := regions.Keys(); !slices.Equal(got, want) {
		t.Fatalf("Keys = %v, want %v", got, want)
	}

	b, _ := regions.Get("B")
	if !b.Synthetic {
		t.Error("B should be synthetic")
	}
	if b.Count != 3 {
		t.Errorf("B count = %d, want 3 (records including B)", b.Count)
	}
	if len(b.Records) != 0 {
		t.Errorf("synthetic region holds %d records, want 0", len(b.Records))
	}
}

func TestAggregateSkipsEmpty(t *testing.T) {
	recs := records(nil, []string{}, []string{"X"})
	recs[0].Key = "stale"
	regions := Aggregate(recs)

	if regions.Len() != 1 {
		t.Fatalf("Len = %d, want 1", regions.Len())
	}
	if recs[0].Key != "" {
		t.Errorf("skipped record key = %q, want empty", recs[0].Key)
	}
}

func TestAggregateOptions(t *testing.T) {
	recs := []*Record{
		{Meta: map[string]any{"groups": []string{"x"}}},
		{Meta: map[string]any{"groups": []string{"x"}}},
		{Meta: map[string]any{"groups": []string{"x", "y"}}},
	}
	regions := Aggregate(recs,
		WithMembership(func(r *Record) []string { return r.Meta["groups"].([]string) }),
		WithSizeTransform(func(n int) float64 { return math.Sqrt(float64(n)) }),
	)

	x, ok := regions.Get("x")
	if !ok {
		t.Fatal("missing region x")
	}
	if x.Size != math.Sqrt2 {
		t.Errorf("x size = %v, want √2", x.Size)
	}
	if got := regions.SetNames(); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("SetNames = %v", got)
	}
}

func TestAggregatePartitionProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties := gopter.NewProperties(params)

	memberships := gen.SliceOf(gen.OneConstOf("A", "B", "C", "D"), reflect.TypeOf(""))
	lists := gen.SliceOf(memberships, reflect.TypeOf([]string{}))

	properties.Property("regions partition the non-empty records", prop.ForAll(
		func(lists [][]string) bool {
			recs := records(lists...)
			regions := Aggregate(recs)

			seen := make(map[*Record]int)
			for _, r := range regions.Records() {
				seen[r]++
			}
			for _, rec := range recs {
				want := 0
				if len(rec.Sets) > 0 {
					want = 1
				}
				if seen[rec] != want {
					return false
				}
			}
			return true
		},
		lists,
	))

	properties.Property("every individual set has a region", prop.ForAll(
		func(lists [][]string) bool {
			regions := Aggregate(records(lists...))
			for _, l := range lists {
				for _, s := range l {
					if _, ok := regions.Get(s); !ok {
						return false
					}
				}
			}
			return true
		},
		lists,
	))

	properties.TestingRun(t)
}
