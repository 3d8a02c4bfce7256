// Package tween interpolates region boundaries between two layouts.
//
// Each set's circle is tracked in two slots: the geometry currently solved
// and the geometry the last transition finished on. A [Func] built by
// [Tween] blends the two for any t in [0, 1] and renders the region outline
// at that t. Reaching t = 1 commits the current geometry as the new previous
// slot, so the next transition starts from where this one ended.
package tween

import (
	"github.com/matzehuels/bubbleset/pkg/core/geom"
	"github.com/matzehuels/bubbleset/pkg/core/sets"
	"github.com/matzehuels/bubbleset/pkg/core/venn"
)

// Func returns a region's outline at interpolation parameter t.
type Func func(t float64) string

// Track holds the current and previous geometry of one set's circle.
type Track struct {
	Current     geom.Circle
	Previous    geom.Circle
	HasPrevious bool
}

// Commit makes the current geometry the starting point of the next transition.
func (tr *Track) Commit() {
	tr.Previous = tr.Current
	tr.HasPrevious = true
}

// From returns the previous geometry, or fallback if there is none.
func (tr *Track) From(fallback geom.Circle) geom.Circle {
	if tr.HasPrevious {
		return tr.Previous
	}
	return fallback
}

// Tracks is the per-set transition state carried between layout computations.
type Tracks struct {
	tracks map[string]*Track
}

// NewTracks returns empty transition state.
func NewTracks() *Tracks {
	return &Tracks{tracks: make(map[string]*Track)}
}

// Update records the freshly solved circles as current geometry.
// Previous slots are left untouched.
func (ts *Tracks) Update(circles *geom.Table) {
	circles.Each(func(name string, c geom.Circle) {
		ts.track(name).Current = c
	})
}

// Seed sets previous geometry, typically from an earlier serialized layout.
func (ts *Tracks) Seed(previous *geom.Table) {
	previous.Each(func(name string, c geom.Circle) {
		tr := ts.track(name)
		tr.Previous = c
		tr.HasPrevious = true
	})
}

// Get returns the track for name.
func (ts *Tracks) Get(name string) (*Track, bool) {
	tr, ok := ts.tracks[name]
	return tr, ok
}

// Commit commits the named tracks.
func (ts *Tracks) Commit(names ...string) {
	for _, n := range names {
		if tr, ok := ts.tracks[n]; ok {
			tr.Commit()
		}
	}
}

// CommitAll commits every track.
func (ts *Tracks) CommitAll() {
	for _, tr := range ts.tracks {
		tr.Commit()
	}
}

func (ts *Tracks) track(name string) *Track {
	tr, ok := ts.tracks[name]
	if !ok {
		tr = &Track{}
		ts.tracks[name] = tr
	}
	return tr
}

// Interpolate returns the member circles of r blended at t, which is clamped
// to [0, 1]. Sets without a track are skipped.
func Interpolate(r *sets.Region, ts *Tracks, fallback geom.Circle, t float64) []geom.Circle {
	t = max(0, min(t, 1))
	out := make([]geom.Circle, 0, len(r.Sets))
	for _, s := range r.Sets {
		tr, ok := ts.Get(s)
		if !ok {
			continue
		}
		out = append(out, geom.Lerp(tr.From(fallback), tr.Current, t))
	}
	return out
}

// Tween builds the transition function for r. fallback stands in for sets
// with no previous geometry (conventionally the canvas center with radius 1).
// Calling the function with t = 1 commits the region's member tracks.
func Tween(r *sets.Region, ts *Tracks, fallback geom.Circle, outline venn.OutlineFunc) Func {
	return func(t float64) string {
		path := outline(Interpolate(r, ts, fallback, t))
		if t >= 1 {
			ts.Commit(r.Sets...)
		}
		return path
	}
}
