package place

import (
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bubbleset/pkg/core/pack"
	"github.com/matzehuels/bubbleset/pkg/core/sets"
)

// PackConfig controls [Pack].
type PackConfig struct {
	// Padding is the gap between neighbouring record circles.
	Padding float64 `json:"padding" toml:"padding"`

	// Weighted sizes records by Value instead of uniformly.
	Weighted bool `json:"weighted" toml:"weighted"`

	// Value returns a record's weight when Weighted is set. Defaults to Record.Value.
	Value func(*sets.Record) float64 `json:"-" toml:"-"`

	Seed uint64 `json:"seed" toml:"seed"`
}

// DefaultPackConfig returns the uniform-weight configuration.
func DefaultPackConfig() PackConfig {
	return PackConfig{Seed: 1}
}

// ApplyPackOptions merges the recognized keys of opts (padding, weighted,
// seed) into cfg and returns the keys it ignored.
func ApplyPackOptions(cfg PackConfig, opts map[string]any) (PackConfig, []string) {
	ignored := merge(opts, map[string]setter{
		"padding":  floatSetter(&cfg.Padding),
		"weighted": boolSetter(&cfg.Weighted),
		"seed":     uintSetter(&cfg.Seed),
	})
	return cfg, ignored
}

func (c PackConfig) weight(r *sets.Record) float64 {
	if !c.Weighted {
		return 1
	}
	if c.Value != nil {
		return c.Value(r)
	}
	return r.Value
}

// Pack packs each region's records inside a square of side 2×InnerRadius
// centred on the region center. Record radii are set to the packed leaf radii.
func Pack(regions *sets.Regions, cfg PackConfig) {
	var g errgroup.Group
	for i, r := range regions.All() {
		if len(r.Records) == 0 {
			continue
		}
		g.Go(func() error {
			packRegion(r, cfg, uint64(i))
			return nil
		})
	}
	_ = g.Wait()
}

func packRegion(r *sets.Region, cfg PackConfig, offset uint64) {
	root := &pack.Node{Data: r}
	for _, rec := range r.Records {
		root.Children = append(root.Children, &pack.Node{Value: cfg.weight(rec), Data: rec})
	}

	seed := cfg.Seed + offset
	side := 2 * r.InnerRadius
	pack.Layout(root, side, side, cfg.Padding, rand.New(rand.NewPCG(seed, seed^0xdeadbeef)))

	dx, dy := r.Center.X-r.InnerRadius, r.Center.Y-r.InnerRadius
	for _, leaf := range root.Children {
		rec := leaf.Data.(*sets.Record)
		rec.Place(leaf.X+dx, leaf.Y+dy)
		rec.Radius = leaf.R
	}
}
