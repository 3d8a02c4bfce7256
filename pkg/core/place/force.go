package place

import (
	"github.com/matzehuels/bubbleset/pkg/core/force"
	"github.com/matzehuels/bubbleset/pkg/core/geom"
	"github.com/matzehuels/bubbleset/pkg/core/sets"
)

// Force names under which [Force] installs its force and tick listener.
const (
	CollideForce = "collide"
	PullListener = "pull"
)

// ForceConfig controls [Force].
type ForceConfig struct {
	// Padding is added to every record's collision radius.
	Padding float64 `json:"padding" toml:"padding"`

	// MaxRadius caps a record's collision radius and stands in for records without one.
	MaxRadius float64 `json:"maxRadius" toml:"max_radius"`

	// Collide enables collision avoidance.
	Collide bool `json:"collide" toml:"collide"`

	// Pull scales the per-tick pull toward the region center.
	Pull float64 `json:"pull" toml:"pull"`

	Seed uint64 `json:"seed" toml:"seed"`

	OnStart force.Hook `json:"-" toml:"-"`
	OnTick  force.Hook `json:"-" toml:"-"`
	OnEnd   force.Hook `json:"-" toml:"-"`
}

// DefaultForceConfig returns padding 3, max radius 8, pull 0.2 with collision on.
func DefaultForceConfig() ForceConfig {
	return ForceConfig{Padding: 3, MaxRadius: 8, Collide: true, Pull: 0.2, Seed: 1}
}

// ApplyForceOptions merges the recognized keys of opts (padding, maxRadius,
// collide or collider, pull, seed) into cfg and returns the keys it ignored.
func ApplyForceOptions(cfg ForceConfig, opts map[string]any) (ForceConfig, []string) {
	ignored := merge(opts, map[string]setter{
		"padding":   floatSetter(&cfg.Padding),
		"maxRadius": floatSetter(&cfg.MaxRadius),
		"collide":   boolSetter(&cfg.Collide),
		"collider":  boolSetter(&cfg.Collide),
		"pull":      floatSetter(&cfg.Pull),
		"seed":      uintSetter(&cfg.Seed),
	})
	return cfg, ignored
}

// CollisionRadius returns the radius the collide force uses for r.
func (c ForceConfig) CollisionRadius(r *sets.Record) float64 {
	radius := c.MaxRadius
	if r.Radius > 0 {
		radius = min(r.Radius, c.MaxRadius)
	}
	return radius + c.Padding
}

// Force prepares a relaxation of records toward their region centers and
// returns the simulation handle without stepping it.
//
// When prev is non-nil it is reused: its parameters and hooks are kept, its
// nodes are replaced, and an ended simulation is re-heated. Records whose Key
// matches no region are left out of the simulation. Records without a
// position start on their region center.
func Force(regions *sets.Regions, records []*sets.Record, prev *force.Simulation, cfg ForceConfig) *force.Simulation {
	var (
		nodes  []*force.Node
		owners []*sets.Region
	)
	for _, rec := range records {
		r, ok := regions.Get(rec.Key)
		if !ok {
			continue
		}
		if !rec.Positioned || !geom.Finite(rec.X) || !geom.Finite(rec.Y) {
			rec.Place(r.Center.X, r.Center.Y)
		}
		nodes = append(nodes, &force.Node{X: rec.X, Y: rec.Y, Data: rec})
		owners = append(owners, r)
	}

	sim := prev
	if sim == nil {
		sim = force.New(nodes,
			force.WithSeed(cfg.Seed),
			force.OnStart(cfg.OnStart),
			force.OnTick(cfg.OnTick),
			force.OnEnd(cfg.OnEnd),
		)
	} else {
		sim.SetNodes(nodes)
		if sim.State() == force.Ended {
			sim.Reheat(1)
		}
	}

	if cfg.Collide {
		sim.SetForce(CollideForce, force.NewCollide(func(n *force.Node) float64 {
			return cfg.CollisionRadius(n.Data.(*sets.Record))
		}))
	} else {
		sim.SetForce(CollideForce, nil)
	}

	sim.Listen(PullListener, func(alpha float64) {
		k := cfg.Pull * alpha
		for i, n := range nodes {
			c := owners[i].Center
			n.X += (c.X - n.X) * k
			n.Y += (c.Y - n.Y) * k
			n.Data.(*sets.Record).Place(n.X, n.Y)
		}
	})
	return sim
}
