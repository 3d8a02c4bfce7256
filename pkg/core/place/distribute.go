package place

import (
	"math"
	"math/rand/v2"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bubbleset/pkg/core/geom"
	"github.com/matzehuels/bubbleset/pkg/core/sets"
)

// DistributeConfig controls [Distribute].
type DistributeConfig struct {
	// Attempts is the number of candidates tried per record before falling back to the center.
	Attempts int `json:"attempts" toml:"attempts"`

	// Inflation is added to the squared inner radius when drawing the sampling radius,
	// letting candidates land slightly past the nominal boundary.
	Inflation float64 `json:"inflation" toml:"inflation"`

	// Epsilon is the tolerance for being inside a member circle.
	Epsilon float64 `json:"epsilon" toml:"epsilon"`

	Seed uint64 `json:"seed" toml:"seed"`
}

// DefaultDistributeConfig returns 500 attempts, inflation 100 and epsilon 1e-10.
func DefaultDistributeConfig() DistributeConfig {
	return DistributeConfig{Attempts: 500, Inflation: 100, Epsilon: geom.Small, Seed: 1}
}

// ApplyDistributeOptions merges the recognized keys of opts (attempts,
// inflation, epsilon, seed) into cfg and returns the keys it ignored.
func ApplyDistributeOptions(cfg DistributeConfig, opts map[string]any) (DistributeConfig, []string) {
	ignored := merge(opts, map[string]setter{
		"attempts":  intSetter(&cfg.Attempts),
		"inflation": floatSetter(&cfg.Inflation),
		"epsilon":   floatSetter(&cfg.Epsilon),
		"seed":      uintSetter(&cfg.Seed),
	})
	return cfg, ignored
}

// DistributeStats counts how records were placed.
type DistributeStats struct {
	Placed    int `json:"placed"`
	Fallbacks int `json:"fallbacks"`
}

// Distribute scatters each region's records. The first record sits on the
// region center; each further record is sampled around a random earlier one
// and accepted only inside all member circles and outside all other circles.
// A record whose attempts are exhausted is placed on the center.
func Distribute(regions *sets.Regions, circles *geom.Table, cfg DistributeConfig) DistributeStats {
	var placed, fallbacks atomic.Int64
	var g errgroup.Group
	for i, r := range regions.All() {
		if len(r.Records) == 0 {
			continue
		}
		g.Go(func() error {
			seed := cfg.Seed + uint64(i)
			p, f := distributeRegion(r, circles, cfg, rand.New(rand.NewPCG(seed, seed^0xdeadbeef)))
			placed.Add(int64(p))
			fallbacks.Add(int64(f))
			return nil
		})
	}
	_ = g.Wait()
	return DistributeStats{Placed: int(placed.Load()), Fallbacks: int(fallbacks.Load())}
}

func distributeRegion(r *sets.Region, circles *geom.Table, cfg DistributeConfig, rng *rand.Rand) (placed, fallbacks int) {
	var in, out []geom.Circle
	circles.Each(func(name string, c geom.Circle) {
		if r.Has(name) {
			in = append(in, c)
		} else {
			out = append(out, c)
		}
	})

	first := r.Records[0]
	first.Place(r.Center.X, r.Center.Y)
	placed++
	queue := []geom.Point{r.Center}
	spread := r.InnerRadius*r.InnerRadius + cfg.Inflation

	for _, rec := range r.Records[1:] {
		p, ok := sample(queue, in, out, spread, cfg, rng)
		if !ok {
			rec.Place(r.Center.X, r.Center.Y)
			fallbacks++
			continue
		}
		queue = append(queue, p)
		rec.Place(p.X, p.Y)
		placed++
	}
	return placed, fallbacks
}

func sample(queue []geom.Point, in, out []geom.Circle, spread float64, cfg DistributeConfig, rng *rand.Rand) (geom.Point, bool) {
	for range cfg.Attempts {
		anchor := queue[rng.IntN(len(queue))]
		angle := rng.Float64() * 2 * math.Pi
		radius := math.Sqrt(rng.Float64() * spread)
		p := geom.Point{X: anchor.X + radius*math.Cos(angle), Y: anchor.Y + radius*math.Sin(angle)}
		if accepts(p, in, out, cfg.Epsilon) {
			return p, true
		}
	}
	return geom.Point{}, false
}

func accepts(p geom.Point, in, out []geom.Circle, eps float64) bool {
	for _, c := range in {
		if !c.Contains(p, eps) {
			return false
		}
	}
	for _, c := range out {
		if !c.Excludes(p) {
			return false
		}
	}
	return true
}
