package layout

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubbleset/pkg/core/force"
	"github.com/matzehuels/bubbleset/pkg/core/geom"
	"github.com/matzehuels/bubbleset/pkg/core/place"
	"github.com/matzehuels/bubbleset/pkg/core/region"
	"github.com/matzehuels/bubbleset/pkg/core/sets"
	"github.com/matzehuels/bubbleset/pkg/core/tween"
	"github.com/matzehuels/bubbleset/pkg/core/venn"
	bserrors "github.com/matzehuels/bubbleset/pkg/errors"
)

// Defaults for a new [Layout].
const (
	DefaultWidth          = 600.0
	DefaultHeight         = 400.0
	DefaultPadding        = 15.0
	DefaultFallbackRadius = 10.0
	DefaultStrategy       = place.StrategyPack
)

// Layout holds the configuration and the state of successive computations.
type Layout struct {
	solver   venn.Solver
	width    float64
	height   float64
	padding  float64
	strategy string
	fallback float64
	runForce bool

	packCfg       place.PackConfig
	distributeCfg place.DistributeConfig
	forceCfg      place.ForceConfig
	forceHooks    ForceHooks
	aggregate     []sets.Option
	logger        *log.Logger

	regions    *sets.Regions
	unassigned []*sets.Record
	circles    *geom.Table
	centers    map[string]geom.Point
	tracks     *tween.Tracks
	sim        *force.Simulation
	stats      place.DistributeStats
}

// Option configures a [Layout].
type Option func(*Layout)

// WithSolver replaces the default greedy circle solver.
func WithSolver(s venn.Solver) Option {
	return func(l *Layout) {
		if s != nil {
			l.solver = s
		}
	}
}

// WithCanvas sets the drawing area the solved circles are scaled into.
func WithCanvas(width, height, padding float64) Option {
	return func(l *Layout) { l.width, l.height, l.padding = width, height, padding }
}

// WithStrategy selects the placement strategy by name.
func WithStrategy(name string) Option {
	return func(l *Layout) { l.strategy = name }
}

// WithPackConfig sets the pack strategy configuration.
func WithPackConfig(cfg place.PackConfig) Option {
	return func(l *Layout) { l.packCfg = cfg }
}

// WithDistributeConfig sets the distribute strategy configuration.
func WithDistributeConfig(cfg place.DistributeConfig) Option {
	return func(l *Layout) { l.distributeCfg = cfg }
}

// WithForceConfig sets the force strategy configuration.
func WithForceConfig(cfg place.ForceConfig) Option {
	return func(l *Layout) { l.forceCfg = cfg }
}

// ForceHooks are lifecycle callbacks of the force simulation that receive
// the Layout instead of the bare simulation handle.
type ForceHooks struct {
	OnStart func(*Layout)
	OnTick  func(*Layout)
	OnEnd   func(*Layout)
}

// WithForceHooks installs layout-level force hooks. They run after any hooks
// set in the force configuration.
func WithForceHooks(h ForceHooks) Option {
	return func(l *Layout) { l.forceHooks = h }
}

// WithRunForce makes Compute run the force simulation to completion instead
// of leaving it for the caller to step.
func WithRunForce(run bool) Option {
	return func(l *Layout) { l.runForce = run }
}

// WithFallbackRadius sets the inner radius used for regions without circles.
func WithFallbackRadius(r float64) Option {
	return func(l *Layout) { l.fallback = r }
}

// WithSizeTransform maps region counts to solver sizes.
func WithSizeTransform(fn func(count int) float64) Option {
	return func(l *Layout) { l.aggregate = append(l.aggregate, sets.WithSizeTransform(fn)) }
}

// WithMembership sets the accessor reading a record's set list.
func WithMembership(fn func(*sets.Record) []string) Option {
	return func(l *Layout) { l.aggregate = append(l.aggregate, sets.WithMembership(fn)) }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(l *Layout) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New returns a Layout with the given options applied over the defaults.
func New(opts ...Option) *Layout {
	l := &Layout{
		solver:        venn.Greedy{},
		width:         DefaultWidth,
		height:        DefaultHeight,
		padding:       DefaultPadding,
		strategy:      DefaultStrategy,
		fallback:      DefaultFallbackRadius,
		packCfg:       place.DefaultPackConfig(),
		distributeCfg: place.DefaultDistributeConfig(),
		forceCfg:      place.DefaultForceConfig(),
		logger:        log.New(io.Discard),
		tracks:        tween.NewTracks(),
		regions:       sets.NewRegions(),
		circles:       geom.NewTable(),
		centers:       map[string]geom.Point{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Compute lays out records. Regions, circles and centers are rebuilt from
// scratch; tween tracks and the force handle carry over from earlier calls.
// Records without memberships are skipped and an empty input yields an
// empty layout.
func (l *Layout) Compute(ctx context.Context, records []*sets.Record) error {
	if !place.ValidStrategy(l.strategy) {
		return bserrors.New(bserrors.ErrCodeInvalidStrategy, "unknown placement strategy %q", l.strategy)
	}
	start := time.Now()

	l.regions = sets.Aggregate(records, l.aggregate...)
	l.unassigned = nil
	for _, rec := range records {
		if rec != nil && rec.Key == "" {
			l.unassigned = append(l.unassigned, rec)
		}
	}
	if l.regions.Len() == 0 {
		l.circles = geom.NewTable()
		l.centers = map[string]geom.Point{}
		l.logger.Debug("no records with memberships")
		return nil
	}

	raw, err := l.solver.Solve(descriptors(l.regions))
	if err != nil {
		return fmt.Errorf("solve circles: %w", err)
	}
	l.circles = venn.Scale(raw, l.width, l.height, l.padding)
	l.centers = venn.Centers(l.circles, l.regions)
	region.Enrich(l.regions, l.circles, l.centers, l.fallback)
	l.tracks.Update(l.circles)
	l.logger.Debug("solved circles", "sets", l.circles.Len(), "regions", l.regions.Len())

	if err := l.place(ctx); err != nil {
		return err
	}

	l.logger.Debug("placed records",
		"strategy", l.strategy,
		"records", len(l.regions.Records()),
		"duration", time.Since(start))
	return nil
}

func (l *Layout) place(ctx context.Context) error {
	switch l.strategy {
	case place.StrategyPack:
		place.Pack(l.regions, l.packCfg)
	case place.StrategyDistribute:
		l.stats = place.Distribute(l.regions, l.circles, l.distributeCfg)
		if l.stats.Fallbacks > 0 {
			l.logger.Debug("distribute fell back to region centers", "records", l.stats.Fallbacks)
		}
	case place.StrategyForce:
		cfg := l.forceCfg
		cfg.OnStart = l.chainHook(cfg.OnStart, l.forceHooks.OnStart)
		cfg.OnTick = l.chainHook(cfg.OnTick, l.forceHooks.OnTick)
		cfg.OnEnd = l.chainHook(cfg.OnEnd, l.forceHooks.OnEnd)
		l.sim = place.Force(l.regions, l.regions.Records(), l.sim, cfg)
		if l.runForce {
			if err := l.sim.Run(ctx); err != nil {
				return fmt.Errorf("relax records: %w", err)
			}
		}
	}
	return nil
}

func (l *Layout) chainHook(sim force.Hook, fn func(*Layout)) force.Hook {
	if fn == nil {
		return sim
	}
	return func(s *force.Simulation) {
		if sim != nil {
			sim(s)
		}
		fn(l)
	}
}

func descriptors(regions *sets.Regions) []venn.Descriptor {
	out := make([]venn.Descriptor, 0, regions.Len())
	for _, r := range regions.All() {
		out = append(out, venn.Descriptor{Key: r.Key, Size: r.Size, Sets: r.Sets, Synthetic: r.Synthetic})
	}
	return out
}

// Regions returns the regions of the last computation.
func (l *Layout) Regions() *sets.Regions { return l.regions }

// Unassigned returns the records of the last computation that had no
// memberships. They belong to no region and are never positioned.
func (l *Layout) Unassigned() []*sets.Record { return l.unassigned }

// Circles returns the scaled set circles of the last computation.
func (l *Layout) Circles() *geom.Table { return l.circles }

// Centers returns the region centers of the last computation.
func (l *Layout) Centers() map[string]geom.Point { return l.centers }

// Simulation returns the force simulation handle, or nil when the force
// strategy has not run.
func (l *Layout) Simulation() *force.Simulation { return l.sim }

// DistributeStats returns the placement counts of the last distribute run.
func (l *Layout) DistributeStats() place.DistributeStats { return l.stats }

// Strategy returns the configured strategy name.
func (l *Layout) Strategy() string { return l.strategy }

// Canvas returns the configured width and height.
func (l *Layout) Canvas() (width, height float64) { return l.width, l.height }

// Tween returns the boundary transition of the region with the given key.
// Sets seen for the first time start from a unit circle at the canvas center.
func (l *Layout) Tween(key string) (tween.Func, bool) {
	r, ok := l.regions.Get(key)
	if !ok {
		return nil, false
	}
	fallback := geom.Circle{X: l.width / 2, Y: l.height / 2, Radius: 1}
	return tween.Tween(r, l.tracks, fallback, venn.Outline), true
}

// Commit makes the current circles the starting point of future transitions.
func (l *Layout) Commit() { l.tracks.CommitAll() }

// Seed installs previous circle geometry, typically read from an earlier
// serialized layout, so the next transitions start from it.
func (l *Layout) Seed(previous *geom.Table) {
	if previous != nil {
		l.tracks.Seed(previous)
	}
}
