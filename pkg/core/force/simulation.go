package force

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
)

// Default simulation parameters.
const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
	DefaultCoolingAlpha  = 0.1
)

// DefaultAlphaDecay brings alpha from 1 to [DefaultAlphaMin] in 300 steps.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// State is the lifecycle stage of a simulation.
type State int

const (
	Idle State = iota
	Running
	Cooling
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Cooling:
		return "cooling"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Node is a simulated point. Data carries the caller's payload.
type Node struct {
	Index  int
	X, Y   float64
	VX, VY float64
	Data   any
}

// Force mutates node velocities once per step.
type Force interface {
	// Initialize is called whenever the node set changes.
	Initialize(nodes []*Node, rng *rand.Rand)
	Apply(alpha float64)
}

// Hook observes lifecycle events.
type Hook func(*Simulation)

// Listener runs after each step's integration with the step's alpha.
type Listener func(alpha float64)

type named[T any] struct {
	name string
	v    T
}

// Simulation is a pumped force simulation. The zero value is not usable;
// construct with [New].
type Simulation struct {
	step sync.Mutex
	mu   sync.RWMutex

	nodes     []*Node
	forces    []named[Force]
	listeners []named[Listener]
	rng       *rand.Rand

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64
	coolingAlpha  float64

	state State
	ticks int
	stop  atomic.Bool

	onStart, onTick, onEnd Hook
}

// Option configures a [Simulation].
type Option func(*Simulation)

// WithSeed seeds the generator used for jiggle and shuffling.
func WithSeed(seed uint64) Option {
	return func(s *Simulation) { s.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef)) }
}

// WithAlphaMin sets the alpha below which the simulation ends.
func WithAlphaMin(v float64) Option {
	return func(s *Simulation) { s.alphaMin = v }
}

// WithAlphaDecay sets the fraction by which alpha approaches its target each step.
func WithAlphaDecay(v float64) Option {
	return func(s *Simulation) { s.alphaDecay = v }
}

// WithAlphaTarget sets the value alpha decays toward.
func WithAlphaTarget(v float64) Option {
	return func(s *Simulation) { s.alphaTarget = v }
}

// WithVelocityDecay sets the friction applied to velocities each step.
func WithVelocityDecay(v float64) Option {
	return func(s *Simulation) { s.velocityDecay = 1 - v }
}

// WithCoolingAlpha sets the alpha below which the state becomes [Cooling].
func WithCoolingAlpha(v float64) Option {
	return func(s *Simulation) { s.coolingAlpha = v }
}

// OnStart registers a hook fired on the first step.
func OnStart(h Hook) Option { return func(s *Simulation) { s.onStart = h } }

// OnTick registers a hook fired after every step.
func OnTick(h Hook) Option { return func(s *Simulation) { s.onTick = h } }

// OnEnd registers a hook fired once when the simulation ends.
func OnEnd(h Hook) Option { return func(s *Simulation) { s.onEnd = h } }

// New returns an idle simulation over nodes.
func New(nodes []*Node, opts ...Option) *Simulation {
	s := &Simulation{
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: 1 - DefaultVelocityDecay,
		coolingAlpha:  DefaultCoolingAlpha,
	}
	WithSeed(1)(s)
	for _, opt := range opts {
		opt(s)
	}
	s.SetNodes(nodes)
	return s
}

// SetNodes replaces the node set and reinitializes every force. Nodes with
// non-finite positions are seeded on a phyllotaxis spiral around the origin.
func (s *Simulation) SetNodes(nodes []*Node) {
	s.step.Lock()
	defer s.step.Unlock()

	for i, n := range nodes {
		n.Index = i
		if !finite(n.X) || !finite(n.Y) {
			r := 10 * math.Sqrt(0.5+float64(i))
			a := float64(i) * math.Pi * (3 - math.Sqrt(5))
			n.X, n.Y = r*math.Cos(a), r*math.Sin(a)
		}
		if !finite(n.VX) || !finite(n.VY) {
			n.VX, n.VY = 0, 0
		}
	}
	s.nodes = nodes
	for _, f := range s.forces {
		f.v.Initialize(nodes, s.rng)
	}
}

// Nodes returns the simulated nodes. Read them between steps.
func (s *Simulation) Nodes() []*Node { return s.nodes }

// SetForce installs f under name, replacing any force with that name.
// A nil f removes the force.
func (s *Simulation) SetForce(name string, f Force) {
	s.step.Lock()
	defer s.step.Unlock()
	s.forces = slices.DeleteFunc(s.forces, func(n named[Force]) bool { return n.name == name })
	if f == nil {
		return
	}
	f.Initialize(s.nodes, s.rng)
	s.forces = append(s.forces, named[Force]{name, f})
}

// Force returns the force registered under name.
func (s *Simulation) Force(name string) (Force, bool) {
	for _, f := range s.forces {
		if f.name == name {
			return f.v, true
		}
	}
	return nil, false
}

// Listen installs fn under name, replacing any listener with that name.
// A nil fn removes the listener.
func (s *Simulation) Listen(name string, fn Listener) {
	s.step.Lock()
	defer s.step.Unlock()
	s.listeners = slices.DeleteFunc(s.listeners, func(n named[Listener]) bool { return n.name == name })
	if fn != nil {
		s.listeners = append(s.listeners, named[Listener]{name, fn})
	}
}

// State returns the current lifecycle state.
func (s *Simulation) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Alpha returns the current alpha.
func (s *Simulation) Alpha() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alpha
}

// Ticks returns the number of steps taken since the last start.
func (s *Simulation) Ticks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticks
}

// Stop requests the simulation to end before its next step.
func (s *Simulation) Stop() { s.stop.Store(true) }

// Reheat sets alpha and clears any stop request. An ended simulation
// returns to [Idle] so the next step fires OnStart again.
func (s *Simulation) Reheat(alpha float64) {
	s.step.Lock()
	defer s.step.Unlock()
	s.stop.Store(false)
	s.mu.Lock()
	s.alpha = alpha
	if s.state == Ended {
		s.state = Idle
		s.ticks = 0
	}
	s.mu.Unlock()
}

// Step advances the simulation by one tick and returns the resulting state.
// Stepping an ended simulation is a no-op.
//
// Hooks fire after the step lock is released, in the order OnStart, OnTick,
// OnEnd, so a hook may reconfigure or reheat the simulation.
func (s *Simulation) Step() State {
	hooks := s.advance()
	for _, h := range hooks {
		h(s)
	}
	return s.State()
}

// advance runs one tick under the step lock and returns the hooks to fire.
func (s *Simulation) advance() []Hook {
	s.step.Lock()
	defer s.step.Unlock()

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	var hooks []Hook
	queue := func(h Hook) {
		if h != nil {
			hooks = append(hooks, h)
		}
	}

	switch {
	case state == Ended:
		return nil
	case s.stop.Load():
		s.setState(Ended)
		queue(s.onEnd)
		return hooks
	case state == Idle:
		s.setState(Running)
		queue(s.onStart)
	}

	alpha := s.tick()
	for _, l := range s.listeners {
		l.v(alpha)
	}
	queue(s.onTick)

	switch {
	case alpha < s.alphaMin || s.stop.Load():
		s.setState(Ended)
		queue(s.onEnd)
	case alpha < s.coolingAlpha:
		s.setState(Cooling)
	default:
		s.setState(Running)
	}
	return hooks
}

// Run steps the simulation until it ends or ctx is done. Cancellation stops
// the simulation, so OnEnd still fires.
func (s *Simulation) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			s.Stop()
			s.Step()
			return err
		}
		if s.Step() == Ended {
			return nil
		}
	}
}

func (s *Simulation) tick() float64 {
	s.mu.Lock()
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
	alpha := s.alpha
	s.ticks++
	s.mu.Unlock()

	for _, f := range s.forces {
		f.v.Apply(alpha)
	}
	for _, n := range s.nodes {
		n.VX *= s.velocityDecay
		n.VY *= s.velocityDecay
		n.X += n.VX
		n.Y += n.VY
	}
	return alpha
}

func (s *Simulation) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
