package force

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestLifecycle(t *testing.T) {
	var starts, ticks, ends int
	s := New([]*Node{{X: 0, Y: 0}},
		OnStart(func(*Simulation) { starts++ }),
		OnTick(func(*Simulation) { ticks++ }),
		OnEnd(func(*Simulation) { ends++ }),
	)
	if s.State() != Idle {
		t.Fatalf("initial state = %v, want idle", s.State())
	}

	seen := map[State]bool{}
	steps := 0
	for st := s.Step(); st != Ended; st = s.Step() {
		seen[st] = true
		steps++
		if steps > 1000 {
			t.Fatal("simulation did not end")
		}
	}
	if !seen[Running] || !seen[Cooling] {
		t.Errorf("states seen = %v, want running and cooling", seen)
	}
	if starts != 1 || ends != 1 {
		t.Errorf("starts=%d ends=%d, want 1 and 1", starts, ends)
	}
	if ticks < 299 || ticks > 302 {
		t.Errorf("ticks = %d, want about 300", ticks)
	}
	if s.Step() != Ended || ends != 1 {
		t.Errorf("stepping an ended simulation fired OnEnd again (ends=%d)", ends)
	}
}

func TestStop(t *testing.T) {
	ends := 0
	s := New(nil, OnEnd(func(*Simulation) { ends++ }))
	s.Step()
	s.Step()
	s.Stop()
	if st := s.Step(); st != Ended {
		t.Errorf("step after Stop = %v, want ended", st)
	}
	if s.Ticks() != 2 {
		t.Errorf("ticks = %d, want 2", s.Ticks())
	}
	if ends != 1 {
		t.Errorf("ends = %d, want 1", ends)
	}
}

func TestRunCancelled(t *testing.T) {
	ends := 0
	s := New(nil, OnEnd(func(*Simulation) { ends++ }))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
	if s.State() != Ended || ends != 1 {
		t.Errorf("state=%v ends=%d, want ended and 1", s.State(), ends)
	}
}

func TestReheat(t *testing.T) {
	starts := 0
	s := New(nil, OnStart(func(*Simulation) { starts++ }))
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.Reheat(1)
	if s.State() != Idle || s.Alpha() != 1 {
		t.Fatalf("after Reheat: state=%v alpha=%v", s.State(), s.Alpha())
	}
	if st := s.Step(); st != Running {
		t.Errorf("first step after Reheat = %v, want running", st)
	}
	if starts != 2 {
		t.Errorf("starts = %d, want 2", starts)
	}
}

// stepWithin runs fn in a goroutine and fails the test if it does not return in time.
func stepWithin(t *testing.T, d time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("simulation blocked while a hook called back into it")
	}
}

func TestHookReheats(t *testing.T) {
	s := New([]*Node{{X: 0, Y: 0}}, OnTick(func(sim *Simulation) {
		if sim.Ticks() == 5 {
			sim.Reheat(1)
		}
	}))

	stepWithin(t, 3*time.Second, func() {
		for range 10 {
			s.Step()
		}
	})
	if s.Ticks() != 10 {
		t.Errorf("Ticks = %d, want 10", s.Ticks())
	}
	// Five decay steps after the reheat leave alpha near 0.89.
	if a := s.Alpha(); a < 0.85 {
		t.Errorf("alpha = %v, want above 0.85 after reheat at tick 5", a)
	}
}

func TestEndHookRestarts(t *testing.T) {
	starts, ends := 0, 0
	s := New(nil,
		OnStart(func(*Simulation) { starts++ }),
		OnEnd(func(sim *Simulation) {
			ends++
			if ends == 1 {
				sim.Reheat(1)
			}
		}),
	)

	stepWithin(t, 3*time.Second, func() {
		if err := s.Run(context.Background()); err != nil {
			t.Error(err)
		}
	})
	if starts != 2 || ends != 2 {
		t.Errorf("starts=%d ends=%d, want 2 and 2", starts, ends)
	}
	if s.State() != Ended {
		t.Errorf("state = %v, want ended", s.State())
	}
}

func TestListenerAlphaDecreases(t *testing.T) {
	s := New(nil)
	var alphas []float64
	s.Listen("record", func(alpha float64) { alphas = append(alphas, alpha) })
	for range 10 {
		s.Step()
	}
	if len(alphas) != 10 {
		t.Fatalf("listener calls = %d, want 10", len(alphas))
	}
	for i := 1; i < len(alphas); i++ {
		if alphas[i] >= alphas[i-1] {
			t.Errorf("alpha[%d]=%v not below alpha[%d]=%v", i, alphas[i], i-1, alphas[i-1])
		}
	}
	s.Listen("record", nil)
	s.Step()
	if len(alphas) != 10 {
		t.Error("removed listener still called")
	}
}

func TestCollideSeparates(t *testing.T) {
	nodes := []*Node{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}
	s := New(nodes, WithSeed(42))
	s.SetForce("collide", NewCollide(func(*Node) float64 { return 5 }))
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			d := math.Hypot(nodes[i].X-nodes[j].X, nodes[i].Y-nodes[j].Y)
			if d < 9.5 {
				t.Errorf("nodes %d,%d distance = %v, want about 10", i, j, d)
			}
		}
	}
}

func TestDeterministic(t *testing.T) {
	run := func() []*Node {
		nodes := []*Node{{}, {}, {}, {}}
		s := New(nodes, WithSeed(9))
		s.SetForce("collide", NewCollide(func(*Node) float64 { return 3 }))
		_ = s.Run(context.Background())
		return nodes
	}
	a, b := run(), run()
	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y {
			t.Fatalf("node %d differs between seeded runs", i)
		}
	}
}

func TestSetNodesSeedsNaN(t *testing.T) {
	nodes := []*Node{{X: math.NaN(), Y: math.NaN()}, {X: 3, Y: 4}}
	New(nodes)
	if math.IsNaN(nodes[0].X) || math.IsNaN(nodes[0].Y) {
		t.Error("NaN position not seeded")
	}
	if nodes[1].X != 3 || nodes[1].Y != 4 || nodes[1].Index != 1 {
		t.Errorf("finite node changed: %+v", nodes[1])
	}
}
