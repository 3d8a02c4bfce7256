// Package force implements a velocity Verlet style relaxation simulation for
// placing points so that they settle without overlapping.
//
// A [Simulation] owns a slice of [Node] values, an ordered set of named
// forces and named tick listeners. It does not run on its own timer: the
// caller pumps [Simulation.Step], typically once per animation frame, or
// calls [Simulation.Run] to drive it to completion under a context.
//
// # Lifecycle
//
// A simulation moves through four states:
//
//	Idle → Running → Cooling → Ended
//
// The first step fires OnStart. Every step decays alpha toward the target,
// applies forces, integrates velocities and then runs tick listeners and
// OnTick. Once alpha drops below the cooling threshold the state becomes
// Cooling; once it drops below alphaMin, or after [Simulation.Stop], the
// state becomes Ended and OnEnd fires exactly once. [Simulation.Reheat]
// returns an ended simulation to Idle.
//
// Steps are serialized by a mutex. Tick listeners run inside the step and
// must not call back into the simulation. Hooks fire once the step has
// released the mutex, so they may reheat or reconfigure the simulation.
package force
