// Package place positions records inside their regions once region centers
// and inner radii are known.
//
// Three strategies are provided:
//
//   - [Pack] packs each region's records as tangent circles inside the
//     region's inner circle.
//   - [Distribute] scatters records by rejection sampling around already
//     placed points, accepting only candidates that are inside every member
//     set's circle and outside every other circle.
//   - [Force] relaxes records with collision avoidance while pulling each
//     one toward its region center. It returns a [force.Simulation] the
//     caller keeps stepping.
//
// Each strategy has a config struct with defaults and an allow-list merge
// (ApplyPackOptions, ApplyDistributeOptions, ApplyForceOptions) for
// untyped option maps coming from config files or HTTP requests. Unknown
// keys are returned to the caller rather than rejected.
//
// Degenerate input never produces an error: empty regions are skipped and
// unsatisfiable placements fall back to the region center.
package place
