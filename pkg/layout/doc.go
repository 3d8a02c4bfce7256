// Package layout computes a complete bubble-set layout from records.
//
// A [Layout] runs the stages in order: records are aggregated into regions,
// the circle solver sizes and positions one circle per set, the solution is
// scaled onto the canvas, region centers and inner radii are derived, and
// finally the configured placement strategy positions every record.
//
//	l := layout.New(layout.WithCanvas(600, 400, 20), layout.WithStrategy(place.StrategyPack))
//	if err := l.Compute(ctx, records); err != nil {
//	    return err
//	}
//	for _, r := range l.Regions().All() {
//	    fmt.Println(r.Key, r.Center, r.InnerRadius)
//	}
//
// A Layout is meant to be kept across computations. It carries the
// previous circle geometry used by [Layout.Tween] and, for the force
// strategy, the simulation handle, so successive updates animate and relax
// from where the last one ended. A Layout is not safe for concurrent use.
package layout
