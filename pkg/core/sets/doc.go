// Package sets groups records by their exact set-membership signature.
//
// Every record names the sets it belongs to. [Aggregate] canonicalizes that
// list into a membership signature (sorted, comma-joined), writes the
// signature back onto the record, and builds one [Region] per distinct
// signature. The resulting [Regions] preserve first-encounter order, which
// downstream solvers rely on for tie-breaking.
//
// Each individual set also gets a single-set region, even when no record
// belongs to that set alone. Such regions are marked Synthetic and carry the
// number of records that include the set. This guarantees the circle solver
// receives every set and every set can be drawn.
//
//	regions := sets.Aggregate(records)
//	for _, r := range regions.All() {
//	    fmt.Println(r.Key, r.Count)
//	}
package sets
