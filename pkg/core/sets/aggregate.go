package sets

// Option configures [Aggregate].
type Option func(*aggregator)

type aggregator struct {
	membership func(*Record) []string
	size       func(count int) float64
}

// WithMembership sets the accessor used to read a record's set list.
// The default reads Record.Sets.
func WithMembership(fn func(*Record) []string) Option {
	return func(a *aggregator) {
		if fn != nil {
			a.membership = fn
		}
	}
}

// WithSizeTransform sets the function mapping a region's count to the size
// handed to the circle solver. The default is the identity.
func WithSizeTransform(fn func(count int) float64) Option {
	return func(a *aggregator) {
		if fn != nil {
			a.size = fn
		}
	}
}

// Identity is the default size transform.
func Identity(count int) float64 { return float64(count) }

// Aggregate partitions records into exact-membership regions.
//
// Records with an empty membership list are skipped and their Key is cleared.
// Every other record receives its signature in Key and is appended to the
// region with that key. Single-set regions are added for any set that never
// occurs alone. Sizes are computed last from the final counts.
func Aggregate(records []*Record, opts ...Option) *Regions {
	a := aggregator{
		membership: func(r *Record) []string { return r.Sets },
		size:       Identity,
	}
	for _, opt := range opts {
		opt(&a)
	}

	regions := NewRegions()
	singles := NewRegions()

	for _, rec := range records {
		if rec == nil {
			continue
		}
		members := a.membership(rec)
		if len(members) == 0 {
			rec.Key = ""
			continue
		}
		key, sorted := Signature(members)
		rec.Key = key

		r := regions.Add(&Region{Key: key, Sets: sorted})
		r.Records = append(r.Records, rec)
		r.Count++

		for _, s := range sorted {
			single := singles.Add(&Region{Key: s, Sets: []string{s}, Synthetic: true})
			single.Count++
		}
	}

	for _, single := range singles.All() {
		if _, ok := regions.Get(single.Key); !ok {
			regions.Add(single)
		}
	}

	for _, r := range regions.All() {
		r.Size = a.size(r.Count)
	}
	return regions
}
