package sets

import (
	"slices"
	"strings"

	"github.com/matzehuels/bubbleset/pkg/core/geom"
)

// Separator joins set names into a membership signature.
const Separator = ","

// Record is a single data item placed inside the diagram.
// The layout only writes Key, X, Y, Radius and Positioned.
type Record struct {
	ID     string
	Label  string
	Sets   []string
	Value  float64
	Meta   map[string]any
	Key    string
	X, Y   float64
	Radius float64

	// Positioned marks records whose X and Y hold a meaningful position.
	Positioned bool
}

// Place moves the record to (x, y) and marks it positioned.
func (r *Record) Place(x, y float64) {
	r.X, r.Y = x, y
	r.Positioned = true
}

// Region is one exact combination of set memberships.
type Region struct {
	Key     string
	Sets    []string
	Count   int
	Size    float64
	Records []*Record

	// Synthetic marks single-set regions added without any exactly matching record.
	Synthetic bool

	Center      geom.Point
	InnerRadius float64
}

// Has reports whether set is one of the region's member sets.
func (r *Region) Has(set string) bool {
	_, found := slices.BinarySearch(r.Sets, set)
	return found
}

// Signature returns the canonical key for a membership list: the distinct
// names sorted lexicographically and joined with [Separator]. The second
// result is the sorted, de-duplicated list.
func Signature(members []string) (string, []string) {
	sorted := slices.Clone(members)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return strings.Join(sorted, Separator), sorted
}

// Regions is an ordered collection of regions indexed by key.
type Regions struct {
	list  []*Region
	index map[string]int
}

// NewRegions returns an empty collection.
func NewRegions() *Regions {
	return &Regions{index: make(map[string]int)}
}

// Add appends r unless a region with the same key exists, and returns the stored region.
func (rs *Regions) Add(r *Region) *Region {
	if i, ok := rs.index[r.Key]; ok {
		return rs.list[i]
	}
	rs.index[r.Key] = len(rs.list)
	rs.list = append(rs.list, r)
	return r
}

// Get returns the region with the given key.
func (rs *Regions) Get(key string) (*Region, bool) {
	if rs == nil {
		return nil, false
	}
	i, ok := rs.index[key]
	if !ok {
		return nil, false
	}
	return rs.list[i], true
}

// All returns the regions in insertion order.
func (rs *Regions) All() []*Region {
	if rs == nil {
		return nil
	}
	return slices.Clone(rs.list)
}

// Len returns the number of regions.
func (rs *Regions) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.list)
}

// Keys returns the region keys in insertion order.
func (rs *Regions) Keys() []string {
	keys := make([]string, 0, rs.Len())
	for _, r := range rs.All() {
		keys = append(keys, r.Key)
	}
	return keys
}

// Records returns every record held by a region, in region order.
func (rs *Regions) Records() []*Record {
	var out []*Record
	for _, r := range rs.All() {
		out = append(out, r.Records...)
	}
	return out
}

// SetNames returns the distinct individual set names in first-encounter order.
func (rs *Regions) SetNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, r := range rs.All() {
		for _, s := range r.Sets {
			if !seen[s] {
				seen[s] = true
				names = append(names, s)
			}
		}
	}
	return names
}
