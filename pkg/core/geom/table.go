package geom

// Table is an ordered collection of circles keyed by set name.
// Circles are stored in insertion order; lookups go through a name index.
type Table struct {
	names   []string
	circles []Circle
	index   map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Set stores c under name, replacing any existing circle without changing its position in the order.
func (t *Table) Set(name string, c Circle) {
	if i, ok := t.index[name]; ok {
		t.circles[i] = c
		return
	}
	t.index[name] = len(t.circles)
	t.names = append(t.names, name)
	t.circles = append(t.circles, c)
}

// Get returns the circle stored under name.
func (t *Table) Get(name string) (Circle, bool) {
	if t == nil {
		return Circle{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return Circle{}, false
	}
	return t.circles[i], true
}

// Has reports whether name is present.
func (t *Table) Has(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// Len returns the number of circles.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.circles)
}

// Names returns the set names in insertion order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

// Circles returns the circles in insertion order.
func (t *Table) Circles() []Circle {
	if t == nil {
		return nil
	}
	return append([]Circle(nil), t.circles...)
}

// Each calls fn for every circle in insertion order.
func (t *Table) Each(fn func(name string, c Circle)) {
	if t == nil {
		return
	}
	for i, name := range t.names {
		fn(name, t.circles[i])
	}
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	out := NewTable()
	t.Each(out.Set)
	return out
}
