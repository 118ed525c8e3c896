package smoke

// Frontier indexes the empty cells bordering filled ones. Each cell is
// keyed by its packed coordinate and carries the Lab point it
// currently wants, the mean of its filled neighbors. A map gives exact
// lookups and a k-d tree gives nearest-point queries; every mutation
// goes through both so they always describe the same set of cells.
type Frontier struct {
	points map[uint32][3]float64
	tree   kdTree
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{points: make(map[uint32][3]float64)}
}

// Len returns the number of frontier cells.
func (f *Frontier) Len() int {
	return len(f.points)
}

// Get returns the desired point recorded for a cell.
func (f *Frontier) Get(key uint32) ([3]float64, bool) {
	p, ok := f.points[key]
	return p, ok
}

// Set records the desired point for a cell, replacing any previous
// one. The stale tree entry is removed first so a cell is never
// indexed under two points.
func (f *Frontier) Set(key uint32, point [3]float64) {
	if old, ok := f.points[key]; ok {
		if old == point {
			return
		}
		f.tree.Remove(old, key)
	}
	f.points[key] = point
	f.tree.Insert(point, key)
}

// Remove drops a cell from the frontier and reports whether it was
// present. Removing an absent key is a no-op.
func (f *Frontier) Remove(key uint32) bool {
	p, ok := f.points[key]
	if !ok {
		return false
	}
	delete(f.points, key)
	if !f.tree.Remove(p, key) {
		panic("smoke: frontier map and tree out of sync")
	}
	return true
}

// Nearest returns the frontier cell whose desired point is closest to
// the query, or ok=false when the frontier is empty.
func (f *Frontier) Nearest(point [3]float64) (key uint32, ok bool) {
	return f.tree.Nearest(point)
}
