package smoke

import (
	"math"

	"github.com/pkg/errors"
)

// progressStride is how many placements pass between progress reports.
const progressStride = 1 << 16

// Generator runs the placement loop. It seeds the grid center with the
// first catalog color and then, for every following color, fills the
// frontier cell whose desired color is nearest in Lab space. The
// generator owns its grid and frontier outright: nothing else writes
// them, and the grid only becomes interesting to read once Run has
// returned.
type Generator struct {
	cat      *Catalog
	side     int
	grid     *Grid
	frontier *Frontier
	progress func(placed, total int)

	// Stats (private)
	placed       int
	frontierPeak int
	recomputes   int
}

// GeneratorOption is a functional option for configuring a Generator.
type GeneratorOption func(*Generator)

// WithSide overrides the grid side length. The default is the exact
// square root of the catalog size. Oversized grids are accepted and
// finish the run with unfilled cells; undersized ones are rejected.
func WithSide(side int) GeneratorOption {
	return func(g *Generator) {
		g.side = side
	}
}

// WithProgress installs a callback that receives (placed, total)
// periodically during Run and once more on the final placement.
func WithProgress(fn func(placed, total int)) GeneratorOption {
	return func(g *Generator) {
		g.progress = fn
	}
}

// NewGenerator validates the catalog/grid pairing and prepares an
// empty board. A grid that cannot hold the whole catalog is a
// precondition violation and is rejected here, before any placement.
func NewGenerator(cat *Catalog, opts ...GeneratorOption) (*Generator, error) {
	gen := &Generator{cat: cat}
	for _, opt := range opts {
		opt(gen)
	}

	n := cat.Len()
	if n == 0 {
		return nil, errors.New("catalog is empty")
	}
	if gen.side == 0 {
		side := int(math.Round(math.Sqrt(float64(n))))
		if side*side != n {
			return nil, errors.Errorf(
				"catalog size %d is not a perfect square; set a side explicitly", n)
		}
		gen.side = side
	}
	if gen.side*gen.side < n {
		return nil, errors.Errorf(
			"%dx%d grid cannot hold %d colors", gen.side, gen.side, n)
	}
	if gen.side > 1<<16 {
		return nil, errors.Errorf(
			"grid side %d exceeds the supported maximum %d", gen.side, 1<<16)
	}

	gen.grid = NewGrid(gen.side)
	gen.frontier = NewFrontier()
	return gen, nil
}

// Run places every catalog color on the grid, in catalog order. The
// first color seeds the center; each later color goes to the frontier
// cell wanting the nearest color. Deterministic for a given catalog
// order. Run consumes the generator and must be called once.
func (gen *Generator) Run() {
	n := gen.cat.Len()
	cx, cy := gen.grid.Center()
	gen.place(cx, cy, 0)
	gen.report(1, n)

	for i := 1; i < n; i++ {
		key, ok := gen.frontier.Nearest(gen.cat.Points[i])
		if !ok {
			panic("smoke: frontier exhausted with colors left to place")
		}
		gen.frontier.Remove(key)
		x, y := gen.grid.Unpack(key)
		gen.place(x, y, int32(i))
		gen.report(i+1, n)
	}
}

// place fills one cell and refreshes the frontier around it: every
// empty neighbor of the filled cell gets its desired color recomputed
// from scratch, whether or not it was already on the frontier.
func (gen *Generator) place(x, y int, idx int32) {
	gen.grid.Set(x, y, idx)
	gen.placed++
	gen.grid.EachEmptyNeighbor(x, y, func(nx, ny int) {
		gen.frontier.Set(gen.grid.Pack(nx, ny), gen.desired(nx, ny))
		gen.recomputes++
	})
	if l := gen.frontier.Len(); l > gen.frontierPeak {
		gen.frontierPeak = l
	}
}

// desired returns the mean Lab point of the filled neighbors of
// (x, y). Only called for cells adjacent to at least one filled cell.
func (gen *Generator) desired(x, y int) [3]float64 {
	var sum [3]float64
	count := 0
	gen.grid.EachNeighbor(x, y, func(nx, ny int, v int32) {
		if v == Empty {
			return
		}
		p := gen.cat.Points[v]
		sum[0] += p[0]
		sum[1] += p[1]
		sum[2] += p[2]
		count++
	})
	if count == 0 {
		panic("smoke: desired color of a cell with no filled neighbors")
	}
	return [3]float64{
		sum[0] / float64(count),
		sum[1] / float64(count),
		sum[2] / float64(count),
	}
}

func (gen *Generator) report(placed, total int) {
	if gen.progress == nil {
		return
	}
	if placed == total || placed%progressStride == 0 {
		gen.progress(placed, total)
	}
}

// Grid returns the board. Treat it as read-only; it reflects the
// finished image only after Run returns.
func (gen *Generator) Grid() *Grid {
	return gen.grid
}

// PlacementStats returns counters from the placement loop: cells
// filled, the largest frontier seen, and how many desired-color
// recomputations the frontier absorbed.
func (gen *Generator) PlacementStats() (placed, frontierPeak, recomputes int) {
	return gen.placed, gen.frontierPeak, gen.recomputes
}
