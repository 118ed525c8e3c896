package smoke

import "math/bits"

// Empty marks a grid cell that has not been assigned a catalog index yet.
const Empty int32 = -1

// neighborOffsets is the 8-neighborhood in the fixed order shared by
// every neighbor walk. Correctness does not depend on the order, but
// frontier tie-breaking is only reproducible if all call sites agree.
var neighborOffsets = [8][2]int{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {-1, -1}, {-1, 1}, {1, -1},
}

// Grid is a square board of cells, each either Empty or holding a
// catalog index. Cells are stored row-major in a flat slice; one int32
// per cell keeps the full-scale board (4096x4096) at 64 MB. A cell is
// written at most once: placement never reconsiders a filled cell.
type Grid struct {
	side   int
	yshift uint
	filled int
	cells  []int32
}

// NewGrid creates an all-empty grid with the given side length.
// Sides up to 65536 fit the packed-key scheme.
func NewGrid(side int) *Grid {
	if side < 1 {
		panic("smoke: grid side must be positive")
	}
	cells := make([]int32, side*side)
	for i := range cells {
		cells[i] = Empty
	}
	return &Grid{
		side:   side,
		yshift: uint(bits.Len(uint(side - 1))),
		cells:  cells,
	}
}

// Side returns the side length of the grid.
func (g *Grid) Side() int {
	return g.side
}

// Filled returns the number of cells holding a catalog index.
func (g *Grid) Filled() int {
	return g.filled
}

// Center returns the seed coordinate for placement.
func (g *Grid) Center() (x, y int) {
	return g.side / 2, g.side / 2
}

// At returns the value of cell (x, y).
func (g *Grid) At(x, y int) int32 {
	return g.cells[y*g.side+x]
}

// Cells exposes the backing slice for whole-grid scans (rendering,
// integrity checking). Callers must not write through it.
func (g *Grid) Cells() []int32 {
	return g.cells
}

// Set assigns a catalog index to cell (x, y). Filling a cell twice is a
// bug in the caller, never a recoverable condition, so it panics.
func (g *Grid) Set(x, y int, idx int32) {
	i := y*g.side + x
	if g.cells[i] != Empty {
		panic("smoke: cell already filled")
	}
	g.cells[i] = idx
	g.filled++
}

// EachNeighbor calls fn for every in-bounds 8-neighbor of (x, y), in
// the fixed offset order, with the neighbor's current cell value.
func (g *Grid) EachNeighbor(x, y int, fn func(nx, ny int, v int32)) {
	for _, d := range neighborOffsets {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || nx >= g.side || ny < 0 || ny >= g.side {
			continue
		}
		fn(nx, ny, g.cells[ny*g.side+nx])
	}
}

// EachEmptyNeighbor calls fn for every in-bounds empty 8-neighbor of (x, y).
func (g *Grid) EachEmptyNeighbor(x, y int, fn func(nx, ny int)) {
	g.EachNeighbor(x, y, func(nx, ny int, v int32) {
		if v == Empty {
			fn(nx, ny)
		}
	})
}

// Pack encodes a coordinate as a single key for the frontier index.
// The y component occupies the low bits, sized to the grid side, so
// Pack and Unpack are mutual inverses over the whole board.
func (g *Grid) Pack(x, y int) uint32 {
	return uint32(x)<<g.yshift | uint32(y)
}

// Unpack decodes a key produced by Pack.
func (g *Grid) Unpack(key uint32) (x, y int) {
	mask := uint32(1)<<g.yshift - 1
	return int(key >> g.yshift), int(key & mask)
}
