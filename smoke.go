// Package smoke generates allRGB images: square bitmaps holding every
// color of a discretized RGB space exactly once, arranged by greedy
// nearest-color diffusion growing outward from a seed cell until the
// board is full.
//
// A run has three phases. The catalog enumerates and shuffles the
// colors and maps them into Lab space. The generator places them one
// by one, always filling the frontier cell whose neighborhood wants
// the incoming color most. Finally the grid is rendered back to RGB
// and the every-color-once property is checked.
package smoke

import "github.com/pkg/errors"

// VerifyBijection checks the terminal grid invariant: every catalog
// index 0..n-1 appears exactly once. Cells beyond the catalog size
// stay empty on oversized grids; on an exact-fit grid a surviving
// empty cell shows up here as a missing index.
func VerifyBijection(g *Grid, n int) error {
	seen := make([]uint64, (n+63)/64)
	placed := 0
	for _, v := range g.Cells() {
		if v == Empty {
			continue
		}
		if v < 0 || int(v) >= n {
			return errors.Errorf("cell value %d outside catalog range 0..%d", v, n-1)
		}
		w, b := v/64, uint(v%64)
		if seen[w]&(1<<b) != 0 {
			return errors.Errorf("catalog index %d placed more than once", v)
		}
		seen[w] |= 1 << b
		placed++
	}
	if placed != n {
		return errors.Errorf("grid holds %d of %d catalog indices", placed, n)
	}
	return nil
}
