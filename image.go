package smoke

import (
	"github.com/kevinastock/rainbow-smoke/imageutil"
	"github.com/pkg/errors"
)

// RenderImage converts a completed grid into pixels by looking every
// cell's index back up in the catalog. An empty or out-of-range cell
// means placement did not finish cleanly and is reported as an error
// rather than painted over.
func RenderImage(g *Grid, cat *Catalog) (*imageutil.RGBAImage, error) {
	side := g.Side()
	img := imageutil.NewRGBAImage(side, side)
	cells := g.Cells()
	n := int32(cat.Len())
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			v := cells[y*side+x]
			if v == Empty {
				return nil, errors.Errorf("cell (%d,%d) was never filled", x, y)
			}
			if v < 0 || v >= n {
				return nil, errors.Errorf(
					"cell (%d,%d) holds index %d outside the catalog", x, y, v)
			}
			c := cat.Colors[v]
			img.SetRGB(x, y, imageutil.RGB{R: c.R, G: c.G, B: c.B})
		}
	}
	return img, nil
}
