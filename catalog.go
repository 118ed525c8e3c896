package smoke

import (
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// RGB represents a color in the RGB color space with 8-bit channels,
// where each channel ranges from 0 to 255. Grid cells store catalog
// indices; the catalog maps them back to RGB only at emission time.
type RGB struct {
	R, G, B uint8
}

// Catalog is the full set of colors to place, in processing order, each
// paired with its coordinate in a perceptually uniform color space.
// Index i is at once the processing iteration, the value stored in the
// grid, and the row in both slices. Immutable after NewCatalog.
type Catalog struct {
	Colors []RGB
	Points [][3]float64
}

// AllColors enumerates every color representable with the given number
// of bits per channel, channel-major, with channel values spread over
// the full 0-255 range. Only depths whose catalog size is a perfect
// square power of two (2, 4, 6, or 8 bits) are accepted, so that a
// square grid can hold the catalog exactly.
func AllColors(bits int) ([]RGB, error) {
	switch bits {
	case 2, 4, 6, 8:
	default:
		return nil, errors.Errorf(
			"unsupported channel depth %d: must be 2, 4, 6, or 8", bits)
	}

	levels := 1 << bits
	colors := make([]RGB, 0, levels*levels*levels)
	for r := 0; r < levels; r++ {
		for g := 0; g < levels; g++ {
			for b := 0; b < levels; b++ {
				colors = append(colors, RGB{
					R: scaleChannel(r, levels),
					G: scaleChannel(g, levels),
					B: scaleChannel(b, levels),
				})
			}
		}
	}
	return colors, nil
}

// scaleChannel spreads level v of n onto 0-255 with exact endpoints.
func scaleChannel(v, n int) uint8 {
	return uint8(v * 255 / (n - 1))
}

// NewCatalog computes the perceptual coordinate of every color in the
// given processing order. Coordinates are CIE Lab as produced by
// go-colorful; squared Euclidean distance over them approximates
// perceived color difference, which is all the placement loop needs.
//
// Note: converting the full 8-bit catalog (16.7 million colors) takes a
// few seconds; it happens once, before the placement loop starts.
func NewCatalog(colors []RGB) *Catalog {
	points := make([][3]float64, len(colors))
	for i, c := range colors {
		l, a, b := colorful.Color{
			R: float64(c.R) / 255.0,
			G: float64(c.G) / 255.0,
			B: float64(c.B) / 255.0,
		}.Lab()
		points[i] = [3]float64{l, a, b}
	}
	return &Catalog{Colors: colors, Points: points}
}

// NewFullCatalog builds the exhaustive catalog at the given channel
// depth, shuffles the processing order with rng, and converts it.
func NewFullCatalog(bits int, rng *rand.Rand) (*Catalog, error) {
	colors, err := AllColors(bits)
	if err != nil {
		return nil, err
	}
	rng.Shuffle(len(colors), func(i, j int) {
		colors[i], colors[j] = colors[j], colors[i]
	})
	return NewCatalog(colors), nil
}

// Len returns the number of colors in the catalog.
func (c *Catalog) Len() int {
	return len(c.Colors)
}
