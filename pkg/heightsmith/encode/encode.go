// Package encode quantizes an elevation grid into heightmap samples.
package encode

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
)

// ErrInvalidBitDepth indicates a bit depth other than 8 or 16.
var ErrInvalidBitDepth = errors.New("bit depth must be 8 or 16")

// ValidBitDepth reports whether bits is a supported output depth.
func ValidBitDepth(bits int) bool {
	return bits == 8 || bits == 16
}

// Encode maps the grid's elevation range linearly onto
// [0, 2^bitDepth - 1] and flips rows so that row 0 of the heightmap is the
// northernmost row. A flat grid encodes to all zeros.
func Encode(g *models.ElevationGrid, bitDepth int) (*models.Heightmap, error) {
	if !ValidBitDepth(bitDepth) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBitDepth, bitDepth)
	}

	hm := &models.Heightmap{
		Width:    g.Cols,
		Height:   g.Rows,
		BitDepth: bitDepth,
		Pix:      make([]uint16, g.Cols*g.Rows),
	}
	if len(g.Values) == 0 {
		return hm, nil
	}

	lo, hi := floats.Min(g.Values), floats.Max(g.Values)
	hm.Min, hm.Max = lo, hi
	if hi == lo {
		return hm, nil
	}

	top := float64(hm.MaxValue())
	span := hi - lo
	for r := 0; r < g.Rows; r++ {
		y := g.Rows - 1 - r
		for c := 0; c < g.Cols; c++ {
			q := math.Round((g.At(r, c) - lo) / span * top)
			hm.Pix[y*hm.Width+c] = uint16(math.Max(0, math.Min(top, q)))
		}
	}
	return hm, nil
}
