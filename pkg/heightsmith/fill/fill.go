package fill

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
)

// Stats summarises a fill.
type Stats struct {
	Method Method
	// Filled counts cells that were estimated or zeroed.
	Filled int
	// Degenerate is set when the grid had no valid cell and was zeroed.
	Degenerate bool
}

// Fill estimates every missing cell of g with method m and clears the mask.
// Only cells valid on entry are used as sources. MethodNone is a no-op.
func Fill(g *models.ElevationGrid, m Method) (Stats, error) {
	stats := Stats{Method: m}

	var estimate func(f *filler, r, c int) float64
	switch m {
	case MethodNone:
		return stats, nil
	case MethodNearest:
		estimate = (*filler).nearest
	case MethodLinear:
		estimate = (*filler).linear
	case MethodCubic:
		estimate = (*filler).cubic
	default:
		return stats, fmt.Errorf("%w: %v", ErrInvalidMethod, m)
	}

	missing := g.MissingCount()
	if missing == 0 {
		return stats, nil
	}
	if missing == len(g.Values) {
		stats.Filled = g.ZeroMissing()
		stats.Degenerate = true
		return stats, nil
	}

	// Estimates are buffered so that filled cells never feed later ones.
	f := newFiller(g)
	type cell struct {
		i int
		v float64
	}
	out := make([]cell, 0, missing)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.IsMissing(r, c) {
				out = append(out, cell{g.Index(r, c), estimate(f, r, c)})
			}
		}
	}
	for _, e := range out {
		g.Values[e.i] = e.v
		g.Missing[e.i] = false
	}
	stats.Filled = len(out)
	return stats, nil
}

// filler holds lookup tables over the cells valid on entry.
type filler struct {
	g *models.ElevationGrid
	// left and right hold, per cell, the nearest valid column at or
	// left/right of it in the same row, or -1.
	left  []int
	right []int
}

func newFiller(g *models.ElevationGrid) *filler {
	f := &filler{
		g:     g,
		left:  make([]int, len(g.Values)),
		right: make([]int, len(g.Values)),
	}
	for r := 0; r < g.Rows; r++ {
		last := -1
		for c := 0; c < g.Cols; c++ {
			if !g.IsMissing(r, c) {
				last = c
			}
			f.left[g.Index(r, c)] = last
		}
		last = -1
		for c := g.Cols - 1; c >= 0; c-- {
			if !g.IsMissing(r, c) {
				last = c
			}
			f.right[g.Index(r, c)] = last
		}
	}
	return f
}

// nearest returns the value of the valid cell closest to (r, c) by
// Euclidean distance; ties go to the smallest (row, col).
func (f *filler) nearest(r, c int) float64 {
	g := f.g
	bestD := math.MaxInt
	bestR, bestC := -1, -1

	consider := func(rr, cc int) {
		if cc < 0 {
			return
		}
		d := (rr-r)*(rr-r) + (cc-c)*(cc-c)
		if d < bestD || (d == bestD && (rr < bestR || (rr == bestR && cc < bestC))) {
			bestD, bestR, bestC = d, rr, cc
		}
	}

	for dr := 0; dr*dr <= bestD; dr++ {
		if r-dr < 0 && r+dr >= g.Rows {
			break
		}
		for j, rr := range [2]int{r - dr, r + dr} {
			if j == 1 && dr == 0 {
				break
			}
			if rr < 0 || rr >= g.Rows {
				continue
			}
			i := g.Index(rr, c)
			consider(rr, f.left[i])
			consider(rr, f.right[i])
		}
	}
	return g.At(bestR, bestC)
}

var rays = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// linear blends the first valid cell along each ray from (r, c), weighted by
// inverse distance. Along a single axis this is linear interpolation between
// the two bracketing cells.
func (f *filler) linear(r, c int) float64 {
	g := f.g
	var sum, weights float64
	for _, d := range rays {
		step := math.Hypot(float64(d[0]), float64(d[1]))
		for k := 1; ; k++ {
			rr, cc := r+k*d[0], c+k*d[1]
			if rr < 0 || rr >= g.Rows || cc < 0 || cc >= g.Cols {
				break
			}
			if !g.IsMissing(rr, cc) {
				w := 1 / (float64(k) * step)
				sum += w * g.At(rr, cc)
				weights += w
				break
			}
		}
	}
	if weights == 0 {
		return f.nearest(r, c)
	}
	return sum / weights
}

// cubicReach is the number of valid samples taken on each side of a cell.
const cubicReach = 2

// cubic fits an Akima spline through the valid samples bracketing (r, c)
// along its row and along its column and averages the axes that bracket the
// cell. Cells bracketed on neither axis fall back to linear.
func (f *filler) cubic(r, c int) float64 {
	g := f.g
	var sum float64
	n := 0

	row := func(k int) (float64, bool) {
		if k < 0 || k >= g.Cols || g.IsMissing(r, k) {
			return 0, false
		}
		return g.At(r, k), true
	}
	col := func(k int) (float64, bool) {
		if k < 0 || k >= g.Rows || g.IsMissing(k, c) {
			return 0, false
		}
		return g.At(k, c), true
	}

	if v, ok := splineAt(c, g.Cols, row); ok {
		sum += v
		n++
	}
	if v, ok := splineAt(r, g.Rows, col); ok {
		sum += v
		n++
	}
	if n == 0 {
		return f.linear(r, c)
	}
	return sum / float64(n)
}

// splineAt interpolates at position x of a line of length n whose valid
// samples are reported by sample. It needs at least one sample on each side.
func splineAt(x, n int, sample func(int) (float64, bool)) (float64, bool) {
	var before, after []int
	for k := x - 1; k >= 0 && len(before) < cubicReach; k-- {
		if _, ok := sample(k); ok {
			before = append(before, k)
		}
	}
	for k := x + 1; k < n && len(after) < cubicReach; k++ {
		if _, ok := sample(k); ok {
			after = append(after, k)
		}
	}
	if len(before) == 0 || len(after) == 0 {
		return 0, false
	}

	xs := make([]float64, 0, len(before)+len(after))
	ys := make([]float64, 0, len(before)+len(after))
	for i := len(before) - 1; i >= 0; i-- {
		v, _ := sample(before[i])
		xs = append(xs, float64(before[i]))
		ys = append(ys, v)
	}
	for _, k := range after {
		v, _ := sample(k)
		xs = append(xs, float64(k))
		ys = append(ys, v)
	}

	if len(xs) == 2 {
		t := (float64(x) - xs[0]) / (xs[1] - xs[0])
		return ys[0] + t*(ys[1]-ys[0]), true
	}

	var as interp.AkimaSpline
	if err := as.Fit(xs, ys); err != nil {
		return 0, false
	}
	return as.Predict(float64(x)), true
}
