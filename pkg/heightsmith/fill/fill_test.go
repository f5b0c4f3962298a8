package fill

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
)

// gridOf builds a grid whose row r is rows[r]; NaN marks a missing cell.
func gridOf(rows [][]float64) *models.ElevationGrid {
	g := models.NewElevationGrid(len(rows[0]), len(rows), 50, 0, 0)
	for r, row := range rows {
		for c, v := range row {
			if !math.IsNaN(v) {
				g.Set(r, c, v)
			}
		}
	}
	return g
}

var nan = math.NaN()

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input    string
		expected Method
	}{
		{"none", MethodNone},
		{"nearest", MethodNearest},
		{"Linear", MethodLinear},
		{" cubic ", MethodCubic},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
		assert.Equal(t, tt.expected, mustRoundTrip(t, got))
	}

	_, err := ParseMethod("bicubic")
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func mustRoundTrip(t *testing.T, m Method) Method {
	t.Helper()
	text, err := m.MarshalText()
	require.NoError(t, err)
	var back Method
	require.NoError(t, back.UnmarshalText(text))
	return back
}

func TestFillNoneIsNoop(t *testing.T) {
	g := gridOf([][]float64{{1, nan}, {nan, 4}})

	stats, err := Fill(g, MethodNone)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Filled)
	assert.Equal(t, 2, g.MissingCount())
}

func TestFillInvalidMethod(t *testing.T) {
	g := gridOf([][]float64{{1, nan}})

	_, err := Fill(g, Method(42))
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestFillNearest(t *testing.T) {
	g := gridOf([][]float64{
		{1, nan, nan},
		{nan, nan, nan},
		{nan, nan, 9},
	})

	stats, err := Fill(g, MethodNearest)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Filled)

	// Equidistant cells resolve to the smallest (row, col) source.
	want := []float64{
		1, 1, 1,
		1, 1, 9,
		1, 9, 9,
	}
	if diff := cmp.Diff(want, g.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, g.MissingCount())
}

func TestFillNearestFarSource(t *testing.T) {
	rows := make([][]float64, 12)
	for r := range rows {
		rows[r] = make([]float64, 12)
		for c := range rows[r] {
			rows[r][c] = nan
		}
	}
	rows[11][0] = 5
	rows[0][11] = 7
	g := gridOf(rows)

	_, err := Fill(g, MethodNearest)
	require.NoError(t, err)

	assert.Equal(t, 5.0, g.At(10, 1))
	assert.Equal(t, 7.0, g.At(1, 10))
	// (0, 0) is equidistant; row 0 holds the earlier source.
	assert.Equal(t, 7.0, g.At(0, 0))
}

func TestFillLinear(t *testing.T) {
	g := gridOf([][]float64{{0, nan, nan, nan, 8}})

	_, err := Fill(g, MethodLinear)
	require.NoError(t, err)

	if diff := cmp.Diff([]float64{0, 2, 4, 6, 8}, g.Values, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestFillLinearSurrounded(t *testing.T) {
	g := gridOf([][]float64{
		{10, 10, 10},
		{10, nan, 10},
		{10, 10, 10},
	})

	_, err := Fill(g, MethodLinear)
	require.NoError(t, err)
	assert.InDelta(t, 10, g.At(1, 1), 1e-9)
}

func TestFillCubicReproducesLine(t *testing.T) {
	g := gridOf([][]float64{{0, 1, 2, nan, 4, 5, 6}})

	_, err := Fill(g, MethodCubic)
	require.NoError(t, err)
	assert.InDelta(t, 3, g.At(0, 3), 1e-9)
}

func TestFillCubicTwoAxes(t *testing.T) {
	// Plane z = r + c: both axes agree.
	rows := make([][]float64, 5)
	for r := range rows {
		rows[r] = make([]float64, 5)
		for c := range rows[r] {
			rows[r][c] = float64(r + c)
		}
	}
	rows[2][2] = nan
	g := gridOf(rows)

	_, err := Fill(g, MethodCubic)
	require.NoError(t, err)
	assert.InDelta(t, 4, g.At(2, 2), 1e-9)
}

func TestFillCubicFallsBackToLinear(t *testing.T) {
	// (0, 0) is bracketed on neither axis.
	g := gridOf([][]float64{
		{nan, nan},
		{nan, 4},
	})

	_, err := Fill(g, MethodCubic)
	require.NoError(t, err)
	assert.Equal(t, 0, g.MissingCount())
	assert.InDelta(t, 4, g.At(0, 0), 1e-9)
}

func TestFillAllMissing(t *testing.T) {
	for _, m := range []Method{MethodNearest, MethodLinear, MethodCubic} {
		g := models.NewElevationGrid(4, 3, 50, 0, 0)

		stats, err := Fill(g, m)
		require.NoError(t, err)
		assert.True(t, stats.Degenerate, m.String())
		assert.Equal(t, 12, stats.Filled)
		assert.Equal(t, 0, g.MissingCount())
		assert.Equal(t, make([]float64, 12), g.Values)
	}
}

func TestFillLeavesNoMissingCells(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, m := range []Method{MethodNearest, MethodLinear, MethodCubic} {
		for trial := 0; trial < 20; trial++ {
			g := models.NewElevationGrid(17, 13, 50, 0, 0)
			lo, hi := 1e9, -1e9
			for i := range g.Values {
				if rng.Float64() < 0.6 {
					continue
				}
				v := rng.Float64() * 1000
				g.Values[i] = v
				g.Missing[i] = false
				lo, hi = min(lo, v), max(hi, v)
			}

			stats, err := Fill(g, m)
			require.NoError(t, err)
			assert.Equal(t, 0, g.MissingCount(), "%v trial %d", m, trial)

			if stats.Degenerate || m == MethodCubic {
				continue
			}
			// Nearest and linear estimates are convex combinations of sources.
			for _, v := range g.Values {
				assert.GreaterOrEqual(t, v, lo-1e-9)
				assert.LessOrEqual(t, v, hi+1e-9)
			}
		}
	}
}
