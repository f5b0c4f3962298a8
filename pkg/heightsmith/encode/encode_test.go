package encode

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
)

func gridOf(cols, rows int, values ...float64) *models.ElevationGrid {
	g := models.NewElevationGrid(cols, rows, 50, 0, 0)
	for i, v := range values {
		g.Values[i] = v
		g.Missing[i] = false
	}
	return g
}

func TestEncodeInvalidBitDepth(t *testing.T) {
	for _, bits := range []int{0, 1, 12, 24, 32} {
		_, err := Encode(gridOf(1, 1, 5), bits)
		assert.ErrorIs(t, err, ErrInvalidBitDepth, "bits=%d", bits)
	}
}

func TestEncode8Bit(t *testing.T) {
	// Row 0 (south) = 0, 50, 100; row 1 (north) = 150, 200, 250.
	g := gridOf(3, 2, 0, 50, 100, 150, 200, 250)

	hm, err := Encode(g, 8)
	require.NoError(t, err)

	assert.Equal(t, 3, hm.Width)
	assert.Equal(t, 2, hm.Height)
	assert.Equal(t, 0.0, hm.Min)
	assert.Equal(t, 250.0, hm.Max)
	// North row first.
	want := []uint16{153, 204, 255, 0, 51, 102}
	if diff := cmp.Diff(want, hm.Pix); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode16Bit(t *testing.T) {
	g := gridOf(3, 2, 0, 500, 1000, 1500, 2000, 2500)

	hm, err := Encode(g, 16)
	require.NoError(t, err)

	assert.Equal(t, uint16(65535), hm.MaxValue())
	assert.Equal(t, uint16(65535), hm.At(2, 0))
	assert.Equal(t, uint16(0), hm.At(0, 1))
	assert.Equal(t, uint16(13107), hm.At(1, 1))
}

func TestEncodeFlat(t *testing.T) {
	g := gridOf(4, 3, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42, 42)

	for _, bits := range []int{8, 16} {
		hm, err := Encode(g, bits)
		require.NoError(t, err)
		assert.Equal(t, 4, hm.Width)
		assert.Equal(t, 3, hm.Height)
		assert.Equal(t, make([]uint16, 12), hm.Pix)
	}
}

func TestEncodeNegativeElevations(t *testing.T) {
	g := gridOf(2, 1, -3.5, 12)

	hm, err := Encode(g, 8)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 255}, hm.Pix)
}

func TestEncodeRangeAndMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, bits := range []int{8, 16} {
		g := models.NewElevationGrid(23, 19, 50, 0, 0)
		for i := range g.Values {
			// Duplicates are likely at this resolution.
			g.Values[i] = float64(rng.Intn(400)) - 50
			g.Missing[i] = false
		}

		hm, err := Encode(g, bits)
		require.NoError(t, err)

		type pair struct {
			v float64
			q uint16
		}
		pairs := make([]pair, 0, len(g.Values))
		for r := 0; r < g.Rows; r++ {
			for c := 0; c < g.Cols; c++ {
				q := hm.At(c, g.Rows-1-r)
				assert.LessOrEqual(t, q, hm.MaxValue())
				pairs = append(pairs, pair{g.At(r, c), q})
			}
		}

		sort.Slice(pairs, func(i, j int) bool { return pairs[i].v < pairs[j].v })
		for i := 1; i < len(pairs); i++ {
			if pairs[i].q < pairs[i-1].q {
				t.Fatalf("bits=%d: %v -> %d but %v -> %d", bits, pairs[i-1].v, pairs[i-1].q, pairs[i].v, pairs[i].q)
			}
		}
		assert.Equal(t, uint16(0), pairs[0].q)
		assert.Equal(t, hm.MaxValue(), pairs[len(pairs)-1].q)
	}
}
