// Package gridref resolves OS National Grid references into coordinates and
// the Terrain 50 tiles covering an area around them.
package gridref

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
)

// ErrInvalidGridReference indicates a malformed grid reference string.
var ErrInvalidGridReference = errors.New("invalid grid reference")

// letters is the OS 5x5 letter matrix read row by row; "I" is not used.
const letters = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

const (
	squareSize = 100000
	// National Grid extent in 100 km squares.
	maxSquaresE = 7
	maxSquaresN = 13
	maxDigits   = 10
)

// Parse parses a grid reference such as "ST1876" or "st 18 76".
func Parse(ref string) (models.GridReference, error) {
	s := strings.ToUpper(strings.ReplaceAll(ref, " ", ""))
	if len(s) < 2 {
		return models.GridReference{}, fmt.Errorf("%w: %q: too short", ErrInvalidGridReference, ref)
	}

	square, digits := s[:2], s[2:]
	e100, n100, ok := squareOffset(square)
	if !ok {
		return models.GridReference{}, fmt.Errorf("%w: %q: unknown grid square %s", ErrInvalidGridReference, ref, square)
	}

	for _, r := range digits {
		if r < '0' || r > '9' {
			return models.GridReference{}, fmt.Errorf("%w: %q: non-numeric digits", ErrInvalidGridReference, ref)
		}
	}
	if len(digits)%2 != 0 {
		return models.GridReference{}, fmt.Errorf("%w: %q: odd number of digits (%d)", ErrInvalidGridReference, ref, len(digits))
	}
	if len(digits) > maxDigits {
		return models.GridReference{}, fmt.Errorf("%w: %q: more than %d digits", ErrInvalidGridReference, ref, maxDigits)
	}

	half := len(digits) / 2
	precision := pow10(5 - half)
	easting := e100 * squareSize
	northing := n100 * squareSize
	if half > 0 {
		de, _ := strconv.Atoi(digits[:half])
		dn, _ := strconv.Atoi(digits[half:])
		easting += de * precision
		northing += dn * precision
	}

	return models.GridReference{
		Letters:   square,
		Digits:    digits,
		Easting:   easting,
		Northing:  northing,
		Precision: precision,
	}, nil
}

// squareOffset maps a two-letter code to its 100 km square indices.
func squareOffset(square string) (e100, n100 int, ok bool) {
	l1 := strings.IndexByte(letters, square[0])
	l2 := strings.IndexByte(letters, square[1])
	if l1 < 0 || l2 < 0 {
		return 0, 0, false
	}
	e100 = ((l1-2)%5+5)%5*5 + l2%5
	n100 = (19 - l1/5*5) - l2/5
	if e100 < 0 || e100 >= maxSquaresE || n100 < 0 || n100 >= maxSquaresN {
		return 0, 0, false
	}
	return e100, n100, true
}

// squareCode returns the two-letter code of the 100 km square at the given
// indices, or false when they fall outside the National Grid.
func squareCode(e100, n100 int) (string, bool) {
	if e100 < 0 || e100 >= maxSquaresE || n100 < 0 || n100 >= maxSquaresN {
		return "", false
	}
	l1 := (19 - n100) - (19-n100)%5 + (e100+10)/5
	l2 := (19-n100)*5%25 + e100%5
	return string([]byte{letters[l1], letters[l2]}), true
}

// TileAt returns the tile containing the point (easting, northing).
func TileAt(easting, northing float64) (models.TileID, bool) {
	e := int(math.Floor(easting / models.TileSize))
	n := int(math.Floor(northing / models.TileSize))
	return tileID(e, n)
}

func tileID(e, n int) (models.TileID, bool) {
	if e < 0 || n < 0 {
		return models.TileID{}, false
	}
	code, ok := squareCode(e/10, n/10)
	if !ok {
		return models.TileID{}, false
	}
	return models.TileID{Square: strings.ToLower(code), E: e, N: n}, true
}

// TileName returns the Terrain 50 tile name (e.g. "st17") for a point.
func TileName(easting, northing float64) (string, error) {
	id, ok := TileAt(easting, northing)
	if !ok {
		return "", fmt.Errorf("coordinates outside the national grid: %.0f, %.0f", easting, northing)
	}
	return id.Name(), nil
}

// Bounds returns the square area of sizeKm centred on the reference anchor.
func Bounds(ref models.GridReference, sizeKm int) models.Bounds {
	half := float64(sizeKm) * 1000 / 2
	return models.Bounds{
		MinE: float64(ref.Easting) - half,
		MinN: float64(ref.Northing) - half,
		MaxE: float64(ref.Easting) + half,
		MaxN: float64(ref.Northing) + half,
	}
}

// RequiredTiles returns every tile whose footprint intersects the area of
// sizeKm around ref, sorted by name. Tiles off the National Grid are skipped.
func RequiredTiles(ref models.GridReference, sizeKm int) []models.TileID {
	return TilesIn(Bounds(ref, sizeKm))
}

// TilesIn returns the tiles whose footprint touches the closed box b,
// sorted by name. A tile that only shares the east or north edge is
// included even though it contributes no grid cells.
func TilesIn(b models.Bounds) []models.TileID {
	e0 := int(math.Floor(b.MinE / models.TileSize))
	e1 := int(math.Floor(b.MaxE / models.TileSize))
	n0 := int(math.Floor(b.MinN / models.TileSize))
	n1 := int(math.Floor(b.MaxN / models.TileSize))

	var ids []models.TileID
	for e := e0; e <= e1; e++ {
		for n := n0; n <= n1; n++ {
			if id, ok := tileID(e, n); ok {
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Name() < ids[j].Name() })
	return ids
}

// TileNames returns the names of ids in order.
func TileNames(ids []models.TileID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name()
	}
	return names
}

func pow10(n int) int {
	p := 1
	for ; n > 0; n-- {
		p *= 10
	}
	return p
}
