package models

import "fmt"

// TileSize is the side of one OS Terrain 50 tile in meters.
const TileSize = 10000

// DefaultCellSize is the Terrain 50 cell resolution in meters.
const DefaultCellSize = 50.0

// TileID identifies one 10 km elevation tile.
type TileID struct {
	// Square is the lower-case 100 km square code (e.g. "st").
	Square string
	// E is the global tile column (easting / TileSize).
	E int
	// N is the global tile row (northing / TileSize).
	N int
}

// Name returns the conventional tile name, e.g. "st17".
func (t TileID) Name() string {
	return fmt.Sprintf("%s%d%d", t.Square, t.E%10, t.N%10)
}

// Origin returns the south-west corner of the tile footprint in meters.
func (t TileID) Origin() (easting, northing float64) {
	return float64(t.E * TileSize), float64(t.N * TileSize)
}

func (t TileID) String() string { return t.Name() }

// TileHeader holds the ASCII Grid header of one tile.
type TileHeader struct {
	NCols     int
	NRows     int
	XLLCorner float64
	YLLCorner float64
	CellSize  float64
	NoData    float64
}

// SameGeometry reports whether two headers share cell size and dimensions.
func (h TileHeader) SameGeometry(o TileHeader) bool {
	return h.NCols == o.NCols && h.NRows == o.NRows && h.CellSize == o.CellSize
}

// TileData is the loaded content of one tile. A nil *TileData, or one with
// Present == false, means the archive has no entry for the tile.
type TileData struct {
	// ID is the tile this data belongs to.
	ID TileID
	// Present is false when the tile is absent from the archive.
	Present bool
	// Header is the parsed ASCII Grid header (zero when absent).
	Header TileHeader
	// Values holds NRows*NCols elevations in file order: row 0 is the
	// northernmost row.
	Values []float64
}

// Absent returns TileData marking id as not found.
func Absent(id TileID) *TileData {
	return &TileData{ID: id}
}

// At returns the value at file row r and column c.
func (t *TileData) At(r, c int) float64 {
	return t.Values[r*t.Header.NCols+c]
}

// IsNoData reports whether v is the tile's NODATA sentinel.
func (t *TileData) IsNoData(v float64) bool {
	return v == t.Header.NoData
}
