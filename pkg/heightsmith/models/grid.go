package models

// Bounds is an area box in meters. Grid cells cover [MinE, MaxE) x
// [MinN, MaxN); tile selection treats the box as closed.
type Bounds struct {
	MinE float64 `json:"min_easting"`
	MinN float64 `json:"min_northing"`
	MaxE float64 `json:"max_easting"`
	MaxN float64 `json:"max_northing"`
}

// Width returns the east-west extent in meters.
func (b Bounds) Width() float64 { return b.MaxE - b.MinE }

// Height returns the north-south extent in meters.
func (b Bounds) Height() float64 { return b.MaxN - b.MinN }

// ElevationGrid is the assembled mosaic. Row 0 is the southernmost row and
// column 0 the westernmost; cell (r, c) covers
// [OriginE + c*CellSize, OriginE + (c+1)*CellSize) on the easting axis and
// the equivalent interval on the northing axis.
type ElevationGrid struct {
	Cols     int
	Rows     int
	CellSize float64
	OriginE  float64
	OriginN  float64
	// Values holds Rows*Cols elevations, row-major.
	Values []float64
	// Missing marks cells with no valid elevation. Same layout as Values.
	Missing []bool
}

// NewElevationGrid allocates a grid with every cell marked missing.
func NewElevationGrid(cols, rows int, cellSize, originE, originN float64) *ElevationGrid {
	g := &ElevationGrid{
		Cols:     cols,
		Rows:     rows,
		CellSize: cellSize,
		OriginE:  originE,
		OriginN:  originN,
		Values:   make([]float64, cols*rows),
		Missing:  make([]bool, cols*rows),
	}
	for i := range g.Missing {
		g.Missing[i] = true
	}
	return g
}

// Index returns the flat offset of cell (r, c).
func (g *ElevationGrid) Index(r, c int) int { return r*g.Cols + c }

// At returns the elevation at (r, c).
func (g *ElevationGrid) At(r, c int) float64 { return g.Values[r*g.Cols+c] }

// IsMissing reports whether (r, c) has no valid elevation.
func (g *ElevationGrid) IsMissing(r, c int) bool { return g.Missing[r*g.Cols+c] }

// Set stores a valid elevation at (r, c).
func (g *ElevationGrid) Set(r, c int, v float64) {
	i := r*g.Cols + c
	g.Values[i] = v
	g.Missing[i] = false
}

// MissingCount returns the number of cells still marked missing.
func (g *ElevationGrid) MissingCount() int {
	n := 0
	for _, m := range g.Missing {
		if m {
			n++
		}
	}
	return n
}

// ZeroMissing sets every missing cell to zero and clears the mask.
// It returns the number of cells changed.
func (g *ElevationGrid) ZeroMissing() int {
	n := 0
	for i, m := range g.Missing {
		if m {
			g.Values[i] = 0
			g.Missing[i] = false
			n++
		}
	}
	return n
}
