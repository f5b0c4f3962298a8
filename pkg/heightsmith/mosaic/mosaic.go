// Package mosaic lays elevation tiles into one grid aligned to National Grid
// coordinates.
package mosaic

import (
	"errors"
	"fmt"
	"math"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
)

// ErrUnevenArea indicates an area whose side is not a whole number of cells.
var ErrUnevenArea = errors.New("area is not a whole number of cells")

// ErrMisaligned indicates a tile whose origin or cell size does not fit the
// grid lattice.
var ErrMisaligned = errors.New("tile does not align with the grid")

const epsilon = 1e-6

// TileSource supplies tile data by id.
type TileSource interface {
	Get(id models.TileID) (*models.TileData, error)
}

// Config controls assembly.
type Config struct {
	// CellSize is the grid resolution in meters. Zero selects
	// models.DefaultCellSize.
	CellSize float64
	// ZeroFill sets every missing cell to zero and clears the mask once all
	// tiles are placed.
	ZeroFill bool
}

// Stats summarises an assembly.
type Stats struct {
	Present     int
	Absent      int
	NoDataCells int
	// ZeroFilled counts cells set to zero by Config.ZeroFill.
	ZeroFilled int
	Tiles      []models.TileStatus
}

// Assemble builds the grid covering b from the tiles ids, fetched from src.
// Cells not covered by a present tile, and NODATA cells, are marked missing
// unless cfg.ZeroFill is set.
func Assemble(src TileSource, ids []models.TileID, b models.Bounds, cfg Config) (*models.ElevationGrid, Stats, error) {
	var stats Stats

	cs := cfg.CellSize
	if cs <= 0 {
		cs = models.DefaultCellSize
	}
	cols, okC := wholeCells(b.Width(), cs)
	rows, okR := wholeCells(b.Height(), cs)
	if !okC || !okR || cols <= 0 || rows <= 0 {
		return nil, stats, fmt.Errorf("%w: %gx%g m at %g m cells", ErrUnevenArea, b.Width(), b.Height(), cs)
	}

	// Snap the origin onto the cell lattice so cells line up with tiles.
	originE := math.Floor(b.MinE/cs) * cs
	originN := math.Floor(b.MinN/cs) * cs
	grid := models.NewElevationGrid(cols, rows, cs, originE, originN)

	for _, id := range ids {
		td, err := src.Get(id)
		if err != nil {
			return nil, stats, err
		}
		status := models.TileStatus{Name: id.Name()}
		if td == nil || !td.Present {
			stats.Absent++
			stats.Tiles = append(stats.Tiles, status)
			continue
		}
		n, err := place(grid, td)
		if err != nil {
			return nil, stats, fmt.Errorf("tile %s: %w", id.Name(), err)
		}
		status.Present = true
		status.NoDataCells = n
		stats.Present++
		stats.NoDataCells += n
		stats.Tiles = append(stats.Tiles, status)
	}

	if cfg.ZeroFill {
		stats.ZeroFilled = grid.ZeroMissing()
	}

	return grid, stats, nil
}

// place copies td into grid, flipping the tile's north-first rows into the
// grid's south-first order. It returns the number of NODATA cells that fell
// inside the grid.
func place(grid *models.ElevationGrid, td *models.TileData) (int, error) {
	h := td.Header
	if math.Abs(h.CellSize-grid.CellSize) > epsilon {
		return 0, fmt.Errorf("%w: cell size %g, grid uses %g", ErrMisaligned, h.CellSize, grid.CellSize)
	}
	colOff, okC := wholeCells(h.XLLCorner-grid.OriginE, grid.CellSize)
	rowOff, okR := wholeCells(h.YLLCorner-grid.OriginN, grid.CellSize)
	if !okC || !okR {
		return 0, fmt.Errorf("%w: origin (%g, %g)", ErrMisaligned, h.XLLCorner, h.YLLCorner)
	}

	c0 := max(0, -colOff)
	c1 := min(h.NCols, grid.Cols-colOff)

	nodata := 0
	for fr := 0; fr < h.NRows; fr++ {
		gr := rowOff + h.NRows - 1 - fr
		if gr < 0 || gr >= grid.Rows {
			continue
		}
		for fc := c0; fc < c1; fc++ {
			v := td.At(fr, fc)
			if td.IsNoData(v) {
				nodata++
				continue
			}
			grid.Set(gr, colOff+fc, v)
		}
	}
	return nodata, nil
}

// wholeCells returns length/cellSize when it is an integer.
func wholeCells(length, cellSize float64) (int, bool) {
	n := length / cellSize
	r := math.Round(n)
	if math.Abs(n-r) > epsilon {
		return 0, false
	}
	return int(r), true
}
