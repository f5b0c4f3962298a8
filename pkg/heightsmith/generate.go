package heightsmith

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/archive"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/encode"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/fill"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/gridref"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/mosaic"
)

// Result holds everything one generation run produced.
type Result struct {
	Reference models.GridReference
	SizeKm    int
	Bounds    models.Bounds
	// Tiles lists each required tile in name order.
	Tiles     []models.TileStatus
	Grid      *models.ElevationGrid
	Heightmap *models.Heightmap
	Assembly  mosaic.Stats
	Fill      fill.Stats
	// Warnings holds non-fatal diagnostics such as ErrAllTilesMissing.
	Warnings []error
}

// Coverage returns the fraction of the area backed by present tiles,
// counting NODATA cells as uncovered.
func (r *Result) Coverage() float64 {
	if r.Grid == nil || len(r.Grid.Values) == 0 {
		return 0
	}
	missing := r.Fill.Filled + r.Assembly.ZeroFilled
	return 1 - float64(missing)/float64(len(r.Grid.Values))
}

// tileLoader is the part of archive.Repository the pipeline needs.
type tileLoader interface {
	mosaic.TileSource
	LoadAll(ids []models.TileID, workers int) (map[string]*models.TileData, error)
	CellSize() float64
}

// Generate builds the heightmap for ref from the terrain archive at
// archivePath. Nothing is written to disk.
func Generate(archivePath, ref string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	gr, err := gridref.Parse(ref)
	if err != nil {
		return nil, err
	}

	repo, err := archive.Open(archivePath, opts.logger())
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	return run(repo, gr, opts)
}

func run(src tileLoader, gr models.GridReference, opts Options) (*Result, error) {
	log := opts.logger().With("ref", gr.String())

	bounds := gridref.Bounds(gr, opts.SizeKm)
	ids := gridref.RequiredTiles(gr, opts.SizeKm)
	log.Debug("resolved area", "tiles", strings.Join(gridref.TileNames(ids), ","),
		"min_e", bounds.MinE, "min_n", bounds.MinN)

	if _, err := src.LoadAll(ids, opts.Workers); err != nil {
		return nil, err
	}

	method := opts.method()
	grid, astats, err := mosaic.Assemble(src, ids, bounds, mosaic.Config{
		CellSize: src.CellSize(),
		ZeroFill: method == fill.MethodNone,
	})
	if err != nil {
		return nil, err
	}
	log.Info("mosaic assembled",
		"present", astats.Present, "absent", astats.Absent,
		"nodata", astats.NoDataCells, "cols", grid.Cols, "rows", grid.Rows)

	fstats, err := fill.Fill(grid, method)
	if err != nil {
		return nil, err
	}
	if fstats.Filled > 0 {
		log.Info("gaps filled", "method", method.String(), "cells", fstats.Filled)
	}

	hm, err := encode.Encode(grid, opts.BitDepth)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Reference: gr,
		SizeKm:    opts.SizeKm,
		Bounds:    bounds,
		Tiles:     astats.Tiles,
		Grid:      grid,
		Heightmap: hm,
		Assembly:  astats,
		Fill:      fstats,
	}
	if astats.Present == 0 || fstats.Degenerate {
		w := fmt.Errorf("%w: no elevation data around %s", ErrAllTilesMissing, gr)
		res.Warnings = append(res.Warnings, w)
		log.Warn("output is flat", "err", w)
	}
	return res, nil
}

// Inspect resolves ref and the tiles an area of sizeKm around it needs,
// without opening any archive.
func Inspect(ref string, sizeKm int) (*models.AreaInfo, error) {
	if err := validSize(sizeKm); err != nil {
		return nil, err
	}
	gr, err := gridref.Parse(ref)
	if err != nil {
		return nil, err
	}
	return &models.AreaInfo{
		Reference: gr.String(),
		Easting:   gr.Easting,
		Northing:  gr.Northing,
		Precision: gr.Precision,
		SizeKm:    sizeKm,
		Bounds:    gridref.Bounds(gr, sizeKm),
		Tiles:     gridref.TileNames(gridref.RequiredTiles(gr, sizeKm)),
	}, nil
}

// DefaultOutputPath returns dir/<ref>_<size>km.png with the reference in
// lower case.
func DefaultOutputPath(dir string, ref models.GridReference, sizeKm int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%dkm.png", strings.ToLower(ref.String()), sizeKm))
}
