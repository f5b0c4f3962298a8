package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
)

const (
	summarySheet = "Summary"
	tilesSheet   = "Tiles"
)

// Report is the content of a run report workbook.
type Report struct {
	Reference  string
	SizeKm     int
	Method     string
	Filled     int
	OutputPath string
	Grid       *models.ElevationGrid
	Heightmap  *models.Heightmap
	Tiles      []models.TileStatus
	Warnings   []string
}

// WriteReport writes r as an xlsx workbook with a Summary sheet and a
// per-tile Tiles sheet.
func WriteReport(path string, r Report) error {
	if r.Grid == nil || r.Heightmap == nil {
		return fmt.Errorf("report: missing grid or heightmap")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	mean, std := stat.MeanStdDev(r.Grid.Values, nil)
	rows := [][]any{
		{"Grid reference", r.Reference},
		{"Area (km)", r.SizeKm},
		{"Origin easting (m)", r.Grid.OriginE},
		{"Origin northing (m)", r.Grid.OriginN},
		{"Cell size (m)", r.Grid.CellSize},
		{"Width (px)", r.Heightmap.Width},
		{"Height (px)", r.Heightmap.Height},
		{"Bit depth", r.Heightmap.BitDepth},
		{"Fill method", r.Method},
		{"Cells filled", r.Filled},
		{"Min elevation (m)", floats.Min(r.Grid.Values)},
		{"Max elevation (m)", floats.Max(r.Grid.Values)},
		{"Mean elevation (m)", mean},
		{"Std dev (m)", std},
		{"Output", r.OutputPath},
	}
	for _, w := range r.Warnings {
		rows = append(rows, []any{"Warning", w})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return err
	}

	if _, err := f.NewSheet(tilesSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(tilesSheet, "A1", &[]any{"Tile", "Present", "NODATA cells"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(tilesSheet, "A1", "C1", bold); err != nil {
		return err
	}
	for i, t := range r.Tiles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(tilesSheet, cell, &[]any{t.Name, t.Present, t.NoDataCells}); err != nil {
			return err
		}
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	return f.SaveAs(path)
}
