package output

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
)

// previewColors is the number of palette steps in a preview.
const previewColors = 64

// gridXYZ adapts an ElevationGrid to plotter.GridXYZ. X and Y are cell
// centres in National Grid meters.
type gridXYZ struct {
	g *models.ElevationGrid
}

func (p gridXYZ) Dims() (c, r int)   { return p.g.Cols, p.g.Rows }
func (p gridXYZ) Z(c, r int) float64 { return p.g.At(r, c) }
func (p gridXYZ) X(c int) float64 {
	return p.g.OriginE + (float64(c)+0.5)*p.g.CellSize
}
func (p gridXYZ) Y(r int) float64 {
	return p.g.OriginN + (float64(r)+0.5)*p.g.CellSize
}

// WritePreview renders g as a colour-ramped plot with National Grid axes.
// The image format follows the file extension (png, svg, pdf, ...).
func WritePreview(path string, g *models.ElevationGrid, title string) error {
	if g.Cols == 0 || g.Rows == 0 {
		return fmt.Errorf("preview: empty grid")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Easting (m)"
	p.Y.Label.Text = "Northing (m)"

	hm := plotter.NewHeatMap(gridXYZ{g}, palette.Heat(previewColors, 1))
	if hm.Max == hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save preview: %w", err)
	}
	return nil
}
