package output

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
)

func sampleHeightmap(depth int) *models.Heightmap {
	top := uint16(1<<uint(depth) - 1)
	return &models.Heightmap{
		Width:    3,
		Height:   2,
		BitDepth: depth,
		Pix:      []uint16{0, top / 2, top, top, 1, 0},
		Min:      10,
		Max:      110,
	}
}

func sampleGrid() *models.ElevationGrid {
	g := models.NewElevationGrid(3, 2, 50, 318000, 176000)
	for i := range g.Values {
		g.Set(i/3, i%3, float64(i*10))
	}
	return g
}

func TestWritePNG(t *testing.T) {
	tests := []struct {
		depth int
		model string
	}{
		{8, "gray"},
		{16, "gray16"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			hm := sampleHeightmap(tt.depth)
			path := filepath.Join(t.TempDir(), "nested", "out.png")
			require.NoError(t, WritePNG(path, hm))

			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			img, err := png.Decode(f)
			require.NoError(t, err)

			assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
			switch tt.depth {
			case 8:
				g, ok := img.(*image.Gray)
				require.True(t, ok, "decoded %T", img)
				for y := 0; y < 2; y++ {
					for x := 0; x < 3; x++ {
						assert.Equal(t, uint8(hm.At(x, y)), g.GrayAt(x, y).Y)
					}
				}
			case 16:
				g, ok := img.(*image.Gray16)
				require.True(t, ok, "decoded %T", img)
				for y := 0; y < 2; y++ {
					for x := 0; x < 3; x++ {
						assert.Equal(t, hm.At(x, y), g.Gray16At(x, y).Y)
					}
				}
			}
		})
	}
}

func TestToJSON(t *testing.T) {
	info := models.TileStatus{Name: "st17", Present: true}

	compact, err := ToJSON(info, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"st17","present":true}`, string(compact))

	pretty, err := ToJSON(info, true)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"name\"")
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.xlsx")
	r := Report{
		Reference:  "ST1876",
		SizeKm:     1,
		Method:     "linear",
		Filled:     2,
		OutputPath: "heightmaps/st1876_1km.png",
		Grid:       sampleGrid(),
		Heightmap:  sampleHeightmap(8),
		Tiles: []models.TileStatus{
			{Name: "st17", Present: true, NoDataCells: 2},
			{Name: "st27", Present: false},
		},
		Warnings: []string{"tile st27 missing"},
	}
	require.NoError(t, WriteReport(path, r))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, tilesSheet}, f.GetSheetList())

	ref, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "ST1876", ref)

	rows, err := f.GetRows(tilesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Tile", "Present", "NODATA cells"}, rows[0])
	assert.Equal(t, "st17", rows[1][0])
	assert.Equal(t, "st27", rows[2][0])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	last := summary[len(summary)-1]
	assert.Equal(t, []string{"Warning", "tile st27 missing"}, last)
}

func TestWriteReportRequiresGrid(t *testing.T) {
	err := WriteReport(filepath.Join(t.TempDir(), "x.xlsx"), Report{})
	assert.Error(t, err)
}

func TestWritePreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, WritePreview(path, sampleGrid(), "ST1876"))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, st.Size())
}

func TestWritePreviewFlat(t *testing.T) {
	g := models.NewElevationGrid(2, 2, 50, 0, 0)
	g.ZeroMissing()
	path := filepath.Join(t.TempDir(), "flat.png")
	assert.NoError(t, WritePreview(path, g, "flat"))
}

func TestGridXYZ(t *testing.T) {
	g := sampleGrid()
	xyz := gridXYZ{g}

	c, r := xyz.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 318025.0, xyz.X(0))
	assert.Equal(t, 176075.0, xyz.Y(1))
	assert.Equal(t, g.At(1, 2), xyz.Z(2, 1))
}
