// Package testutil provides shared test fixtures: synthetic ASCII Grid tiles
// and terrain archives built in memory.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Tile describes a synthetic ASCII Grid tile.
type Tile struct {
	NCols, NRows int
	XLL, YLL     float64
	CellSize     float64
	NoData       float64
	// Value returns the elevation at file row r (0 = north) and column c.
	Value func(r, c int) float64
}

// NewTile returns a tile of the given size whose south-west corner is the
// footprint of tile (e, n) in 10 km units.
func NewTile(e, n, cells int, cellSize float64, value func(r, c int) float64) Tile {
	return Tile{
		NCols:    cells,
		NRows:    cells,
		XLL:      float64(e * 10000),
		YLL:      float64(n * 10000),
		CellSize: cellSize,
		NoData:   -9999,
		Value:    value,
	}
}

// ASCIIGrid renders the tile in ASCII Grid format.
func (t Tile) ASCIIGrid() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "ncols %d\nnrows %d\n", t.NCols, t.NRows)
	fmt.Fprintf(&b, "xllcorner %s\nyllcorner %s\n", ftoa(t.XLL), ftoa(t.YLL))
	fmt.Fprintf(&b, "cellsize %s\nNODATA_value %s\n", ftoa(t.CellSize), ftoa(t.NoData))
	for r := 0; r < t.NRows; r++ {
		for c := 0; c < t.NCols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(ftoa(t.Value(r, c)))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Zip builds a zip archive holding entries keyed by name.
func Zip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// WriteArchive writes a zip of entries into a temporary directory and
// returns its path.
func WriteArchive(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terr50_test.zip")
	if err := os.WriteFile(path, Zip(t, entries), 0644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

// NestedEntry returns the entry name and bytes of a tile packaged the way
// the OS distribution does: data/<sq>/<tile>_OST50GRID_<date>.zip holding
// one .asc file.
func NestedEntry(t *testing.T, name string, tile Tile) (string, []byte) {
	t.Helper()
	stem := strings.ToUpper(name) + "_OST50GRID_20250529"
	inner := Zip(t, map[string][]byte{
		stem + ".asc": tile.ASCIIGrid(),
	})
	return fmt.Sprintf("data/%s/%s.zip", name[:2], strings.ToLower(name)+"_OST50GRID_20250529"), inner
}
