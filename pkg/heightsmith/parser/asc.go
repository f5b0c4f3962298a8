// Package parser provides ESRI ASCII Grid parsing utilities.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
)

// ErrMalformedHeader indicates a missing or non-numeric header field.
var ErrMalformedHeader = errors.New("malformed ascii grid header")

// ErrBadData indicates a short, overlong or unparseable data block.
var ErrBadData = errors.New("malformed ascii grid data")

const (
	keyNCols     = "ncols"
	keyNRows     = "nrows"
	keyXLLCorner = "xllcorner"
	keyYLLCorner = "yllcorner"
	keyXLLCenter = "xllcenter"
	keyYLLCenter = "yllcenter"
	keyCellSize  = "cellsize"
	keyNoData    = "nodata_value"
)

// maxCells bounds ncols*nrows. Terrain 50 tiles hold 200x200 cells.
const maxCells = 1 << 26

// initialCap bounds the up-front allocation for the data block.
const initialCap = 1 << 16

var headerKeys = map[string]bool{
	keyNCols: true, keyNRows: true,
	keyXLLCorner: true, keyYLLCorner: true,
	keyXLLCenter: true, keyYLLCenter: true,
	keyCellSize: true, keyNoData: true,
}

// ParseASCIIGrid reads an ASCII Grid: a header of "key value" pairs
// followed by ncols*nrows whitespace-separated values, northernmost row
// first.
func ParseASCIIGrid(r io.Reader) (models.TileHeader, []float64, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	fields := make(map[string]float64)
	var first string
	for sc.Scan() {
		tok := sc.Text()
		key := strings.ToLower(tok)
		if !headerKeys[key] {
			first = tok
			break
		}
		if !sc.Scan() {
			return models.TileHeader{}, nil, fmt.Errorf("%w: no value for %s", ErrMalformedHeader, key)
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil || !finite(v) {
			return models.TileHeader{}, nil, fmt.Errorf("%w: %s: %q is not a finite number", ErrMalformedHeader, key, sc.Text())
		}
		fields[key] = v
	}
	if err := sc.Err(); err != nil {
		return models.TileHeader{}, nil, err
	}

	h, err := buildHeader(fields)
	if err != nil {
		return models.TileHeader{}, nil, err
	}

	want := h.NCols * h.NRows
	values := make([]float64, 0, min(want, initialCap))
	if first != "" {
		v, err := parseValue(first)
		if err != nil {
			return h, nil, err
		}
		values = append(values, v)
	}
	for sc.Scan() {
		if len(values) == want {
			return h, nil, fmt.Errorf("%w: more than %d values", ErrBadData, want)
		}
		v, err := parseValue(sc.Text())
		if err != nil {
			return h, nil, err
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return h, nil, err
	}
	if len(values) != want {
		return h, nil, fmt.Errorf("%w: expected %d values, got %d", ErrBadData, want, len(values))
	}

	return h, values, nil
}

// buildHeader validates the collected header fields.
func buildHeader(f map[string]float64) (models.TileHeader, error) {
	var missing []string
	for _, k := range []string{keyNCols, keyNRows, keyCellSize, keyNoData} {
		if _, ok := f[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return models.TileHeader{}, fmt.Errorf("%w: missing %s", ErrMalformedHeader, strings.Join(missing, ", "))
	}

	h := models.TileHeader{
		NCols:    int(f[keyNCols]),
		NRows:    int(f[keyNRows]),
		CellSize: f[keyCellSize],
		NoData:   f[keyNoData],
	}
	if float64(h.NCols) != f[keyNCols] || float64(h.NRows) != f[keyNRows] || h.NCols <= 0 || h.NRows <= 0 {
		return models.TileHeader{}, fmt.Errorf("%w: ncols/nrows must be positive integers", ErrMalformedHeader)
	}
	if h.NCols > maxCells/h.NRows {
		return models.TileHeader{}, fmt.Errorf("%w: %dx%d cells exceeds %d", ErrMalformedHeader, h.NCols, h.NRows, maxCells)
	}
	if h.CellSize <= 0 {
		return models.TileHeader{}, fmt.Errorf("%w: cellsize must be positive", ErrMalformedHeader)
	}

	// Centre-registered grids are converted to corner registration.
	x, okX := corner(f, keyXLLCorner, keyXLLCenter, h.CellSize)
	y, okY := corner(f, keyYLLCorner, keyYLLCenter, h.CellSize)
	if !okX || !okY {
		return models.TileHeader{}, fmt.Errorf("%w: missing xllcorner/yllcorner or xllcenter/yllcenter", ErrMalformedHeader)
	}
	h.XLLCorner = x
	h.YLLCorner = y

	return h, nil
}

func corner(f map[string]float64, cornerKey, centerKey string, cellSize float64) (float64, bool) {
	if v, ok := f[cornerKey]; ok {
		return v, true
	}
	if v, ok := f[centerKey]; ok {
		return v - cellSize/2, true
	}
	return 0, false
}

// parseValue parses one elevation sample.
func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrBadData, s)
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
