// Package archive loads Terrain 50 tiles out of the distribution zip.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/models"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/parser"
)

// entry locates one tile inside the archive.
type entry struct {
	file *zip.File
	// nested is true when file is itself a zip holding the .asc grid.
	nested bool
}

// Repository reads tiles from a terrain archive and caches them for the
// lifetime of the Repository. It is safe for concurrent use.
type Repository struct {
	zr     *zip.ReadCloser
	index  map[string]entry
	logger *slog.Logger

	group singleflight.Group

	mu       sync.Mutex
	cache    map[string]*models.TileData
	geometry *models.TileHeader
}

// Open opens the archive at path and indexes its tile entries.
func Open(path string, logger *slog.Logger) (*Repository, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, path)
		}
		return nil, err
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	r := &Repository{
		zr:     zr,
		index:  indexEntries(&zr.Reader),
		logger: logger,
		cache:  make(map[string]*models.TileData),
	}
	logger.Debug("archive indexed", "path", path, "entries", len(zr.File), "tiles", len(r.index))
	return r, nil
}

// Close releases the archive.
func (r *Repository) Close() error {
	return r.zr.Close()
}

// Len returns the number of tiles indexed in the archive.
func (r *Repository) Len() int {
	return len(r.index)
}

// Has reports whether the archive holds an entry for the named tile.
func (r *Repository) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// CellSize returns the cell size shared by the loaded tiles, or 0 when no
// present tile has been loaded yet.
func (r *Repository) CellSize() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.geometry == nil {
		return 0
	}
	return r.geometry.CellSize
}

// Get returns the data for id. A tile missing from the archive is returned
// as absent data, not as an error.
func (r *Repository) Get(id models.TileID) (*models.TileData, error) {
	name := id.Name()
	if td, ok := r.cached(name); ok {
		return td, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		if td, ok := r.cached(name); ok {
			return td, nil
		}
		td, err := r.load(id)
		if err != nil {
			return nil, err
		}
		if err := r.checkGeometry(td); err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[name] = td
		r.mu.Unlock()
		return td, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.TileData), nil
}

// LoadAll loads every id using up to workers concurrent reads and returns
// the results keyed by tile name. The first read error aborts the load.
func (r *Repository) LoadAll(ids []models.TileID, workers int) (map[string]*models.TileData, error) {
	if workers < 1 {
		workers = 1
	}

	out := make(map[string]*models.TileData, len(ids))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(workers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			td, err := r.Get(id)
			if err != nil {
				return err
			}
			mu.Lock()
			out[id.Name()] = td
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) cached(name string) (*models.TileData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	td, ok := r.cache[name]
	return td, ok
}

// checkGeometry records the first present tile's geometry and rejects tiles
// that differ from it.
func (r *Repository) checkGeometry(td *models.TileData) error {
	if !td.Present {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.geometry == nil {
		h := td.Header
		r.geometry = &h
		return nil
	}
	if !r.geometry.SameGeometry(td.Header) {
		g := r.geometry
		return NewTileReadError(td.ID.Name(), "", fmt.Errorf("%w: %dx%d@%gm, expected %dx%d@%gm",
			ErrGeometryMismatch, td.Header.NCols, td.Header.NRows, td.Header.CellSize,
			g.NCols, g.NRows, g.CellSize))
	}
	return nil
}

func (r *Repository) load(id models.TileID) (*models.TileData, error) {
	name := id.Name()
	e, ok := r.index[name]
	if !ok {
		r.logger.Debug("tile absent", "tile", name)
		return models.Absent(id), nil
	}

	var (
		h      models.TileHeader
		values []float64
		found  bool
		err    error
	)
	if e.nested {
		h, values, found, err = readNested(e.file)
	} else {
		h, values, err = readGrid(e.file)
		found = true
	}
	if err != nil {
		return nil, NewTileReadError(name, e.file.Name, err)
	}
	if !found {
		r.logger.Debug("tile archive has no grid", "tile", name, "entry", e.file.Name)
		return models.Absent(id), nil
	}

	r.logger.Debug("tile loaded", "tile", name, "entry", e.file.Name, "cols", h.NCols, "rows", h.NRows)
	return &models.TileData{
		ID:      id,
		Present: true,
		Header:  h,
		Values:  values,
	}, nil
}

// readGrid parses one .asc entry. The decompression stream is closed before
// returning.
func readGrid(f *zip.File) (models.TileHeader, []float64, error) {
	rc, err := f.Open()
	if err != nil {
		return models.TileHeader{}, nil, err
	}
	defer rc.Close()
	return parser.ParseASCIIGrid(rc)
}

// readNested parses the first .asc inside a zip entry. found is false when
// the inner archive holds no grid.
func readNested(f *zip.File) (h models.TileHeader, values []float64, found bool, err error) {
	data, err := readZipFile(f)
	if err != nil {
		return h, nil, false, err
	}
	inner, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return h, nil, false, err
	}
	for _, g := range inner.File {
		if strings.EqualFold(path.Ext(g.Name), ".asc") {
			h, values, err = readGrid(g)
			return h, values, true, err
		}
	}
	return h, nil, false, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// indexEntries maps tile names to archive entries. Both the flat layout
// (<tile>.asc) and the OS distribution layout
// (data/<sq>/<tile>_OST50GRID_<date>.zip) are recognised; a flat .asc wins
// over a nested zip for the same tile.
func indexEntries(r *zip.Reader) map[string]entry {
	index := make(map[string]entry)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := strings.ToLower(path.Base(f.Name))
		ext := path.Ext(base)
		if ext != ".asc" && ext != ".zip" {
			continue
		}
		name, ok := tileNameFromEntry(strings.TrimSuffix(base, ext))
		if !ok {
			continue
		}
		nested := ext == ".zip"
		if prev, exists := index[name]; exists && (!prev.nested || nested) {
			continue
		}
		index[name] = entry{file: f, nested: nested}
	}
	return index
}

// tileNameFromEntry extracts "st17" from stems like "st17" or
// "st17_ost50grid_20250529".
func tileNameFromEntry(stem string) (string, bool) {
	name, _, _ := strings.Cut(stem, "_")
	if len(name) != 4 {
		return "", false
	}
	if name[0] < 'a' || name[0] > 'z' || name[1] < 'a' || name[1] > 'z' {
		return "", false
	}
	if name[2] < '0' || name[2] > '9' || name[3] < '0' || name[3] > '9' {
		return "", false
	}
	return name, true
}
