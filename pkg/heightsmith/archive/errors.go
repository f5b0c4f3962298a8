package archive

import (
	"errors"
	"fmt"
)

// ErrArchiveNotFound indicates the terrain archive does not exist.
var ErrArchiveNotFound = errors.New("terrain archive not found")

// ErrGeometryMismatch indicates a tile whose cell size or dimensions differ
// from the tiles loaded before it.
var ErrGeometryMismatch = errors.New("tile geometry differs from dataset")

// TileReadError represents a tile entry that exists but cannot be read.
type TileReadError struct {
	Tile  string
	Entry string
	Err   error
}

func (e *TileReadError) Error() string {
	return fmt.Sprintf("tile %s (%s): %v", e.Tile, e.Entry, e.Err)
}

func (e *TileReadError) Unwrap() error {
	return e.Err
}

// NewTileReadError creates a new TileReadError.
func NewTileReadError(tile, entry string, err error) *TileReadError {
	return &TileReadError{
		Tile:  tile,
		Entry: entry,
		Err:   err,
	}
}
