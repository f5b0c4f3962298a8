package heightsmith

import (
	"errors"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/archive"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/encode"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/fill"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/gridref"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/mosaic"
)

// Errors raised by the pipeline stages, re-exported for callers that only
// import this package.
var (
	ErrInvalidGridReference = gridref.ErrInvalidGridReference
	ErrInvalidBitDepth      = encode.ErrInvalidBitDepth
	ErrArchiveNotFound      = archive.ErrArchiveNotFound
	ErrInvalidMethod        = fill.ErrInvalidMethod
	ErrUnevenArea           = mosaic.ErrUnevenArea
)

// ErrAllTilesMissing is reported in Result.Warnings when the requested area
// holds no elevation data. The run still succeeds with a flat heightmap.
var ErrAllTilesMissing = errors.New("all required tiles are missing")

// ErrInvalidSize indicates an area size outside 1..MaxSizeKm.
var ErrInvalidSize = errors.New("invalid area size")

// ErrInvalidWorkers indicates a non-positive worker count.
var ErrInvalidWorkers = errors.New("workers must be at least 1")

// TileReadError reports a tile entry that exists but cannot be used.
type TileReadError = archive.TileReadError
