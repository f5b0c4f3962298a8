// Package heightsmith turns OS Terrain 50 tiles into grayscale heightmaps
// centred on a National Grid reference.
package heightsmith

import (
	"fmt"
	"log/slog"

	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/encode"
	"github.com/ukaji3/heightsmith-go/pkg/heightsmith/fill"
)

// MaxSizeKm is the largest area side accepted: the north-south extent of
// the National Grid.
const MaxSizeKm = 1300

// Options configures heightmap generation.
type Options struct {
	// SizeKm is the side of the square area in kilometers.
	SizeKm int
	// BitDepth is the output sample depth, 8 or 16.
	BitDepth int
	// FillMissing enables gap filling. When false, missing cells are set to
	// zero during assembly and Method is ignored.
	FillMissing bool
	// Method selects the gap-filling interpolation.
	Method fill.Method
	// Workers bounds concurrent tile reads.
	Workers int
	// Logger receives pipeline diagnostics. Nil selects slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns default generation options.
func DefaultOptions() Options {
	return Options{
		SizeKm:      10,
		BitDepth:    16,
		FillMissing: true,
		Method:      fill.MethodLinear,
		Workers:     4,
	}
}

// Validate checks the options before any I/O is done.
func (o Options) Validate() error {
	if err := validSize(o.SizeKm); err != nil {
		return err
	}
	if !encode.ValidBitDepth(o.BitDepth) {
		return fmt.Errorf("%w: got %d", ErrInvalidBitDepth, o.BitDepth)
	}
	if _, err := o.Method.MarshalText(); err != nil {
		return err
	}
	if o.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, o.Workers)
	}
	return nil
}

func validSize(sizeKm int) error {
	if sizeKm <= 0 || sizeKm > MaxSizeKm {
		return fmt.Errorf("%w: got %d, must be 1 to %d", ErrInvalidSize, sizeKm, MaxSizeKm)
	}
	return nil
}

// method returns the interpolation actually applied.
func (o Options) method() fill.Method {
	if !o.FillMissing {
		return fill.MethodNone
	}
	return o.Method
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
