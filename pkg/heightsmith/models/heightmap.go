package models

// Heightmap is a quantized single-channel raster ready for image encoding.
// Row 0 is the northernmost row.
type Heightmap struct {
	Width    int
	Height   int
	BitDepth int
	// Pix holds Width*Height samples, row-major, each in [0, MaxValue()].
	Pix []uint16
	// Min and Max are the elevation range mapped onto [0, MaxValue()].
	Min float64
	Max float64
}

// MaxValue returns the largest sample value for the bit depth.
func (h *Heightmap) MaxValue() uint16 {
	return uint16(1<<uint(h.BitDepth) - 1)
}

// At returns the sample at column x, row y.
func (h *Heightmap) At(x, y int) uint16 {
	return h.Pix[y*h.Width+x]
}
