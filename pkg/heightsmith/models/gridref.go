// Package models defines data structures for heightmap generation.
package models

// GridReference is a parsed OS National Grid reference.
type GridReference struct {
	// Letters is the upper-case two-letter 100 km square code (e.g. "ST").
	Letters string `json:"letters"`
	// Digits is the numeric part, split evenly into easting and northing.
	Digits string `json:"digits"`
	// Easting of the south-west corner of the referenced square, in meters.
	Easting int `json:"easting"`
	// Northing of the south-west corner of the referenced square, in meters.
	Northing int `json:"northing"`
	// Precision is the side of the referenced square in meters.
	Precision int `json:"precision"`
}

// String returns the canonical form of the reference, e.g. "ST1876".
func (g GridReference) String() string {
	return g.Letters + g.Digits
}
