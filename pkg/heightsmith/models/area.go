package models

// TileStatus reports how a required tile was resolved.
type TileStatus struct {
	// Name is the tile name, e.g. "st17".
	Name string `json:"name"`
	// Present is false when the archive has no entry for the tile.
	Present bool `json:"present"`
	// NoDataCells counts NODATA cells that fell inside the requested area.
	NoDataCells int `json:"nodata_cells,omitempty"`
}

// AreaInfo describes a requested area without loading any tiles.
type AreaInfo struct {
	// Reference is the canonical grid reference.
	Reference string `json:"grid_reference"`
	// Easting and Northing locate the area centre in meters.
	Easting  int `json:"easting"`
	Northing int `json:"northing"`
	// Precision is the side of the referenced square in meters.
	Precision int `json:"precision"`
	// SizeKm is the side of the square area in kilometers.
	SizeKm int `json:"size_km"`
	// Bounds is the area box in meters.
	Bounds Bounds `json:"bounds"`
	// Tiles lists the required tile names in sorted order.
	Tiles []string `json:"tiles"`
}
