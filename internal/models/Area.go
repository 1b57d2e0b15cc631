package models

import "gorm.io/gorm"

// Area is a geographic partition of the fund's coverage. Name uniqueness is
// case-insensitive, enforced by a functional unique index created during
// migration (see config.Migrate).
type Area struct {
	gorm.Model

	Name string `json:"name"`

	// Optional boundary polygon stored as WKB (SRID 4326).
	// Clients send and receive GeoJSON; controllers convert.
	Boundary []byte `json:"-" gorm:"type:bytea"`
}
