package models

import "time"

// Product is a single entry in the catalog snapshot served by the backend.
// The client treats these as read-only: the whole list is replaced on every
// refresh, never patched in place.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"desc"`

	// NOTE: the backend's JSON field really is spelled "resturant". We keep
	// the wire name so decoding works against the live API, but expose the
	// value under the correct spelling on the Go side.
	Restaurant string `json:"resturant"`

	Brand         string    `json:"brand"`
	Price         int       `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	Available     bool      `json:"available"`
	ReleaseDate   time.Time `json:"releaseDate"`
}
