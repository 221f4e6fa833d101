// Package model defines the canonical listing record and the normalizer
// that produces it from raw API records.
package model

import "time"

// Item is the canonical record displayed as a card. Field naming on the
// wire varies between collections (and between admin-form versions of the
// same collection); Normalize maps all known aliases onto this shape.
type Item struct {
	ID       string
	Title    string
	Content  string
	ImageURL string
	Link     string
	Date     time.Time // zero value sorts as oldest
	Tags     []string
	Creators []string
	Year     int
}

// HasDate reports whether the item carries a usable publication date.
func (it Item) HasDate() bool {
	return !it.Date.IsZero()
}
