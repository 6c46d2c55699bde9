package model

import "time"

// ExploreItem is one curated entry on the public discovery feed: a
// destination or collection the front page promotes, independent of
// any single hotel.
type ExploreItem struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
