package model

import "time"

// HotelStatus enumerates the lifecycle states of a hotel listing.
// Only active hotels are visible on public browse endpoints.
type HotelStatus string

const (
	HotelActive      HotelStatus = "active"
	HotelInactive    HotelStatus = "inactive"
	HotelUnderReview HotelStatus = "under_review"
)

// Valid reports whether s is a known hotel status.
func (s HotelStatus) Valid() bool {
	switch s {
	case HotelActive, HotelInactive, HotelUnderReview:
		return true
	}
	return false
}

// Hotel represents a property owned by a user with role OWNER (or
// managed by an admin).  Amenities and Images are genuine string
// slices at this layer; the repository serializes them into a single
// JSON text column.
type Hotel struct {
	ID          uint64      `json:"id"`
	OwnerID     uint64      `json:"owner_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Country     string      `json:"country"`
	PostalCode  string      `json:"postal_code"`
	Phone       string      `json:"phone"`
	Email       string      `json:"email"`
	Website     *string     `json:"website,omitempty"`
	Status      HotelStatus `json:"status"`
	Amenities   []string    `json:"amenities"`
	Images      []string    `json:"images"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
