package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomTypeStatus enumerates whether a room type is bookable.
type RoomTypeStatus string

const (
	RoomTypeActive   RoomTypeStatus = "active"
	RoomTypeInactive RoomTypeStatus = "inactive"
)

// Valid reports whether s is a known room type status.
func (s RoomTypeStatus) Valid() bool {
	return s == RoomTypeActive || s == RoomTypeInactive
}

// RoomTypeImageSlots bounds the number of image URLs a room type may
// carry.  Uploads beyond this count are rejected with a validation
// error rather than silently truncated.
const RoomTypeImageSlots = 4

// RoomType describes a category of rooms inside a hotel (e.g. "Deluxe
// Double").  BasePrice is the nightly rate snapshot source for new
// reservations; changing it never retroactively affects reservations
// already created from it.
type RoomType struct {
	ID          uint64          `json:"id"`
	HotelID     uint64          `json:"hotel_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Capacity    uint32          `json:"capacity"`
	Status      RoomTypeStatus  `json:"status"`
	Featured    bool            `json:"featured"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
