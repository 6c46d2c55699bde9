package model

import "time"

// RoomStatus enumerates the operational state of a physical room.
// Availability for booking requires RoomAvailable in addition to the
// absence of conflicting reservations; the other three states make a
// room unbookable regardless of its reservation history.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomOutOfOrder  RoomStatus = "out_of_order"
)

// Valid reports whether s is a known room status.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomOutOfOrder:
		return true
	}
	return false
}

// Room is a physical, numbered room inside a hotel.  RoomNumber is
// unique within its hotel; the database enforces this with a unique
// key on (hotel_id, room_number).  Status is mutated by the
// reservation state machine on check-in and check-out; direct status
// writes are refused while active reservations exist on the room.
type Room struct {
	ID         uint64     `json:"id"`
	HotelID    uint64     `json:"hotel_id"`
	RoomTypeID uint64     `json:"room_type_id"`
	RoomNumber string     `json:"room_number"`
	Floor      *uint32    `json:"floor,omitempty"`
	Status     RoomStatus `json:"status"`
	Notes      *string    `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
