// Package queue defines the message payloads exchanged over the
// broker and the background consumer that drains them.
package queue

import (
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// EventsQueueName is the durable queue carrying reservation lifecycle
// events.
const EventsQueueName = "reservation.events"

// Event types carried in ReservationEvent.Type.
const (
	EventReservationCreated    = "reservation.created"
	EventReservationConfirmed  = "reservation.confirmed"
	EventReservationCancelled  = "reservation.cancelled"
	EventReservationCheckedIn  = "reservation.checked_in"
	EventReservationCheckedOut = "reservation.checked_out"
)

// ReservationEvent is published on every lifecycle move.  It carries
// enough for downstream consumers to notify or aggregate without
// querying the primary database.  Money fields are decimal strings.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	Code          string `json:"reservation_code"`
	UserID        uint64 `json:"user_id"`
	HotelID       uint64 `json:"hotel_id"`
	RoomID        uint64 `json:"room_id"`
	CheckIn       string `json:"check_in_date"`
	CheckOut      string `json:"check_out_date"`
	Nights        uint32 `json:"nights"`
	Status        string `json:"status"`
	TotalAmount   string `json:"total_amount"`
	PaidAmount    string `json:"paid_amount"`
	OccurredAt    string `json:"occurred_at"`
}

// NewReservationEvent snapshots a reservation into an event payload.
func NewReservationEvent(eventType string, r *model.Reservation) ReservationEvent {
	return ReservationEvent{
		Type:          eventType,
		ReservationID: r.ID,
		Code:          r.Code,
		UserID:        r.UserID,
		HotelID:       r.HotelID,
		RoomID:        r.RoomID,
		CheckIn:       r.CheckIn.Format("2006-01-02"),
		CheckOut:      r.CheckOut.Format("2006-01-02"),
		Nights:        r.Nights,
		Status:        string(r.Status),
		TotalAmount:   r.TotalAmount.StringFixed(2),
		PaidAmount:    r.PaidAmount.StringFixed(2),
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
}
