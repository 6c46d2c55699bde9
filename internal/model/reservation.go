package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus enumerates the reservation lifecycle.  Transitions
// form a strict DAG enforced by the booking package:
//
//	pending -> confirmed -> checked_in -> completed
//	pending|confirmed -> cancelled (terminal)
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCheckedIn ReservationStatus = "checked_in"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn,
		ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// PaymentState is the derived monetary state of a reservation.  It is
// never set directly: every payment-mutating operation recomputes it
// from the ledger of completed payments via booking.Reconcile.
type PaymentState string

const (
	PaymentStatePending  PaymentState = "pending"
	PaymentStatePartial  PaymentState = "partial"
	PaymentStatePaid     PaymentState = "paid"
	PaymentStateRefunded PaymentState = "refunded"
)

// Reservation records a booking of one room for a date range.  Dates
// are calendar days (no time of day); CheckIn/CheckOut form a
// half-open interval [CheckIn, CheckOut).  RoomRate is a snapshot of
// the nightly rate at booking time and is immutable afterwards;
// TotalAmount = Nights x RoomRate.  PaidAmount and PendingAmount are
// derived from the payment ledger and clamped so PendingAmount never
// goes negative.
type Reservation struct {
	ID              uint64            `json:"id"`
	Code            string            `json:"reservation_code"`
	UserID          uint64            `json:"user_id"`
	HotelID         uint64            `json:"hotel_id"`
	RoomID          uint64            `json:"room_id"`
	CheckIn         time.Time         `json:"check_in_date"`
	CheckOut        time.Time         `json:"check_out_date"`
	Nights          uint32            `json:"nights"`
	Adults          uint32            `json:"adults"`
	Children        uint32            `json:"children"`
	RoomRate        decimal.Decimal   `json:"room_rate"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	PaidAmount      decimal.Decimal   `json:"paid_amount"`
	PendingAmount   decimal.Decimal   `json:"pending_amount"`
	Status          ReservationStatus `json:"status"`
	PaymentStatus   PaymentState      `json:"payment_status"`
	SpecialRequests *string           `json:"special_requests,omitempty"`
	ConfirmedAt     *time.Time        `json:"confirmed_at,omitempty"`
	CheckedInAt     *time.Time        `json:"checked_in_at,omitempty"`
	CheckedOutAt    *time.Time        `json:"checked_out_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Active reports whether the reservation currently blocks destructive
// operations on its room (deletion, manual status resets).
func (r *Reservation) Active() bool {
	return r.Status == ReservationConfirmed || r.Status == ReservationCheckedIn
}
