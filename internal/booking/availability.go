package booking

import (
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Overlaps reports whether the half-open date ranges [aIn, aOut) and
// [bIn, bOut) intersect.  Full containment counts as overlap: a
// reservation that starts on or before check-in and ends on or after
// check-out still blocks the window.  Dates are compared at calendar
// granularity; callers must pass midnight-UTC times.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return !(aOut.Compare(bIn) <= 0 || aIn.Compare(bOut) >= 0)
}

// Blocking reports whether an existing reservation makes a room
// unbookable for the requested window.  Cancelled reservations never
// block; excludeID removes the reservation being updated from the
// conflict set when re-checking its own new dates.
func Blocking(res *model.Reservation, checkIn, checkOut time.Time, excludeID uint64) bool {
	if res.Status == model.ReservationCancelled {
		return false
	}
	if excludeID != 0 && res.ID == excludeID {
		return false
	}
	return Overlaps(res.CheckIn, res.CheckOut, checkIn, checkOut)
}

// IsAvailable decides booking eligibility for a single room.  A room
// in any operational state other than `available` is unbookable
// regardless of its reservation history; otherwise the window must be
// free of blocking reservations.
func IsAvailable(room *model.Room, reservations []model.Reservation, checkIn, checkOut time.Time, excludeID uint64) bool {
	if room.Status != model.RoomAvailable {
		return false
	}
	for i := range reservations {
		if Blocking(&reservations[i], checkIn, checkOut, excludeID) {
			return false
		}
	}
	return true
}

// Day truncates t to midnight UTC.  All reservation dates flow through
// this so interval comparisons never depend on time of day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
