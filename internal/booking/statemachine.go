package booking

import "github.com/iliyamo/hotel-reservation/internal/model"

// transitions is the complete edge set of the reservation lifecycle.
// Absence of an edge means the transition is illegal; there is no path
// out of checked_in except completion, and none at all out of
// completed or cancelled.
var transitions = map[model.ReservationStatus][]model.ReservationStatus{
	model.ReservationPending:   {model.ReservationConfirmed, model.ReservationCancelled},
	model.ReservationConfirmed: {model.ReservationCheckedIn, model.ReservationCancelled},
	model.ReservationCheckedIn: {model.ReservationCompleted},
}

// CanTransition reports whether the state machine permits moving a
// reservation from one status to another.
func CanTransition(from, to model.ReservationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a status change and returns the typed error the
// API reports on refusal.  It performs no side effects; callers apply
// the change (and any room status flip) inside their own transaction
// only when the returned error is nil.
func Transition(from, to model.ReservationStatus) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// Mutable reports whether a reservation may still have its dates or
// occupancy edited.  Only pending and confirmed reservations are
// editable; once a guest is checked in the window is fixed.
func Mutable(status model.ReservationStatus) bool {
	return status == model.ReservationPending || status == model.ReservationConfirmed
}

// RoomStatusAfter returns the room status a transition forces, or ""
// when the transition leaves the room untouched.  Only check-in and
// check-out mutate the room: cancellation never does, because the room
// was never marked occupied before check-in.
func RoomStatusAfter(to model.ReservationStatus) model.RoomStatus {
	switch to {
	case model.ReservationCheckedIn:
		return model.RoomOccupied
	case model.ReservationCompleted:
		return model.RoomAvailable
	}
	return ""
}
