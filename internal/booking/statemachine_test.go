package booking

import (
	"errors"
	"testing"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestTransitionEdges(t *testing.T) {
	allowed := []struct{ from, to model.ReservationStatus }{
		{model.ReservationPending, model.ReservationConfirmed},
		{model.ReservationPending, model.ReservationCancelled},
		{model.ReservationConfirmed, model.ReservationCheckedIn},
		{model.ReservationConfirmed, model.ReservationCancelled},
		{model.ReservationCheckedIn, model.ReservationCompleted},
	}
	for _, e := range allowed {
		if err := Transition(e.from, e.to); err != nil {
			t.Errorf("Transition(%s, %s) refused: %v", e.from, e.to, err)
		}
	}

	refused := []struct{ from, to model.ReservationStatus }{
		{model.ReservationPending, model.ReservationCheckedIn},
		{model.ReservationPending, model.ReservationCompleted},
		{model.ReservationConfirmed, model.ReservationCompleted},
		{model.ReservationCheckedIn, model.ReservationCancelled},
		{model.ReservationCheckedIn, model.ReservationConfirmed},
		{model.ReservationCompleted, model.ReservationCheckedIn},
		{model.ReservationCancelled, model.ReservationConfirmed},
		{model.ReservationCancelled, model.ReservationCancelled},
	}
	for _, e := range refused {
		err := Transition(e.from, e.to)
		var ite *InvalidTransitionError
		if !errors.As(err, &ite) {
			t.Errorf("Transition(%s, %s) err = %v, want InvalidTransitionError", e.from, e.to, err)
			continue
		}
		if ite.From != e.from || ite.To != e.to {
			t.Errorf("error names states %s -> %s, want %s -> %s", ite.From, ite.To, e.from, e.to)
		}
	}
}

func TestCancelIsNotIdempotent(t *testing.T) {
	// second cancel on an already-cancelled reservation must be refused,
	// not treated as a silent no-op
	err := Transition(model.ReservationCancelled, model.ReservationCancelled)
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("cancel on cancelled reservation: err = %v, want InvalidTransitionError", err)
	}
}

func TestRoomStatusAfter(t *testing.T) {
	if got := RoomStatusAfter(model.ReservationCheckedIn); got != model.RoomOccupied {
		t.Errorf("check-in room status = %q, want occupied", got)
	}
	if got := RoomStatusAfter(model.ReservationCompleted); got != model.RoomAvailable {
		t.Errorf("check-out room status = %q, want available", got)
	}
	for _, to := range []model.ReservationStatus{model.ReservationConfirmed, model.ReservationCancelled} {
		if got := RoomStatusAfter(to); got != "" {
			t.Errorf("transition to %s mutates room status to %q, want none", to, got)
		}
	}
}

func TestMutable(t *testing.T) {
	editable := map[model.ReservationStatus]bool{
		model.ReservationPending:   true,
		model.ReservationConfirmed: true,
		model.ReservationCheckedIn: false,
		model.ReservationCompleted: false,
		model.ReservationCancelled: false,
	}
	for status, want := range editable {
		if got := Mutable(status); got != want {
			t.Errorf("Mutable(%s) = %v, want %v", status, got, want)
		}
	}
}
