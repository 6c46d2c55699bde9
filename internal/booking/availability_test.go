package booking

import (
	"testing"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                   string
		aIn, aOut, bIn, bOut   string
		want                   bool
	}{
		{"disjoint before", "2025-03-01", "2025-03-04", "2025-03-04", "2025-03-08", false},
		{"disjoint after", "2025-03-10", "2025-03-12", "2025-03-01", "2025-03-10", false},
		{"partial overlap start", "2025-03-01", "2025-03-05", "2025-03-04", "2025-03-08", true},
		{"partial overlap end", "2025-03-06", "2025-03-09", "2025-03-04", "2025-03-08", true},
		{"full containment", "2025-03-01", "2025-03-10", "2025-03-04", "2025-03-06", true},
		{"contained within", "2025-03-05", "2025-03-06", "2025-03-04", "2025-03-08", true},
		{"identical window", "2025-03-04", "2025-03-08", "2025-03-04", "2025-03-08", true},
		{"checkout on checkin day", "2025-03-01", "2025-03-04", "2025-03-04", "2025-03-06", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(d(tc.aIn), d(tc.aOut), d(tc.bIn), d(tc.bOut))
			if got != tc.want {
				t.Errorf("Overlaps(%s,%s,%s,%s) = %v, want %v",
					tc.aIn, tc.aOut, tc.bIn, tc.bOut, got, tc.want)
			}
		})
	}
}

func TestIsAvailableRoomStatus(t *testing.T) {
	// a room under maintenance is never bookable, even with no reservations
	for _, status := range []model.RoomStatus{model.RoomMaintenance, model.RoomOccupied, model.RoomOutOfOrder} {
		room := &model.Room{ID: 1, Status: status}
		if IsAvailable(room, nil, d("2025-03-01"), d("2025-03-04"), 0) {
			t.Errorf("room with status %s reported available", status)
		}
	}
	room := &model.Room{ID: 1, Status: model.RoomAvailable}
	if !IsAvailable(room, nil, d("2025-03-01"), d("2025-03-04"), 0) {
		t.Error("available room with no reservations reported unavailable")
	}
}

func TestIsAvailableConflicts(t *testing.T) {
	room := &model.Room{ID: 1, Status: model.RoomAvailable}
	existing := []model.Reservation{
		{ID: 10, Status: model.ReservationConfirmed, CheckIn: d("2025-03-04"), CheckOut: d("2025-03-08")},
		{ID: 11, Status: model.ReservationCancelled, CheckIn: d("2025-03-01"), CheckOut: d("2025-03-30")},
	}

	if IsAvailable(room, existing, d("2025-03-05"), d("2025-03-06"), 0) {
		t.Error("window inside a confirmed reservation reported available")
	}
	// the cancelled reservation must not block
	if !IsAvailable(room, existing, d("2025-03-10"), d("2025-03-12"), 0) {
		t.Error("window blocked only by a cancelled reservation reported unavailable")
	}
	// excluding the conflicting reservation itself (date-change update path)
	if !IsAvailable(room, existing, d("2025-03-05"), d("2025-03-06"), 10) {
		t.Error("self-excluded reservation still blocked its own update window")
	}
}

func TestDay(t *testing.T) {
	ts := time.Date(2025, 3, 1, 17, 45, 3, 0, time.FixedZone("X", 3600))
	got := Day(ts)
	if got.Hour() != 0 || got.Location() != time.UTC {
		t.Errorf("Day did not truncate to midnight UTC: %v", got)
	}
}
