package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestNewReservationEvent(t *testing.T) {
	res := &model.Reservation{
		ID:          42,
		Code:        "RSV-AB12CD34EF",
		UserID:      7,
		HotelID:     3,
		RoomID:      11,
		CheckIn:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
		Nights:      3,
		Status:      model.ReservationConfirmed,
		TotalAmount: decimal.RequireFromString("359.97"),
		PaidAmount:  decimal.RequireFromString("100"),
	}

	ev := NewReservationEvent(EventReservationConfirmed, res)

	if ev.Type != "reservation.confirmed" {
		t.Errorf("Type = %q", ev.Type)
	}
	if ev.CheckIn != "2026-10-01" || ev.CheckOut != "2026-10-04" {
		t.Errorf("dates = %q / %q", ev.CheckIn, ev.CheckOut)
	}
	if ev.TotalAmount != "359.97" {
		t.Errorf("TotalAmount = %q", ev.TotalAmount)
	}
	if ev.PaidAmount != "100.00" {
		t.Errorf("PaidAmount = %q, want fixed two decimals", ev.PaidAmount)
	}
	if _, err := time.Parse(time.RFC3339, ev.OccurredAt); err != nil {
		t.Errorf("OccurredAt %q is not RFC3339: %v", ev.OccurredAt, err)
	}

	// Wire shape consumers rely on.
	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"type", "reservation_code", "hotel_id", "total_amount", "occurred_at"} {
		if _, ok := m[key]; !ok {
			t.Errorf("payload missing %q", key)
		}
	}
}
