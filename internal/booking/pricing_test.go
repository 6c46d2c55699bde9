package booking

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPrice(t *testing.T) {
	rate := decimal.RequireFromString("150.00")
	q, err := Price(d("2025-03-01"), d("2025-03-04"), rate)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if q.Nights != 3 {
		t.Errorf("nights = %d, want 3", q.Nights)
	}
	if q.Total.StringFixed(2) != "450.00" {
		t.Errorf("total = %s, want 450.00", q.Total.StringFixed(2))
	}
}

func TestPriceExactDecimals(t *testing.T) {
	// a rate that would drift under float arithmetic
	rate := decimal.RequireFromString("99.99")
	q, err := Price(d("2025-06-01"), d("2025-06-08"), rate)
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if q.Total.StringFixed(2) != "699.93" {
		t.Errorf("total = %s, want 699.93", q.Total.StringFixed(2))
	}
}

func TestPriceInvalidRange(t *testing.T) {
	rate := decimal.NewFromInt(100)
	for _, tc := range []struct{ in, out string }{
		{"2025-03-04", "2025-03-04"},
		{"2025-03-04", "2025-03-01"},
	} {
		if _, err := Price(d(tc.in), d(tc.out), rate); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Price(%s,%s) err = %v, want ErrInvalidRange", tc.in, tc.out, err)
		}
	}
}
