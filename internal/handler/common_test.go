package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

func testContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestFailStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"conflict", repository.ErrConflict, http.StatusConflict},
		{"duplicate", repository.ErrDuplicate, http.StatusConflict},
		{"invalid transition", &booking.InvalidTransitionError{
			From: model.ReservationCompleted, To: model.ReservationCancelled,
		}, http.StatusConflict},
		{"overpayment", &booking.OverpaymentError{
			Amount: decimal.NewFromInt(500), Pending: decimal.NewFromInt(250),
		}, http.StatusUnprocessableEntity},
		{"not refundable", booking.ErrNotRefundable, http.StatusConflict},
		{"excessive refund", &booking.ExcessiveRefundError{
			Amount: decimal.NewFromInt(300), Charged: decimal.NewFromInt(200),
		}, http.StatusUnprocessableEntity},
		{"invalid range", booking.ErrInvalidRange, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := testContext(t)
			if err := fail(c, tc.err); err != nil {
				t.Fatalf("fail returned error: %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	c, _ := testContext(t)
	if _, _, ok := currentUser(c); ok {
		t.Error("identity reported on unauthenticated context")
	}

	c.Set("user_id", uint64(9))
	c.Set("role", model.RoleUser)
	uid, role, ok := currentUser(c)
	if !ok || uid != 9 || role != model.RoleUser {
		t.Errorf("currentUser = (%d, %s, %v), want (9, USER, true)", uid, role, ok)
	}

	c.Set("role", model.Role("GUEST"))
	if _, _, ok := currentUser(c); ok {
		t.Error("unknown role accepted")
	}
}

func TestParseWindow(t *testing.T) {
	in := time.Now().UTC().AddDate(0, 0, 7).Format(dateLayout)
	out := time.Now().UTC().AddDate(0, 0, 10).Format(dateLayout)

	checkIn, checkOut, err := parseWindow(in, out)
	if err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}
	if !checkOut.After(checkIn) {
		t.Error("parsed window is not forward")
	}

	today := time.Now().UTC().Format(dateLayout)
	bad := []struct {
		name    string
		in, out string
	}{
		{"malformed in", "03-01-2026", out},
		{"malformed out", in, "soon"},
		{"zero nights", in, in},
		{"inverted", out, in},
		{"past check-in", "2020-01-01", "2020-01-05"},
		{"same-day check-in", today, out},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := parseWindow(tc.in, tc.out); err == nil {
				t.Error("invalid window accepted")
			}
		})
	}
}

func TestNewReservationCode(t *testing.T) {
	a, b := newReservationCode(), newReservationCode()
	if a == b {
		t.Fatal("two codes collided")
	}
	if len(a) != len("RSV-")+10 {
		t.Errorf("code %q has unexpected length", a)
	}
	if a[:4] != "RSV-" {
		t.Errorf("code %q missing RSV- prefix", a)
	}
}

func TestPathID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("17")
	if id, err := pathID(c, "id"); err != nil || id != 17 {
		t.Errorf("pathID = (%d, %v), want (17, nil)", id, err)
	}

	for _, v := range []string{"0", "-3", "abc", ""} {
		c.SetParamValues(v)
		if _, err := pathID(c, "id"); err == nil {
			t.Errorf("pathID accepted %q", v)
		}
	}
}
