package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestAnalyticsPeriodValidation(t *testing.T) {
	h := NewOwnerHandler(nil)
	for _, period := range []string{"abc", "0", "-7", "400"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/analytics?period="+period, nil)
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(req, rec)
		c.Set("user_id", uint64(5))
		c.Set("role", model.RoleOwner)

		if err := h.Analytics(c); err != nil {
			t.Fatalf("period %q: handler error: %v", period, err)
		}
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("period %q: status = %d, want 422", period, rec.Code)
		}
	}
}

func TestAnalyticsRejectsAnonymous(t *testing.T) {
	h := NewOwnerHandler(nil)
	c, rec := testContext(t)
	if err := h.Analytics(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
