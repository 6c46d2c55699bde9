package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestRemoveHotelImageValidatesBody(t *testing.T) {
	h := &UploadHandler{}
	for _, body := range []string{`{}`, `{"image_url":"not a url"}`} {
		req := httptest.NewRequest(http.MethodDelete, "/v1/hotels/3/images",
			strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(req, rec)
		c.Set("user_id", uint64(5))
		c.Set("role", model.RoleOwner)
		c.SetParamNames("hotel_id")
		c.SetParamValues("3")

		err := h.RemoveHotelImage(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			t.Fatalf("body %s: err = %v, want HTTP error", body, err)
		}
		if he.Code != http.StatusUnprocessableEntity {
			t.Errorf("body %s: status = %d, want 422", body, he.Code)
		}
	}
}
