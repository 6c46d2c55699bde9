// Package handler contains the HTTP layer: request DTOs, validation,
// and the wiring between echo routes and the repositories.  Handlers
// own transaction boundaries; domain rules live in internal/booking.
package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// dbTimeout bounds every database round trip started from a handler.
const dbTimeout = 5 * time.Second

// dateLayout is the wire format for check-in / check-out dates.
const dateLayout = "2006-01-02"

var validate = validator.New()

// currentUser reads the identity placed in the context by the JWT
// middleware.  The bool is false when the route is not protected or
// the claims were malformed.
func currentUser(c echo.Context) (uint64, model.Role, bool) {
	id, ok := c.Get("user_id").(uint64)
	if !ok || id == 0 {
		return 0, "", false
	}
	role, ok := c.Get("role").(model.Role)
	if !ok || !role.Valid() {
		return 0, "", false
	}
	return id, role, true
}

// pathID parses a numeric path parameter such as :id.
func pathID(c echo.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

// parseDate parses a YYYY-MM-DD value into a midnight-UTC time.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// pageParams reads ?page= and ?per_page= with the repository defaults
// applied downstream.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	per, _ := strconv.Atoi(c.QueryParam("per_page"))
	return page, per
}

// contextWithDBTimeout derives a request-scoped context bounded by
// dbTimeout.
func contextWithDBTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// requireHotelOwnership refuses callers who neither own the hotel nor
// hold ADMIN.  The owner lookup doubles as the existence check.
func requireHotelOwnership(ctx context.Context, hotels *repository.HotelRepo, hotelID, uid uint64, role model.Role) error {
	if role == model.RoleAdmin {
		return nil
	}
	ownerID, err := hotels.OwnerOf(ctx, hotelID)
	if err != nil {
		return err
	}
	if ownerID != uid {
		return repository.ErrForbidden
	}
	return nil
}

// bindAndValidate binds the JSON body into req and runs struct
// validation, translating failures into a 422 with the offending field.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				"validation failed on field "+verrs[0].Field())
		}
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "validation failed")
	}
	return nil
}

// fail maps repository and booking errors onto the HTTP status
// taxonomy: 404 unknown resource, 403 ownership, 409 state/uniqueness
// conflicts, 422 domain rule violations, 500 everything else.
func fail(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var tr *booking.InvalidTransitionError
	var op *booking.OverpaymentError
	var xr *booking.ExcessiveRefundError
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.As(err, &tr):
		return c.JSON(http.StatusConflict, echo.Map{"error": tr.Error()})
	case errors.Is(err, booking.ErrNotRefundable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.As(err, &op):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": op.Error()})
	case errors.As(err, &xr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": xr.Error()})
	case errors.Is(err, booking.ErrInvalidRange):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// pagedResp is the envelope shared by every list endpoint.
type pagedResp struct {
	Data  any `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
}
