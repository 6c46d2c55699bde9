package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// OwnerHandler serves the owner dashboard.
type OwnerHandler struct {
	Reservations *repository.ReservationRepo
}

func NewOwnerHandler(res *repository.ReservationRepo) *OwnerHandler {
	return &OwnerHandler{Reservations: res}
}

// Dashboard returns portfolio counts and completed-payment revenue
// for the calling owner.  Admins may inspect any owner with ?owner_id=.
func (h *OwnerHandler) Dashboard(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ownerID := uid
	if role == model.RoleAdmin {
		if v := c.QueryParam("owner_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid owner_id"})
			}
			ownerID = id
		}
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	stats, err := h.Reservations.StatsForOwner(ctx, ownerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Analytics returns per-day revenue and booking series plus per-hotel
// totals over the last ?period= days (default 30, capped at 365).
// Admins may inspect any owner with ?owner_id=.
func (h *OwnerHandler) Analytics(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ownerID := uid
	if role == model.RoleAdmin {
		if v := c.QueryParam("owner_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid owner_id"})
			}
			ownerID = id
		}
	}
	days := 30
	if v := c.QueryParam("period"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "period must be 1-365 days"})
		}
		days = n
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	analytics, err := h.Reservations.AnalyticsForOwner(ctx, ownerID, days)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, analytics)
}
