package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// HotelHandler serves hotel CRUD plus the public browse endpoints.
type HotelHandler struct {
	Hotels *repository.HotelRepo
}

func NewHotelHandler(h *repository.HotelRepo) *HotelHandler {
	return &HotelHandler{Hotels: h}
}

type hotelReq struct {
	Name        string   `json:"name" validate:"required,min=2,max=200"`
	Description string   `json:"description"`
	Address     string   `json:"address" validate:"required"`
	City        string   `json:"city" validate:"required"`
	State       string   `json:"state"`
	Country     string   `json:"country" validate:"required"`
	PostalCode  string   `json:"postal_code"`
	Phone       string   `json:"phone" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Website     *string  `json:"website" validate:"omitempty,url"`
	Status      string   `json:"status" validate:"omitempty,oneof=active inactive under_review"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
	OwnerID     uint64   `json:"owner_id"` // honored for admins only
}

func (req *hotelReq) apply(h *model.Hotel) {
	h.Name = strings.TrimSpace(req.Name)
	h.Description = req.Description
	h.Address = req.Address
	h.City = req.City
	h.State = req.State
	h.Country = req.Country
	h.PostalCode = req.PostalCode
	h.Phone = req.Phone
	h.Email = strings.ToLower(strings.TrimSpace(req.Email))
	h.Website = req.Website
	h.Amenities = req.Amenities
	h.Images = req.Images
	if req.Status != "" {
		h.Status = model.HotelStatus(req.Status)
	}
}

// Create registers a new hotel owned by the caller.  Admins may create
// on behalf of another owner by passing owner_id.
func (h *HotelHandler) Create(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok || !booking.CanManageHotels(role) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req hotelReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	hotel := model.Hotel{OwnerID: uid, Status: model.HotelUnderReview}
	if role == model.RoleAdmin {
		hotel.Status = model.HotelActive
		if req.OwnerID != 0 {
			hotel.OwnerID = req.OwnerID
		}
	}
	req.apply(&hotel)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Hotels.Create(ctx, &hotel); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, hotel)
}

// List is the public browse endpoint.  Unauthenticated callers only
// ever see active hotels; passing check_in and check_out narrows the
// result to hotels with at least one bookable room in that window.
func (h *HotelHandler) List(c echo.Context) error {
	f := repository.HotelFilter{
		City:   c.QueryParam("city"),
		Status: model.HotelActive,
	}
	f.Page, f.PerPage = pageParams(c)

	if _, role, ok := currentUser(c); ok && role == model.RoleAdmin {
		if s := c.QueryParam("status"); s != "" {
			if !model.HotelStatus(s).Valid() {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown status"})
			}
			f.Status = model.HotelStatus(s)
		}
	}

	if in, out := c.QueryParam("check_in"), c.QueryParam("check_out"); in != "" || out != "" {
		checkIn, err := parseDate(in)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid check_in"})
		}
		checkOut, err := parseDate(out)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid check_out"})
		}
		if !checkOut.After(checkIn) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "check_out must be after check_in"})
		}
		f.CheckIn, f.CheckOut = checkIn, checkOut
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hotels, total, err := h.Hotels.List(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	page, _ := normalizedPage(f.Page)
	return c.JSON(http.StatusOK, pagedResp{Data: hotels, Total: total, Page: page})
}

// ListMine returns the caller's own hotels regardless of status.
func (h *HotelHandler) ListMine(c echo.Context) error {
	uid, _, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	f := repository.HotelFilter{OwnerID: uid}
	f.Page, f.PerPage = pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hotels, total, err := h.Hotels.List(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	page, _ := normalizedPage(f.Page)
	return c.JSON(http.StatusOK, pagedResp{Data: hotels, Total: total, Page: page})
}

// Get returns a single hotel by id.
func (h *HotelHandler) Get(c echo.Context) error {
	id, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, hotel)
}

// Update rewrites a hotel's profile fields.
func (h *HotelHandler) Update(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	var req hotelReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := requireHotelOwnership(ctx, h.Hotels, id, uid, role); err != nil {
		return fail(c, err)
	}
	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	// Owners cannot self-approve: status changes are admin territory.
	if role != model.RoleAdmin {
		req.Status = string(hotel.Status)
	}
	req.apply(&hotel)
	if err := h.Hotels.Update(ctx, &hotel); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, hotel)
}

// Delete removes a hotel.  The repository refuses while any of its
// rooms carry an active reservation.
func (h *HotelHandler) Delete(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := requireHotelOwnership(ctx, h.Hotels, id, uid, role); err != nil {
		return fail(c, err)
	}
	if err := h.Hotels.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// normalizedPage mirrors the repository's page defaulting so the
// response envelope reports the page actually served.
func normalizedPage(page int) (int, bool) {
	if page < 1 {
		return 1, true
	}
	return page, false
}
