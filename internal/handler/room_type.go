package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// RoomTypeHandler serves room type CRUD nested under a hotel.
type RoomTypeHandler struct {
	RoomTypes *repository.RoomTypeRepo
	Hotels    *repository.HotelRepo
}

func NewRoomTypeHandler(rt *repository.RoomTypeRepo, h *repository.HotelRepo) *RoomTypeHandler {
	return &RoomTypeHandler{RoomTypes: rt, Hotels: h}
}

type roomTypeReq struct {
	Name        string   `json:"name" validate:"required,min=2,max=120"`
	Description string   `json:"description"`
	BasePrice   string   `json:"base_price" validate:"required"`
	Capacity    uint32   `json:"capacity" validate:"required,min=1,max=20"`
	Status      string   `json:"status" validate:"omitempty,oneof=active inactive"`
	Featured    *bool    `json:"featured"`
	Images      []string `json:"images" validate:"omitempty,max=4,dive,url"`
}

// price parses the base price, enforcing a positive decimal amount.
func (req *roomTypeReq) price() (decimal.Decimal, error) {
	p, err := decimal.NewFromString(req.BasePrice)
	if err != nil || !p.IsPositive() {
		return decimal.Decimal{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "base_price must be a positive decimal")
	}
	return p, nil
}

// Create adds a room type to the caller's hotel.  Changing BasePrice
// later never touches reservations already priced from it.
func (h *RoomTypeHandler) Create(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	var req roomTypeReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	price, err := req.price()
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	if err := requireHotelOwnership(ctx, h.Hotels, hotelID, uid, role); err != nil {
		return fail(c, err)
	}

	rt := model.RoomType{
		HotelID:     hotelID,
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   price,
		Capacity:    req.Capacity,
		Status:      model.RoomTypeActive,
		Images:      req.Images,
	}
	if req.Status != "" {
		rt.Status = model.RoomTypeStatus(req.Status)
	}
	if req.Featured != nil {
		rt.Featured = *req.Featured
	}
	if err := h.RoomTypes.Create(ctx, &rt); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, rt)
}

// List returns the room types of one hotel.  ?featured=true narrows to
// the highlighted types used on landing pages.
func (h *RoomTypeHandler) List(c echo.Context) error {
	hotelID, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	f := repository.RoomTypeFilter{HotelID: hotelID}
	f.Page, f.PerPage = pageParams(c)
	if s := c.QueryParam("status"); s != "" {
		f.Status = model.RoomTypeStatus(s)
	}
	if v := c.QueryParam("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid featured"})
		}
		f.Featured = &b
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	types, total, err := h.RoomTypes.List(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	page, _ := normalizedPage(f.Page)
	return c.JSON(http.StatusOK, pagedResp{Data: types, Total: total, Page: page})
}

// Get returns one room type, verifying it belongs to the hotel in the
// path so ids cannot be probed across hotels.
func (h *RoomTypeHandler) Get(c echo.Context) error {
	hotelID, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	belongs, err := h.RoomTypes.BelongsToHotel(ctx, id, hotelID)
	if err != nil {
		return fail(c, err)
	}
	if !belongs {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	rt, err := h.RoomTypes.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rt)
}

// Update rewrites a room type.
func (h *RoomTypeHandler) Update(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req roomTypeReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	price, err := req.price()
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	if err := requireHotelOwnership(ctx, h.Hotels, hotelID, uid, role); err != nil {
		return fail(c, err)
	}
	belongs, err := h.RoomTypes.BelongsToHotel(ctx, id, hotelID)
	if err != nil {
		return fail(c, err)
	}
	if !belongs {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}

	rt, err := h.RoomTypes.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	rt.Name = req.Name
	rt.Description = req.Description
	rt.BasePrice = price
	rt.Capacity = req.Capacity
	if req.Status != "" {
		rt.Status = model.RoomTypeStatus(req.Status)
	}
	if req.Featured != nil {
		rt.Featured = *req.Featured
	}
	if req.Images != nil {
		rt.Images = req.Images
	}
	if err := h.RoomTypes.Update(ctx, &rt); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rt)
}

// Delete removes a room type; refused while rooms still reference it.
func (h *RoomTypeHandler) Delete(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	if err := requireHotelOwnership(ctx, h.Hotels, hotelID, uid, role); err != nil {
		return fail(c, err)
	}
	belongs, err := h.RoomTypes.BelongsToHotel(ctx, id, hotelID)
	if err != nil {
		return fail(c, err)
	}
	if !belongs {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	if err := h.RoomTypes.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
