package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// RoomHandler serves physical room CRUD and the availability search.
type RoomHandler struct {
	Rooms     *repository.RoomRepo
	RoomTypes *repository.RoomTypeRepo
	Hotels    *repository.HotelRepo
}

func NewRoomHandler(r *repository.RoomRepo, rt *repository.RoomTypeRepo, h *repository.HotelRepo) *RoomHandler {
	return &RoomHandler{Rooms: r, RoomTypes: rt, Hotels: h}
}

type roomReq struct {
	RoomTypeID uint64  `json:"room_type_id" validate:"required"`
	RoomNumber string  `json:"room_number" validate:"required,max=20"`
	Floor      *uint32 `json:"floor"`
	Notes      *string `json:"notes"`
}

type roomStatusReq struct {
	Status string `json:"status" validate:"required,oneof=available occupied maintenance out_of_order"`
}

// Create adds a room.  Room numbers are unique per hotel; a duplicate
// surfaces as 409.
func (h *RoomHandler) Create(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	var req roomReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	if err := requireHotelOwnership(ctx, h.Hotels, hotelID, uid, role); err != nil {
		return fail(c, err)
	}
	belongs, err := h.RoomTypes.BelongsToHotel(ctx, req.RoomTypeID, hotelID)
	if err != nil {
		return fail(c, err)
	}
	if !belongs {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "room type does not belong to hotel"})
	}

	room := model.Room{
		HotelID:    hotelID,
		RoomTypeID: req.RoomTypeID,
		RoomNumber: req.RoomNumber,
		Floor:      req.Floor,
		Status:     model.RoomAvailable,
		Notes:      req.Notes,
	}
	if err := h.Rooms.Create(ctx, &room); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists in this hotel"})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// List returns a hotel's rooms with optional status / type / floor
// filters.
func (h *RoomHandler) List(c echo.Context) error {
	hotelID, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	f := repository.RoomFilter{HotelID: hotelID}
	f.Page, f.PerPage = pageParams(c)
	if s := c.QueryParam("status"); s != "" {
		if !model.RoomStatus(s).Valid() {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown status"})
		}
		f.Status = model.RoomStatus(s)
	}
	if v := c.QueryParam("room_type_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid room_type_id"})
		}
		f.RoomTypeID = id
	}
	if v := c.QueryParam("floor"); v != "" {
		fl, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid floor"})
		}
		f32 := uint32(fl)
		f.Floor = &f32
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	rooms, total, err := h.Rooms.List(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	page, _ := normalizedPage(f.Page)
	return c.JSON(http.StatusOK, pagedResp{Data: rooms, Total: total, Page: page})
}

// Get returns one room.
func (h *RoomHandler) Get(c echo.Context) error {
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

	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	if room.HotelID != hotelID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusOK, room)
}

// Available is the public availability search: every bookable room of
// a hotel for the given half-open window, optionally narrowed to one
// room type.
func (h *RoomHandler) Available(c echo.Context) error {
	hotelID, err := pathID(c, "hotel_id")
	if err != nil {
		return fail(c, err)
	}
	checkIn, err := parseDate(c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid check_in"})
	}
	checkOut, err := parseDate(c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid check_out"})
	}
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "check_out must be after check_in"})
	}
	var roomTypeID uint64
	if v := c.QueryParam("room_type_id"); v != "" {
		roomTypeID, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid room_type_id"})
		}
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	rooms, err := h.Rooms.ListAvailable(ctx, hotelID, roomTypeID, checkIn, checkOut)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"check_in":  checkIn.Format(dateLayout),
		"check_out": checkOut.Format(dateLayout),
		"rooms":     rooms,
	})
}

// Update rewrites a room's number, floor and notes.  Type and status
// moves go through their dedicated endpoints.
func (h *RoomHandler) Update(c echo.Context) error {
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
	var req roomReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	if err := requireHotelOwnership(ctx, h.Hotels, hotelID, uid, role); err != nil {
		return fail(c, err)
	}
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	if room.HotelID != hotelID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	room.RoomNumber = req.RoomNumber
	room.Floor = req.Floor
	room.Notes = req.Notes
	if err := h.Rooms.Update(ctx, &room); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists in this hotel"})
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// SetStatus moves a room between operational states by hand.  The
// repository refuses while active reservations exist, so staff cannot
// pull a room out from under a confirmed guest.
func (h *RoomHandler) SetStatus(c echo.Context) error {
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
	var req roomStatusReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	if err := requireHotelOwnership(ctx, h.Hotels, hotelID, uid, role); err != nil {
		return fail(c, err)
	}
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	if room.HotelID != hotelID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	if err := h.Rooms.SetStatus(ctx, id, model.RoomStatus(req.Status)); err != nil {
		return fail(c, err)
	}
	room.Status = model.RoomStatus(req.Status)
	return c.JSON(http.StatusOK, room)
}

// Delete removes a room; refused while it has active reservations.
func (h *RoomHandler) Delete(c echo.Context) error {
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
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	if room.HotelID != hotelID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	if err := h.Rooms.Delete(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
