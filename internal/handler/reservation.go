package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// ReservationHandler owns the booking transaction: room lock, overlap
// check, price snapshot and insert all commit or roll back together.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Rooms        *repository.RoomRepo
	RoomTypes    *repository.RoomTypeRepo
	Hotels       *repository.HotelRepo
	Payments     *repository.PaymentRepo
}

func NewReservationHandler(res *repository.ReservationRepo, rm *repository.RoomRepo, rt *repository.RoomTypeRepo, h *repository.HotelRepo, p *repository.PaymentRepo) *ReservationHandler {
	return &ReservationHandler{Reservations: res, Rooms: rm, RoomTypes: rt, Hotels: h, Payments: p}
}

type reservationReq struct {
	RoomID          uint64  `json:"room_id" validate:"required"`
	CheckIn         string  `json:"check_in_date" validate:"required"`
	CheckOut        string  `json:"check_out_date" validate:"required"`
	Adults          uint32  `json:"adults" validate:"required,min=1,max=10"`
	Children        uint32  `json:"children" validate:"max=10"`
	SpecialRequests *string `json:"special_requests"`
}

type reservationWindowReq struct {
	CheckIn  string `json:"check_in_date" validate:"required"`
	CheckOut string `json:"check_out_date" validate:"required"`
	Adults   uint32 `json:"adults" validate:"required,min=1,max=10"`
	Children uint32 `json:"children" validate:"max=10"`
}

// newReservationCode mints the externally visible booking reference.
func newReservationCode() string {
	return "RSV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// parseWindow validates the stay window: well-formed dates, strictly
// positive length, check-in strictly after today.  A same-day check-in
// is rejected; the earliest bookable night is tomorrow.
func parseWindow(in, out string) (time.Time, time.Time, error) {
	checkIn, err := parseDate(in)
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid check_in_date")
	}
	checkOut, err := parseDate(out)
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid check_out_date")
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "check_out_date must be after check_in_date")
	}
	if !checkIn.After(booking.Day(time.Now().UTC())) {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "check_in_date must be after today")
	}
	return checkIn, checkOut, nil
}

// Create books a room for the caller.  The room row is locked for the
// duration of the transaction so two requests racing for the same
// window serialize; the loser sees the winner's row in the overlap
// check and gets a 409.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, _, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	checkIn, checkOut, err := parseWindow(req.CheckIn, req.CheckOut)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	room, err := h.Rooms.LockTx(ctx, tx, req.RoomID)
	if err != nil {
		return fail(c, err)
	}
	if room.Status != model.RoomAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is not available"})
	}
	rt, err := h.RoomTypes.GetByID(ctx, room.RoomTypeID)
	if err != nil {
		return fail(c, err)
	}
	if rt.Status != model.RoomTypeActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room type is not bookable"})
	}
	if req.Adults+req.Children > rt.Capacity {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "guest count exceeds room capacity"})
	}

	taken, err := h.Reservations.HasOverlapTx(ctx, tx, room.ID, checkIn, checkOut, 0)
	if err != nil {
		return fail(c, err)
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room already reserved for these dates"})
	}

	quote, err := booking.Price(checkIn, checkOut, rt.BasePrice)
	if err != nil {
		return fail(c, err)
	}

	res := model.Reservation{
		Code:            newReservationCode(),
		UserID:          uid,
		HotelID:         room.HotelID,
		RoomID:          room.ID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Nights:          quote.Nights,
		Adults:          req.Adults,
		Children:        req.Children,
		RoomRate:        rt.BasePrice, // snapshot: later price edits never touch this row
		TotalAmount:     quote.Total,
		PendingAmount:   quote.Total,
		Status:          model.ReservationPending,
		PaymentStatus:   model.PaymentStatePending,
		SpecialRequests: req.SpecialRequests,
	}
	if err := h.Reservations.CreateTx(ctx, tx, &res); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return fail(c, err)
	}
	committed = true

	_ = service.PublishReservationEvent(ctx, queue.NewReservationEvent(queue.EventReservationCreated, &res))
	return c.JSON(http.StatusCreated, res)
}

// List returns reservations scoped by role: guests see their own,
// owners see bookings across their hotels, admins see everything and
// may filter by user or hotel.
func (h *ReservationHandler) List(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var f repository.ReservationFilter
	f.Page, f.PerPage = pageParams(c)
	switch role {
	case model.RoleAdmin:
		if v := c.QueryParam("user_id"); v != "" {
			f.UserID, _ = strconv.ParseUint(v, 10, 64)
		}
		if v := c.QueryParam("hotel_id"); v != "" {
			f.HotelID, _ = strconv.ParseUint(v, 10, 64)
		}
	case model.RoleOwner:
		f.OwnerID = uid
		if v := c.QueryParam("hotel_id"); v != "" {
			f.HotelID, _ = strconv.ParseUint(v, 10, 64)
		}
	default:
		f.UserID = uid
	}
	if s := c.QueryParam("status"); s != "" {
		if !model.ReservationStatus(s).Valid() {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown status"})
		}
		f.Status = model.ReservationStatus(s)
	}
	if s := c.QueryParam("payment_status"); s != "" {
		f.PaymentStatus = model.PaymentState(s)
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid from"})
		}
		f.CheckInFrom = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid to"})
		}
		f.CheckInTo = t
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	list, total, err := h.Reservations.List(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	page, _ := normalizedPage(f.Page)
	return c.JSON(http.StatusOK, pagedResp{Data: list, Total: total, Page: page})
}

// canView reports whether the caller may read the reservation: the
// booker, the hotel's owner, or an admin.
func (h *ReservationHandler) canView(c echo.Context, res *model.Reservation, uid uint64, role model.Role) (bool, error) {
	if role == model.RoleAdmin || res.UserID == uid {
		return true, nil
	}
	if role == model.RoleOwner {
		ctx, cancel := contextWithDBTimeout(c)
		defer cancel()
		ownerID, err := h.Hotels.OwnerOf(ctx, res.HotelID)
		if err != nil {
			return false, err
		}
		return ownerID == uid, nil
	}
	return false, nil
}

// Get returns one reservation by id.
func (h *ReservationHandler) Get(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	okView, err := h.canView(c, &res, uid, role)
	if err != nil {
		return fail(c, err)
	}
	if !okView {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, res)
}

// Lookup resolves a reservation by its booking reference.
func (h *ReservationHandler) Lookup(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid code"})
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	res, err := h.Reservations.GetByCode(ctx, code)
	if err != nil {
		return fail(c, err)
	}
	okView, err := h.canView(c, &res, uid, role)
	if err != nil {
		return fail(c, err)
	}
	if !okView {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateWindow moves a reservation to new dates or occupancy.  Only
// pending and confirmed bookings are mutable; the room stays the same
// and is re-locked for a self-excluding availability check.  The total
// is re-derived from the original rate snapshot and the ledger is
// reconciled against the new total.
func (h *ReservationHandler) UpdateWindow(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req reservationWindowReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	checkIn, checkOut, err := parseWindow(req.CheckIn, req.CheckOut)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, hotelOwnerID, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}
	allowed := booking.CanEditReservation(role, uid, res.UserID) || (role == model.RoleOwner && hotelOwnerID == uid)
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !booking.Mutable(res.Status) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation can no longer be modified"})
	}

	room, err := h.Rooms.LockTx(ctx, tx, res.RoomID)
	if err != nil {
		return fail(c, err)
	}
	taken, err := h.Reservations.HasOverlapTx(ctx, tx, res.RoomID, checkIn, checkOut, res.ID)
	if err != nil {
		return fail(c, err)
	}
	if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room already reserved for these dates"})
	}

	rt, err := h.RoomTypes.GetByID(ctx, room.RoomTypeID)
	if err != nil {
		return fail(c, err)
	}
	if req.Adults+req.Children > rt.Capacity {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "guest count exceeds room capacity"})
	}

	quote, err := booking.Price(checkIn, checkOut, res.RoomRate)
	if err != nil {
		return fail(c, err)
	}
	res.CheckIn, res.CheckOut = checkIn, checkOut
	res.Nights = quote.Nights
	res.Adults, res.Children = req.Adults, req.Children
	res.TotalAmount = quote.Total
	if err := h.Reservations.UpdateWindowTx(ctx, tx, &res); err != nil {
		return fail(c, err)
	}

	// The total moved, so the derived payment state moves with it.
	amounts, err := h.Payments.CompletedAmountsTx(ctx, tx, res.ID)
	if err != nil {
		return fail(c, err)
	}
	ledger := booking.Reconcile(res.TotalAmount, amounts)
	if ledger.Clamped {
		log.Printf("reservations: %d repriced below paid amount; pending clamped to 0", res.ID)
	}
	if err := h.Reservations.SetPaymentTotalsTx(ctx, tx, res.ID, ledger.Paid, ledger.Pending, ledger.Status); err != nil {
		return fail(c, err)
	}
	res.PaidAmount, res.PendingAmount, res.PaymentStatus = ledger.Paid, ledger.Pending, ledger.Status

	if err := tx.Commit(); err != nil {
		return fail(c, err)
	}
	committed = true
	return c.JSON(http.StatusOK, res)
}

// transition is the shared lifecycle move: lock the row, consult the
// state machine, stamp the timestamp column, and flip the room status
// when the move demands it.
func (h *ReservationHandler) transition(c echo.Context, to model.ReservationStatus, eventType string) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, hotelOwnerID, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		return fail(c, err)
	}

	var allowed bool
	if to == model.ReservationCancelled {
		allowed = booking.CanCancel(role, uid, res.UserID) || (role == model.RoleOwner && hotelOwnerID == uid)
	} else {
		allowed = role == model.RoleAdmin || (booking.CanOperateReservations(role) && hotelOwnerID == uid)
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := booking.Transition(res.Status, to); err != nil {
		return fail(c, err)
	}
	now := time.Now().UTC()
	if err := h.Reservations.SetStatusTx(ctx, tx, res.ID, to, now); err != nil {
		return fail(c, err)
	}
	if rs := booking.RoomStatusAfter(to); rs != "" {
		if err := h.Rooms.SetStatusTx(ctx, tx, res.RoomID, rs); err != nil {
			return fail(c, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fail(c, err)
	}
	committed = true

	res.Status = to
	switch to {
	case model.ReservationConfirmed:
		res.ConfirmedAt = &now
	case model.ReservationCheckedIn:
		res.CheckedInAt = &now
	case model.ReservationCompleted:
		res.CheckedOutAt = &now
	}
	_ = service.PublishReservationEvent(ctx, queue.NewReservationEvent(eventType, &res))
	return c.JSON(http.StatusOK, res)
}

// Confirm moves pending -> confirmed.  Hotel staff only.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	return h.transition(c, model.ReservationConfirmed, queue.EventReservationConfirmed)
}

// Cancel moves pending|confirmed -> cancelled.  The booker may cancel
// their own reservation; staff may cancel any in their hotels.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	return h.transition(c, model.ReservationCancelled, queue.EventReservationCancelled)
}

// CheckIn moves confirmed -> checked_in and marks the room occupied.
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	return h.transition(c, model.ReservationCheckedIn, queue.EventReservationCheckedIn)
}

// CheckOut moves checked_in -> completed and frees the room.
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	return h.transition(c, model.ReservationCompleted, queue.EventReservationCheckedOut)
}
