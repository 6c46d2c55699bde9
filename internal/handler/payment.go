package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// PaymentHandler keeps the reservation's money state consistent: every
// mutation locks the reservation row, appends to the ledger, and
// recomputes paid/pending/payment_status from the completed entries.
type PaymentHandler struct {
	Payments     *repository.PaymentRepo
	Reservations *repository.ReservationRepo
	Hotels       *repository.HotelRepo
}

func NewPaymentHandler(p *repository.PaymentRepo, res *repository.ReservationRepo, hotels *repository.HotelRepo) *PaymentHandler {
	return &PaymentHandler{Payments: p, Reservations: res, Hotels: hotels}
}

type chargeReq struct {
	Amount   string          `json:"amount" validate:"required"`
	Currency string          `json:"currency" validate:"omitempty,len=3"`
	Method   string          `json:"payment_method" validate:"required,oneof=credit_card debit_card paypal bank_transfer cash"`
	Gateway  string          `json:"gateway"`
	Meta     json.RawMessage `json:"gateway_response"`
}

type refundReq struct {
	Amount string          `json:"refund_amount"`
	Meta   json.RawMessage `json:"gateway_response"`
}

func parseAmount(s string) (decimal.Decimal, error) {
	a, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !a.IsPositive() {
		return decimal.Decimal{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "amount must be a positive decimal")
	}
	return a, nil
}

// lockReservation begins a transaction and locks the reservation row,
// returning it plus the owning hotel's owner id.
func (h *PaymentHandler) lockReservation(ctx context.Context, id uint64) (*sql.Tx, model.Reservation, uint64, error) {
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, model.Reservation{}, 0, err
	}
	res, ownerID, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		_ = tx.Rollback()
		return nil, model.Reservation{}, 0, err
	}
	return tx, res, ownerID, nil
}

// canTouchLedger reports whether the caller may read or prune a
// reservation's ledger: the booking user, the verified owner of the
// reservation's hotel, or an admin.  Role alone grants nothing.
func (h *PaymentHandler) canTouchLedger(ctx context.Context, res *model.Reservation, uid uint64, role model.Role) (bool, error) {
	if role == model.RoleAdmin || res.UserID == uid {
		return true, nil
	}
	if role == model.RoleOwner {
		ownerID, err := h.Hotels.OwnerOf(ctx, res.HotelID)
		if err != nil {
			return false, err
		}
		return ownerID == uid, nil
	}
	return false, nil
}

// reconcileTx recomputes the reservation's derived money columns from
// the ledger.  Must run inside the same transaction as the mutation it
// follows.
func (h *PaymentHandler) reconcileTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	amounts, err := h.Payments.CompletedAmountsTx(ctx, tx, res.ID)
	if err != nil {
		return err
	}
	ledger := booking.Reconcile(res.TotalAmount, amounts)
	if ledger.Clamped {
		log.Printf("payments: reservation %d ledger exceeds total %s; pending clamped to 0", res.ID, res.TotalAmount)
	}
	if err := h.Reservations.SetPaymentTotalsTx(ctx, tx, res.ID, ledger.Paid, ledger.Pending, ledger.Status); err != nil {
		return err
	}
	res.PaidAmount, res.PendingAmount, res.PaymentStatus = ledger.Paid, ledger.Pending, ledger.Status
	return nil
}

// Charge records a pending ledger entry against a reservation.  The
// overpayment guard compares against the pending balance under the
// row lock, so concurrent charges cannot jointly exceed the total.
func (h *PaymentHandler) Charge(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req chargeReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	tx, res, ownerID, err := h.lockReservation(ctx, resID)
	if err != nil {
		return fail(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	allowed := role == model.RoleAdmin || res.UserID == uid || (role == model.RoleOwner && ownerID == uid)
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if res.Status == model.ReservationCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is cancelled"})
	}
	if err := booking.CheckCharge(amount, res.PendingAmount); err != nil {
		return fail(c, err)
	}

	p := model.Payment{
		ReservationID: res.ID,
		PaymentID:     "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12]),
		Amount:        amount,
		Currency:      strings.ToUpper(req.Currency),
		Method:        model.PaymentMethod(req.Method),
		Status:        model.PaymentPending,
		Gateway:       req.Gateway,
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.Gateway == "" {
		p.Gateway = "manual"
	}
	if len(req.Meta) > 0 {
		p.GatewayResponse = req.Meta
	}
	if err := h.Payments.CreateTx(ctx, tx, &p); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return fail(c, err)
	}
	committed = true
	return c.JSON(http.StatusCreated, p)
}

// Complete marks a pending entry completed and reconciles.  Staff only.
func (h *PaymentHandler) Complete(c echo.Context) error {
	return h.settle(c, model.PaymentCompleted)
}

// Fail marks a pending entry failed.  Failed entries never count
// toward the paid amount, but the reconcile keeps the derived state
// honest regardless.
func (h *PaymentHandler) Fail(c echo.Context) error {
	return h.settle(c, model.PaymentFailed)
}

func (h *PaymentHandler) settle(c echo.Context, to model.PaymentStatus) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !booking.CanManagePayments(role) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	payID, err := pathID(c, "payment_id")
	if err != nil {
		return fail(c, err)
	}
	var req struct {
		Meta json.RawMessage `json:"gateway_response"`
	}
	_ = c.Bind(&req)

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	// Resolve the owning reservation first so the lock order is always
	// reservation -> payment.
	p, err := h.Payments.GetByID(ctx, payID)
	if err != nil {
		return fail(c, err)
	}
	tx, res, ownerID, err := h.lockReservation(ctx, p.ReservationID)
	if err != nil {
		return fail(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if role == model.RoleOwner && ownerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	p, err = h.Payments.GetForUpdateTx(ctx, tx, payID)
	if err != nil {
		return fail(c, err)
	}
	if p.Status != model.PaymentPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "payment already settled"})
	}
	if to == model.PaymentCompleted {
		// Re-check under the lock: a sibling charge may have completed
		// since this entry was recorded.
		if err := booking.CheckCharge(p.Amount, res.PendingAmount); err != nil {
			return fail(c, err)
		}
	}

	now := time.Now().UTC()
	if err := h.Payments.SetStatusTx(ctx, tx, payID, to, now, req.Meta); err != nil {
		return fail(c, err)
	}
	if err := h.reconcileTx(ctx, tx, &res); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return fail(c, err)
	}
	committed = true

	p.Status = to
	p.ProcessedAt = &now
	return c.JSON(http.StatusOK, echo.Map{"payment": p, "reservation": res})
}

// Refund issues a refund against a single completed charge.  The
// refund is recorded as a negative completed entry mirroring the
// original's currency, method and gateway; the amount defaults to the
// full charge and may not exceed it.  The original entry keeps its
// completed status — the ledger sum, not a status flip, is what moves
// the reservation back to partial or refunded.
func (h *PaymentHandler) Refund(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !booking.CanManagePayments(role) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	payID, err := pathID(c, "payment_id")
	if err != nil {
		return fail(c, err)
	}
	var req refundReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	// Resolve the owning reservation first so the lock order is always
	// reservation -> payment.
	p, err := h.Payments.GetByID(ctx, payID)
	if err != nil {
		return fail(c, err)
	}
	tx, res, ownerID, err := h.lockReservation(ctx, p.ReservationID)
	if err != nil {
		return fail(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if role == model.RoleOwner && ownerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	p, err = h.Payments.GetForUpdateTx(ctx, tx, payID)
	if err != nil {
		return fail(c, err)
	}
	amount := p.Amount
	if req.Amount != "" {
		if amount, err = parseAmount(req.Amount); err != nil {
			return fail(c, err)
		}
	}
	if err := booking.CheckRefund(amount, &p); err != nil {
		return fail(c, err)
	}

	now := time.Now().UTC()
	ref := model.Payment{
		ReservationID: res.ID,
		PaymentID:     "REF-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12]),
		Amount:        amount.Neg(),
		Currency:      p.Currency,
		Method:        p.Method,
		Status:        model.PaymentCompleted,
		Gateway:       p.Gateway,
		ProcessedAt:   &now,
	}
	if len(req.Meta) > 0 {
		ref.GatewayResponse = req.Meta
	}
	if err := h.Payments.CreateTx(ctx, tx, &ref); err != nil {
		return fail(c, err)
	}
	if err := h.reconcileTx(ctx, tx, &res); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return fail(c, err)
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{"payment": ref, "reservation": res})
}

// UpdatePending amends an unsettled charge.  Settled entries are
// immutable.  The new amount goes through the same overpayment guard
// as a fresh charge, under the reservation lock.
func (h *PaymentHandler) UpdatePending(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	payID, err := pathID(c, "payment_id")
	if err != nil {
		return fail(c, err)
	}
	var req chargeReq
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	p, err := h.Payments.GetByID(ctx, payID)
	if err != nil {
		return fail(c, err)
	}
	tx, res, ownerID, err := h.lockReservation(ctx, p.ReservationID)
	if err != nil {
		return fail(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	allowed := role == model.RoleAdmin || res.UserID == uid || (role == model.RoleOwner && ownerID == uid)
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	p, err = h.Payments.GetForUpdateTx(ctx, tx, payID)
	if err != nil {
		return fail(c, err)
	}
	if p.Status != model.PaymentPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "payment already settled"})
	}
	if err := booking.CheckCharge(amount, res.PendingAmount); err != nil {
		return fail(c, err)
	}

	p.Amount = amount
	p.Method = model.PaymentMethod(req.Method)
	if req.Gateway != "" {
		p.Gateway = req.Gateway
	}
	if err := h.Payments.UpdatePendingTx(ctx, tx, &p); err != nil {
		return fail(c, err)
	}
	if err := tx.Commit(); err != nil {
		return fail(c, err)
	}
	committed = true
	return c.JSON(http.StatusOK, p)
}

// DeletePending drops an unsettled ledger entry.  Completed entries
// are immutable; the repository answers 409 for them.
func (h *PaymentHandler) DeletePending(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	payID, err := pathID(c, "payment_id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	p, err := h.Payments.GetByID(ctx, payID)
	if err != nil {
		return fail(c, err)
	}
	res, err := h.Reservations.GetByID(ctx, p.ReservationID)
	if err != nil {
		return fail(c, err)
	}
	allowed, err := h.canTouchLedger(ctx, &res, uid, role)
	if err != nil {
		return fail(c, err)
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Payments.DeletePending(ctx, payID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary returns the reservation's ledger with its derived totals.
func (h *PaymentHandler) Summary(c echo.Context) error {
	uid, role, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, resID)
	if err != nil {
		return fail(c, err)
	}
	allowed, err := h.canTouchLedger(ctx, &res, uid, role)
	if err != nil {
		return fail(c, err)
	}
	if !allowed {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	entries, err := h.Payments.ListByReservation(ctx, resID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_amount":   res.TotalAmount,
		"paid_amount":    res.PaidAmount,
		"pending_amount": res.PendingAmount,
		"payment_status": res.PaymentStatus,
		"entries":        entries,
	})
}

// List is the admin ledger view across all reservations.
func (h *PaymentHandler) List(c echo.Context) error {
	var f repository.PaymentFilter
	f.Page, f.PerPage = pageParams(c)
	if v := c.QueryParam("reservation_id"); v != "" {
		f.ReservationID, _ = strconv.ParseUint(v, 10, 64)
	}
	if s := c.QueryParam("status"); s != "" {
		if !model.PaymentStatus(s).Valid() {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown status"})
		}
		f.Status = model.PaymentStatus(s)
	}
	if s := c.QueryParam("payment_method"); s != "" {
		f.Method = model.PaymentMethod(s)
	}
	f.Gateway = c.QueryParam("gateway")
	if v := c.QueryParam("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid from"})
		}
		f.FromDate = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid to"})
		}
		f.ToDate = t
	}

	ctx, cancel := contextWithDBTimeout(c)
	defer cancel()

	entries, total, err := h.Payments.List(ctx, f)
	if err != nil {
		return fail(c, err)
	}
	page, _ := normalizedPage(f.Page)
	return c.JSON(http.StatusOK, pagedResp{Data: entries, Total: total, Page: page})
}
