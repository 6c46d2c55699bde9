package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// PaymentRepo persists the append-only payment ledger.  Ledger rows
// are only ever deleted while still pending; everything that reached
// `completed` stays forever, refunds included.
type PaymentRepo struct{ db *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

func (r *PaymentRepo) DB() *sql.DB { return r.db }

const paymentCols = `id, reservation_id, payment_id, amount, currency, payment_method,
	status, gateway, gateway_response, processed_at, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var (
		p              model.Payment
		method, status string
		gwResp         []byte
		processedAt    sql.NullTime
	)
	err := row.Scan(&p.ID, &p.ReservationID, &p.PaymentID, &p.Amount, &p.Currency,
		&method, &status, &p.Gateway, &gwResp, &processedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.Method = model.PaymentMethod(method)
	p.Status = model.PaymentStatus(status)
	p.GatewayResponse = gwResp
	if processedAt.Valid {
		t := processedAt.Time
		p.ProcessedAt = &t
	}
	return p, nil
}

// CreateTx inserts a ledger entry inside the caller's transaction and
// populates the generated fields.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO payments
		(reservation_id, payment_id, amount, currency, payment_method, status,
		 gateway, gateway_response, processed_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		p.ReservationID, p.PaymentID, p.Amount, p.Currency, string(p.Method),
		string(p.Status), p.Gateway, p.GatewayResponse, p.ProcessedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := scanPayment(tx.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE id=?", id))
	if err != nil {
		return err
	}
	*p = got
	return nil
}

// GetByID returns one ledger entry or ErrNotFound.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// GetForUpdateTx locks a ledger entry for a status transition.
func (r *PaymentRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Payment, error) {
	p, err := scanPayment(tx.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE id=? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// SetStatusTx moves a ledger entry to its terminal status, stamping
// processed_at and replacing the stored gateway response when the
// caller supplies one.
func (r *PaymentRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.PaymentStatus, processedAt time.Time, gatewayResponse []byte) error {
	q := "UPDATE payments SET status=?, processed_at=?"
	args := []any{string(status), processedAt.UTC()}
	if gatewayResponse != nil {
		q += ", gateway_response=?"
		args = append(args, gatewayResponse)
	}
	q += " WHERE id=?"
	args = append(args, id)
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// UpdatePendingTx rewrites the amount and method of a still-pending
// charge.  Completed entries are immutable.
func (r *PaymentRepo) UpdatePendingTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE payments SET amount=?, payment_method=?, gateway=? WHERE id=? AND status='pending'",
		p.Amount, string(p.Method), p.Gateway, p.ID)
	return err
}

// DeletePending removes a pending charge.  ErrConflict is returned
// when the entry has already left the pending state.
func (r *PaymentRepo) DeletePending(ctx context.Context, id uint64) error {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Status != model.PaymentPending {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM payments WHERE id=? AND status='pending'", id)
	return err
}

// CompletedAmountsTx returns the signed amounts of every completed
// ledger entry for a reservation, in insertion order.  This is the
// input to booking.Reconcile and must be read inside the same
// transaction that mutates the ledger.
func (r *PaymentRepo) CompletedAmountsTx(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]decimal.Decimal, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT amount FROM payments WHERE reservation_id=? AND status='completed' ORDER BY id",
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	amounts := make([]decimal.Decimal, 0)
	for rows.Next() {
		var amt decimal.Decimal
		if err := rows.Scan(&amt); err != nil {
			return nil, err
		}
		amounts = append(amounts, amt)
	}
	return amounts, rows.Err()
}

// ListByReservation returns the full ledger of one reservation,
// newest first.
func (r *PaymentRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE reservation_id=? ORDER BY created_at DESC, id DESC",
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PaymentFilter narrows List results.
type PaymentFilter struct {
	ReservationID uint64
	Status        model.PaymentStatus
	Method        model.PaymentMethod
	Gateway       string
	FromDate      time.Time
	ToDate        time.Time
	Page          int
	PerPage       int
}

// List returns a page of ledger entries plus the unpaged total.
func (r *PaymentRepo) List(ctx context.Context, f PaymentFilter) ([]model.Payment, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.ReservationID != 0 {
		where += " AND reservation_id = ?"
		args = append(args, f.ReservationID)
	}
	if f.Status != "" {
		where += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if f.Method != "" {
		where += " AND payment_method = ?"
		args = append(args, string(f.Method))
	}
	if f.Gateway != "" {
		where += " AND gateway = ?"
		args = append(args, f.Gateway)
	}
	if !f.FromDate.IsZero() {
		where += " AND created_at >= ?"
		args = append(args, f.FromDate.UTC())
	}
	if !f.ToDate.IsZero() {
		where += " AND created_at <= ?"
		args = append(args, f.ToDate.UTC())
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payments"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, per := normalizePage(f.Page, f.PerPage)
	args = append(args, per, (page-1)*per)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+paymentCols+" FROM payments"+where+
			" ORDER BY created_at DESC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}
