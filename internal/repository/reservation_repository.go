package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations.  The booking
// path runs entirely inside a caller-owned transaction: lock the room
// row (RoomRepo.LockTx), test for overlap (HasOverlapTx), then insert
// (CreateTx).  Transitions and ledger updates likewise lock the
// reservation row first (GetForUpdateTx) so derived monetary fields
// are never computed from stale reads.
type ReservationRepo struct{ db *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, reservation_code, user_id, hotel_id, room_id,
	check_in_date, check_out_date, nights, adults, children, room_rate,
	total_amount, paid_amount, pending_amount, status, payment_status,
	special_requests, confirmed_at, checked_in_at, checked_out_at,
	created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var (
		res                             model.Reservation
		status, payStatus               string
		special                         sql.NullString
		confirmedAt, inAt, outAt        sql.NullTime
	)
	err := row.Scan(&res.ID, &res.Code, &res.UserID, &res.HotelID, &res.RoomID,
		&res.CheckIn, &res.CheckOut, &res.Nights, &res.Adults, &res.Children,
		&res.RoomRate, &res.TotalAmount, &res.PaidAmount, &res.PendingAmount,
		&status, &payStatus, &special, &confirmedAt, &inAt, &outAt,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return res, err
	}
	res.Status = model.ReservationStatus(status)
	res.PaymentStatus = model.PaymentState(payStatus)
	if special.Valid {
		s := special.String
		res.SpecialRequests = &s
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		res.ConfirmedAt = &t
	}
	if inAt.Valid {
		t := inAt.Time
		res.CheckedInAt = &t
	}
	if outAt.Valid {
		t := outAt.Time
		res.CheckedOutAt = &t
	}
	return res, nil
}

const dateFmt = "2006-01-02"

// HasOverlapTx reports whether any non-cancelled reservation on the
// room overlaps the half-open window [checkIn, checkOut).  It is the
// SQL twin of booking.Overlaps and must run after the room row lock is
// held for the result to be trustworthy under concurrency.  excludeID,
// when non-zero, removes the reservation being updated from the
// conflict set.
func (r *ReservationRepo) HasOverlapTx(ctx context.Context, tx *sql.Tx, roomID uint64, checkIn, checkOut time.Time, excludeID uint64) (bool, error) {
	q := `SELECT COUNT(*) FROM reservations
		WHERE room_id = ? AND status <> 'cancelled'
		AND check_in_date < ? AND check_out_date > ?`
	args := []any{roomID, checkOut.Format(dateFmt), checkIn.Format(dateFmt)}
	if excludeID != 0 {
		q += " AND id <> ?"
		args = append(args, excludeID)
	}
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTx inserts a reservation within the booking transaction and
// populates the generated fields on the passed struct.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx, `INSERT INTO reservations
		(reservation_code, user_id, hotel_id, room_id, check_in_date, check_out_date,
		 nights, adults, children, room_rate, total_amount, paid_amount, pending_amount,
		 status, payment_status, special_requests)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		res.Code, res.UserID, res.HotelID, res.RoomID,
		res.CheckIn.Format(dateFmt), res.CheckOut.Format(dateFmt),
		res.Nights, res.Adults, res.Children, res.RoomRate, res.TotalAmount,
		res.PaidAmount, res.PendingAmount, string(res.Status),
		string(res.PaymentStatus), res.SpecialRequests)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	got, err := scanReservation(tx.QueryRowContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE id=?", id))
	if err != nil {
		return err
	}
	*res = got
	return nil
}

// GetByID returns one reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotFound
	}
	return res, err
}

// GetByCode looks a reservation up by its shareable code.
func (r *ReservationRepo) GetByCode(ctx context.Context, code string) (model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE reservation_code=?", code))
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotFound
	}
	return res, err
}

// GetForUpdateTx locks the reservation row and returns it together
// with the owner of its hotel so the caller can authorize and mutate
// in one serialized step.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, uint64, error) {
	res, err := scanReservation(tx.QueryRowContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE id=? FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return res, 0, ErrNotFound
		}
		return res, 0, err
	}
	var ownerID uint64
	if err := tx.QueryRowContext(ctx,
		"SELECT owner_id FROM hotels WHERE id=?", res.HotelID).Scan(&ownerID); err != nil {
		return res, 0, err
	}
	return res, ownerID, nil
}

// transitionTimestamps maps a target status to the column that records
// when the transition happened.  Each is written exactly once, by its
// own transition.
var transitionTimestamps = map[model.ReservationStatus]string{
	model.ReservationConfirmed: "confirmed_at",
	model.ReservationCheckedIn: "checked_in_at",
	model.ReservationCompleted: "checked_out_at",
}

// SetStatusTx writes the new lifecycle status and, for transitions
// that carry one, stamps the matching timestamp column.
func (r *ReservationRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ReservationStatus, at time.Time) error {
	q := "UPDATE reservations SET status=?"
	args := []any{string(status)}
	if col, ok := transitionTimestamps[status]; ok {
		q += ", " + col + "=?"
		args = append(args, at.UTC())
	}
	q += " WHERE id=?"
	args = append(args, id)
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// UpdateWindowTx rewrites the dates, occupancy and derived pricing of
// a reservation after a successful availability re-check.  The rate
// itself is never touched; repricing always reuses the snapshot.
func (r *ReservationRepo) UpdateWindowTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	_, err := tx.ExecContext(ctx, `UPDATE reservations SET
		check_in_date=?, check_out_date=?, nights=?, adults=?, children=?,
		total_amount=?, paid_amount=?, pending_amount=?, payment_status=?, special_requests=?
		WHERE id=?`,
		res.CheckIn.Format(dateFmt), res.CheckOut.Format(dateFmt), res.Nights,
		res.Adults, res.Children, res.TotalAmount, res.PaidAmount,
		res.PendingAmount, string(res.PaymentStatus), res.SpecialRequests, res.ID)
	return err
}

// SetPaymentTotalsTx writes the reconciled monetary fields.  Callers
// obtain the values from booking.Reconcile, never by arithmetic at the
// call site.
func (r *ReservationRepo) SetPaymentTotalsTx(ctx context.Context, tx *sql.Tx, id uint64, paid, pending decimal.Decimal, status model.PaymentState) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE reservations SET paid_amount=?, pending_amount=?, payment_status=? WHERE id=?",
		paid, pending, string(status), id)
	return err
}

// ReservationFilter narrows List results.  OwnerID joins through
// hotels so owners only ever see reservations on their own properties.
type ReservationFilter struct {
	UserID        uint64
	HotelID       uint64
	OwnerID       uint64
	Status        model.ReservationStatus
	PaymentStatus model.PaymentState
	CheckInFrom   time.Time
	CheckInTo     time.Time
	Page          int
	PerPage       int
}

// List returns a page of reservations, newest first, plus the unpaged
// total count.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, int, error) {
	from := " FROM reservations rsv"
	where := " WHERE 1=1"
	args := []any{}
	if f.OwnerID != 0 {
		from += " JOIN hotels h ON h.id = rsv.hotel_id"
		where += " AND h.owner_id = ?"
		args = append(args, f.OwnerID)
	}
	if f.UserID != 0 {
		where += " AND rsv.user_id = ?"
		args = append(args, f.UserID)
	}
	if f.HotelID != 0 {
		where += " AND rsv.hotel_id = ?"
		args = append(args, f.HotelID)
	}
	if f.Status != "" {
		where += " AND rsv.status = ?"
		args = append(args, string(f.Status))
	}
	if f.PaymentStatus != "" {
		where += " AND rsv.payment_status = ?"
		args = append(args, string(f.PaymentStatus))
	}
	if !f.CheckInFrom.IsZero() {
		where += " AND rsv.check_in_date >= ?"
		args = append(args, f.CheckInFrom.Format(dateFmt))
	}
	if !f.CheckInTo.IsZero() {
		where += " AND rsv.check_in_date <= ?"
		args = append(args, f.CheckInTo.Format(dateFmt))
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*)"+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, per := normalizePage(f.Page, f.PerPage)
	args = append(args, per, (page-1)*per)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+prefixCols(reservationCols, "rsv")+from+where+
			" ORDER BY rsv.created_at DESC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, res)
	}
	return out, total, rows.Err()
}

// OwnerStats aggregates the numbers shown on the owner dashboard.
type OwnerStats struct {
	Hotels              int             `json:"hotels"`
	Rooms               int             `json:"rooms"`
	ActiveReservations  int             `json:"active_reservations"`
	PendingReservations int             `json:"pending_reservations"`
	Revenue             decimal.Decimal `json:"revenue"`
}

// RevenuePoint is one day of completed-payment revenue.
type RevenuePoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// BookingPoint counts reservations created on one day in one status.
type BookingPoint struct {
	Date   string                  `json:"date"`
	Status model.ReservationStatus `json:"status"`
	Count  int                     `json:"count"`
}

// HotelPerformance ranks one property over the analytics period.
type HotelPerformance struct {
	HotelID             uint64          `json:"hotel_id"`
	Name                string          `json:"name"`
	Reservations        int             `json:"reservations"`
	Revenue             decimal.Decimal `json:"revenue"`
	AverageBookingValue decimal.Decimal `json:"average_booking_value"`
}

// OwnerAnalytics is the time-series view behind the owner dashboard.
type OwnerAnalytics struct {
	PeriodDays    int                `json:"period_days"`
	DailyRevenue  []RevenuePoint     `json:"daily_revenue"`
	DailyBookings []BookingPoint     `json:"daily_bookings"`
	Hotels        []HotelPerformance `json:"hotel_performance"`
}

// AnalyticsForOwner aggregates the owner's last `days` days: revenue
// per day from completed ledger entries, reservation counts per day
// and status, and per-hotel totals with the average booking value.
func (r *ReservationRepo) AnalyticsForOwner(ctx context.Context, ownerID uint64, days int) (OwnerAnalytics, error) {
	out := OwnerAnalytics{
		PeriodDays:    days,
		DailyRevenue:  []RevenuePoint{},
		DailyBookings: []BookingPoint{},
		Hotels:        []HotelPerformance{},
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := r.db.QueryContext(ctx, `SELECT DATE(p.created_at) d, COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN reservations rsv ON rsv.id = p.reservation_id
		JOIN hotels h ON h.id = rsv.hotel_id
		WHERE h.owner_id = ? AND p.status = 'completed' AND p.created_at >= ?
		GROUP BY d ORDER BY d`, ownerID, since)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var day time.Time
		var pt RevenuePoint
		if err := rows.Scan(&day, &pt.Revenue); err != nil {
			return out, err
		}
		pt.Date = day.Format(dateFmt)
		out.DailyRevenue = append(out.DailyRevenue, pt)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = r.db.QueryContext(ctx, `SELECT DATE(rsv.created_at) d, rsv.status, COUNT(*)
		FROM reservations rsv
		JOIN hotels h ON h.id = rsv.hotel_id
		WHERE h.owner_id = ? AND rsv.created_at >= ?
		GROUP BY d, rsv.status ORDER BY d`, ownerID, since)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var day time.Time
		var status string
		var pt BookingPoint
		if err := rows.Scan(&day, &status, &pt.Count); err != nil {
			return out, err
		}
		pt.Date = day.Format(dateFmt)
		pt.Status = model.ReservationStatus(status)
		out.DailyBookings = append(out.DailyBookings, pt)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = r.db.QueryContext(ctx, `SELECT h.id, h.name,
		COUNT(DISTINCT rsv.id),
		COALESCE(SUM(CASE WHEN p.status = 'completed' THEN p.amount ELSE 0 END), 0)
		FROM hotels h
		LEFT JOIN reservations rsv ON rsv.hotel_id = h.id AND rsv.created_at >= ?
		LEFT JOIN payments p ON p.reservation_id = rsv.id
		WHERE h.owner_id = ?
		GROUP BY h.id, h.name ORDER BY 4 DESC`, since, ownerID)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var hp HotelPerformance
		if err := rows.Scan(&hp.HotelID, &hp.Name, &hp.Reservations, &hp.Revenue); err != nil {
			return out, err
		}
		if hp.Reservations > 0 {
			hp.AverageBookingValue = hp.Revenue.Div(decimal.NewFromInt(int64(hp.Reservations))).Round(2)
		}
		out.Hotels = append(out.Hotels, hp)
	}
	return out, rows.Err()
}

// StatsForOwner computes dashboard counts and completed-payment
// revenue across all hotels the owner holds.
func (r *ReservationRepo) StatsForOwner(ctx context.Context, ownerID uint64) (OwnerStats, error) {
	var s OwnerStats
	err := r.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM hotels WHERE owner_id = ?),
		(SELECT COUNT(*) FROM rooms rm JOIN hotels h ON h.id = rm.hotel_id WHERE h.owner_id = ?),
		(SELECT COUNT(*) FROM reservations rsv JOIN hotels h ON h.id = rsv.hotel_id
			WHERE h.owner_id = ? AND rsv.status IN ('confirmed','checked_in')),
		(SELECT COUNT(*) FROM reservations rsv JOIN hotels h ON h.id = rsv.hotel_id
			WHERE h.owner_id = ? AND rsv.status = 'pending'),
		COALESCE((SELECT SUM(p.amount) FROM payments p
			JOIN reservations rsv ON rsv.id = p.reservation_id
			JOIN hotels h ON h.id = rsv.hotel_id
			WHERE h.owner_id = ? AND p.status = 'completed'), 0)`,
		ownerID, ownerID, ownerID, ownerID, ownerID).
		Scan(&s.Hotels, &s.Rooms, &s.ActiveReservations, &s.PendingReservations, &s.Revenue)
	return s, err
}
