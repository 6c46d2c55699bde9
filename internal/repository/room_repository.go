package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo provides CRUD, availability queries and the row lock that
// serializes concurrent bookings on one room.
type RoomRepo struct{ db *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

func (r *RoomRepo) DB() *sql.DB { return r.db }

const roomCols = `id, hotel_id, room_type_id, room_number, floor, status, notes,
	created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (model.Room, error) {
	var (
		rm     model.Room
		floor  sql.NullInt64
		notes  sql.NullString
		status string
	)
	err := row.Scan(&rm.ID, &rm.HotelID, &rm.RoomTypeID, &rm.RoomNumber,
		&floor, &status, &notes, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return rm, err
	}
	if floor.Valid {
		f := uint32(floor.Int64)
		rm.Floor = &f
	}
	if notes.Valid {
		n := notes.String
		rm.Notes = &n
	}
	rm.Status = model.RoomStatus(status)
	return rm, nil
}

// Create inserts a room.  The unique key on (hotel_id, room_number)
// turns duplicate numbers into ErrDuplicate.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO rooms
		(hotel_id, room_type_id, room_number, floor, status, notes)
		VALUES (?,?,?,?,?,?)`,
		rm.HotelID, rm.RoomTypeID, rm.RoomNumber, rm.Floor, string(rm.Status), rm.Notes)
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
	got, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rm = got
	return nil
}

// GetByID returns one room or ErrNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx,
		"SELECT "+roomCols+" FROM rooms WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return rm, ErrNotFound
	}
	return rm, err
}

// LockTx reads a room inside the transaction with FOR UPDATE, taking a
// row lock that serializes concurrent bookings on the same room.  The
// availability check and reservation insert that follow in the same
// transaction are therefore atomic with respect to other booking
// attempts: of two racing requests for overlapping windows, the second
// blocks here until the first commits and then sees its reservation.
func (r *RoomRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Room, error) {
	rm, err := scanRoom(tx.QueryRowContext(ctx,
		"SELECT "+roomCols+" FROM rooms WHERE id=? FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return rm, ErrNotFound
	}
	return rm, err
}

// RoomFilter narrows List results.
type RoomFilter struct {
	HotelID    uint64
	RoomTypeID uint64
	Status     model.RoomStatus
	Floor      *uint32
	Page       int
	PerPage    int
}

// List returns a page of rooms plus the unpaged total.
func (r *RoomRepo) List(ctx context.Context, f RoomFilter) ([]model.Room, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.HotelID != 0 {
		where += " AND hotel_id = ?"
		args = append(args, f.HotelID)
	}
	if f.RoomTypeID != 0 {
		where += " AND room_type_id = ?"
		args = append(args, f.RoomTypeID)
	}
	if f.Status != "" {
		where += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if f.Floor != nil {
		where += " AND floor = ?"
		args = append(args, *f.Floor)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rooms"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, per := normalizePage(f.Page, f.PerPage)
	args = append(args, per, (page-1)*per)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+roomCols+" FROM rooms"+where+
			" ORDER BY hotel_id, room_number LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	rooms := make([]model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, 0, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, total, rows.Err()
}

// ListAvailable returns the rooms of a hotel (optionally narrowed to a
// room type) that are operationally available and free of overlapping
// non-cancelled reservations for the window.
func (r *RoomRepo) ListAvailable(ctx context.Context, hotelID, roomTypeID uint64, checkIn, checkOut time.Time) ([]model.Room, error) {
	q := "SELECT " + roomCols + ` FROM rooms
		WHERE hotel_id = ? AND status = 'available'
		AND NOT EXISTS (
			SELECT 1 FROM reservations rsv
			WHERE rsv.room_id = rooms.id AND rsv.status <> 'cancelled'
			AND rsv.check_in_date < ? AND rsv.check_out_date > ?)`
	args := []any{hotelID, checkOut.Format("2006-01-02"), checkIn.Format("2006-01-02")}
	if roomTypeID != 0 {
		q += " AND room_type_id = ?"
		args = append(args, roomTypeID)
	}
	q += " ORDER BY room_number"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rooms := make([]model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}

// activeReservationCount counts reservations that block destructive
// room operations.
func (r *RoomRepo) activeReservationCount(ctx context.Context, roomID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations
		WHERE room_id=? AND status IN ('confirmed','checked_in')`, roomID).Scan(&n)
	return n, err
}

// Update rewrites room_number, floor and notes.  Status changes go
// through SetStatus so the active-reservation guard cannot be skipped.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE rooms SET room_number=?, floor=?, notes=? WHERE id=?",
		rm.RoomNumber, rm.Floor, rm.Notes, rm.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	got, err := r.GetByID(ctx, rm.ID)
	if err != nil {
		return err
	}
	*rm = got
	return nil
}

// SetStatus changes a room's operational status.  While active
// reservations exist the room belongs to the state machine: manual
// writes are refused with ErrConflict so check-in/check-out side
// effects cannot be clobbered.
func (r *RoomRepo) SetStatus(ctx context.Context, roomID uint64, status model.RoomStatus) error {
	n, err := r.activeReservationCount(ctx, roomID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE rooms SET status=? WHERE id=?", string(status), roomID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatusTx flips the room status inside a transition transaction.
// Only the reservation state machine calls this; it bypasses the
// active-reservation guard because the transition itself is the
// legitimate writer.
func (r *RoomRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, roomID uint64, status model.RoomStatus) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE rooms SET status=? WHERE id=?", string(status), roomID)
	return err
}

// Delete removes a room unless active reservations reference it.
func (r *RoomRepo) Delete(ctx context.Context, roomID uint64) error {
	n, err := r.activeReservationCount(ctx, roomID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id=?", roomID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
