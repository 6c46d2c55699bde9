package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomTypeRepo provides CRUD and listing for room types.  BasePrice is
// a DECIMAL(10,2) column scanned into shopspring decimals so pricing
// snapshots stay exact.
type RoomTypeRepo struct{ db *sql.DB }

func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo { return &RoomTypeRepo{db: db} }

const roomTypeCols = `id, hotel_id, name, description, base_price, capacity,
	status, featured, images, created_at, updated_at`

func scanRoomType(row interface{ Scan(...any) error }) (model.RoomType, error) {
	var (
		rt     model.RoomType
		price  decimal.Decimal
		status string
		images []byte
	)
	err := row.Scan(&rt.ID, &rt.HotelID, &rt.Name, &rt.Description, &price,
		&rt.Capacity, &status, &rt.Featured, &images, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return rt, err
	}
	rt.BasePrice = price
	rt.Status = model.RoomTypeStatus(status)
	rt.Images = decodeStrings(images)
	return rt, nil
}

// Create inserts a room type and populates the generated fields.
func (r *RoomTypeRepo) Create(ctx context.Context, rt *model.RoomType) error {
	images, err := encodeStrings(rt.Images)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO room_types
		(hotel_id, name, description, base_price, capacity, status, featured, images)
		VALUES (?,?,?,?,?,?,?,?)`,
		rt.HotelID, rt.Name, rt.Description, rt.BasePrice, rt.Capacity,
		string(rt.Status), rt.Featured, images)
	if err != nil {
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
	*rt = got
	return nil
}

// GetByID returns one room type or ErrNotFound.
func (r *RoomTypeRepo) GetByID(ctx context.Context, id uint64) (model.RoomType, error) {
	rt, err := scanRoomType(r.db.QueryRowContext(ctx,
		"SELECT "+roomTypeCols+" FROM room_types WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return rt, ErrNotFound
	}
	return rt, err
}

// BelongsToHotel reports whether the room type exists under the given
// hotel.  Used when wiring rooms and reservations to reject
// cross-hotel references with a validation error.
func (r *RoomTypeRepo) BelongsToHotel(ctx context.Context, roomTypeID, hotelID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM room_types WHERE id=? AND hotel_id=?", roomTypeID, hotelID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// RoomTypeFilter narrows List results.
type RoomTypeFilter struct {
	HotelID  uint64
	Status   model.RoomTypeStatus
	Featured *bool
	Page     int
	PerPage  int
}

// List returns a page of room types plus the unpaged total.
func (r *RoomTypeRepo) List(ctx context.Context, f RoomTypeFilter) ([]model.RoomType, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.HotelID != 0 {
		where += " AND hotel_id = ?"
		args = append(args, f.HotelID)
	}
	if f.Status != "" {
		where += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if f.Featured != nil {
		where += " AND featured = ?"
		args = append(args, *f.Featured)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM room_types"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, per := normalizePage(f.Page, f.PerPage)
	args = append(args, per, (page-1)*per)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+roomTypeCols+" FROM room_types"+where+
			" ORDER BY created_at DESC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	types := make([]model.RoomType, 0)
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			return nil, 0, err
		}
		types = append(types, rt)
	}
	return types, total, rows.Err()
}

// Update rewrites the mutable columns.  Changing base_price never
// touches existing reservations; their room_rate snapshot is fixed at
// creation.
func (r *RoomTypeRepo) Update(ctx context.Context, rt *model.RoomType) error {
	images, err := encodeStrings(rt.Images)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE room_types SET
		name=?, description=?, base_price=?, capacity=?, status=?, featured=?, images=?
		WHERE id=?`,
		rt.Name, rt.Description, rt.BasePrice, rt.Capacity, string(rt.Status),
		rt.Featured, images, rt.ID)
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, rt.ID)
	if err != nil {
		return err
	}
	*rt = got
	return nil
}

// Delete removes a room type unless rooms still reference it.
func (r *RoomTypeRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rooms WHERE room_type_id=?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM room_types WHERE id=?", id)
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
