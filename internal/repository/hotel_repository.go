package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// HotelRepo provides CRUD and filtered listing for hotels.  Amenities
// and image URLs live in JSON text columns and are decoded into plain
// string slices on the way out.
type HotelRepo struct{ db *sql.DB }

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

func (r *HotelRepo) DB() *sql.DB { return r.db }

const hotelCols = `id, owner_id, name, description, address, city, state, country,
	postal_code, phone, email, website, status, amenities, images, created_at, updated_at`

func scanHotel(row interface{ Scan(...any) error }) (model.Hotel, error) {
	var (
		h                 model.Hotel
		website           sql.NullString
		status            string
		amenities, images []byte
	)
	err := row.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.Address, &h.City,
		&h.State, &h.Country, &h.PostalCode, &h.Phone, &h.Email, &website,
		&status, &amenities, &images, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return h, err
	}
	if website.Valid {
		w := website.String
		h.Website = &w
	}
	h.Status = model.HotelStatus(status)
	h.Amenities = decodeStrings(amenities)
	h.Images = decodeStrings(images)
	return h, nil
}

// Create inserts a hotel and populates the generated ID and timestamps
// on the passed struct.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	amenities, err := encodeStrings(h.Amenities)
	if err != nil {
		return err
	}
	images, err := encodeStrings(h.Images)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO hotels
		(owner_id, name, description, address, city, state, country, postal_code,
		 phone, email, website, status, amenities, images)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		h.OwnerID, h.Name, h.Description, h.Address, h.City, h.State, h.Country,
		h.PostalCode, h.Phone, h.Email, h.Website, string(h.Status), amenities, images)
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
	*h = got
	return nil
}

// GetByID returns one hotel or ErrNotFound.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (model.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx,
		"SELECT "+hotelCols+" FROM hotels WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return h, ErrNotFound
	}
	return h, err
}

// OwnerOf returns the owner user ID of a hotel, or ErrNotFound.
func (r *HotelRepo) OwnerOf(ctx context.Context, hotelID uint64) (uint64, error) {
	var ownerID uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT owner_id FROM hotels WHERE id=?", hotelID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return ownerID, err
}

// HotelFilter narrows List results.  CheckIn/CheckOut, when both set,
// restrict the listing to hotels with at least one operationally
// available room free of overlapping non-cancelled reservations for
// the window.
type HotelFilter struct {
	City     string
	Status   model.HotelStatus
	OwnerID  uint64
	CheckIn  time.Time
	CheckOut time.Time
	Page     int
	PerPage  int
}

// availableRoomClause matches hotels having a bookable room for the
// window.  The inner predicate is the interval-overlap test from the
// booking package expressed in SQL: an existing reservation blocks the
// window iff check_in_date < :out AND check_out_date > :in.
const availableRoomClause = ` AND EXISTS (
	SELECT 1 FROM rooms rm WHERE rm.hotel_id = h.id AND rm.status = 'available'
	AND NOT EXISTS (
		SELECT 1 FROM reservations rsv
		WHERE rsv.room_id = rm.id AND rsv.status <> 'cancelled'
		AND rsv.check_in_date < ? AND rsv.check_out_date > ?))`

// List returns a page of hotels plus the unpaged total count.
func (r *HotelRepo) List(ctx context.Context, f HotelFilter) ([]model.Hotel, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Status != "" {
		where += " AND h.status = ?"
		args = append(args, string(f.Status))
	}
	if f.City != "" {
		where += " AND h.city LIKE ?"
		args = append(args, "%"+f.City+"%")
	}
	if f.OwnerID != 0 {
		where += " AND h.owner_id = ?"
		args = append(args, f.OwnerID)
	}
	if !f.CheckIn.IsZero() && !f.CheckOut.IsZero() {
		where += availableRoomClause
		args = append(args, f.CheckOut.Format("2006-01-02"), f.CheckIn.Format("2006-01-02"))
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM hotels h"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + prefixCols(hotelCols, "h") + " FROM hotels h" + where +
		" ORDER BY h.created_at DESC LIMIT ? OFFSET ?"
	page, per := normalizePage(f.Page, f.PerPage)
	args = append(args, per, (page-1)*per)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	hotels := make([]model.Hotel, 0)
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, 0, err
		}
		hotels = append(hotels, h)
	}
	return hotels, total, rows.Err()
}

// Update rewrites the mutable columns of a hotel.  The caller must
// have verified ownership beforehand (see OwnerOf); this keeps the
// check adjacent to the call instead of trusting stale fetches.
func (r *HotelRepo) Update(ctx context.Context, h *model.Hotel) error {
	amenities, err := encodeStrings(h.Amenities)
	if err != nil {
		return err
	}
	images, err := encodeStrings(h.Images)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE hotels SET
		name=?, description=?, address=?, city=?, state=?, country=?, postal_code=?,
		phone=?, email=?, website=?, status=?, amenities=?, images=?
		WHERE id=?`,
		h.Name, h.Description, h.Address, h.City, h.State, h.Country, h.PostalCode,
		h.Phone, h.Email, h.Website, string(h.Status), amenities, images, h.ID)
	if err != nil {
		return err
	}
	got, err := r.GetByID(ctx, h.ID)
	if err != nil {
		return err
	}
	*h = got
	return nil
}

// Delete removes a hotel unless reservations still reference its
// rooms, in which case ErrConflict is returned.  Room and room type
// rows cascade at the schema level.
func (r *HotelRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations
		WHERE hotel_id=? AND status IN ('pending','confirmed','checked_in')`, id).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM hotels WHERE id=?", id)
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

// prefixCols qualifies a comma-separated column list with a table
// alias for use in joined queries.
func prefixCols(cols, alias string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// normalizePage applies the listing defaults (page 1, 15 per page,
// capped at 100).
func normalizePage(page, per int) (int, int) {
	if page < 1 {
		page = 1
	}
	if per < 1 {
		per = 15
	}
	if per > 100 {
		per = 100
	}
	return page, per
}
