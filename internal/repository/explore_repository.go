package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ExploreRepo persists the curated discovery feed.  The feed is small
// and fully public, so List returns every row unpaged.
type ExploreRepo struct{ db *sql.DB }

func NewExploreRepo(db *sql.DB) *ExploreRepo { return &ExploreRepo{db: db} }

const exploreCols = "id, name, description, image, created_at, updated_at"

func scanExplore(row interface{ Scan(...any) error }) (model.ExploreItem, error) {
	var (
		it          model.ExploreItem
		description sql.NullString
		image       sql.NullString
	)
	err := row.Scan(&it.ID, &it.Name, &description, &image, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return it, err
	}
	it.Description = description.String
	it.Image = image.String
	return it, nil
}

// List returns the whole feed, newest first.
func (r *ExploreRepo) List(ctx context.Context) ([]model.ExploreItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+exploreCols+" FROM explore_items ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ExploreItem, 0)
	for rows.Next() {
		it, err := scanExplore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetByID returns one feed entry or ErrNotFound.
func (r *ExploreRepo) GetByID(ctx context.Context, id uint64) (model.ExploreItem, error) {
	it, err := scanExplore(r.db.QueryRowContext(ctx,
		"SELECT "+exploreCols+" FROM explore_items WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return it, ErrNotFound
	}
	return it, err
}

// Create inserts a feed entry and populates the generated fields on
// the passed struct.
func (r *ExploreRepo) Create(ctx context.Context, it *model.ExploreItem) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO explore_items (name, description, image) VALUES (?,?,?)",
		it.Name, it.Description, it.Image)
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
	*it = got
	return nil
}

// Update rewrites a feed entry in place.
func (r *ExploreRepo) Update(ctx context.Context, it *model.ExploreItem) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE explore_items SET name=?, description=?, image=? WHERE id=?",
		it.Name, it.Description, it.Image, it.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, it.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a feed entry, ErrNotFound when it never existed.
func (r *ExploreRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM explore_items WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
