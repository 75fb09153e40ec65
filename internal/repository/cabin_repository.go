// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for cabin CRUD and lookups. A cabin
// is a bookable unit; its image column stores the public asset URL computed
// by the cabin saga, never raw binary data.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/cabin-booking-api/internal/model"
)

// ErrCabinNotFound is returned when a cabin cannot be found in the DB.
var ErrCabinNotFound = errors.New("cabin not found")

// ErrCabinNameExists is returned when a cabin insert or rename collides
// with an existing cabin name.
var ErrCabinNameExists = errors.New("cabin name already exists")

// CabinRepo encapsulates all database queries related to cabins. It
// depends on a sql.DB connection which should be configured elsewhere.
type CabinRepo struct {
	db *sql.DB
}

// NewCabinRepo constructs a CabinRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewCabinRepo(db *sql.DB) *CabinRepo {
	return &CabinRepo{db: db}
}

const cabinColumns = "id, name, max_capacity, regular_price_cents, discount_cents, image, description, created_at, updated_at"

func scanCabin(row *sql.Row, c *model.Cabin) error {
	return row.Scan(&c.ID, &c.Name, &c.MaxCapacity, &c.RegularPriceCents, &c.DiscountCents,
		&c.Image, &c.Description, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a new cabin. On success the cabin's ID field is
// populated with the auto-generated value and a follow-up SELECT fills
// in the default timestamp columns so callers receive a fully
// populated record.
func (r *CabinRepo) Create(ctx context.Context, c *model.Cabin) error {
	const qInsert = `INSERT INTO cabins (name, max_capacity, regular_price_cents, discount_cents, image, description)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		c.Name, c.MaxCapacity, c.RegularPriceCents, c.DiscountCents, c.Image, c.Description)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrCabinNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = "SELECT " + cabinColumns + " FROM cabins WHERE id = ?"
	return scanCabin(r.db.QueryRowContext(ctx, qSelect, c.ID), c)
}

// Update rewrites a cabin row by identifier and re-reads it so the
// caller sees the post-write shape, including the bumped updated_at.
func (r *CabinRepo) Update(ctx context.Context, c *model.Cabin) error {
	const qUpdate = `UPDATE cabins SET name=?, max_capacity=?, regular_price_cents=?, discount_cents=?, image=?, description=?
		WHERE id=?`
	res, err := r.db.ExecContext(ctx, qUpdate,
		c.Name, c.MaxCapacity, c.RegularPriceCents, c.DiscountCents, c.Image, c.Description, c.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrCabinNameExists
		}
		return err
	}
	// Zero affected rows is ambiguous (no change vs. no row); the
	// follow-up SELECT settles it.
	_, _ = res.RowsAffected()
	const qSelect = "SELECT " + cabinColumns + " FROM cabins WHERE id = ?"
	if err := scanCabin(r.db.QueryRowContext(ctx, qSelect, c.ID), c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCabinNotFound
		}
		return err
	}
	return nil
}

// Delete removes a cabin by identifier. Cabins with existing bookings
// cannot be deleted; the foreign key violation is mapped to
// ErrConflict.
func (r *CabinRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cabins WHERE id = ?", id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") { // rows still reference this cabin
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCabinNotFound
	}
	return nil
}

// GetByID fetches a cabin by its ID. It returns ErrCabinNotFound if no
// row is found.
func (r *CabinRepo) GetByID(ctx context.Context, id uint64) (*model.Cabin, error) {
	const q = "SELECT " + cabinColumns + " FROM cabins WHERE id = ?"
	var c model.Cabin
	if err := scanCabin(r.db.QueryRowContext(ctx, q, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCabinNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all cabins ordered by name.
func (r *CabinRepo) List(ctx context.Context) ([]model.Cabin, error) {
	const q = "SELECT " + cabinColumns + " FROM cabins ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Cabin
	for rows.Next() {
		var c model.Cabin
		if err := rows.Scan(&c.ID, &c.Name, &c.MaxCapacity, &c.RegularPriceCents, &c.DiscountCents,
			&c.Image, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
