package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cabin-booking-api/internal/model"
)

// ErrSettingsMissing is returned when the settings row has not been
// seeded yet. The schema migration inserts it, so this points at a
// broken deployment rather than a user error.
var ErrSettingsMissing = errors.New("settings row missing")

// SettingRepo reads and updates the single global settings row.
type SettingRepo struct {
	db *sql.DB
}

// NewSettingRepo returns a new SettingRepo bound to the given database.
func NewSettingRepo(db *sql.DB) *SettingRepo { return &SettingRepo{db: db} }

// Get returns the settings row.
func (r *SettingRepo) Get(ctx context.Context) (*model.Settings, error) {
	const q = `SELECT id, min_booking_length, max_booking_length, max_guests_per_booking,
		breakfast_price_cents, updated_at FROM settings WHERE id = 1`
	var s model.Settings
	err := r.db.QueryRowContext(ctx, q).Scan(&s.ID, &s.MinBookingLength, &s.MaxBookingLength,
		&s.MaxGuestsPerBooking, &s.BreakfastPriceCents, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsMissing
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update rewrites the settings row in place and re-reads it so the
// caller sees the post-write shape.
func (r *SettingRepo) Update(ctx context.Context, s *model.Settings) error {
	const q = `UPDATE settings SET min_booking_length=?, max_booking_length=?,
		max_guests_per_booking=?, breakfast_price_cents=? WHERE id = 1`
	if _, err := r.db.ExecContext(ctx, q, s.MinBookingLength, s.MaxBookingLength,
		s.MaxGuestsPerBooking, s.BreakfastPriceCents); err != nil {
		return err
	}
	updated, err := r.Get(ctx)
	if err != nil {
		return err
	}
	*s = *updated
	return nil
}
