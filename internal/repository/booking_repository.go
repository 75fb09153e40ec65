package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cabin-booking-api/internal/model"
	"github.com/iliyamo/cabin-booking-api/internal/pricing"
)

// ErrBookingNotFound is returned when a booking cannot be found.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides CRUD operations for bookings. All timestamp
// fields are stored in UTC; start/end are DATE columns.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingSelect = `SELECT b.id, b.cabin_id, b.guest_id, b.start_date, b.end_date,
	b.num_nights, b.num_guests, b.cabin_price_cents, b.extras_price_cents, b.total_price_cents,
	b.status, b.has_breakfast, b.is_paid, b.observations, b.created_at, b.updated_at, c.name
	FROM bookings b JOIN cabins c ON c.id = b.cabin_id`

func scanBooking(scan func(dest ...any) error, b *model.Booking) error {
	return scan(&b.ID, &b.CabinID, &b.GuestID, &b.StartDate, &b.EndDate,
		&b.NumNights, &b.NumGuests, &b.CabinPriceCents, &b.ExtrasPriceCents, &b.TotalPriceCents,
		&b.Status, &b.HasBreakfast, &b.IsPaid, &b.Observations, &b.CreatedAt, &b.UpdatedAt, &b.CabinName)
}

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID on the provided record.
// The caller must commit or rollback the transaction. Status should be
// a valid enumeration ('unconfirmed','checked-in','checked-out').
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (cabin_id, guest_id, start_date, end_date, num_nights, num_guests,
		cabin_price_cents, extras_price_cents, total_price_cents, status, has_breakfast, is_paid, observations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, b.CabinID, b.GuestID, b.StartDate, b.EndDate, b.NumNights,
		b.NumGuests, b.CabinPriceCents, b.ExtrasPriceCents, b.TotalPriceCents, b.Status,
		b.HasBreakfast, b.IsPaid, b.Observations)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	row := tx.QueryRowContext(ctx, bookingSelect+" WHERE b.id = ?", b.ID)
	return scanBooking(row.Scan, b)
}

// GetByID fetches one booking with its cabin name joined in.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	row := r.db.QueryRowContext(ctx, bookingSelect+" WHERE b.id = ?", id)
	if err := scanBooking(row.Scan, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns bookings newest first, optionally filtered by status,
// with limit/offset pagination. A limit of zero means no limit.
func (r *BookingRepo) List(ctx context.Context, status string, limit, offset int) ([]model.Booking, error) {
	q := bookingSelect
	args := []any{}
	if status != "" {
		q += " WHERE b.status = ?"
		args = append(args, status)
	}
	q += " ORDER BY b.start_date DESC, b.id DESC"
	if limit > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows.Scan, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListStayRanges returns every booking's cabin name and raw date range
// for the availability engine. The dates are formatted as naive
// datetime strings exactly as the engine expects; the engine attaches
// the UTC marker itself before expansion.
func (r *BookingRepo) ListStayRanges(ctx context.Context) ([]pricing.StayRange, error) {
	const q = `SELECT c.name,
		DATE_FORMAT(b.start_date, '%Y-%m-%dT%H:%i:%s'),
		DATE_FORMAT(b.end_date, '%Y-%m-%dT%H:%i:%s')
		FROM bookings b JOIN cabins c ON c.id = b.cabin_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pricing.StayRange
	for rows.Next() {
		var s pricing.StayRange
		if err := rows.Scan(&s.CabinName, &s.Start, &s.End); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStatus moves a booking through its lifecycle
// (unconfirmed -> checked-in -> checked-out) and flips is_paid on
// check-in when payment was collected.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string, isPaid bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status=?, is_paid=? WHERE id=?", status, isPaid, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// Delete removes a booking by identifier.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// BeginTx starts a transaction for multi-row writes (guest + booking).
func (r *BookingRepo) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}
