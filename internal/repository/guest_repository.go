package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/cabin-booking-api/internal/model"
)

// ErrGuestNotFound is returned when a guest cannot be found.
var ErrGuestNotFound = errors.New("guest not found")

// GuestRepo persists guests. Guests are keyed by email: a returning
// guest booking again reuses their existing row.
type GuestRepo struct {
	db *sql.DB
}

// NewGuestRepo returns a new GuestRepo bound to the given database.
func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

// CreateTx inserts a guest within an existing transaction and
// populates the generated ID. If the email already exists the row is
// updated in place instead, so repeated bookings keep guest details
// fresh.
func (r *GuestRepo) CreateTx(ctx context.Context, tx *sql.Tx, g *model.Guest) error {
	g.Email = strings.ToLower(strings.TrimSpace(g.Email))
	const q = `INSERT INTO guests (full_name, email, national_id, country)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE full_name=VALUES(full_name), national_id=VALUES(national_id), country=VALUES(country)`
	if _, err := tx.ExecContext(ctx, q, g.FullName, g.Email, g.NationalID, g.Country); err != nil {
		return err
	}
	// LastInsertId is unreliable for ON DUPLICATE KEY UPDATE; read the
	// row back by its unique email instead.
	const sel = "SELECT id, full_name, email, national_id, country, created_at FROM guests WHERE email = ?"
	return tx.QueryRowContext(ctx, sel, g.Email).
		Scan(&g.ID, &g.FullName, &g.Email, &g.NationalID, &g.Country, &g.CreatedAt)
}

// GetByID fetches a guest by id.
func (r *GuestRepo) GetByID(ctx context.Context, id uint64) (*model.Guest, error) {
	const q = "SELECT id, full_name, email, national_id, country, created_at FROM guests WHERE id = ?"
	var g model.Guest
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&g.ID, &g.FullName, &g.Email, &g.NationalID, &g.Country, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}
