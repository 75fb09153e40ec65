package model

import "time"

// Settings holds the global booking configuration. The `settings`
// table contains exactly one row which is updated in place by
// staff; it is never deleted.
//
// Fields:
//  ID                   – primary key, always 1.
//  MinBookingLength     – minimum nights per booking.
//  MaxBookingLength     – maximum nights per booking.
//  MaxGuestsPerBooking  – upper bound on party size across all cabins.
//  BreakfastPriceCents  – breakfast price per guest per night, in cents.
type Settings struct {
	ID                  uint64    `json:"id"`                  // settings.id
	MinBookingLength    int       `json:"minBookingLength"`    // settings.min_booking_length
	MaxBookingLength    int       `json:"maxBookingLength"`    // settings.max_booking_length
	MaxGuestsPerBooking int       `json:"maxGuestsPerBooking"` // settings.max_guests_per_booking
	BreakfastPriceCents int64     `json:"breakfastPrice"`      // settings.breakfast_price_cents
	UpdatedAt           time.Time `json:"updatedAt"`           // settings.updated_at
}
