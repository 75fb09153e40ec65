// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a booking is successfully created.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	CabinID         uint64 `json:"cabin_id"`
	CabinName       string `json:"cabin_name"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	NumNights       int    `json:"num_nights"`
	NumGuests       int    `json:"num_guests"`
	HasBreakfast    bool   `json:"has_breakfast"`
	TotalPriceCents int64  `json:"total_price_cents"`
	CreatedAt       string `json:"created_at"`
}

// NotificationEvent carries a user-visible toast emitted by the mutation
// layer. Level is "success" or "error"; the message is shown to staff
// verbatim.
type NotificationEvent struct {
	Level     string `json:"level"`
	Message   string `json:"message"`
	EmittedAt string `json:"emitted_at"`
}
