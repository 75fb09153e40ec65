package model

import "time"

// Booking status values. A booking starts out unconfirmed and is
// moved through check-in and check-out by staff.
const (
	BookingStatusUnconfirmed = "unconfirmed"
	BookingStatusCheckedIn   = "checked-in"
	BookingStatusCheckedOut  = "checked-out"
)

// Booking records a guest's stay in a cabin over a date range.
// The price columns are denormalized at creation time from the
// pricing engine's output so that later settings changes do not
// retroactively alter historical bookings.
//
// Fields:
//  ID               – primary key identifier.
//  CabinID          – cabin being booked.
//  GuestID          – guest staying in the cabin.
//  StartDate        – first night of the stay (inclusive).
//  EndDate          – departure date; strictly after StartDate.
//  NumNights        – whole nights between start and end.
//  NumGuests        – party size; never exceeds the cabin capacity.
//  CabinPriceCents  – guests × effective nightly price × nights.
//  ExtrasPriceCents – breakfast total, zero when not booked.
//  TotalPriceCents  – CabinPriceCents + ExtrasPriceCents.
//  Status           – unconfirmed | checked-in | checked-out.
//  HasBreakfast     – whether breakfast was added to the stay.
//  IsPaid           – whether payment was received.
//  Observations     – free-text notes from the guest.
//  CabinName        – joined from cabins for display and availability.
type Booking struct {
	ID               uint64    `json:"id"`           // bookings.id
	CabinID          uint64    `json:"cabinId"`      // bookings.cabin_id
	GuestID          uint64    `json:"guestId"`      // bookings.guest_id
	StartDate        time.Time `json:"startDate"`    // bookings.start_date
	EndDate          time.Time `json:"endDate"`      // bookings.end_date
	NumNights        int       `json:"numNights"`    // bookings.num_nights
	NumGuests        int       `json:"numGuests"`    // bookings.num_guests
	CabinPriceCents  int64     `json:"cabinPrice"`   // bookings.cabin_price_cents
	ExtrasPriceCents int64     `json:"extrasPrice"`  // bookings.extras_price_cents
	TotalPriceCents  int64     `json:"totalPrice"`   // bookings.total_price_cents
	Status           string    `json:"status"`       // bookings.status
	HasBreakfast     bool      `json:"hasBreakfast"` // bookings.has_breakfast
	IsPaid           bool      `json:"isPaid"`       // bookings.is_paid
	Observations     string    `json:"observations"` // bookings.observations
	CreatedAt        time.Time `json:"createdAt"`    // bookings.created_at
	UpdatedAt        time.Time `json:"updatedAt"`    // bookings.updated_at
	CabinName        string    `json:"cabinName"`    // cabins.name (joined)
}

// Guest is a person staying in a cabin. Guests are created together
// with their first booking and reused on subsequent stays.
//
// Fields:
//  ID         – primary key identifier.
//  FullName   – guest's full name.
//  Email      – contact email, validated at the form boundary.
//  NationalID – national identifier document number.
//  Country    – country of residence.
type Guest struct {
	ID         uint64    `json:"id"`         // guests.id
	FullName   string    `json:"fullName"`   // guests.full_name
	Email      string    `json:"email"`      // guests.email
	NationalID string    `json:"nationalID"` // guests.national_id
	Country    string    `json:"country"`    // guests.country
	CreatedAt  time.Time `json:"createdAt"`  // guests.created_at
}
