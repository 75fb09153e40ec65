package validate

import (
	"time"

	"github.com/iliyamo/cabin-booking-api/internal/model"
)

// BookingForm is the typed payload of the booking-creation form. Guest
// fields and booking fields arrive together; the handler splits them
// after validation.
type BookingForm struct {
	FullName     string     `json:"fullName" validate:"required"`
	Email        string     `json:"email" validate:"required,email"`
	Country      string     `json:"country" validate:"required"`
	NationalID   string     `json:"nationalID" validate:"required"`
	CabinID      uint64     `json:"cabinId" validate:"required"`
	NumGuests    int        `json:"numGuests" validate:"required,min=1"`
	StartDate    *time.Time `json:"startDate" validate:"required"`
	EndDate      *time.Time `json:"endDate" validate:"required"`
	HasBreakfast bool       `json:"hasBreakfast"`
	Observations string     `json:"observations"`
}

// BookingContext carries the resolved state the cross-field rules need:
// the selected cabin (nil when the id matched nothing) and the days
// already booked for it.
type BookingContext struct {
	Cabin       *model.Cabin
	BookedDates []time.Time
}

// Booking validates the booking-creation form. Tag rules run first;
// cross-field rules only fire once their inputs are present, mirroring
// the form's behavior of re-validating either side of a pair when the
// other changes:
//
//   - guest count vs. cabin capacity is checked bidirectionally, so the
//     message lands on both fields.
//   - the start date requires a cabin to be chosen first; the end date
//     additionally requires a start date and must be strictly after it.
//   - both dates are rejected when they fall on an already-booked day
//     for the selected cabin. A cabin change resets the dates at the
//     handler, so stale selections never reach a newly chosen cabin.
func (e *Engine) Booking(form BookingForm, ctx BookingContext) Errors {
	errs := e.tagErrors(form)

	// Capacity, checked from both directions.
	if ctx.Cabin != nil && form.NumGuests > 0 && form.NumGuests > ctx.Cabin.MaxCapacity {
		if _, seen := errs["numGuests"]; !seen {
			errs["numGuests"] = MsgOverCapacity
		}
		if _, seen := errs["cabinId"]; !seen {
			errs["cabinId"] = MsgOverCapacity
		}
	}

	// Start date needs a cabin so availability can be checked.
	if form.StartDate != nil && form.CabinID == 0 {
		if _, seen := errs["startDate"]; !seen {
			errs["startDate"] = MsgStartNeedsCabin
		}
	}

	// End date ordering chain.
	if form.EndDate != nil {
		switch {
		case form.CabinID == 0:
			if _, seen := errs["endDate"]; !seen {
				errs["endDate"] = MsgEndNeedsCabin
			}
		case form.StartDate == nil:
			if _, seen := errs["endDate"]; !seen {
				errs["endDate"] = MsgEndNeedsStart
			}
		case !form.StartDate.Before(*form.EndDate):
			if _, seen := errs["endDate"]; !seen {
				errs["endDate"] = MsgEndBeforeStart
			}
		}
	}

	// Availability conflicts against the selected cabin.
	if form.CabinID != 0 {
		if form.StartDate != nil && dateIn(*form.StartDate, ctx.BookedDates) {
			if _, seen := errs["startDate"]; !seen {
				errs["startDate"] = MsgDateUnavailable
			}
		}
		if form.EndDate != nil && dateIn(*form.EndDate, ctx.BookedDates) {
			if _, seen := errs["endDate"]; !seen {
				errs["endDate"] = MsgDateUnavailable
			}
		}
	}

	return errs
}

// CabinForm is the typed payload of the cabin create/edit form. The
// image arrives out of band (multipart) and is handled by the saga.
type CabinForm struct {
	Name              string `json:"name" validate:"required"`
	MaxCapacity       int    `json:"maxCapacity" validate:"required,min=1"`
	RegularPriceCents int64  `json:"regularPrice" validate:"required,min=1"`
	DiscountCents     int64  `json:"discount" validate:"min=0"`
	Description       string `json:"description"`
}

// Cabin validates the cabin form, including the invariant that the
// effective price never goes negative.
func (e *Engine) Cabin(form CabinForm) Errors {
	errs := e.tagErrors(form)
	if form.DiscountCents > form.RegularPriceCents {
		if _, seen := errs["discount"]; !seen {
			errs["discount"] = MsgDiscountTooLarge
		}
	}
	return errs
}

// UserUpdateForm is the typed payload of the profile-update form. All
// fields are optional partial updates except that a submitted password
// must have a minimum length.
type UserUpdateForm struct {
	FullName string `json:"fullName"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// UserUpdate validates a profile update.
func (e *Engine) UserUpdate(form UserUpdateForm) Errors {
	errs := e.tagErrors(form)
	if _, seen := errs["password"]; seen {
		errs["password"] = "Password needs a minimum of 8 characters"
	}
	return errs
}

// SettingsForm is the typed payload of the settings form.
type SettingsForm struct {
	MinBookingLength    int   `json:"minBookingLength" validate:"required,min=1"`
	MaxBookingLength    int   `json:"maxBookingLength" validate:"required,min=1"`
	MaxGuestsPerBooking int   `json:"maxGuestsPerBooking" validate:"required,min=1"`
	BreakfastPriceCents int64 `json:"breakfastPrice" validate:"min=0"`
}

// Settings validates the global settings form.
func (e *Engine) Settings(form SettingsForm) Errors {
	errs := e.tagErrors(form)
	if form.MaxBookingLength > 0 && form.MinBookingLength > form.MaxBookingLength {
		if _, seen := errs["minBookingLength"]; !seen {
			errs["minBookingLength"] = "Minimum nights can't exceed maximum nights"
		}
	}
	return errs
}
