package validate

import (
	"testing"
	"time"

	"github.com/iliyamo/cabin-booking-api/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validBookingForm() (BookingForm, BookingContext) {
	start, end := day(2024, 4, 1), day(2024, 4, 5)
	form := BookingForm{
		FullName:   "Alex Guest",
		Email:      "alex@example.com",
		Country:    "Portugal",
		NationalID: "X123456",
		CabinID:    3,
		NumGuests:  2,
		StartDate:  &start,
		EndDate:    &end,
	}
	ctx := BookingContext{
		Cabin: &model.Cabin{ID: 3, Name: "Cabin 3", MaxCapacity: 4},
	}
	return form, ctx
}

func TestBookingValidPasses(t *testing.T) {
	e := NewEngine()
	form, ctx := validBookingForm()
	if errs := e.Booking(form, ctx); !errs.Ok() {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestBookingRequiredFields(t *testing.T) {
	e := NewEngine()
	errs := e.Booking(BookingForm{}, BookingContext{})

	for _, field := range []string{"fullName", "email", "country", "nationalID", "cabinId", "numGuests"} {
		if errs[field] != MsgRequired {
			t.Errorf("%s: got %q, want %q", field, errs[field], MsgRequired)
		}
	}
	if errs["startDate"] != MsgStartRequired {
		t.Errorf("startDate: got %q, want %q", errs["startDate"], MsgStartRequired)
	}
	if errs["endDate"] != MsgEndRequired {
		t.Errorf("endDate: got %q, want %q", errs["endDate"], MsgEndRequired)
	}
}

func TestBookingEmailFormat(t *testing.T) {
	e := NewEngine()
	form, ctx := validBookingForm()
	form.Email = "not-an-email"
	errs := e.Booking(form, ctx)
	if errs["email"] != MsgEmail {
		t.Errorf("email: got %q, want %q", errs["email"], MsgEmail)
	}
}

func TestBookingCapacityCheckedBidirectionally(t *testing.T) {
	e := NewEngine()
	form, ctx := validBookingForm()
	form.NumGuests = 9 // cabin holds 4
	errs := e.Booking(form, ctx)
	if errs["numGuests"] != MsgOverCapacity {
		t.Errorf("numGuests: got %q, want %q", errs["numGuests"], MsgOverCapacity)
	}
	if errs["cabinId"] != MsgOverCapacity {
		t.Errorf("cabinId: got %q, want %q", errs["cabinId"], MsgOverCapacity)
	}
}

func TestBookingGuestsMinimum(t *testing.T) {
	e := NewEngine()
	form, ctx := validBookingForm()
	form.NumGuests = -1
	errs := e.Booking(form, ctx)
	if errs["numGuests"] != MsgMinGuests {
		t.Errorf("numGuests: got %q, want %q", errs["numGuests"], MsgMinGuests)
	}
}

func TestBookingDatesNeedCabinFirst(t *testing.T) {
	e := NewEngine()
	form, ctx := validBookingForm()
	form.CabinID = 0
	ctx.Cabin = nil
	errs := e.Booking(form, ctx)
	if errs["startDate"] != MsgStartNeedsCabin {
		t.Errorf("startDate: got %q, want %q", errs["startDate"], MsgStartNeedsCabin)
	}
	if errs["endDate"] != MsgEndNeedsCabin {
		t.Errorf("endDate: got %q, want %q", errs["endDate"], MsgEndNeedsCabin)
	}
}

func TestBookingEndNeedsStart(t *testing.T) {
	e := NewEngine()
	form, ctx := validBookingForm()
	form.StartDate = nil
	errs := e.Booking(form, ctx)
	if errs["endDate"] != MsgEndNeedsStart {
		t.Errorf("endDate: got %q, want %q", errs["endDate"], MsgEndNeedsStart)
	}
}

func TestBookingEndMustBeAfterStart(t *testing.T) {
	e := NewEngine()
	form, ctx := validBookingForm()
	same := day(2024, 4, 1)
	form.StartDate = &same
	form.EndDate = &same
	errs := e.Booking(form, ctx)
	if errs["endDate"] != MsgEndBeforeStart {
		t.Errorf("equal dates: got %q, want %q", errs["endDate"], MsgEndBeforeStart)
	}

	before := day(2024, 3, 30)
	form.EndDate = &before
	errs = e.Booking(form, ctx)
	if errs["endDate"] != MsgEndBeforeStart {
		t.Errorf("end before start: got %q, want %q", errs["endDate"], MsgEndBeforeStart)
	}
}

func TestBookingRejectsBookedDates(t *testing.T) {
	e := NewEngine()
	form, ctx := validBookingForm()
	ctx.BookedDates = []time.Time{day(2024, 4, 1), day(2024, 4, 5)}
	errs := e.Booking(form, ctx)
	if errs["startDate"] != MsgDateUnavailable {
		t.Errorf("startDate: got %q, want %q", errs["startDate"], MsgDateUnavailable)
	}
	if errs["endDate"] != MsgDateUnavailable {
		t.Errorf("endDate: got %q, want %q", errs["endDate"], MsgDateUnavailable)
	}

	// Free dates for the same cabin pass.
	start, end := day(2024, 4, 10), day(2024, 4, 12)
	form.StartDate, form.EndDate = &start, &end
	if errs := e.Booking(form, ctx); !errs.Ok() {
		t.Errorf("free dates should pass, got %v", errs)
	}
}

func TestCabinFormDiscountInvariant(t *testing.T) {
	e := NewEngine()
	form := CabinForm{Name: "Cabin 1", MaxCapacity: 2, RegularPriceCents: 100, DiscountCents: 110}
	errs := e.Cabin(form)
	if errs["discount"] != MsgDiscountTooLarge {
		t.Errorf("discount: got %q, want %q", errs["discount"], MsgDiscountTooLarge)
	}

	form.DiscountCents = 100 // equal is fine: effective price zero, not negative
	if errs := e.Cabin(form); !errs.Ok() {
		t.Errorf("discount equal to price should pass, got %v", errs)
	}
}

func TestCabinFormRequired(t *testing.T) {
	e := NewEngine()
	errs := e.Cabin(CabinForm{})
	for _, field := range []string{"name", "maxCapacity", "regularPrice"} {
		if errs[field] != MsgRequired {
			t.Errorf("%s: got %q, want %q", field, errs[field], MsgRequired)
		}
	}
}

func TestUserUpdatePasswordLength(t *testing.T) {
	e := NewEngine()
	if errs := e.UserUpdate(UserUpdateForm{FullName: "Jo"}); !errs.Ok() {
		t.Errorf("password is optional, got %v", errs)
	}
	errs := e.UserUpdate(UserUpdateForm{Password: "short"})
	if errs["password"] == "" {
		t.Error("short password should be rejected")
	}
}

func TestSettingsOrdering(t *testing.T) {
	e := NewEngine()
	errs := e.Settings(SettingsForm{MinBookingLength: 10, MaxBookingLength: 3, MaxGuestsPerBooking: 8})
	if errs["minBookingLength"] == "" {
		t.Error("min > max should be rejected")
	}
}
