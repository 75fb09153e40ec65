package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-booking-api/internal/cache"
	"github.com/iliyamo/cabin-booking-api/internal/model"
	"github.com/iliyamo/cabin-booking-api/internal/pricing"
	"github.com/iliyamo/cabin-booking-api/internal/queue"
	"github.com/iliyamo/cabin-booking-api/internal/repository"
	queue_publisher "github.com/iliyamo/cabin-booking-api/internal/service"
	"github.com/iliyamo/cabin-booking-api/internal/validate"
)

// ListBookings returns bookings newest first. The unfiltered first page
// is the dashboard's hot read and is served from the cache; filtered or
// paginated reads go straight to the database.
func (h *StaffHandler) ListBookings(c echo.Context) error {
	status := c.QueryParam("status")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	plain := status == "" && limit == 0 && offset == 0
	var bookings []model.Booking
	if plain {
		if hit, _ := h.Cache.Get(ctx, cache.KeyBookings, &bookings); hit {
			return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
		}
	}
	bookings, err := h.Bookings.List(ctx, status, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if plain {
		_ = h.Cache.Replace(ctx, cache.KeyBookings, bookings)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// GetBooking returns one booking with its cabin name joined in.
func (h *StaffHandler) GetBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// CreateBooking validates the booking form against the selected cabin's
// capacity and availability, prices the stay, and writes guest and
// booking in one transaction.
func (h *StaffHandler) CreateBooking(c echo.Context) error {
	var form validate.BookingForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	vctx := validate.BookingContext{}
	var cabin *model.Cabin
	if form.CabinID != 0 {
		var err error
		cabin, err = h.Cabins.GetByID(ctx, form.CabinID)
		if err != nil && err != repository.ErrCabinNotFound {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		vctx.Cabin = cabin
		if cabin != nil {
			stays, err := h.Bookings.ListStayRanges(ctx)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
			}
			vctx.BookedDates = pricing.BookedDates(stays, cabin.Name)
		}
	}
	if errs := h.Validate.Booking(form, vctx); !errs.Ok() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}
	if cabin == nil {
		return c.JSON(http.StatusUnprocessableEntity,
			echo.Map{"errors": validate.Errors{"cabinId": "Cabin does not exist"}})
	}

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	quote, ok := pricing.BuildQuote(pricing.QuoteParams{
		HasBreakfast: form.HasBreakfast,
		NumGuests:    form.NumGuests,
		StartDate:    form.StartDate,
		EndDate:      form.EndDate,
		CabinID:      form.CabinID,
	}, *cabin, *settings)
	if !ok {
		// Unreachable after validation; kept as a belt check.
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "booking parameters incomplete"})
	}

	out, err := h.createBooking.Run(ctx, bookingInput{
		form: form,
		quote: quoteParts{
			numNights:        quote.NumNights,
			cabinPriceCents:  quote.CabinPriceCents,
			extrasPriceCents: quote.ExtrasPriceCents,
			totalPriceCents:  quote.TotalPriceCents,
		},
	})
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// writeBooking is the remote-write half of the create-booking mutation:
// guest upsert and booking insert share one transaction, then the
// created event goes out best-effort.
func (h *StaffHandler) writeBooking(ctx context.Context, in bookingInput) (*model.Booking, error) {
	tx, err := h.Bookings.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	guest := &model.Guest{
		FullName:   in.form.FullName,
		Email:      in.form.Email,
		NationalID: in.form.NationalID,
		Country:    in.form.Country,
	}
	if err := h.Guests.CreateTx(ctx, tx, guest); err != nil {
		return nil, err
	}

	b := &model.Booking{
		CabinID:          in.form.CabinID,
		GuestID:          guest.ID,
		StartDate:        in.form.StartDate.UTC(),
		EndDate:          in.form.EndDate.UTC(),
		NumNights:        in.quote.numNights,
		NumGuests:        in.form.NumGuests,
		CabinPriceCents:  in.quote.cabinPriceCents,
		ExtrasPriceCents: in.quote.extrasPriceCents,
		TotalPriceCents:  in.quote.totalPriceCents,
		Status:           model.BookingStatusUnconfirmed,
		HasBreakfast:     in.form.HasBreakfast,
		Observations:     in.form.Observations,
	}
	if err := h.Bookings.CreateTx(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if err := queue_publisher.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
		BookingID:       b.ID,
		CabinID:         b.CabinID,
		CabinName:       b.CabinName,
		GuestName:       guest.FullName,
		GuestEmail:      guest.Email,
		StartDate:       b.StartDate.Format("2006-01-02"),
		EndDate:         b.EndDate.Format("2006-01-02"),
		NumNights:       b.NumNights,
		NumGuests:       b.NumGuests,
		HasBreakfast:    b.HasBreakfast,
		TotalPriceCents: b.TotalPriceCents,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("booking %d created, event publish failed: %v", b.ID, err)
	}
	return b, nil
}

// BookedDates returns every day already taken for a cabin, for the
// booking form's date picker.
func (h *StaffHandler) BookedDates(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cabin, err := h.Cabins.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrCabinNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	stays, err := h.Bookings.ListStayRanges(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	days := pricing.BookedDates(stays, cabin.Name)
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format("2006-01-02"))
	}
	return c.JSON(http.StatusOK, echo.Map{"cabinId": id, "bookedDates": out})
}

type quoteReq struct {
	CabinID      uint64     `json:"cabinId"`
	NumGuests    int        `json:"numGuests"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	HasBreakfast bool       `json:"hasBreakfast"`
}

// Quote prices a prospective booking without writing anything. While
// parameters are still missing the response says so instead of erroring,
// so the form can poll it on every change.
func (h *StaffHandler) Quote(c echo.Context) error {
	var req quoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var cabin model.Cabin
	if req.CabinID != 0 {
		found, err := h.Cabins.GetByID(ctx, req.CabinID)
		if err != nil {
			if err == repository.ErrCabinNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		cabin = *found
	}
	settings, err := h.Settings.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	quote, ok := pricing.BuildQuote(pricing.QuoteParams{
		HasBreakfast: req.HasBreakfast,
		NumGuests:    req.NumGuests,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		CabinID:      req.CabinID,
	}, cabin, *settings)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"computable": false})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"computable":  true,
		"numNights":   quote.NumNights,
		"cabinPrice":  quote.CabinPriceCents,
		"extrasPrice": quote.ExtrasPriceCents,
		"totalPrice":  quote.TotalPriceCents,
		"breakdown":   quote.Breakdown,
		"formatted":   pricing.FormatCurrency(quote.TotalPriceCents),
	})
}

type statusReq struct {
	Status string `json:"status"`
	IsPaid bool   `json:"isPaid"`
}

// UpdateBookingStatus moves a booking through its lifecycle.
func (h *StaffHandler) UpdateBookingStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.Status {
	case model.BookingStatusUnconfirmed, model.BookingStatusCheckedIn, model.BookingStatusCheckedOut:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.checkBooking.Run(ctx, statusInput{id: id, status: req.Status, isPaid: req.IsPaid}); err != nil {
		return mutationError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteBooking removes a booking.
func (h *StaffHandler) DeleteBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.deleteBooking.Run(ctx, id); err != nil {
		return mutationError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
