package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-booking-api/internal/assets"
	"github.com/iliyamo/cabin-booking-api/internal/cache"
	"github.com/iliyamo/cabin-booking-api/internal/config"
	"github.com/iliyamo/cabin-booking-api/internal/model"
	"github.com/iliyamo/cabin-booking-api/internal/mutation"
	"github.com/iliyamo/cabin-booking-api/internal/notify"
	"github.com/iliyamo/cabin-booking-api/internal/repository"
	"github.com/iliyamo/cabin-booking-api/internal/validate"
)

// StaffHandler bundles the dashboard endpoints' collaborators: the
// repositories, the read cache, the asset store, the validation engine
// and one Mutation per logical write operation. Sharing the mutation
// instances across requests is what makes the duplicate-submission
// guard effective: while a write is outstanding, a second submission of
// the same operation fails fast with ErrInFlight.
type StaffHandler struct {
	Cfg      config.Config
	Cabins   *repository.CabinRepo
	Bookings *repository.BookingRepo
	Guests   *repository.GuestRepo
	Settings *repository.SettingRepo
	Users    *repository.UserRepo
	Cache    *cache.Service
	Assets   assets.Store
	Validate *validate.Engine
	Notifier notify.Notifier

	saga *mutation.CabinSaga

	createBooking  *mutation.Mutation[bookingInput, *model.Booking]
	checkBooking   *mutation.Mutation[statusInput, struct{}]
	deleteBooking  *mutation.Mutation[uint64, struct{}]
	saveCabin      *mutation.Mutation[cabinInput, *model.Cabin]
	deleteCabin    *mutation.Mutation[uint64, struct{}]
	updateSettings *mutation.Mutation[model.Settings, *model.Settings]
	updateUser     *mutation.Mutation[profileInput, model.User]
}

type bookingInput struct {
	form  validate.BookingForm
	quote quoteParts
}

type quoteParts struct {
	numNights        int
	cabinPriceCents  int64
	extrasPriceCents int64
	totalPriceCents  int64
}

type statusInput struct {
	id     uint64
	status string
	isPaid bool
}

type cabinInput struct {
	cabin *model.Cabin
	image mutation.CabinImage
}

type profileInput struct {
	id           uint64
	fullName     string
	passwordHash string
	avatar       string
}

// NewStaffHandler wires the handler and its mutations.
func NewStaffHandler(
	cfg config.Config,
	cabins *repository.CabinRepo,
	bookings *repository.BookingRepo,
	guests *repository.GuestRepo,
	settings *repository.SettingRepo,
	users *repository.UserRepo,
	cacheSvc *cache.Service,
	store assets.Store,
	notifier notify.Notifier,
) *StaffHandler {
	h := &StaffHandler{
		Cfg:      cfg,
		Cabins:   cabins,
		Bookings: bookings,
		Guests:   guests,
		Settings: settings,
		Users:    users,
		Cache:    cacheSvc,
		Assets:   store,
		Validate: validate.NewEngine(),
		Notifier: notifier,
		saga:     mutation.NewCabinSaga(cabins, store),
	}

	// Writes whose effect on a cached list cannot be inferred locally
	// invalidate; writes returning the one cached object replace.
	h.createBooking = mutation.New("create-booking", notifier,
		h.writeBooking,
		func(ctx context.Context, _ *model.Booking) error {
			return h.Cache.Invalidate(ctx, cache.KeyBookings)
		},
		"New booking successfully created")
	h.checkBooking = mutation.New("update-booking-status", notifier,
		func(ctx context.Context, in statusInput) (struct{}, error) {
			return struct{}{}, h.Bookings.UpdateStatus(ctx, in.id, in.status, in.isPaid)
		},
		func(ctx context.Context, _ struct{}) error {
			return h.Cache.Invalidate(ctx, cache.KeyBookings)
		},
		"Booking successfully updated")
	h.deleteBooking = mutation.New("delete-booking", notifier,
		func(ctx context.Context, id uint64) (struct{}, error) {
			return struct{}{}, h.Bookings.Delete(ctx, id)
		},
		func(ctx context.Context, _ struct{}) error {
			return h.Cache.Invalidate(ctx, cache.KeyBookings)
		},
		"Booking successfully deleted")
	h.saveCabin = mutation.New("save-cabin", notifier,
		func(ctx context.Context, in cabinInput) (*model.Cabin, error) {
			if err := h.saga.Save(ctx, in.cabin, in.image); err != nil {
				return nil, err
			}
			return in.cabin, nil
		},
		func(ctx context.Context, _ *model.Cabin) error {
			return h.Cache.Invalidate(ctx, cache.KeyCabins)
		},
		"Cabin successfully saved")
	h.deleteCabin = mutation.New("delete-cabin", notifier,
		func(ctx context.Context, id uint64) (struct{}, error) {
			return struct{}{}, h.Cabins.Delete(ctx, id)
		},
		func(ctx context.Context, _ struct{}) error {
			return h.Cache.Invalidate(ctx, cache.KeyCabins)
		},
		"Cabin successfully deleted")
	h.updateSettings = mutation.New("update-settings", notifier,
		func(ctx context.Context, s model.Settings) (*model.Settings, error) {
			if err := h.Settings.Update(ctx, &s); err != nil {
				return nil, err
			}
			return &s, nil
		},
		func(ctx context.Context, out *model.Settings) error {
			return h.Cache.Replace(ctx, cache.KeySettings, out)
		},
		"Settings successfully updated")
	h.updateUser = mutation.New("update-user", notifier,
		func(ctx context.Context, in profileInput) (model.User, error) {
			return h.Users.UpdateProfile(ctx, in.id, in.fullName, in.passwordHash, in.avatar)
		},
		func(ctx context.Context, out model.User) error {
			return h.Cache.Replace(ctx, cache.UserKey(out.ID), publicUser(out))
		},
		"User account successfully updated")

	return h
}

// currentUser returns the authenticated user's id from the guard.
func currentUser(c echo.Context) uint64 {
	uid, _ := c.Get("user_id").(uint64)
	return uid
}

// publicUser strips the password hash before a user record leaves the
// process (response body or cache entry).
func publicUser(u model.User) userPart {
	return userPart{ID: u.ID, Email: u.Email, FullName: u.FullName, Avatar: u.Avatar, Role: u.Role}
}

// mutationError maps a failed mutation run to an HTTP response. The
// remote error message has already been surfaced as an error toast;
// here it is mirrored into the response body verbatim.
func mutationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, mutation.ErrInFlight):
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": err.Error()})
	case errors.Is(err, mutation.ErrImageRollback):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrCabinNotFound),
		errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrCabinNameExists),
		errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}
