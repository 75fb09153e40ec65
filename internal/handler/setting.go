package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-booking-api/internal/cache"
	"github.com/iliyamo/cabin-booking-api/internal/model"
	"github.com/iliyamo/cabin-booking-api/internal/repository"
	"github.com/iliyamo/cabin-booking-api/internal/validate"
)

// GetSettings returns the global booking settings, cache first.
func (h *StaffHandler) GetSettings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var s model.Settings
	if hit, _ := h.Cache.Get(ctx, cache.KeySettings, &s); hit {
		return c.JSON(http.StatusOK, s)
	}
	got, err := h.Settings.Get(ctx)
	if err != nil {
		if err == repository.ErrSettingsMissing {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "settings not seeded"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	_ = h.Cache.Replace(ctx, cache.KeySettings, got)
	return c.JSON(http.StatusOK, got)
}

// UpdateSettings rewrites the settings row. The settings object is the
// one cached entity whose post-write shape the server returns, so the
// cache entry is replaced rather than invalidated.
func (h *StaffHandler) UpdateSettings(c echo.Context) error {
	var form validate.SettingsForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := h.Validate.Settings(form); !errs.Ok() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.updateSettings.Run(ctx, model.Settings{
		MinBookingLength:    form.MinBookingLength,
		MaxBookingLength:    form.MaxBookingLength,
		MaxGuestsPerBooking: form.MaxGuestsPerBooking,
		BreakfastPriceCents: form.BreakfastPriceCents,
	})
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
