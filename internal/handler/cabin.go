package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-booking-api/internal/cache"
	"github.com/iliyamo/cabin-booking-api/internal/model"
	"github.com/iliyamo/cabin-booking-api/internal/mutation"
	"github.com/iliyamo/cabin-booking-api/internal/repository"
	"github.com/iliyamo/cabin-booking-api/internal/validate"
)

// ListCabins returns all cabins, served from the read cache when
// possible.
func (h *StaffHandler) ListCabins(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var cabins []model.Cabin
	if hit, _ := h.Cache.Get(ctx, cache.KeyCabins, &cabins); hit {
		return c.JSON(http.StatusOK, echo.Map{"cabins": cabins})
	}
	cabins, err := h.Cabins.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	_ = h.Cache.Replace(ctx, cache.KeyCabins, cabins)
	return c.JSON(http.StatusOK, echo.Map{"cabins": cabins})
}

// GetCabin returns one cabin by id.
func (h *StaffHandler) GetCabin(c echo.Context) error {
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
	return c.JSON(http.StatusOK, cabin)
}

// CreateCabin creates a cabin from a multipart form. The image is
// either a fresh upload (field "image") or a reference to an already
// hosted asset (field "imageUrl"); the saga decides which path to take.
func (h *StaffHandler) CreateCabin(c echo.Context) error {
	return h.saveCabinFrom(c, 0)
}

// UpdateCabin rewrites an existing cabin from the same multipart form.
func (h *StaffHandler) UpdateCabin(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin id"})
	}
	return h.saveCabinFrom(c, id)
}

func (h *StaffHandler) saveCabinFrom(c echo.Context, id uint64) error {
	form, img, err := readCabinForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if errs := h.Validate.Cabin(form); !errs.Ok() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	cabin := &model.Cabin{
		ID:                id,
		Name:              form.Name,
		MaxCapacity:       form.MaxCapacity,
		RegularPriceCents: form.RegularPriceCents,
		DiscountCents:     form.DiscountCents,
		Description:       form.Description,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	out, err := h.saveCabin.Run(ctx, cabinInput{cabin: cabin, image: img})
	if err != nil {
		return mutationError(c, err)
	}
	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	return c.JSON(status, out)
}

// DeleteCabin removes a cabin. Cabins with bookings cannot be deleted.
func (h *StaffHandler) DeleteCabin(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.deleteCabin.Run(ctx, id); err != nil {
		return mutationError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// readCabinForm parses the multipart cabin form into the typed payload
// plus its image part. Price fields arrive as integer cent amounts.
func readCabinForm(c echo.Context) (validate.CabinForm, mutation.CabinImage, error) {
	var form validate.CabinForm
	var img mutation.CabinImage

	form.Name = c.FormValue("name")
	form.Description = c.FormValue("description")
	form.MaxCapacity, _ = strconv.Atoi(c.FormValue("maxCapacity"))
	form.RegularPriceCents, _ = strconv.ParseInt(c.FormValue("regularPrice"), 10, 64)
	form.DiscountCents, _ = strconv.ParseInt(c.FormValue("discount"), 10, 64)

	if url := c.FormValue("imageUrl"); url != "" {
		img.HostedURL = url
		return form, img, nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return form, img, errors.New("image or imageUrl required")
	}
	f, err := fh.Open()
	if err != nil {
		return form, img, err
	}
	// The saga consumes the reader during Run; echo closes the multipart
	// temp file when the request ends.
	img.Filename = fh.Filename
	img.Data = f
	img.ContentType = fh.Header.Get("Content-Type")
	return form, img, nil
}
