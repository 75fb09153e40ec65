package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cabin-booking-api/internal/assets"
	"github.com/iliyamo/cabin-booking-api/internal/cache"
	"github.com/iliyamo/cabin-booking-api/internal/utils"
	"github.com/iliyamo/cabin-booking-api/internal/validate"
)

// Me returns the authenticated staff member's profile, cache first.
func (h *StaffHandler) Me(c echo.Context) error {
	uid := currentUser(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var cached userPart
	if hit, _ := h.Cache.Get(ctx, cache.UserKey(uid), &cached); hit {
		return c.JSON(http.StatusOK, cached)
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	part := publicUser(u)
	_ = h.Cache.Replace(ctx, cache.UserKey(uid), part)
	return c.JSON(http.StatusOK, part)
}

// UpdateMe applies a partial profile update from a multipart form:
// fullName, password and an optional avatar image. The avatar upload
// happens before the row write; a stale avatar object left behind by a
// later failure is harmless and cheap, unlike a cabin row pointing at a
// missing image.
func (h *StaffHandler) UpdateMe(c echo.Context) error {
	uid := currentUser(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	form := validate.UserUpdateForm{
		FullName: c.FormValue("fullName"),
		Password: c.FormValue("password"),
	}
	if errs := h.Validate.UserUpdate(form); !errs.Ok() {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	var passwordHash string
	if form.Password != "" {
		var err error
		passwordHash, err = utils.HashPassword(form.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
		}
	}

	var avatarURL string
	if fh, err := c.FormFile("avatar"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "avatar unreadable"})
		}
		defer f.Close()
		name := assets.ObjectName(fh.Filename)
		if err := h.Assets.Upload(ctx, name, f, fh.Header.Get("Content-Type")); err != nil {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "avatar upload failed"})
		}
		avatarURL = h.Assets.PublicURL(name)
	}

	out, err := h.updateUser.Run(ctx, profileInput{
		id:           uid,
		fullName:     form.FullName,
		passwordHash: passwordHash,
		avatar:       avatarURL,
	})
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusOK, publicUser(out))
}
