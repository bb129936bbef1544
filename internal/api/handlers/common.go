package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"xianshiji/domain"
)

// authUserID returns the id AuthMiddleware stored for this request, or 0.
func authUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

// ensureSelf rejects requests that act on behalf of another user.
func ensureSelf(c *fiber.Ctx, userID uint) error {
	if userID == 0 || authUserID(c) != userID {
		return domain.ErrUserNotAllowed
	}
	return nil
}

func paramID(c *fiber.Ctx, key string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(key), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return uint(id), nil
}

func queryID(c *fiber.Ctx, key string) (uint, error) {
	id, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return uint(id), nil
}

func formID(c *fiber.Ctx, key string) (uint, error) {
	id, err := strconv.ParseUint(c.FormValue(key), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return uint(id), nil
}

// unescapeParam decodes a path parameter that may carry percent-encoded text.
func unescapeParam(c *fiber.Ctx, key string) (string, error) {
	return url.PathUnescape(c.Params(key))
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrCredentialsNotMatch):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrFoodItemNotFound),
		errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInviteCodeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrAlreadyInFamily):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}
