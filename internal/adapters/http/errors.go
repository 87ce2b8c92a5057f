package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

func errUnauthorized(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusUnauthorized, "unauthorized", msg)
}

func errForbidden(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusForbidden, "forbidden", msg)
}

func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusConflict, "conflict", msg)
}

func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg)
}

// fail maps a service error onto the matching status. Unknown errors are logged and
// reported as a generic 500 so internals never leak to clients.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return errConflict(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return errUnauthorized(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return errForbidden(c, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		return errUnavailable(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return newError(c, fiber.StatusRequestTimeout, "timeout", "request timed out")
	}
	LoggerFromCtx(c.UserContext()).ErrorContext(c.UserContext(), "request failed",
		"method", c.Method(), "path", c.Path(), "error", err)
	return errInternal(c, "internal server error")
}
