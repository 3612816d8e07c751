package controller

import (
	"errors"

	"support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps workflow errors to HTTP status codes. Anything not a known
// workflow error is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrNoAgentAvailable),
		errors.Is(err, service.ErrUserUnavailable),
		errors.Is(err, service.ErrSessionEnded):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrEmptyContent):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(ctx *fiber.Ctx, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return ctx.Status(code).JSON(fiber.Map{
		"success": false,
		"code":    code,
		"message": message,
	})
}
