// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Map converts repo/infra errors into HTTP-friendly fiber errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, "record not found")

	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusRequestTimeout, "request timed out")

	case errors.Is(err, context.Canceled):
		return fiber.NewError(fiber.StatusRequestTimeout, "request was canceled")

	default:
		// fallback → bubble up error message for debugging
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

// InvalidArgument creates a 400 error.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

// NotFound creates a 404 error for absent referenced entities.
func NotFound(msg string) error {
	return fiber.NewError(fiber.StatusNotFound, msg)
}
