package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/deencompass/compass/pkg/llm"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, llm.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, llm.ErrProvider):
		return fiber.StatusBadGateway
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler renders every error returned by a handler as llm.ErrorResponse.
// Provider failures keep their detail in the log; clients get a generic message.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := statusFor(err)
		msg := err.Error()

		switch {
		case status == fiber.StatusBadGateway:
			logger.Error("provider call failed",
				"request_id", requestIDOf(c),
				"error", err,
			)
			msg = "upstream provider error"
		case status >= fiber.StatusInternalServerError:
			logger.Error("request failed",
				"request_id", requestIDOf(c),
				"error", err,
			)
			msg = "internal server error"
		default:
			logger.Debug("request rejected", "status", status, "error", err)
		}

		return c.Status(status).JSON(llm.ErrorResponse{Error: msg})
	}
}
