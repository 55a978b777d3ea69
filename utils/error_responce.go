package utils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/medsihealth/medsi/scheduling"
)

// ErrorResponse is a struct for error response
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// RespondError maps a scheduling error kind to its HTTP status and writes
// the standard {message, error} body.
func RespondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch scheduling.KindOf(err) {
	case scheduling.KindValidation:
		status = fiber.StatusBadRequest
	case scheduling.KindNotFound:
		status = fiber.StatusNotFound
	case scheduling.KindForbidden:
		status = fiber.StatusForbidden
	case scheduling.KindConflict:
		status = fiber.StatusConflict
	}
	body := ErrorResponse{Message: scheduling.Message(err)}
	if status == fiber.StatusInternalServerError {
		body.Error = err.Error()
	}
	return c.Status(status).JSON(body)
}
