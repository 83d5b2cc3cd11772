package helper

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	apperrors "dndbuilder_backend/internals/errors"
)

// FromError renders any handler error with the standard envelope. App errors
// keep their code; *fiber.Error keeps its status; anything else is a 500
// whose detail goes to the log only.
func FromError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if appErr.Code == apperrors.CodeValidation {
			return JsonValidationError(c, apperrors.FieldErrors(appErr))
		}
		status := appErr.Code.HTTPStatus()
		if status >= fiber.StatusInternalServerError {
			log.Printf("[ERROR] request_id=%s %s %s: %v", RequestID(c), c.Method(), c.Path(), err)
		}
		return JsonError(c, status, appErr.Message)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			log.Printf("[ERROR] request_id=%s %s %s: %v", RequestID(c), c.Method(), c.Path(), err)
		}
		return JsonError(c, fe.Code, fe.Message)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("[WARN] request_id=%s %s %s timed out", RequestID(c), c.Method(), c.Path())
		return JsonError(c, fiber.StatusGatewayTimeout, "Request timed out")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return JsonError(c, fiber.StatusNotFound, "Resource not found")
	case IsUniqueViolation(err):
		return JsonError(c, fiber.StatusConflict, "A record with the same unique value already exists")
	}

	log.Printf("[ERROR] request_id=%s %s %s unhandled: %v", RequestID(c), c.Method(), c.Path(), err)
	return JsonError(c, fiber.StatusInternalServerError, "An unexpected error occurred")
}
