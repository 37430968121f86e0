package middleware

import (
	"errors"

	"courseplatform/apperr"
	"courseplatform/logger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, apperr.ErrValidationFailed):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrUnknownContentType):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrDuplicateResource):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrPermissionDenied):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse writes err in the response envelope. Validation errors carry
// their field map, internal errors are logged and hidden.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		return ValidationErrorResponse(c, verr.Fields)
	}

	status := StatusFor(err)
	switch status {
	case fiber.StatusNotFound:
		return JsonResponse(c, status, false, "Resource not found!", nil)
	case fiber.StatusInternalServerError:
		logger.Log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return JsonResponse(c, status, false, "Failed to process your request!", nil)
	default:
		return JsonResponse(c, status, false, err.Error(), nil)
	}
}
