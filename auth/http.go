package auth

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// ErrorHandler maps rich errors to HTTP responses. Mounted as the
// fiber app error handler so every handler can just return its error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "an unexpected server error occurred")
	}

	status := richErr.Code
	if status == 0 {
		status = statusFromCategory(richErr.Category)
	}

	body := fiber.Map{
		"message": richErr.Message,
	}
	if richErr.TextCode != "" {
		body["text_code"] = richErr.TextCode
	}
	if len(richErr.Metadata) > 0 {
		body["fields"] = richErr.Metadata
	}

	return c.Status(status).JSON(fiber.Map{"error": body})
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AsValidationError converts an ozzo validation result into the rich
// error shape, preserving field-level detail.
func AsValidationError(err error) *errors.Error {
	richErr := errors.New("invalid request payload", errors.CategoryValidation).
		WithCode(errors.CodeBadRequest)

	if fieldErrs, ok := err.(validation.Errors); ok {
		fields := make(map[string]any, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			fields[field] = fieldErr.Error()
		}
		return richErr.WithMetadata(fields)
	}

	return richErr.WithMetadata(map[string]any{"detail": err.Error()})
}

// ErrMalformedBody rejects bodies that do not parse as the declared
// content type.
func ErrMalformedBody(err error) *errors.Error {
	return errors.Wrap(err, errors.CategoryBadInput, "unable to parse request body").
		WithCode(errors.CodeBadRequest)
}

// RequirePrivileged refuses callers whose role is not admin or
// moderator. Mount after the gate.
func RequirePrivileged() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return ErrUnauthenticated
		}

		if !IsPrivileged(identity) {
			return ErrForbidden
		}

		return c.Next()
	}
}
