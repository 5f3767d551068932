package httpapi

import (
	"context"
	"database/sql/driver"
	"errors"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"github.com/janusipm/brandvigilante/internal/common"
	"github.com/janusipm/brandvigilante/internal/server/validation"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeAuthentication     = "AUTHENTICATION_ERROR"
	CodeAuthorization      = "AUTHORIZATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
	CodeCSRF               = "CSRF_ERROR"
)

// AppError is the client-facing form of an error: a status, a stable code
// and a message that is safe to show.
type AppError struct {
	Status  int
	Code    string
	Message string
	Fields  validation.Errors
}

// Error returns the client-facing message.
func (e *AppError) Error() string { return e.Message }

func (e *AppError) body() fiber.Map {
	m := fiber.Map{"error": e.Message, "code": e.Code}
	if len(e.Fields) > 0 {
		m["fields"] = e.Fields
	}
	return m
}

func newAppError(status int, code, msg string) *AppError {
	return &AppError{Status: status, Code: code, Message: msg}
}

// toAppError classifies err. Only PublicError and validation messages reach
// the client verbatim; everything else gets a generic message.
func toAppError(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}

	var ve validation.Errors
	if errors.As(err, &ve) {
		return &AppError{Status: fiber.StatusBadRequest, Code: CodeValidation, Message: ve.First(), Fields: ve}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fromFiberError(fe)
	}

	var pe *common.PublicError
	public := ""
	if errors.As(err, &pe) {
		public = pe.Message
	}
	msg := func(fallback string) string {
		if public != "" {
			return public
		}
		return fallback
	}

	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return newAppError(fiber.StatusBadRequest, CodeInvalidCredentials, msg("Invalid email or password"))
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return newAppError(fiber.StatusBadRequest, CodeInvalidToken, msg("Invalid or expired token"))
	case errors.Is(err, common.ErrorValidation):
		return newAppError(fiber.StatusBadRequest, CodeValidation, msg("Invalid input"))
	case errors.Is(err, common.ErrorUnauthorized):
		return newAppError(fiber.StatusUnauthorized, CodeAuthentication, msg("Authentication required"))
	case errors.Is(err, common.ErrorForbidden):
		return newAppError(fiber.StatusForbidden, CodeAuthorization, msg("Access denied"))
	case errors.Is(err, common.ErrorNotFound):
		return newAppError(fiber.StatusNotFound, CodeNotFound, msg("Not found"))
	case errors.Is(err, common.ErrorAlreadyExists):
		return newAppError(fiber.StatusConflict, CodeConflict, msg("Already exists"))
	case errors.Is(err, common.ErrTooManyAttempts):
		return newAppError(fiber.StatusTooManyRequests, CodeRateLimited, msg("Too many requests"))
	case unavailable(err):
		return newAppError(fiber.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable")
	default:
		return newAppError(fiber.StatusInternalServerError, CodeInternal, msg("Internal server error"))
	}
}

func fromFiberError(fe *fiber.Error) *AppError {
	code := CodeInternal
	switch fe.Code {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
		code = CodeValidation
	case fiber.StatusUnauthorized:
		code = CodeAuthentication
	case fiber.StatusForbidden:
		code = CodeAuthorization
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		code = CodeNotFound
	case fiber.StatusTooManyRequests:
		code = CodeRateLimited
	case fiber.StatusServiceUnavailable:
		code = CodeUnavailable
	}
	return newAppError(fe.Code, code, fe.Message)
}

// unavailable reports storage outages: refused connections, broken pooled
// connections and query timeouts.
func unavailable(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, syscall.ECONNREFUSED)
}

// ErrorHandler is installed as fiber.Config.ErrorHandler. Server-side
// failures are logged with the request id; the client only sees the code.
func (h *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	ae := toAppError(err)
	if ae.Status >= fiber.StatusInternalServerError {
		h.log.Error(c.UserContext(), "request failed",
			"error", err,
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
		)
	}
	return c.Status(ae.Status).JSON(ae.body())
}
