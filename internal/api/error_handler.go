package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookinghub/booking-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Fields is
// populated only for validation failures.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Field-level validation failures keep their per-field detail.
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields}
	}

	// The account exists but the role could not be assigned. Report the gap
	// without pretending the registration never happened.
	var rerr *domain.RoleAssignmentError
	if errors.As(err, &rerr) {
		log.Error().Err(rerr).Str("role", rerr.Role).Msg("role assignment failed after user creation")
		return http.StatusInternalServerError, errorResponse{
			Error: fmt.Sprintf("user was created but could not be assigned role %q", rerr.Role),
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid email or password"}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorResponse{Error: "too many failed login attempts, try again later"}
	case errors.Is(err, domain.ErrSigningConfig):
		// Never echo configuration details to the caller.
		log.Error().Err(err).Msg("token signing misconfigured")
		return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
