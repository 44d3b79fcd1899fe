package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookinghub/booking-system/internal/api/metrics"
	"github.com/bookinghub/booking-system/internal/core/domain"
	"github.com/bookinghub/booking-system/internal/core/ports"
)

// LoginThrottle limits failed login attempts per email. Implemented by the
// Redis adapter; stubbed in tests.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

type AuthHandler struct {
	authService ports.AuthService
	throttle    LoginThrottle
	audit       ports.AuthEventSink
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, throttle LoginThrottle, audit ports.AuthEventSink, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		throttle:    throttle,
		audit:       audit,
		log:         log,
	}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Role      string `json:"role" validate:"omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	h.audit.Enqueue(ports.AuthEventInput{
		Kind:       ports.AuthEventRegistered,
		Email:      res.User.Email,
		SubjectID:  res.User.ID,
		OccurredAt: time.Now().UTC(),
	})

	return c.JSON(http.StatusCreated, registerResponse{Message: res.Message, User: res.User})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	email := domain.NormalizeEmail(req.Email)

	allowed, err := h.throttle.Allow(ctx, email)
	if err != nil {
		// Fail open: a throttle outage must not lock every account.
		h.log.Warn().Err(err).Msg("login throttle unavailable")
	}
	if !allowed {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return domain.ErrTooManyAttempts
	}

	token, err := h.authService.Login(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			if terr := h.throttle.RecordFailure(ctx, email); terr != nil {
				h.log.Warn().Err(terr).Msg("recording login failure")
			}
			h.audit.Enqueue(ports.AuthEventInput{
				Kind:       ports.AuthEventLoginFailed,
				Email:      email,
				OccurredAt: time.Now().UTC(),
			})
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.Inc()
	if terr := h.throttle.Reset(ctx, email); terr != nil {
		h.log.Warn().Err(terr).Msg("resetting login throttle")
	}
	h.audit.Enqueue(ports.AuthEventInput{
		Kind:       ports.AuthEventLoginOK,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	})

	return c.JSON(http.StatusOK, loginResponse{Token: token})
}

func registerResult(err error) string {
	var verr *domain.ValidationError
	var rerr *domain.RoleAssignmentError
	switch {
	case errors.As(err, &verr):
		return "validation_error"
	case errors.As(err, &rerr):
		return "role_error"
	default:
		return "error"
	}
}
