package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/bookinghub/booking-system/docs"
	"github.com/bookinghub/booking-system/internal/api/handler"
	"github.com/bookinghub/booking-system/internal/api/middleware"
	"github.com/bookinghub/booking-system/internal/core/domain"
	"github.com/bookinghub/booking-system/internal/core/ports"
	"github.com/bookinghub/booking-system/internal/core/service"
	mongodb "github.com/bookinghub/booking-system/internal/infrastructure/db/mongo"
	redisdb "github.com/bookinghub/booking-system/internal/infrastructure/db/redis"
	"github.com/bookinghub/booking-system/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// It fails when the token signing configuration is unusable, so a weak secret
// stops the process at startup instead of surfacing on the first login.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuthEventSink, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("booking_auth"))

	// --- Dependencies ---
	store := mongodb.NewCredentialStore(db)
	issuer, err := service.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL())
	if err != nil {
		return nil, err
	}
	authService := service.NewAuthService(store, issuer)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Throttle.MaxFailures, cfg.Throttle.Window())

	authHandler := handler.NewAuthHandler(authService, throttle, audit, log)
	meHandler := handler.NewMeHandler()
	roleHandler := handler.NewRoleHandler(store)
	authMiddleware := middleware.Auth(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", meHandler.Me, authMiddleware)

	// --- Admin routes ---
	admin := e.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.POST("/roles", roleHandler.CreateRole)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e, nil
}
