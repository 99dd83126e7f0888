package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/auth-service/docs"
	"github.com/99minutos/auth-service/internal/api/handler"
	"github.com/99minutos/auth-service/internal/api/metrics"
	"github.com/99minutos/auth-service/internal/api/middleware"
	"github.com/99minutos/auth-service/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	AuthService ports.AuthService
	Verifier    ports.TokenVerifier
	// TokenHeader names the request header carrying the session token.
	TokenHeader string
	// RoutePrefix is prepended to the account and profile routes, e.g. "/api".
	RoutePrefix string
	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]ports.Pinger
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.BodyLimit("64K"))
	e.Use(metrics.HTTPMiddleware())
	e.Use(middleware.RequestLogger(deps.Log))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	profileHandler := handler.NewProfileHandler()
	authMiddleware := middleware.Auth(deps.Verifier, deps.TokenHeader, deps.Log)

	// --- Account routes ---
	g := e.Group(deps.RoutePrefix)
	g.POST("/register", authHandler.Register)
	g.POST("/login", authHandler.Login)
	g.GET("/welcome", profileHandler.Welcome)

	// --- Protected routes ---
	g.GET("/profile", profileHandler.Profile, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness, deps.Log)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is the user store up?

	// --- Operations ---
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
