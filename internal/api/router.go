package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/dndvault/character-api/internal/api/handler"
	"github.com/dndvault/character-api/internal/api/middleware"
	"github.com/dndvault/character-api/internal/core/ports"
	"github.com/dndvault/character-api/internal/core/recovery"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Auth       ports.AuthService
	Characters ports.CharacterService
	Breaker    *recovery.Breaker
	Checks     map[string]handler.Check
	Log        zerolog.Logger

	// Registerer receives the HTTP request metrics. Defaults to the global
	// Prometheus registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "characters",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))

	// --- Handlers ---
	authMiddleware := middleware.Auth(deps.Auth)
	authHandler := handler.NewAuthHandler(deps.Auth)
	characterHandler := handler.NewCharacterHandler(deps.Characters)
	shareHandler := handler.NewShareHandler(deps.Characters)
	diceHandler := handler.NewDiceHandler()

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.SignUp)
	e.POST("/auth/signin", authHandler.SignIn)
	e.POST("/auth/signout", authHandler.SignOut, authMiddleware)

	// --- Character routes (owner scoped) ---
	characters := e.Group("/characters", authMiddleware)
	characters.GET("", characterHandler.List)
	characters.POST("", characterHandler.Create)
	characters.GET("/:id", characterHandler.Get)
	characters.PUT("/:id", characterHandler.Update)
	characters.DELETE("/:id", characterHandler.Delete)
	characters.POST("/:id/share", characterHandler.IssueShare)
	characters.DELETE("/:id/share", characterHandler.RevokeShare)

	// --- Public share links ---
	e.GET("/share/:token", shareHandler.Resolve)

	e.GET("/dice/ability-scores", diceHandler.AbilityScores, authMiddleware)

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks, deps.Breaker, deps.Log.With().Str("component", "health").Logger())

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger feeds Echo's request log into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Warn()
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
