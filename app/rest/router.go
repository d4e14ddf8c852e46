package rest

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"identity-service/app/config"
	"identity-service/app/rest/handlers"
	"identity-service/app/rest/middleware"
)

// NewRouter wires the HTTP surface: probes stay unversioned, everything
// else hangs off the configured API prefix.
func NewRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
	authMW *middleware.AuthMiddleware,
	logger *slog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.DefaultCORS())
	e.Use(middleware.NewRateLimiter().RateLimit())

	e.GET("/health", healthHandler.Health)
	e.GET("/health/live", healthHandler.Live)
	e.GET("/health/ready", healthHandler.Ready)

	api := e.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/confirm-signup", authHandler.ConfirmSignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/refresh-token", authHandler.RefreshToken)
	auth.GET("/me", authHandler.Me, authMW.RequireAuth())
	auth.POST("/signout", authHandler.SignOut)

	users := api.Group("/users")
	users.GET("/", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update, authMW.RequireAuth(), authMW.RequireAdmin())
	users.DELETE("/:id", userHandler.Delete, authMW.RequireAuth(), authMW.RequireAdmin())

	return e
}

// requestLogger logs one structured line per request
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	log := logger.With("component", "http")
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
				log.Error("request failed", attrs...)
			} else {
				log.Info("request completed", attrs...)
			}
			return nil
		},
	})
}
