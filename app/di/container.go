package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"identity-service/app/config"
	"identity-service/app/driver/cognito"
	"identity-service/app/driver/postgres"
	"identity-service/app/gateway"
	"identity-service/app/rest"
	"identity-service/app/rest/handlers"
	"identity-service/app/rest/middleware"
	"identity-service/app/usecase"
	"identity-service/app/utils/validator"
)

// Container holds the wired application graph
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Echo   *echo.Echo
}

// NewContainer wires drivers, usecases, handlers and the router
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cognitoClient, err := cognito.NewClient(ctx, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize identity provider client: %w", err)
	}

	tokenValidator, err := cognito.NewTokenValidator(ctx, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize token validator: %w", err)
	}

	adapter := cognito.NewAdapter(cognitoClient, cfg.IsDevelopment(), logger)
	authGateway := gateway.NewAuthGateway(adapter, logger)

	userRepo := postgres.NewUserRepository(pool, logger)
	userUsecase := usecase.NewUserUsecase(userRepo, logger)
	authUsecase := usecase.NewAuthUsecase(authGateway, tokenValidator, userUsecase, userRepo, logger)

	v := validator.New()
	authHandler := handlers.NewAuthHandler(authUsecase, v, logger)
	userHandler := handlers.NewUserHandler(userUsecase, v, logger)
	healthHandler := handlers.NewHealthHandler(pool, logger)
	authMW := middleware.NewAuthMiddleware(authUsecase, logger)

	e := rest.NewRouter(cfg, authHandler, userHandler, healthHandler, authMW, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		Pool:   pool,
		Echo:   e,
	}, nil
}

// Close releases held resources
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
