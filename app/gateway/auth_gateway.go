package gateway

import (
	"context"
	"log/slog"
	"time"

	"identity-service/app/domain"
)

// providerDriver is what the Cognito adapter exposes to this gateway
type providerDriver interface {
	SignUp(ctx context.Context, email, password, name string) (*domain.SignUpResult, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	SignIn(ctx context.Context, email, password string) (*domain.AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken, email string) (*domain.AuthTokens, error)
	GetUserInfo(ctx context.Context, accessToken string) (*domain.ProviderUserInfo, error)
}

// AuthGateway implements port.AuthProvider. It sits between the domain and
// the identity provider driver: emails are normalized here so the provider
// and the local directory always see the same key.
type AuthGateway struct {
	driver providerDriver
	logger *slog.Logger
}

// NewAuthGateway creates a new AuthGateway instance
func NewAuthGateway(driver providerDriver, logger *slog.Logger) *AuthGateway {
	return &AuthGateway{
		driver: driver,
		logger: logger.With("component", "auth_gateway"),
	}
}

// SignUp registers a new identity with the provider
func (g *AuthGateway) SignUp(ctx context.Context, email, password, name string) (*domain.SignUpResult, error) {
	start := time.Now()
	result, err := g.driver.SignUp(ctx, domain.NormalizeEmail(email), password, name)
	if err != nil {
		g.logger.Warn("provider sign-up failed", "error", err)
		return nil, err
	}

	g.logger.Info("provider sign-up completed",
		"user_sub", result.UserSub,
		"confirmed", result.UserConfirmed,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// ConfirmSignUp confirms a registration with a verification code
func (g *AuthGateway) ConfirmSignUp(ctx context.Context, email, code string) error {
	if err := g.driver.ConfirmSignUp(ctx, domain.NormalizeEmail(email), code); err != nil {
		g.logger.Warn("provider confirmation failed", "error", err)
		return err
	}

	g.logger.Info("provider confirmation completed")
	return nil
}

// SignIn authenticates against the provider
func (g *AuthGateway) SignIn(ctx context.Context, email, password string) (*domain.AuthTokens, error) {
	start := time.Now()
	tokens, err := g.driver.SignIn(ctx, domain.NormalizeEmail(email), password)
	if err != nil {
		g.logger.Warn("provider sign-in failed", "error", err)
		return nil, err
	}

	g.logger.Info("provider sign-in completed",
		"expires_in", tokens.ExpiresIn,
		"duration_ms", time.Since(start).Milliseconds())
	return tokens, nil
}

// RefreshToken exchanges a refresh token for new session tokens
func (g *AuthGateway) RefreshToken(ctx context.Context, refreshToken, email string) (*domain.AuthTokens, error) {
	tokens, err := g.driver.RefreshToken(ctx, refreshToken, domain.NormalizeEmail(email))
	if err != nil {
		g.logger.Warn("provider token refresh failed", "error", err)
		return nil, err
	}

	g.logger.Info("provider token refresh completed", "expires_in", tokens.ExpiresIn)
	return tokens, nil
}

// GetUserInfo fetches the provider profile for an access token
func (g *AuthGateway) GetUserInfo(ctx context.Context, accessToken string) (*domain.ProviderUserInfo, error) {
	info, err := g.driver.GetUserInfo(ctx, accessToken)
	if err != nil {
		g.logger.Warn("provider user info lookup failed", "error", err)
		return nil, err
	}

	return info, nil
}
