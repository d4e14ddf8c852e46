package port

import (
	"context"

	"identity-service/app/domain"
)

//go:generate mockgen -source=auth_port.go -destination=../mocks/mock_auth_port.go -package=mocks

// AuthProvider is the boundary to the external identity provider. Passwords
// and confirmation codes pass through it and are never stored locally.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password, name string) (*domain.SignUpResult, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	SignIn(ctx context.Context, email, password string) (*domain.AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken, email string) (*domain.AuthTokens, error)
	GetUserInfo(ctx context.Context, accessToken string) (*domain.ProviderUserInfo, error)
}

// TokenValidator verifies a bearer token offline and extracts its claims
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*domain.TokenClaims, error)
}

// AuthUsecase exposes authentication operations to the transport layer
type AuthUsecase interface {
	SignUp(ctx context.Context, email, password, fullName string) (*domain.SignUpResult, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	SignIn(ctx context.Context, email, password string) (*domain.SignInResult, error)
	RefreshToken(ctx context.Context, refreshToken, email string) (*domain.AuthTokens, error)

	// Authenticate validates a bearer token and resolves the local user
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
