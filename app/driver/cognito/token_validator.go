package cognito

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	"identity-service/app/config"
	"identity-service/app/domain"
	apperrors "identity-service/app/utils/errors"
)

// cognitoClaims is the raw claim set of a user pool token. Access tokens
// carry "username", id tokens carry "cognito:username".
type cognitoClaims struct {
	jwt.RegisteredClaims
	Username        string `json:"username"`
	CognitoUsername string `json:"cognito:username"`
	Email           string `json:"email"`
	TokenUse        string `json:"token_use"`
	ClientID        string `json:"client_id"`
}

// TokenValidator verifies user pool tokens offline against the pool's
// published signing keys.
type TokenValidator struct {
	keyfunc  jwt.Keyfunc
	issuer   string
	clientID string
	logger   *slog.Logger
}

// NewTokenValidator fetches the pool's JWKS and builds a validator. The
// key set refreshes in the background until ctx is cancelled.
func NewTokenValidator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*TokenValidator, error) {
	issuer := cfg.CognitoIssuer()
	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", issuer)

	log := logger.With("component", "token_validator")

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:             ctx,
		RefreshInterval: time.Hour,
		RefreshErrorHandler: func(err error) {
			log.Warn("JWKS refresh failed", "error", err)
		},
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS from %s: %w", jwksURL, err)
	}

	log.Info("token validator initialized", "issuer", issuer)

	return &TokenValidator{
		keyfunc:  jwks.Keyfunc,
		issuer:   issuer,
		clientID: cfg.CognitoClientID,
		logger:   log,
	}, nil
}

// newTokenValidatorWithKeyfunc wires an explicit key resolver, used by tests
func newTokenValidatorWithKeyfunc(kf jwt.Keyfunc, issuer, clientID string, logger *slog.Logger) *TokenValidator {
	return &TokenValidator{
		keyfunc:  kf,
		issuer:   issuer,
		clientID: clientID,
		logger:   logger.With("component", "token_validator"),
	}
}

// Validate parses and verifies a bearer token and returns its normalized
// claims. Signature, expiry and issuer are all enforced; a token that names
// neither a username nor a subject is rejected.
func (v *TokenValidator) Validate(ctx context.Context, tokenString string) (*domain.TokenClaims, error) {
	claims := &cognitoClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired.WithCause(err)
		}
		v.logger.Debug("token rejected", "error", err)
		return nil, apperrors.ErrInvalidToken.WithCause(err)
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	// Access tokens name their client directly; id tokens use the audience
	if claims.ClientID != "" && claims.ClientID != v.clientID {
		return nil, apperrors.ErrInvalidToken.WithDetails("token issued for another client")
	}

	username := claims.Username
	if username == "" {
		username = claims.CognitoUsername
	}

	result := &domain.TokenClaims{
		Username: username,
		Sub:      claims.Subject,
		Email:    claims.Email,
	}
	if !result.HasIdentity() {
		return nil, apperrors.ErrInvalidToken.WithDetails("token carries no identity")
	}

	return result, nil
}
