package usecase

import (
	"context"
	"log/slog"

	"identity-service/app/domain"
	"identity-service/app/port"
	apperrors "identity-service/app/utils/errors"
)

// AuthUsecase implements port.AuthUsecase. It orchestrates the identity
// provider, the token validator and the local user directory.
type AuthUsecase struct {
	provider  port.AuthProvider
	validator port.TokenValidator
	users     port.UserUsecase
	repo      port.UserRepository
	logger    *slog.Logger
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	provider port.AuthProvider,
	validator port.TokenValidator,
	users port.UserUsecase,
	repo port.UserRepository,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		provider:  provider,
		validator: validator,
		users:     users,
		repo:      repo,
		logger:    logger.With("component", "auth_usecase"),
	}
}

// SignUp registers a new account. The local directory is checked before the
// provider is called so a duplicate email fails fast without touching the
// pool. After provider registration the identity is mirrored locally; the
// first mirrored record becomes the admin.
func (u *AuthUsecase) SignUp(ctx context.Context, email, password, fullName string) (*domain.SignUpResult, error) {
	normalized, err := domain.ValidateEmail(email)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, err.Error())
	}

	existing, err := u.repo.GetByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrUserExists
	}

	result, err := u.provider.SignUp(ctx, normalized, password, fullName)
	if err != nil {
		return nil, err
	}

	params := domain.CreateUserParams{
		Username: normalized,
		Email:    normalized,
		Role:     domain.UserRoleUser,
	}
	if fullName != "" {
		name := fullName
		params.FullName = &name
	}
	if result.UserSub != "" {
		sub := result.UserSub
		params.CognitoSub = &sub
	}

	if _, err := u.users.CreateFromRegistration(ctx, params); err != nil {
		// The provider account exists but the mirror write failed. The
		// account becomes reachable again via the sign-in reconciliation,
		// but this run must surface the failure.
		u.logger.Error("provider account created without local record",
			"user_sub", result.UserSub,
			"error", err)
		return nil, apperrors.NewInternalError(err)
	}

	return result, nil
}

// ConfirmSignUp confirms a registration with the emailed code
func (u *AuthUsecase) ConfirmSignUp(ctx context.Context, email, code string) error {
	normalized, err := domain.ValidateEmail(email)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeInvalidInput, err.Error())
	}
	return u.provider.ConfirmSignUp(ctx, normalized, code)
}

// SignIn authenticates against the provider and reconciles the local
// mirror record, creating or linking it as needed.
func (u *AuthUsecase) SignIn(ctx context.Context, email, password string) (*domain.SignInResult, error) {
	normalized, err := domain.ValidateEmail(email)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, err.Error())
	}

	tokens, err := u.provider.SignIn(ctx, normalized, password)
	if err != nil {
		return nil, err
	}

	info, err := u.provider.GetUserInfo(ctx, tokens.AccessToken)
	if err != nil {
		// Tokens are already issued; reconcile on the request email alone
		u.logger.Warn("profile lookup failed after sign-in", "error", err)
		info = &domain.ProviderUserInfo{Email: normalized}
	}

	user, err := u.users.ReconcileAfterSignIn(ctx, info, normalized)
	if err != nil {
		return nil, err
	}

	u.logger.Info("sign-in completed", "user_id", user.ID)
	return &domain.SignInResult{Tokens: *tokens, User: user}, nil
}

// RefreshToken exchanges a refresh token for new session tokens
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken, email string) (*domain.AuthTokens, error) {
	if refreshToken == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "refresh token is required")
	}
	return u.provider.RefreshToken(ctx, refreshToken, email)
}

// Authenticate validates a bearer token and resolves the local user record
func (u *AuthUsecase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	claims, err := u.validator.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	return u.users.ResolveCurrentUser(ctx, claims)
}
