package usecase

import (
	"context"
	"log/slog"

	"identity-service/app/domain"
	"identity-service/app/port"
	apperrors "identity-service/app/utils/errors"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// UserUsecase implements port.UserUsecase over the local user directory
type UserUsecase struct {
	repo   port.UserRepository
	logger *slog.Logger
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(repo port.UserRepository, logger *slog.Logger) *UserUsecase {
	return &UserUsecase{
		repo:   repo,
		logger: logger.With("component", "user_usecase"),
	}
}

// GetUserByID returns a user or a not found error
func (u *UserUsecase) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// ListUsers returns a page of users
func (u *UserUsecase) ListUsers(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return u.repo.List(ctx, skip, limit)
}

// CountUsers returns the total number of users
func (u *UserUsecase) CountUsers(ctx context.Context) (int64, error) {
	return u.repo.Count(ctx)
}

// UpdateUser applies a partial update to a user
func (u *UserUsecase) UpdateUser(ctx context.Context, id int64, params domain.UpdateUserParams) (*domain.User, error) {
	user, err := u.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	u.logger.Info("user updated", "user_id", id)
	return user, nil
}

// DeleteUser removes a user, failing when the id is unknown
func (u *UserUsecase) DeleteUser(ctx context.Context, id int64) error {
	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// CreateFromRegistration mirrors a provider registration into the local
// directory. The email is checked first so the common duplicate case gets a
// clean conflict instead of a constraint violation.
func (u *UserUsecase) CreateFromRegistration(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	email, err := domain.ValidateEmail(params.Email)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, err.Error())
	}
	params.Email = email
	if params.Username == "" {
		params.Username = email
	}

	existing, err := u.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrUserExists
	}

	user, err := u.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	u.logger.Info("local user created from registration",
		"user_id", user.ID,
		"role", user.Role)
	return user, nil
}

// ResolveCurrentUser maps validated token claims to the local record. The
// subject id is the primary key into the mirror; the username is the only
// fallback, for records created before subjects were stored. The email
// claim is never used for resolution.
func (u *UserUsecase) ResolveCurrentUser(ctx context.Context, claims *domain.TokenClaims) (*domain.User, error) {
	if !claims.HasIdentity() {
		return nil, apperrors.ErrInvalidToken
	}

	var user *domain.User
	var err error

	if claims.Sub != "" {
		user, err = u.repo.GetByCognitoSub(ctx, claims.Sub)
		if err != nil {
			return nil, err
		}
	}
	if user == nil && claims.Username != "" {
		user, err = u.repo.GetByUsername(ctx, claims.Username)
		if err != nil {
			return nil, err
		}
	}

	if user == nil {
		// Valid provider token without a local mirror record
		u.logger.Warn("token resolved to no local user",
			"sub", claims.Sub,
			"username", claims.Username)
		return nil, apperrors.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	return user, nil
}

// ReconcileAfterSignIn links the provider profile to the local directory
// after a successful sign-in. Matching order is subject id first, then
// email with a subject backfill, then a fresh record.
func (u *UserUsecase) ReconcileAfterSignIn(ctx context.Context, info *domain.ProviderUserInfo, requestEmail string) (*domain.User, error) {
	email := domain.NormalizeEmail(info.Email)
	if email == "" {
		email = domain.NormalizeEmail(requestEmail)
	}

	if info.UserSub != "" {
		user, err := u.repo.GetByCognitoSub(ctx, info.UserSub)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}

	if email != "" {
		user, err := u.repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user != nil {
			if info.UserSub != "" && user.SubjectID() != info.UserSub {
				sub := info.UserSub
				updated, err := u.repo.Update(ctx, user.ID, domain.UpdateUserParams{CognitoSub: &sub})
				if err != nil {
					return nil, err
				}
				u.logger.Info("backfilled provider subject", "user_id", user.ID)
				return updated, nil
			}
			return user, nil
		}
	}

	if email == "" {
		return nil, apperrors.New(apperrors.ErrCodeInternalError, "provider profile has no email")
	}

	params := domain.CreateUserParams{
		Username: email,
		Email:    email,
		Role:     domain.UserRoleUser,
	}
	if info.Name != "" {
		name := info.Name
		params.FullName = &name
	}
	if info.UserSub != "" {
		sub := info.UserSub
		params.CognitoSub = &sub
	}

	user, err := u.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	u.logger.Info("local user created on first sign-in", "user_id", user.ID)
	return user, nil
}
