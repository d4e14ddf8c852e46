package port

import (
	"context"

	"identity-service/app/domain"
)

//go:generate mockgen -source=user_port.go -destination=../mocks/mock_user_port.go -package=mocks

// UserRepository is the persistence boundary for the local user directory.
// Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByCognitoSub(ctx context.Context, sub string) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, params domain.CreateUserParams) (*domain.User, error)
	Update(ctx context.Context, id int64, params domain.UpdateUserParams) (*domain.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UserUsecase exposes directory operations to the transport layer
type UserUsecase interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	UpdateUser(ctx context.Context, id int64, params domain.UpdateUserParams) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error

	// CreateFromRegistration mirrors a freshly registered provider identity
	// into the local directory. The first user ever created becomes admin.
	CreateFromRegistration(ctx context.Context, params domain.CreateUserParams) (*domain.User, error)

	// ResolveCurrentUser maps validated token claims onto the local record
	ResolveCurrentUser(ctx context.Context, claims *domain.TokenClaims) (*domain.User, error)

	// ReconcileAfterSignIn links or creates the local record for a provider
	// profile after a successful sign-in.
	ReconcileAfterSignIn(ctx context.Context, info *domain.ProviderUserInfo, requestEmail string) (*domain.User, error)
}
