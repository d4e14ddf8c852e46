package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"identity-service/app/domain"
	apperrors "identity-service/app/utils/errors"
)

// bootstrapLockKey serializes user creation so the very first record is
// promoted to admin exactly once, even under concurrent sign-ups.
const bootstrapLockKey = 874229

const userColumns = `id, username, email, full_name, is_active, role, cognito_sub, created_at, updated_at`

// UserRepository implements port.UserRepository backed by PostgreSQL
type UserRepository struct {
	db     DB
	logger *slog.Logger
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db DB, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger.With("component", "user_repository"),
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.IsActive,
		&user.Role,
		&user.CognitoSub,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return &user, nil
}

// GetByID retrieves a user by internal id. Returns (nil, nil) when absent.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by normalized email. Returns (nil, nil) when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, domain.NormalizeEmail(email)))
}

// GetByUsername retrieves a user by username. Returns (nil, nil) when absent.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRow(ctx, query, username))
}

// GetByCognitoSub retrieves a user by provider subject id. Returns (nil, nil) when absent.
func (r *UserRepository) GetByCognitoSub(ctx context.Context, sub string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE cognito_sub = $1`
	return scanUser(r.db.QueryRow(ctx, query, sub))
}

// List returns a page of users ordered by id
func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id OFFSET $1 LIMIT $2`
	rows, err := r.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.FullName,
			&user.IsActive,
			&user.Role,
			&user.CognitoSub,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	return users, nil
}

// Count returns the total number of users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, apperrors.NewDatabaseError(err)
	}
	return count, nil
}

// Create inserts a new user. The count and insert run inside one
// transaction under an advisory lock so the first record in an empty store
// always gets the admin role.
func (r *UserRepository) Create(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	if err := params.Validate(); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, err.Error())
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, bootstrapLockKey); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	role := params.Role
	if role == "" {
		role = domain.UserRoleUser
	}
	if count == 0 {
		role = domain.UserRoleAdmin
	}

	query := `
		INSERT INTO users (username, email, full_name, is_active, role, cognito_sub)
		VALUES ($1, $2, $3, TRUE, $4, $5)
		RETURNING ` + userColumns

	var user domain.User
	err = tx.QueryRow(ctx, query,
		params.Username,
		domain.NormalizeEmail(params.Email),
		params.FullName,
		role,
		params.CognitoSub,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.IsActive,
		&user.Role,
		&user.CognitoSub,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if conflictErr := asConflict(err); conflictErr != nil {
			return nil, conflictErr
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	r.logger.Info("User created", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

// Update applies a partial update. Nil fields are left untouched.
func (r *UserRepository) Update(ctx context.Context, id int64, params domain.UpdateUserParams) (*domain.User, error) {
	if params.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	setClauses := make([]string, 0, 7)
	args := make([]any, 0, 8)
	argPos := 1

	addSet := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Username != nil {
		addSet("username", *params.Username)
	}
	if params.Email != nil {
		addSet("email", domain.NormalizeEmail(*params.Email))
	}
	if params.FullName != nil {
		// A pointer to the empty string clears the column
		addSet("full_name", nullableText(*params.FullName))
	}
	if params.IsActive != nil {
		addSet("is_active", *params.IsActive)
	}
	if params.Role != nil {
		if !params.Role.IsValid() {
			return nil, apperrors.Newf(apperrors.ErrCodeInvalidInput, "invalid role: %s", *params.Role)
		}
		addSet("role", *params.Role)
	}
	if params.CognitoSub != nil {
		addSet("cognito_sub", nullableText(*params.CognitoSub))
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argPos, userColumns,
	)
	args = append(args, id)

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if conflictErr := asConflict(err); conflictErr != nil {
			return nil, conflictErr
		}
		return nil, err
	}
	return user, nil
}

// Delete removes a user. Returns false when no row matched.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.NewDatabaseError(err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	r.logger.Info("User deleted", "user_id", id)
	return true, nil
}

// nullableText maps the empty string to SQL NULL for optional text columns.
func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// asConflict translates a unique violation into a conflict error naming the
// offending field, or returns nil for any other error.
func asConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}

	switch pgErr.ConstraintName {
	case "users_email_key":
		return apperrors.NewConflict("email")
	case "users_username_key":
		return apperrors.NewConflict("username")
	case "users_cognito_sub_key":
		return apperrors.NewConflict("cognito_sub")
	default:
		return apperrors.NewConflict("user")
	}
}
