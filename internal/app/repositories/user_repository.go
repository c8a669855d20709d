package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
	"github.com/yigit/learncircle/internal/pkg/dberrors"
)

const (
	usersUsernameKey = "users_username_key"
	usersEmailKey    = "users_email_key"
)

var userColumns = []string{
	"id", "username", "email", "password", "role", "points", "badges", "reputation_level", "created_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role,
		&u.Points, &u.Badges, &u.ReputationLevel, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return u, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ReputationLevel == 0 {
		user.ReputationLevel = models.MinReputationLevel
	}

	sql, args, err := psql.Insert("users").
		Columns("username", "email", "password", "role", "points", "badges", "reputation_level").
		Values(user.Username, user.Email, user.Password, user.Role, user.Points, user.Badges, user.ReputationLevel).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create user SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt)
	switch {
	case err == nil:
		return nil
	case dberrors.IsDuplicateConstraintError(err, usersUsernameKey):
		return apperrors.ErrUsernameAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, usersEmailKey):
		return apperrors.ErrEmailAlreadyExists
	default:
		return fmt.Errorf("error creating user: %w", err)
	}
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sql, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get user SQL: %w", err)
	}
	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

func (r *UserRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM users WHERE %s = $1)`, column), value).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking %s: %w", column, err)
	}
	return exists, nil
}

// UsernameExists checks if a username is taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}
