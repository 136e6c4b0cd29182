package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/pkg/dberrors"
)

const constraintUserName = "uq_users_user_name"

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUserName retrieves a user by username. Returns nil when no user
// matches.
func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	query := `
		SELECT id, user_name, password, role, created_at
		FROM users
		WHERE user_name = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, query, userName).Scan(
		&user.ID,
		&user.UserName,
		&user.Password,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// Create inserts a new user. Creating a username that already exists is
// not an error; the existing row wins.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (user_name, password, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, user.UserName, user.Password, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintUserName) {
			return nil
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}
