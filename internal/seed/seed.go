package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/app/repositories"
	"github.com/vaxtrack/vaxtrack/internal/pkg/auth"
)

const (
	defaultCoordinatorUser     = "admin"
	defaultCoordinatorPassword = "admin"
)

// CreateDefaultData ensures the default coordinator account exists so a
// fresh deployment can be logged into immediately.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	existing, err := userRepo.GetByUserName(ctx, defaultCoordinatorUser)
	if err != nil {
		return fmt.Errorf("failed to check default coordinator: %w", err)
	}
	if existing != nil {
		lgr.Debug().Str("userName", defaultCoordinatorUser).Msg("Default coordinator already present")
		return nil
	}

	hashed, err := auth.HashPassword(defaultCoordinatorPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default coordinator password: %w", err)
	}

	user := &models.User{
		UserName: defaultCoordinatorUser,
		Password: hashed,
		Role:     models.RoleCoordinator,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create default coordinator: %w", err)
	}

	lgr.Info().Str("userName", defaultCoordinatorUser).Msg("Default coordinator account created")
	return nil
}
