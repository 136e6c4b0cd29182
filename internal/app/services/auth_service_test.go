package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
	"github.com/vaxtrack/vaxtrack/internal/pkg/auth"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) GetByUserName(_ context.Context, userName string) (*models.User, error) {
	return f.users[userName], nil
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "vaxtrack.test",
	})
}

func TestLogin(t *testing.T) {
	hashed, err := auth.HashPassword("admin")
	require.NoError(t, err)

	store := &fakeUserStore{users: map[string]*models.User{
		"admin": {ID: 1, UserName: "admin", Password: hashed, Role: models.RoleCoordinator},
	}}
	jwtService := testJWTService()
	svc := NewAuthService(store, jwtService, zerolog.Nop())

	t.Run("issues a valid token", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), dto.LoginRequest{UserName: "admin", Password: "admin"})
		require.NoError(t, err)
		assert.Equal(t, 3600, resp.ExpiresIn)

		claims, err := jwtService.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.UserID)
		assert.Equal(t, "admin", claims.UserName)
		assert.Equal(t, string(models.RoleCoordinator), claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), dto.LoginRequest{UserName: "admin", Password: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), dto.LoginRequest{UserName: "ghost", Password: "admin"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}
