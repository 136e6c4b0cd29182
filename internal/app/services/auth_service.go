package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
	"github.com/vaxtrack/vaxtrack/internal/pkg/auth"
)

// UserStore is the user surface the auth service needs.
type UserStore interface {
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
}

// AuthService handles authentication operations.
type AuthService struct {
	users  UserStore
	jwt    *auth.JWTService
	logger zerolog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(users UserStore, jwt *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, logger: logger}
}

// Login verifies credentials and issues an access token. Unknown user
// and wrong password both map to invalid credentials so the response
// does not leak which usernames exist.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByUserName(ctx, req.UserName)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Debug().Str("userName", req.UserName).Msg("Login attempt for unknown user")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Str("userName", req.UserName).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{Token: token, ExpiresIn: expiresIn}, nil
}
