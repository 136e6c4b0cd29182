// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/app/services"
	"github.com/vaxtrack/vaxtrack/internal/middleware"
)

// AuthController handles authentication endpoints.
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

// Login authenticates a coordinator and returns an access token.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("userName", req.UserName).Msg("User logged in")
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// Me returns the identity of the authenticated user.
func (c *AuthController) Me(ctx *gin.Context) {
	userID, _ := ctx.Get(middleware.ContextUserID)
	userName, _ := ctx.Get(middleware.ContextUserName)
	role, _ := ctx.Get(middleware.ContextRole)

	id, ok := userID.(int64)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	principal := dto.Principal{ID: id}
	if name, ok := userName.(string); ok {
		principal.UserName = name
	}
	if roleStr, ok := role.(string); ok {
		principal.Role = roleStr
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: principal, Timestamp: time.Now()})
}
