package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
	"github.com/vaxtrack/vaxtrack/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses. Controllers
// call it for every service error so status codes and error codes stay
// consistent across the API.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	message := ""
	if errors.As(err, &custom) {
		message = custom.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrStudentNotFound):
		respondError(c, 404, dto.ErrorCodeResourceNotFound, pick(message, "Student not found"))
	case errors.Is(err, apperrors.ErrDriveNotFound):
		respondError(c, 404, dto.ErrorCodeResourceNotFound, pick(message, "Vaccination drive not found"))
	case errors.Is(err, apperrors.ErrUserNotFound):
		respondError(c, 404, dto.ErrorCodeResourceNotFound, pick(message, "User not found"))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, 404, dto.ErrorCodeResourceNotFound, pick(message, "Resource not found"))
	case errors.Is(err, apperrors.ErrStudentIDAlreadyExists):
		respondError(c, 409, dto.ErrorCodeResourceAlreadyExists, pick(message, "Student ID already exists"))
	case errors.Is(err, apperrors.ErrDriveAlreadyExists):
		respondError(c, 409, dto.ErrorCodeResourceAlreadyExists, pick(message, "Drive ID already exists"))
	case errors.Is(err, apperrors.ErrAlreadyVaccinated):
		respondError(c, 409, dto.ErrorCodeAlreadyVaccinated, pick(message, "Student is already vaccinated in this drive"))
	case errors.Is(err, apperrors.ErrNoDosesLeft):
		respondError(c, 409, dto.ErrorCodeNoDosesLeft, pick(message, "No available doses left for this drive"))
	case errors.Is(err, apperrors.ErrConflict):
		respondError(c, 409, dto.ErrorCodeResourceAlreadyExists, pick(message, "Resource already exists"))
	case errors.Is(err, apperrors.ErrDriveExpired):
		respondError(c, 422, dto.ErrorCodeValidationFailed, pick(message, "Drive is expired and cannot be modified"))
	case errors.Is(err, apperrors.ErrBadFormat):
		respondError(c, 400, dto.ErrorCodeBadFormat, pick(message, "Malformed request"))
	case errors.Is(err, apperrors.ErrValidationFailed):
		respondError(c, 400, dto.ErrorCodeValidationFailed, pick(message, "Validation failed"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, 401, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, 401, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, 401, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, 403, dto.ErrorCodeForbidden, "Permission denied")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respondError(c, 500, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func pick(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
