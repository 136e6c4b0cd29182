package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
)

func TestHandleAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"student not found", apperrors.ErrStudentNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"drive not found", apperrors.ErrDriveNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"generic not found", apperrors.ErrResourceNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"duplicate student", apperrors.ErrStudentIDAlreadyExists, 409, dto.ErrorCodeResourceAlreadyExists},
		{"duplicate drive", apperrors.ErrDriveAlreadyExists, 409, dto.ErrorCodeResourceAlreadyExists},
		{"already vaccinated", apperrors.ErrAlreadyVaccinated, 409, dto.ErrorCodeAlreadyVaccinated},
		{"no doses left", apperrors.ErrNoDosesLeft, 409, dto.ErrorCodeNoDosesLeft},
		{"expired drive", apperrors.ErrDriveExpired, 422, dto.ErrorCodeValidationFailed},
		{"bad format", apperrors.NewBadFormatError("invalid format"), 400, dto.ErrorCodeBadFormat},
		{"validation failed", apperrors.NewValidationError("dob is required"), 400, dto.ErrorCodeValidationFailed},
		{"invalid credentials", apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials},
		{"expired token", apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken},
		{"permission denied", apperrors.ErrPermissionDenied, 403, dto.ErrorCodeForbidden},
		{"unknown error", assert.AnError, 500, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			c.Request = httptest.NewRequest("GET", "/test", nil)

			HandleAPIError(c, tc.err)

			assert.Equal(t, tc.wantStatus, recorder.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}

	t.Run("custom message is preserved", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest("GET", "/test", nil)

		HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrStudentNotFound, "student STU001 not found"))

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, "student STU001 not found", resp.Error.Message)
	})
}
