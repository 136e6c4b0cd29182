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

// DriveController handles vaccination drive endpoints.
type DriveController struct {
	driveService *services.DriveService
	logger       zerolog.Logger
}

// NewDriveController creates a new DriveController
func NewDriveController(driveService *services.DriveService, logger zerolog.Logger) *DriveController {
	return &DriveController{driveService: driveService, logger: logger}
}

// Create schedules a new vaccination drive.
func (c *DriveController) Create(ctx *gin.Context) {
	var req dto.CreateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid create drive payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	drive, err := c.driveService.CreateDrive(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("driveId", drive.DriveID).Msg("Drive created")
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: drive, Timestamp: time.Now()})
}

// List returns all drives.
func (c *DriveController) List(ctx *gin.Context) {
	drives, err := c.driveService.ListDrives(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: drives, Timestamp: time.Now()})
}

// Get returns a single drive by identifier.
func (c *DriveController) Get(ctx *gin.Context) {
	drive, err := c.driveService.GetDrive(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: drive, Timestamp: time.Now()})
}

// Update edits a drive. Expired drives are immutable.
func (c *DriveController) Update(ctx *gin.Context) {
	var req dto.UpdateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	drive, err := c.driveService.UpdateDrive(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: drive, Timestamp: time.Now()})
}

// Disable soft-removes a drive from scheduling.
func (c *DriveController) Disable(ctx *gin.Context) {
	if err := c.driveService.DisableDrive(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("driveId", ctx.Param("id")).Msg("Drive disabled")
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Drive disabled"},
		Timestamp: time.Now(),
	})
}
