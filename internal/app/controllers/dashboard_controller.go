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

// DashboardController handles the dashboard aggregation endpoints.
type DashboardController struct {
	dashboardService *services.DashboardService
	logger           zerolog.Logger
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService *services.DashboardService, logger zerolog.Logger) *DashboardController {
	return &DashboardController{dashboardService: dashboardService, logger: logger}
}

// Overview returns the headline counts and the upcoming drives window.
func (c *DashboardController) Overview(ctx *gin.Context) {
	overview, err := c.dashboardService.Overview(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: overview, Timestamp: time.Now()})
}

// Stats returns the per-class and per-vaccine breakdowns.
func (c *DashboardController) Stats(ctx *gin.Context) {
	stats, err := c.dashboardService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: stats, Timestamp: time.Now()})
}
