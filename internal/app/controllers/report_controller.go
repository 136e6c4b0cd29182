package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/app/services"
	"github.com/vaxtrack/vaxtrack/internal/middleware"
	"github.com/vaxtrack/vaxtrack/internal/pkg/helpers"
)

// ReportController handles the vaccination report endpoints.
type ReportController struct {
	reportService *services.ReportService
	logger        zerolog.Logger
}

// NewReportController creates a new ReportController
func NewReportController(reportService *services.ReportService, logger zerolog.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func reportFilterFromQuery(ctx *gin.Context) dto.ReportFilter {
	return dto.ReportFilter{
		VaccineName: ctx.Query("vaccineName"),
		FromDate:    ctx.Query("fromDate"),
		ToDate:      ctx.Query("toDate"),
	}
}

// Get returns one page of the filtered vaccination report.
func (c *ReportController) Get(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)

	report, err := c.reportService.FilteredReport(ctx.Request.Context(), reportFilterFromQuery(ctx), page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: report, Timestamp: time.Now()})
}

// Export streams the filtered report as a downloadable document in the
// requested format.
func (c *ReportController) Export(ctx *gin.Context) {
	format := ctx.Query("format")

	result, err := c.reportService.ExportReport(ctx.Request.Context(), format, reportFilterFromQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("format", format).
		Int("bytes", len(result.Data)).
		Msg("Report exported")

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	ctx.Data(http.StatusOK, result.ContentType, result.Data)
}
