package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/app/repositories"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
	"github.com/vaxtrack/vaxtrack/internal/pkg/export"
	"github.com/vaxtrack/vaxtrack/internal/pkg/helpers"
)

// ReportStore is the persistence surface the report service needs.
// *repositories.ReportRepository satisfies it.
type ReportStore interface {
	Rows(ctx context.Context, q repositories.ReportQuery) ([]models.ReportRow, int64, error)
}

// ExportResult is a rendered report document.
type ExportResult struct {
	Data        []byte
	ContentType string
	FileName    string
}

// ReportService builds the filtered, paginated vaccination report and its
// exported variants.
type ReportService struct {
	reports ReportStore
	logger  zerolog.Logger
}

// NewReportService creates a new report service instance
func NewReportService(reports ReportStore, logger zerolog.Logger) *ReportService {
	return &ReportService{reports: reports, logger: logger}
}

// FilteredReport returns one page of the flattened report. Filters apply
// conjunctively; rows are sorted by date descending.
func (s *ReportService) FilteredReport(ctx context.Context, filter dto.ReportFilter, page, limit int) (*dto.ReportPage, error) {
	query, err := buildReportQuery(filter)
	if err != nil {
		return nil, err
	}

	page, limit = helpers.NormalizePageLimit(page, limit)
	query.Offset, query.Limit = helpers.CalculateOffsetLimit(page, limit)

	records, total, err := s.reports.Rows(ctx, query)
	if err != nil {
		return nil, err
	}

	return &dto.ReportPage{
		TotalRecords: total,
		CurrentPage:  page,
		TotalPages:   helpers.TotalPages(total, limit),
		Records:      records,
	}, nil
}

// ExportReport renders the full filtered report (no pagination) in the
// requested format. An unrecognized format fails before any query or
// rendering work begins.
func (s *ReportService) ExportReport(ctx context.Context, format string, filter dto.ReportFilter) (*ExportResult, error) {
	renderer, err := export.RendererFor(format)
	if err != nil {
		return nil, err
	}

	query, err := buildReportQuery(filter)
	if err != nil {
		return nil, err
	}

	records, _, err := s.reports.Rows(ctx, query)
	if err != nil {
		return nil, err
	}

	data, err := renderer.Render(records)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("format", format).Int("rows", len(records)).Msg("Vaccination report exported")

	return &ExportResult{
		Data:        data,
		ContentType: renderer.ContentType(),
		FileName:    "vaccination_report." + renderer.Extension(),
	}, nil
}

// buildReportQuery parses the date filters into a repository query.
func buildReportQuery(filter dto.ReportFilter) (repositories.ReportQuery, error) {
	query := repositories.ReportQuery{VaccineName: filter.VaccineName}

	if filter.FromDate != "" {
		from, err := helpers.ParseDate(filter.FromDate)
		if err != nil {
			return query, apperrors.NewBadFormatError(fmt.Sprintf("invalid fromDate %q, expected YYYY-MM-DD", filter.FromDate))
		}
		query.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := helpers.ParseDate(filter.ToDate)
		if err != nil {
			return query, apperrors.NewBadFormatError(fmt.Sprintf("invalid toDate %q, expected YYYY-MM-DD", filter.ToDate))
		}
		query.ToDate = &to
	}
	if query.FromDate != nil && query.ToDate != nil && query.FromDate.After(*query.ToDate) {
		return query, apperrors.NewBadFormatError("fromDate must not be after toDate")
	}

	return query, nil
}
