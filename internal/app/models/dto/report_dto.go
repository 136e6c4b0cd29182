package dto

import "github.com/vaxtrack/vaxtrack/internal/app/models"

// ReportFilter is the filter set shared by the paginated report and the
// export endpoints. Dates are YYYY-MM-DD; empty fields are ignored.
type ReportFilter struct {
	VaccineName string
	FromDate    string
	ToDate      string
}

// ReportPage is the paginated report response.
type ReportPage struct {
	TotalRecords int64              `json:"totalRecords" example:"42"`
	CurrentPage  int                `json:"currentPage" example:"1"`
	TotalPages   int                `json:"totalPages" example:"5"`
	Records      []models.ReportRow `json:"records"`
}
