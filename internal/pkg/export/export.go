// Package export renders report rows into downloadable documents. Each
// renderer produces the fixed column set studentID, name, class,
// vaccineName, driveId, date, with dates formatted as YYYY-MM-DD.
package export

import (
	"fmt"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
)

// Format identifies a supported export format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
	FormatXLS Format = "xls"
)

// Renderer turns report rows into a document of a single format.
type Renderer interface {
	Render(rows []models.ReportRow) ([]byte, error)
	ContentType() string
	Extension() string
}

// RendererFor returns the renderer for the requested format. Unknown
// formats fail before any rendering work begins.
func RendererFor(format string) (Renderer, error) {
	switch Format(format) {
	case FormatCSV:
		return &CSVRenderer{}, nil
	case FormatPDF:
		return &PDFRenderer{}, nil
	case FormatXLS:
		return &XLSRenderer{}, nil
	default:
		return nil, apperrors.NewBadFormatError(fmt.Sprintf("invalid format %q, use csv, pdf, or xls", format))
	}
}
