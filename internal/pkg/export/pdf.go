package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/pkg/helpers"
)

// PDFRenderer renders report rows as a PDF document, one line per record.
type PDFRenderer struct{}

// Render implements Renderer.
func (r *PDFRenderer) Render(rows []models.ReportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Vaccination Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	for i, row := range rows {
		line := fmt.Sprintf("%d. %s (%s, Class %s) - %s on %s [Drive: %s]",
			i+1, row.Name, row.StudentID, row.Class,
			row.VaccineName, helpers.FormatDate(row.Date), row.DriveID)
		pdf.MultiCell(0, 7, line, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error rendering PDF report: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType implements Renderer.
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// Extension implements Renderer.
func (r *PDFRenderer) Extension() string { return "pdf" }
