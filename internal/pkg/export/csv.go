package export

import (
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/pkg/helpers"
)

// csvRow is the wire shape of one exported CSV record.
type csvRow struct {
	StudentID   string `csv:"studentID"`
	Name        string `csv:"name"`
	Class       string `csv:"class"`
	VaccineName string `csv:"vaccineName"`
	DriveID     string `csv:"driveId"`
	Date        string `csv:"date"`
}

// CSVRenderer renders report rows as CSV.
type CSVRenderer struct{}

// Render implements Renderer.
func (r *CSVRenderer) Render(rows []models.ReportRow) ([]byte, error) {
	out := make([]csvRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, csvRow{
			StudentID:   row.StudentID,
			Name:        row.Name,
			Class:       row.Class,
			VaccineName: row.VaccineName,
			DriveID:     row.DriveID,
			Date:        helpers.FormatDate(row.Date),
		})
	}

	data, err := gocsv.MarshalBytes(&out)
	if err != nil {
		return nil, fmt.Errorf("error rendering CSV report: %w", err)
	}
	return data, nil
}

// ContentType implements Renderer.
func (r *CSVRenderer) ContentType() string { return "text/csv" }

// Extension implements Renderer.
func (r *CSVRenderer) Extension() string { return "csv" }
