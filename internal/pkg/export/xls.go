package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/pkg/helpers"
)

const reportSheet = "Report"

var xlsHeader = []interface{}{"Student ID", "Name", "Class", "Vaccine Name", "Drive ID", "Date"}

// XLSRenderer renders report rows as an Excel workbook.
type XLSRenderer struct{}

// Render implements Renderer.
func (r *XLSRenderer) Render(rows []models.ReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheet)
	if err != nil {
		return nil, fmt.Errorf("error creating report sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("error removing default sheet: %w", err)
	}

	if err := f.SetSheetRow(reportSheet, "A1", &xlsHeader); err != nil {
		return nil, fmt.Errorf("error writing header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("error addressing row %d: %w", i+2, err)
		}
		values := []interface{}{
			row.StudentID,
			row.Name,
			row.Class,
			row.VaccineName,
			row.DriveID,
			helpers.FormatDate(row.Date),
		}
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error rendering XLS report: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType implements Renderer.
func (r *XLSRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Renderer.
func (r *XLSRenderer) Extension() string { return "xls" }
