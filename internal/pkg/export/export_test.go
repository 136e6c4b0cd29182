package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
)

func sampleRows() []models.ReportRow {
	return []models.ReportRow{
		{
			StudentID:   "STU001",
			Name:        "Aryan Kumar",
			Class:       "6B",
			VaccineName: "Covishield",
			DriveID:     "drive-1",
			Date:        time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			StudentID:   "STU002",
			Name:        "Meera Shah",
			Class:       "7A",
			VaccineName: "Covaxin",
			DriveID:     "drive-2",
			Date:        time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestRendererFor(t *testing.T) {
	cases := []struct {
		format      string
		contentType string
		extension   string
	}{
		{"csv", "text/csv", "csv"},
		{"pdf", "application/pdf", "pdf"},
		{"xls", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xls"},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			renderer, err := RendererFor(tc.format)
			require.NoError(t, err)
			assert.Equal(t, tc.contentType, renderer.ContentType())
			assert.Equal(t, tc.extension, renderer.Extension())
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		_, err := RendererFor("docx")
		assert.ErrorIs(t, err, apperrors.ErrBadFormat)
	})
}

func TestCSVRenderer(t *testing.T) {
	data, err := (&CSVRenderer{}).Render(sampleRows())
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "studentID,name,class,vaccineName,driveId,date")
	assert.Contains(t, out, "STU001,Aryan Kumar,6B,Covishield,drive-1,2025-01-10")
	assert.Contains(t, out, "STU002,Meera Shah,7A,Covaxin,drive-2,2025-02-05")
}

func TestCSVRendererEmpty(t *testing.T) {
	data, err := (&CSVRenderer{}).Render(nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), "studentID")
}

func TestPDFRenderer(t *testing.T) {
	data, err := (&PDFRenderer{}).Render(sampleRows())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "expected a PDF header")
}

func TestXLSRenderer(t *testing.T) {
	data, err := (&XLSRenderer{}).Render(sampleRows())
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer workbook.Close()

	cell, err := workbook.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Student ID", cell)

	cell, err = workbook.GetCellValue("Report", "A2")
	require.NoError(t, err)
	assert.Equal(t, "STU001", cell)

	cell, err = workbook.GetCellValue("Report", "F3")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-05", cell)
}
