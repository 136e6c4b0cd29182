package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/app/repositories"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
	"github.com/vaxtrack/vaxtrack/internal/pkg/helpers"
)

// StudentStore is the persistence surface the student service needs.
// *repositories.StudentRepository satisfies it.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	List(ctx context.Context, filter repositories.StudentFilter) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	ExistingIDs(ctx context.Context, studentIDs []string) (map[string]bool, error)
	InsertMany(ctx context.Context, students []models.Student) (int, []string, error)
	Vaccinate(ctx context.Context, studentID, driveID string) (*models.Student, error)
}

// StudentService handles student registration, listing, bulk import and
// the vaccination transaction.
type StudentService struct {
	students StudentStore
	logger   zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(students StudentStore, logger zerolog.Logger) *StudentService {
	return &StudentService{students: students, logger: logger}
}

// AddStudent registers a single student.
func (s *StudentService) AddStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	dob, err := validateStudentFields(req.StudentID, req.Name, req.Class, req.Gender, req.DOB)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		StudentID: strings.TrimSpace(req.StudentID),
		Name:      req.Name,
		Class:     req.Class,
		Gender:    models.Gender(req.Gender),
		DOB:       dob,
	}

	for _, rec := range req.VaccinationRecords {
		date, err := helpers.ParseDate(rec.Date)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid vaccination record date %q, expected YYYY-MM-DD", rec.Date))
		}
		student.VaccinationRecords = append(student.VaccinationRecords, models.VaccinationRecord{
			DriveID:     rec.DriveID,
			VaccineName: rec.VaccineName,
			Date:        date,
		})
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentID", student.StudentID).Msg("Student created")
	return student, nil
}

// ListStudents retrieves students matching the optional filters. Status
// must be "vaccinated", "not_vaccinated" or empty.
func (s *StudentService) ListStudents(ctx context.Context, class, name, status string) ([]*models.Student, error) {
	filter := repositories.StudentFilter{Class: class, Name: name}

	switch status {
	case "":
	case string(repositories.StatusVaccinated), string(repositories.StatusNotVaccinated):
		filter.Status = repositories.StudentStatus(status)
	default:
		return nil, apperrors.NewBadFormatError(fmt.Sprintf("invalid status %q, use vaccinated or not_vaccinated", status))
	}

	return s.students.List(ctx, filter)
}

// GetStudent retrieves one student by business key.
func (s *StudentService) GetStudent(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := s.students.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

// UpdateStudent applies a partial update to an existing student.
func (s *StudentService) UpdateStudent(ctx context.Context, studentID string, patch dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		student.Name = *patch.Name
	}
	if patch.Class != nil {
		student.Class = *patch.Class
	}
	if patch.Gender != nil {
		student.Gender = models.Gender(*patch.Gender)
	}
	if patch.DOB != nil {
		dob, err := helpers.ParseDate(*patch.DOB)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid dob %q, expected YYYY-MM-DD", *patch.DOB))
		}
		student.DOB = dob
	}

	if _, err := validateStudentFields(student.StudentID, student.Name, student.Class,
		string(student.Gender), helpers.FormatDate(student.DOB)); err != nil {
		return nil, err
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// Vaccinate marks a student as vaccinated against a drive. The vaccine
// name and date recorded come from the drive itself, not from the caller.
func (s *StudentService) Vaccinate(ctx context.Context, studentID, driveID string) (*models.Student, error) {
	if strings.TrimSpace(driveID) == "" {
		return nil, apperrors.NewValidationError("driveId is required")
	}

	student, err := s.students.Vaccinate(ctx, studentID, driveID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("studentID", studentID).Str("driveId", driveID).Msg("Student marked as vaccinated")
	return student, nil
}

// importRow is the CSV wire shape for one bulk-import candidate.
type importRow struct {
	StudentID string `csv:"studentID"`
	Name      string `csv:"name"`
	Class     string `csv:"class"`
	Gender    string `csv:"gender"`
	DOB       string `csv:"dob"`
}

// ImportStudents consumes a CSV stream of student rows. The whole stream
// is parsed up front; a structurally malformed CSV fails the operation
// before any database mutation. Afterwards, rows are classified and the
// surviving batch is inserted in one unordered bulk write, with
// per-row outcomes reported back.
func (s *StudentService) ImportStudents(ctx context.Context, csvStream io.Reader) (*dto.ImportResult, error) {
	var rows []importRow
	if err := gocsv.Unmarshal(csvStream, &rows); err != nil {
		// A file with no rows is a valid, empty import.
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return &dto.ImportResult{Imported: 0, Skipped: 0, SkippedIDs: []string{}}, nil
		}
		return nil, apperrors.NewBadFormatError("invalid CSV format: " + err.Error())
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, strings.TrimSpace(row.StudentID))
	}

	existing, err := s.students.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	batch, skipped := classifyImportRows(rows, existing)

	inserted, conflicted, err := s.students.InsertMany(ctx, batch)
	if err != nil {
		return nil, err
	}
	skipped = append(skipped, conflicted...)

	s.logger.Info().Int("imported", inserted).Int("skipped", len(skipped)).Msg("Bulk student import finished")

	return &dto.ImportResult{
		Imported:   inserted,
		Skipped:    len(skipped),
		SkippedIDs: skipped,
	}, nil
}

// classifyImportRows splits candidates into the insert batch and the
// skipped ID list. A row is skipped when its studentID already exists,
// when it duplicates an earlier row in the same batch (keep-first), or
// when it fails field validation. Row order is preserved.
func classifyImportRows(rows []importRow, existing map[string]bool) (batch []models.Student, skipped []string) {
	batch = []models.Student{}
	skipped = []string{}
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		id := strings.TrimSpace(row.StudentID)

		if existing[id] || seen[id] {
			skipped = append(skipped, id)
			continue
		}

		dob, err := validateStudentFields(id, row.Name, row.Class, row.Gender, row.DOB)
		if err != nil {
			skipped = append(skipped, id)
			continue
		}

		seen[id] = true
		batch = append(batch, models.Student{
			StudentID:          id,
			Name:               row.Name,
			Class:              row.Class,
			Gender:             models.Gender(row.Gender),
			DOB:                dob,
			VaccinationRecords: []models.VaccinationRecord{},
		})
	}

	return batch, skipped
}

// validateStudentFields checks the shared student field invariants and
// parses the date of birth.
func validateStudentFields(studentID, name, class, gender, dobStr string) (time.Time, error) {
	if strings.TrimSpace(studentID) == "" {
		return time.Time{}, apperrors.NewValidationError("studentID is required")
	}
	if strings.TrimSpace(name) == "" {
		return time.Time{}, apperrors.NewValidationError("name is required")
	}
	if strings.TrimSpace(class) == "" {
		return time.Time{}, apperrors.NewValidationError("class is required")
	}
	if !models.Gender(gender).Valid() {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("invalid gender %q, must be Male, Female or Other", gender))
	}

	dob, err := helpers.ParseDate(dobStr)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("invalid dob %q, expected YYYY-MM-DD", dobStr))
	}
	if dob.After(time.Now()) {
		return time.Time{}, apperrors.NewValidationError("dob must not be in the future")
	}

	return dob, nil
}
