package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/app/repositories"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
)

// fakeStudentStore is an in-memory StudentStore used by the service tests.
type fakeStudentStore struct {
	students map[string]*models.Student

	vaccinateErr  error
	lastFilter    repositories.StudentFilter
	insertManyErr error
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: make(map[string]*models.Student)}
}

func (f *fakeStudentStore) Create(_ context.Context, student *models.Student) error {
	if _, ok := f.students[student.StudentID]; ok {
		return apperrors.ErrStudentIDAlreadyExists
	}
	f.students[student.StudentID] = student
	return nil
}

func (f *fakeStudentStore) GetByStudentID(_ context.Context, studentID string) (*models.Student, error) {
	return f.students[studentID], nil
}

func (f *fakeStudentStore) List(_ context.Context, filter repositories.StudentFilter) ([]*models.Student, error) {
	f.lastFilter = filter
	out := make([]*models.Student, 0, len(f.students))
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStudentStore) Update(_ context.Context, student *models.Student) error {
	f.students[student.StudentID] = student
	return nil
}

func (f *fakeStudentStore) ExistingIDs(_ context.Context, studentIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	for _, id := range studentIDs {
		if _, ok := f.students[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (f *fakeStudentStore) InsertMany(_ context.Context, students []models.Student) (int, []string, error) {
	if f.insertManyErr != nil {
		return 0, nil, f.insertManyErr
	}
	inserted := 0
	var conflicted []string
	for i := range students {
		s := students[i]
		if _, ok := f.students[s.StudentID]; ok {
			conflicted = append(conflicted, s.StudentID)
			continue
		}
		f.students[s.StudentID] = &s
		inserted++
	}
	return inserted, conflicted, nil
}

func (f *fakeStudentStore) Vaccinate(_ context.Context, studentID, driveID string) (*models.Student, error) {
	if f.vaccinateErr != nil {
		return nil, f.vaccinateErr
	}
	student, ok := f.students[studentID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	student.VaccinationRecords = append(student.VaccinationRecords, models.VaccinationRecord{
		DriveID:     driveID,
		VaccineName: "Covishield",
		Date:        time.Now(),
	})
	return student, nil
}

func newStudentService(store StudentStore) *StudentService {
	return NewStudentService(store, zerolog.Nop())
}

func validCreateRequest() dto.CreateStudentRequest {
	return dto.CreateStudentRequest{
		StudentID: "STU001",
		Name:      "Aryan Kumar",
		Class:     "6B",
		Gender:    "Male",
		DOB:       "2012-04-15",
	}
}

func TestAddStudent(t *testing.T) {
	t.Run("creates a valid student", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := newStudentService(store)

		student, err := svc.AddStudent(context.Background(), validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, "STU001", student.StudentID)
		assert.Equal(t, models.GenderMale, student.Gender)
		assert.False(t, student.Vaccinated())
		assert.Contains(t, store.students, "STU001")
	})

	t.Run("rejects duplicate studentID", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := newStudentService(store)

		_, err := svc.AddStudent(context.Background(), validCreateRequest())
		require.NoError(t, err)

		_, err = svc.AddStudent(context.Background(), validCreateRequest())
		assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*dto.CreateStudentRequest)
		}{
			{"blank studentID", func(r *dto.CreateStudentRequest) { r.StudentID = "  " }},
			{"blank name", func(r *dto.CreateStudentRequest) { r.Name = "" }},
			{"blank class", func(r *dto.CreateStudentRequest) { r.Class = "" }},
			{"unknown gender", func(r *dto.CreateStudentRequest) { r.Gender = "unknown" }},
			{"unparseable dob", func(r *dto.CreateStudentRequest) { r.DOB = "15/04/2012" }},
			{"future dob", func(r *dto.CreateStudentRequest) {
				r.DOB = time.Now().AddDate(1, 0, 0).Format("2006-01-02")
			}},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				svc := newStudentService(newFakeStudentStore())
				req := validCreateRequest()
				tc.mutate(&req)

				_, err := svc.AddStudent(context.Background(), req)
				assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			})
		}
	})

	t.Run("accepts embedded vaccination records", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := newStudentService(store)

		req := validCreateRequest()
		req.VaccinationRecords = []dto.VaccinationRecordRequest{
			{DriveID: "drive-1", VaccineName: "Covishield", Date: "2025-01-10"},
		}

		student, err := svc.AddStudent(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, student.VaccinationRecords, 1)
		assert.Equal(t, "drive-1", student.VaccinationRecords[0].DriveID)
		assert.True(t, student.Vaccinated())
	})
}

func TestListStudents(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := newStudentService(store)

		_, err := svc.ListStudents(context.Background(), "6B", "Aryan", "vaccinated")
		require.NoError(t, err)
		assert.Equal(t, "6B", store.lastFilter.Class)
		assert.Equal(t, "Aryan", store.lastFilter.Name)
		assert.Equal(t, repositories.StatusVaccinated, store.lastFilter.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := newStudentService(newFakeStudentStore())

		_, err := svc.ListStudents(context.Background(), "", "", "immunized")
		assert.ErrorIs(t, err, apperrors.ErrBadFormat)
	})
}

func TestGetStudent(t *testing.T) {
	svc := newStudentService(newFakeStudentStore())

	_, err := svc.GetStudent(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestUpdateStudent(t *testing.T) {
	t.Run("applies partial patch", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := newStudentService(store)

		_, err := svc.AddStudent(context.Background(), validCreateRequest())
		require.NoError(t, err)

		newClass := "7A"
		updated, err := svc.UpdateStudent(context.Background(), "STU001", dto.UpdateStudentRequest{Class: &newClass})
		require.NoError(t, err)
		assert.Equal(t, "7A", updated.Class)
		assert.Equal(t, "Aryan Kumar", updated.Name)
	})

	t.Run("rejects patch that breaks validation", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := newStudentService(store)

		_, err := svc.AddStudent(context.Background(), validCreateRequest())
		require.NoError(t, err)

		blank := ""
		_, err = svc.UpdateStudent(context.Background(), "STU001", dto.UpdateStudentRequest{Name: &blank})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("unknown student", func(t *testing.T) {
		svc := newStudentService(newFakeStudentStore())

		name := "Anyone"
		_, err := svc.UpdateStudent(context.Background(), "missing", dto.UpdateStudentRequest{Name: &name})
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})
}

func TestVaccinate(t *testing.T) {
	t.Run("records the vaccination", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := newStudentService(store)

		_, err := svc.AddStudent(context.Background(), validCreateRequest())
		require.NoError(t, err)

		student, err := svc.Vaccinate(context.Background(), "STU001", "drive-1")
		require.NoError(t, err)
		require.Len(t, student.VaccinationRecords, 1)
		assert.Equal(t, "drive-1", student.VaccinationRecords[0].DriveID)
	})

	t.Run("requires driveId", func(t *testing.T) {
		svc := newStudentService(newFakeStudentStore())

		_, err := svc.Vaccinate(context.Background(), "STU001", "  ")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("propagates store outcomes", func(t *testing.T) {
		for _, want := range []error{
			apperrors.ErrStudentNotFound,
			apperrors.ErrDriveNotFound,
			apperrors.ErrAlreadyVaccinated,
			apperrors.ErrNoDosesLeft,
		} {
			store := newFakeStudentStore()
			store.vaccinateErr = want
			svc := newStudentService(store)

			_, err := svc.Vaccinate(context.Background(), "STU001", "drive-1")
			assert.ErrorIs(t, err, want)
		}
	})
}

const importHeader = "studentID,name,class,gender,dob\n"

func TestImportStudents(t *testing.T) {
	t.Run("imports fresh rows and skips existing, duplicate and invalid ones", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := newStudentService(store)

		_, err := svc.AddStudent(context.Background(), validCreateRequest())
		require.NoError(t, err)

		csv := importHeader +
			"STU001,Aryan Kumar,6B,Male,2012-04-15\n" + // already exists
			"STU002,Meera Shah,6B,Female,2012-07-01\n" +
			"STU002,Meera Duplicate,6B,Female,2012-07-01\n" + // intra-batch duplicate
			"STU003,Bad Row,6B,Male,not-a-date\n" + // invalid dob
			"STU004,Rohan Gupta,7A,Male,2011-11-23\n"

		result, err := svc.ImportStudents(context.Background(), strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 3, result.Skipped)
		assert.Equal(t, []string{"STU001", "STU002", "STU003"}, result.SkippedIDs)

		// Keep-first: the surviving STU002 row is the earlier one.
		assert.Equal(t, "Meera Shah", store.students["STU002"].Name)
	})

	t.Run("header-only file imports nothing", func(t *testing.T) {
		svc := newStudentService(newFakeStudentStore())

		result, err := svc.ImportStudents(context.Background(), strings.NewReader(importHeader))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Imported)
		assert.Equal(t, 0, result.Skipped)
		assert.Empty(t, result.SkippedIDs)
	})

	t.Run("empty file is a successful zero-row import", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := newStudentService(store)

		result, err := svc.ImportStudents(context.Background(), strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, 0, result.Imported)
		assert.Equal(t, 0, result.Skipped)
		assert.Empty(t, result.SkippedIDs)
		assert.Empty(t, store.students)
	})

	t.Run("structurally malformed CSV fails before any write", func(t *testing.T) {
		store := newFakeStudentStore()
		svc := newStudentService(store)

		csv := importHeader + "STU010,Unbalanced \"quote,6B,Male,2012-01-01\n"
		_, err := svc.ImportStudents(context.Background(), strings.NewReader(csv))
		assert.ErrorIs(t, err, apperrors.ErrBadFormat)
		assert.Empty(t, store.students)
	})
}

func TestClassifyImportRows(t *testing.T) {
	rows := []importRow{
		{StudentID: " STU001 ", Name: "A", Class: "6B", Gender: "Male", DOB: "2012-01-01"},
		{StudentID: "STU001", Name: "B", Class: "6B", Gender: "Male", DOB: "2012-01-01"},
		{StudentID: "STU002", Name: "C", Class: "6B", Gender: "Female", DOB: "2012-01-01"},
		{StudentID: "STU003", Name: "", Class: "6B", Gender: "Male", DOB: "2012-01-01"},
	}

	batch, skipped := classifyImportRows(rows, map[string]bool{"STU002": true})

	require.Len(t, batch, 1)
	assert.Equal(t, "STU001", batch[0].StudentID)
	assert.Equal(t, "A", batch[0].Name)
	assert.Equal(t, []string{"STU001", "STU002", "STU003"}, skipped)
}
