package services

import (
	"context"
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

// fakeDashboardStudents serves the dashboard's student surface.
type fakeDashboardStudents struct {
	students []*models.Student
}

func (f *fakeDashboardStudents) CountAll(_ context.Context) (int64, error) {
	return int64(len(f.students)), nil
}

func (f *fakeDashboardStudents) CountVaccinated(_ context.Context) (int64, error) {
	var n int64
	for _, s := range f.students {
		if s.Vaccinated() {
			n++
		}
	}
	return n, nil
}

func (f *fakeDashboardStudents) List(_ context.Context, _ repositories.StudentFilter) ([]*models.Student, error) {
	return f.students, nil
}

// fakeDashboardDrives serves the dashboard's drive surface.
type fakeDashboardDrives struct {
	upcoming []*models.Drive
	total    int64
	lastFrom time.Time
	lastTo   time.Time
}

func (f *fakeDashboardDrives) Upcoming(_ context.Context, from, to time.Time) ([]*models.Drive, error) {
	f.lastFrom, f.lastTo = from, to
	return f.upcoming, nil
}

func (f *fakeDashboardDrives) CountAll(_ context.Context) (int64, error) {
	return f.total, nil
}

func vaccinatedStudent(id, class, vaccine string) *models.Student {
	return &models.Student{
		StudentID: id,
		Name:      "Student " + id,
		Class:     class,
		Gender:    models.GenderFemale,
		VaccinationRecords: []models.VaccinationRecord{
			{DriveID: "drive-1", VaccineName: vaccine, Date: time.Now()},
		},
	}
}

func plainStudent(id, class string) *models.Student {
	return &models.Student{
		StudentID: id,
		Name:      "Student " + id,
		Class:     class,
		Gender:    models.GenderMale,
	}
}

func TestDashboardOverview(t *testing.T) {
	t.Run("computes counts and rounded percentage", func(t *testing.T) {
		students := &fakeDashboardStudents{students: []*models.Student{
			vaccinatedStudent("STU001", "6B", "Covishield"),
			plainStudent("STU002", "6B"),
			plainStudent("STU003", "7A"),
		}}
		drives := &fakeDashboardDrives{
			upcoming: []*models.Drive{
				{DriveID: "drive-2", VaccineName: "Covaxin", Date: time.Now().AddDate(0, 0, 10), AvailableDoses: 40, Grades: "6,7"},
			},
			total: 2,
		}
		svc := NewDashboardService(students, drives, zerolog.Nop())

		overview, err := svc.Overview(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), overview.TotalStudents)
		assert.Equal(t, int64(1), overview.VaccinatedCount)
		assert.InDelta(t, 33.33, overview.VaccinatedPercent, 0.001)
		assert.Equal(t, 1, overview.UpcomingDrivesCount)
		require.Len(t, overview.UpcomingDrives, 1)
		assert.Equal(t, "drive-2", overview.UpcomingDrives[0].DriveID)

		// The window spans the next 30 days.
		assert.InDelta(t, 30*24*time.Hour, drives.lastTo.Sub(drives.lastFrom), float64(time.Second))
	})

	t.Run("zero students yields zero percent", func(t *testing.T) {
		svc := NewDashboardService(&fakeDashboardStudents{}, &fakeDashboardDrives{}, zerolog.Nop())

		overview, err := svc.Overview(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(0), overview.TotalStudents)
		assert.Zero(t, overview.VaccinatedPercent)
		assert.Empty(t, overview.UpcomingDrives)
	})
}

func TestDashboardStats(t *testing.T) {
	t.Run("aggregates per class and per vaccine", func(t *testing.T) {
		students := &fakeDashboardStudents{students: []*models.Student{
			vaccinatedStudent("STU001", "6B", "Covishield"),
			vaccinatedStudent("STU002", "6B", "Covaxin"),
			plainStudent("STU003", "6B"),
			vaccinatedStudent("STU004", "5A", "Covishield"),
		}}
		drives := &fakeDashboardDrives{total: 2}
		svc := NewDashboardService(students, drives, zerolog.Nop())

		stats, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(4), stats.TotalStudents)

		require.Len(t, stats.VaccinationByClass, 2)
		assert.Equal(t, dto.ClassStats{Class: "5A", Total: 1, Vaccinated: 1, VaccinatedPercent: 100}, stats.VaccinationByClass[0])
		assert.Equal(t, "6B", stats.VaccinationByClass[1].Class)
		assert.Equal(t, 3, stats.VaccinationByClass[1].Total)
		assert.Equal(t, 2, stats.VaccinationByClass[1].Vaccinated)
		assert.InDelta(t, 66.67, stats.VaccinationByClass[1].VaccinatedPercent, 0.001)

		// Covishield has two uses; ties would fall back to name order.
		require.Len(t, stats.MostUsedVaccines, 2)
		assert.Equal(t, dto.VaccineCount{Name: "Covishield", Count: 2}, stats.MostUsedVaccines[0])
		assert.Equal(t, dto.VaccineCount{Name: "Covaxin", Count: 1}, stats.MostUsedVaccines[1])
	})

	t.Run("tie on count orders by name", func(t *testing.T) {
		students := &fakeDashboardStudents{students: []*models.Student{
			vaccinatedStudent("STU001", "6B", "Zyvax"),
			vaccinatedStudent("STU002", "6B", "Covaxin"),
		}}
		svc := NewDashboardService(students, &fakeDashboardDrives{total: 1}, zerolog.Nop())

		stats, err := svc.Stats(context.Background())
		require.NoError(t, err)
		require.Len(t, stats.MostUsedVaccines, 2)
		assert.Equal(t, "Covaxin", stats.MostUsedVaccines[0].Name)
		assert.Equal(t, "Zyvax", stats.MostUsedVaccines[1].Name)
	})

	t.Run("no students", func(t *testing.T) {
		svc := NewDashboardService(&fakeDashboardStudents{}, &fakeDashboardDrives{total: 3}, zerolog.Nop())

		_, err := svc.Stats(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	t.Run("no drives", func(t *testing.T) {
		students := &fakeDashboardStudents{students: []*models.Student{plainStudent("STU001", "6B")}}
		svc := NewDashboardService(students, &fakeDashboardDrives{total: 0}, zerolog.Nop())

		_, err := svc.Stats(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}
