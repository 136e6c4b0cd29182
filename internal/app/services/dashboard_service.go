package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/app/repositories"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
	"github.com/vaxtrack/vaxtrack/internal/pkg/helpers"
)

// upcomingWindow is how far ahead the overview looks for drives.
const upcomingWindow = 30 * 24 * time.Hour

// DashboardStudentStore is the student surface the dashboard needs.
type DashboardStudentStore interface {
	CountAll(ctx context.Context) (int64, error)
	CountVaccinated(ctx context.Context) (int64, error)
	List(ctx context.Context, filter repositories.StudentFilter) ([]*models.Student, error)
}

// DashboardDriveStore is the drive surface the dashboard needs.
type DashboardDriveStore interface {
	Upcoming(ctx context.Context, from, to time.Time) ([]*models.Drive, error)
	CountAll(ctx context.Context) (int64, error)
}

// DashboardService computes the summary statistics shown on the admin
// console landing page.
type DashboardService struct {
	students DashboardStudentStore
	drives   DashboardDriveStore
	logger   zerolog.Logger
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(students DashboardStudentStore, drives DashboardDriveStore, logger zerolog.Logger) *DashboardService {
	return &DashboardService{students: students, drives: drives, logger: logger}
}

// Overview returns the headline counts and the drives scheduled within
// the next 30 days. With zero students the vaccinated percentage is 0,
// never a division by zero.
func (s *DashboardService) Overview(ctx context.Context) (*dto.Overview, error) {
	totalStudents, err := s.students.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	vaccinatedCount, err := s.students.CountVaccinated(ctx)
	if err != nil {
		return nil, err
	}

	var vaccinatedPercent float64
	if totalStudents > 0 {
		vaccinatedPercent = roundPercent(float64(vaccinatedCount) / float64(totalStudents) * 100)
	}

	today := time.Now().Truncate(24 * time.Hour)
	upcoming, err := s.drives.Upcoming(ctx, today, today.Add(upcomingWindow))
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.DriveSummary, 0, len(upcoming))
	for _, drive := range upcoming {
		summaries = append(summaries, dto.DriveSummary{
			DriveID:        drive.DriveID,
			VaccineName:    drive.VaccineName,
			Date:           helpers.FormatDate(drive.Date),
			AvailableDoses: drive.AvailableDoses,
			Grades:         drive.Grades,
		})
	}

	return &dto.Overview{
		TotalStudents:       totalStudents,
		VaccinatedCount:     vaccinatedCount,
		VaccinatedPercent:   vaccinatedPercent,
		UpcomingDrivesCount: len(summaries),
		UpcomingDrives:      summaries,
	}, nil
}

// Stats returns the per-class vaccination breakdown and the most used
// vaccine tally. It fails with not-found when either the student set or
// the drive set is empty.
func (s *DashboardService) Stats(ctx context.Context) (*dto.Stats, error) {
	students, err := s.students.List(ctx, repositories.StudentFilter{})
	if err != nil {
		return nil, err
	}

	driveCount, err := s.drives.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(students) == 0 || driveCount == 0 {
		s.logger.Warn().Msg("No students or drives found for stats")
		return nil, apperrors.NewCustomError(apperrors.ErrResourceNotFound, "no students or drives found")
	}

	type classTally struct {
		total      int
		vaccinated int
	}
	byClass := make(map[string]*classTally)
	vaccineCounts := make(map[string]int)

	for _, student := range students {
		tally := byClass[student.Class]
		if tally == nil {
			tally = &classTally{}
			byClass[student.Class] = tally
		}
		tally.total++

		if !student.Vaccinated() {
			continue
		}
		tally.vaccinated++

		for _, rec := range student.VaccinationRecords {
			if rec.VaccineName != "" {
				vaccineCounts[rec.VaccineName]++
			}
		}
	}

	classStats := make([]dto.ClassStats, 0, len(byClass))
	for class, tally := range byClass {
		classStats = append(classStats, dto.ClassStats{
			Class:             class,
			Total:             tally.total,
			Vaccinated:        tally.vaccinated,
			VaccinatedPercent: roundPercent(float64(tally.vaccinated) / float64(tally.total) * 100),
		})
	}
	sort.Slice(classStats, func(i, j int) bool {
		return classStats[i].Class < classStats[j].Class
	})

	vaccines := make([]dto.VaccineCount, 0, len(vaccineCounts))
	for name, count := range vaccineCounts {
		vaccines = append(vaccines, dto.VaccineCount{Name: name, Count: count})
	}
	// Count descending, name ascending on ties, for stable output.
	sort.Slice(vaccines, func(i, j int) bool {
		if vaccines[i].Count != vaccines[j].Count {
			return vaccines[i].Count > vaccines[j].Count
		}
		return vaccines[i].Name < vaccines[j].Name
	})

	return &dto.Stats{
		TotalStudents:      int64(len(students)),
		VaccinationByClass: classStats,
		MostUsedVaccines:   vaccines,
	}, nil
}

// roundPercent rounds to two decimal places.
func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
