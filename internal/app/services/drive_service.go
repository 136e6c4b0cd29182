package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
	"github.com/vaxtrack/vaxtrack/internal/pkg/helpers"
)

// DriveStore is the persistence surface the drive service needs.
// *repositories.DriveRepository satisfies it.
type DriveStore interface {
	Create(ctx context.Context, drive *models.Drive) error
	GetByDriveID(ctx context.Context, driveID string) (*models.Drive, error)
	GetAll(ctx context.Context) ([]*models.Drive, error)
	Update(ctx context.Context, drive *models.Drive) error
	Disable(ctx context.Context, driveID string) error
}

// DriveService handles vaccination drive scheduling.
type DriveService struct {
	drives DriveStore
	logger zerolog.Logger
}

// NewDriveService creates a new drive service instance
func NewDriveService(drives DriveStore, logger zerolog.Logger) *DriveService {
	return &DriveService{drives: drives, logger: logger}
}

// CreateDrive schedules a new drive. The drive date must be in the future.
func (s *DriveService) CreateDrive(ctx context.Context, req dto.CreateDriveRequest) (*models.Drive, error) {
	if strings.TrimSpace(req.DriveID) == "" {
		return nil, apperrors.NewValidationError("id is required")
	}
	if strings.TrimSpace(req.VaccineName) == "" {
		return nil, apperrors.NewValidationError("vaccineName is required")
	}
	if req.AvailableDoses == nil {
		return nil, apperrors.NewValidationError("availableDoses is required")
	}
	if *req.AvailableDoses < 0 {
		return nil, apperrors.NewValidationError("availableDoses must not be negative")
	}

	date, err := parseFutureDriveDate(req.Date)
	if err != nil {
		return nil, err
	}

	drive := &models.Drive{
		DriveID:        strings.TrimSpace(req.DriveID),
		VaccineName:    req.VaccineName,
		Date:           date,
		AvailableDoses: *req.AvailableDoses,
		Grades:         req.Grades,
	}

	if err := s.drives.Create(ctx, drive); err != nil {
		return nil, err
	}

	s.logger.Info().Str("driveId", drive.DriveID).Msg("Vaccination drive created")
	return drive, nil
}

// ListDrives retrieves all drives.
func (s *DriveService) ListDrives(ctx context.Context) ([]*models.Drive, error) {
	return s.drives.GetAll(ctx)
}

// GetDrive retrieves one drive by business key.
func (s *DriveService) GetDrive(ctx context.Context, driveID string) (*models.Drive, error) {
	drive, err := s.drives.GetByDriveID(ctx, driveID)
	if err != nil {
		return nil, err
	}
	if drive == nil {
		return nil, apperrors.ErrDriveNotFound
	}
	return drive, nil
}

// UpdateDrive applies a partial update to an existing drive. Expired
// drives cannot be edited.
func (s *DriveService) UpdateDrive(ctx context.Context, driveID string, patch dto.UpdateDriveRequest) (*models.Drive, error) {
	drive, err := s.GetDrive(ctx, driveID)
	if err != nil {
		return nil, err
	}
	if drive.IsExpired {
		return nil, apperrors.ErrDriveExpired
	}

	if patch.VaccineName != nil {
		if strings.TrimSpace(*patch.VaccineName) == "" {
			return nil, apperrors.NewValidationError("vaccineName must not be empty")
		}
		drive.VaccineName = *patch.VaccineName
	}
	if patch.Date != nil {
		date, err := parseFutureDriveDate(*patch.Date)
		if err != nil {
			return nil, err
		}
		drive.Date = date
	}
	if patch.AvailableDoses != nil {
		if *patch.AvailableDoses < 0 {
			return nil, apperrors.NewValidationError("availableDoses must not be negative")
		}
		drive.AvailableDoses = *patch.AvailableDoses
	}
	if patch.Grades != nil {
		drive.Grades = *patch.Grades
	}

	if err := s.drives.Update(ctx, drive); err != nil {
		return nil, err
	}

	return drive, nil
}

// DisableDrive marks a drive as expired.
func (s *DriveService) DisableDrive(ctx context.Context, driveID string) error {
	if err := s.drives.Disable(ctx, driveID); err != nil {
		return err
	}
	s.logger.Info().Str("driveId", driveID).Msg("Vaccination drive disabled")
	return nil
}

// parseFutureDriveDate parses a drive date and rejects dates that are not
// strictly after today.
func parseFutureDriveDate(dateStr string) (time.Time, error) {
	date, err := helpers.ParseDate(dateStr)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", dateStr))
	}

	today := time.Now().Truncate(24 * time.Hour)
	if !date.After(today) {
		return time.Time{}, apperrors.NewValidationError("drive date must be in the future")
	}

	return date, nil
}
