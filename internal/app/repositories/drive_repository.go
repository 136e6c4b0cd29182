package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
	"github.com/vaxtrack/vaxtrack/internal/pkg/dberrors"
)

const constraintDriveID = "uq_drives_drive_id"

// DriveRepository handles database operations for vaccination drives
type DriveRepository struct {
	db *pgxpool.Pool
}

// NewDriveRepository creates a new drive repository
func NewDriveRepository(db *pgxpool.Pool) *DriveRepository {
	return &DriveRepository{db: db}
}

const driveColumns = `id, drive_id, vaccine_name, date, available_doses, grades, is_expired, created_at, updated_at`

func scanDrive(row pgx.Row, drive *models.Drive) error {
	return row.Scan(
		&drive.ID,
		&drive.DriveID,
		&drive.VaccineName,
		&drive.Date,
		&drive.AvailableDoses,
		&drive.Grades,
		&drive.IsExpired,
		&drive.CreatedAt,
		&drive.UpdatedAt,
	)
}

// Create inserts a new drive.
func (r *DriveRepository) Create(ctx context.Context, drive *models.Drive) error {
	query := `
		INSERT INTO drives (drive_id, vaccine_name, date, available_doses, grades, is_expired)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		drive.DriveID, drive.VaccineName, drive.Date, drive.AvailableDoses, drive.Grades, drive.IsExpired,
	).Scan(&drive.ID, &drive.CreatedAt, &drive.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintDriveID) {
			return apperrors.ErrDriveAlreadyExists
		}
		return fmt.Errorf("error creating drive: %w", err)
	}

	return nil
}

// GetByDriveID retrieves a drive by business key. Returns nil when no
// drive matches.
func (r *DriveRepository) GetByDriveID(ctx context.Context, driveID string) (*models.Drive, error) {
	var drive models.Drive
	err := scanDrive(r.db.QueryRow(ctx,
		`SELECT `+driveColumns+` FROM drives WHERE drive_id = $1`, driveID), &drive)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving drive: %w", err)
	}
	return &drive, nil
}

// GetAll retrieves all drives ordered by date.
func (r *DriveRepository) GetAll(ctx context.Context) ([]*models.Drive, error) {
	rows, err := r.db.Query(ctx, `SELECT `+driveColumns+` FROM drives ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("error listing drives: %w", err)
	}
	defer rows.Close()

	var drives []*models.Drive
	for rows.Next() {
		var drive models.Drive
		if err := scanDrive(rows, &drive); err != nil {
			return nil, fmt.Errorf("error scanning drive row: %w", err)
		}
		drives = append(drives, &drive)
	}
	return drives, rows.Err()
}

// Update persists the editable drive fields.
func (r *DriveRepository) Update(ctx context.Context, drive *models.Drive) error {
	query := `
		UPDATE drives
		SET vaccine_name = $1, date = $2, available_doses = $3, grades = $4, updated_at = NOW()
		WHERE drive_id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query,
		drive.VaccineName, drive.Date, drive.AvailableDoses, drive.Grades, drive.DriveID)
	if err != nil {
		return fmt.Errorf("error updating drive: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDriveNotFound
	}

	return nil
}

// Disable marks a drive as expired. Expired drives no longer appear as
// upcoming and cannot be edited.
func (r *DriveRepository) Disable(ctx context.Context, driveID string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE drives SET is_expired = TRUE, updated_at = NOW() WHERE drive_id = $1`, driveID)
	if err != nil {
		return fmt.Errorf("error disabling drive: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDriveNotFound
	}

	return nil
}

// Upcoming retrieves non-expired drives with a date inside [from, to].
func (r *DriveRepository) Upcoming(ctx context.Context, from, to time.Time) ([]*models.Drive, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+driveColumns+`
		FROM drives
		WHERE date >= $1 AND date <= $2 AND is_expired = FALSE
		ORDER BY date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("error listing upcoming drives: %w", err)
	}
	defer rows.Close()

	var drives []*models.Drive
	for rows.Next() {
		var drive models.Drive
		if err := scanDrive(rows, &drive); err != nil {
			return nil, fmt.Errorf("error scanning drive row: %w", err)
		}
		drives = append(drives, &drive)
	}
	return drives, rows.Err()
}

// CountAll returns the total number of drives.
func (r *DriveRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM drives`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting drives: %w", err)
	}
	return count, nil
}
