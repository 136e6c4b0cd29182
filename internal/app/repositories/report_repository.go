package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
)

// ReportQuery is the filter and pagination set for the flattened
// (student, vaccination record) view. Nil filter fields are ignored; a
// zero Limit disables pagination (used by the exporters).
type ReportQuery struct {
	VaccineName string
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      uint64
}

// ReportRepository builds the denormalized report view used for listing
// and exporting.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// Rows retrieves the filtered, flattened report rows sorted by date
// descending, plus the total matching count before pagination.
func (r *ReportRepository) Rows(ctx context.Context, q ReportQuery) ([]models.ReportRow, int64, error) {
	query := squirrel.Select(
		"s.student_id", "s.name", "s.class",
		"vr.vaccine_name", "vr.drive_id", "vr.date",
	).
		Column("COUNT(*) OVER()").
		From("vaccination_records vr").
		Join("students s ON s.id = vr.student_id").
		OrderBy("vr.date DESC", "vr.id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if q.VaccineName != "" {
		query = query.Where("vr.vaccine_name = ?", q.VaccineName)
	}
	if q.FromDate != nil {
		query = query.Where("vr.date >= ?", *q.FromDate)
	}
	if q.ToDate != nil {
		query = query.Where("vr.date <= ?", *q.ToDate)
	}
	if q.Limit > 0 {
		query = query.Limit(uint64(q.Limit)).Offset(q.Offset)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing report query: %w", err)
	}
	defer rows.Close()

	records := []models.ReportRow{}
	var total int64
	for rows.Next() {
		var row models.ReportRow
		if err := rows.Scan(
			&row.StudentID,
			&row.Name,
			&row.Class,
			&row.VaccineName,
			&row.DriveID,
			&row.Date,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning report row: %w", err)
		}
		records = append(records, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// A page past the end returns no rows; the caller still needs the
	// total, so count separately in that case.
	if len(records) == 0 && q.Offset > 0 {
		total, err = r.count(ctx, q)
		if err != nil {
			return nil, 0, err
		}
	}

	return records, total, nil
}

func (r *ReportRepository) count(ctx context.Context, q ReportQuery) (int64, error) {
	query := squirrel.Select("COUNT(*)").
		From("vaccination_records vr").
		Join("students s ON s.id = vr.student_id").
		PlaceholderFormat(squirrel.Dollar)

	if q.VaccineName != "" {
		query = query.Where("vr.vaccine_name = ?", q.VaccineName)
	}
	if q.FromDate != nil {
		query = query.Where("vr.date >= ?", *q.FromDate)
	}
	if q.ToDate != nil {
		query = query.Where("vr.date <= ?", *q.ToDate)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting report rows: %w", err)
	}
	return total, nil
}
