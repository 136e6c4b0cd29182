package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/db"
	"github.com/vaxtrack/vaxtrack/internal/pkg/apperrors"
	"github.com/vaxtrack/vaxtrack/internal/pkg/dberrors"
)

// Constraint names from migrations/001_init.sql.
const (
	constraintStudentID          = "uq_students_student_id"
	constraintStudentDriveUnique = "uq_vaccination_records_student_drive"
	constraintDoseFloor          = "ck_drives_available_doses"
)

// StudentStatus filters students by vaccination state.
type StudentStatus string

const (
	StatusVaccinated    StudentStatus = "vaccinated"
	StatusNotVaccinated StudentStatus = "not_vaccinated"
)

// StudentFilter is the optional filter set for listing students.
type StudentFilter struct {
	Class  string
	Name   string // case-insensitive substring match
	Status StudentStatus
}

// StudentRepository handles database operations for students and their
// vaccination records.
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new student together with any embedded vaccination
// records supplied at registration time.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO students (student_id, name, class, gender, dob)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			student.StudentID, student.Name, student.Class, student.Gender, student.DOB,
		).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, constraintStudentID) {
				return apperrors.ErrStudentIDAlreadyExists
			}
			return fmt.Errorf("error creating student: %w", err)
		}

		for i := range student.VaccinationRecords {
			rec := &student.VaccinationRecords[i]
			err := tx.QueryRow(ctx, `
				INSERT INTO vaccination_records (student_id, drive_id, vaccine_name, date)
				VALUES ($1, $2, $3, $4)
				RETURNING id`,
				student.ID, rec.DriveID, rec.VaccineName, rec.Date,
			).Scan(&rec.ID)
			if err != nil {
				if dberrors.IsDuplicateConstraintError(err, constraintStudentDriveUnique) {
					return apperrors.ErrAlreadyVaccinated
				}
				return fmt.Errorf("error creating vaccination record: %w", err)
			}
		}

		return nil
	})
}

// GetByStudentID retrieves a student by business key, records included.
// Returns nil when no student matches.
func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	query := `
		SELECT id, student_id, name, class, gender, dob, created_at, updated_at
		FROM students
		WHERE student_id = $1
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&student.ID,
		&student.StudentID,
		&student.Name,
		&student.Class,
		&student.Gender,
		&student.DOB,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	if err := r.loadRecords(ctx, []*models.Student{&student}); err != nil {
		return nil, err
	}

	return &student, nil
}

// List retrieves students matching the filter, records included.
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter) ([]*models.Student, error) {
	query := squirrel.Select("id", "student_id", "name", "class", "gender", "dob", "created_at", "updated_at").
		From("students").
		OrderBy("student_id").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Class != "" {
		query = query.Where("class = ?", filter.Class)
	}
	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	switch filter.Status {
	case StatusVaccinated:
		query = query.Where("EXISTS (SELECT 1 FROM vaccination_records vr WHERE vr.student_id = students.id)")
	case StatusNotVaccinated:
		query = query.Where("NOT EXISTS (SELECT 1 FROM vaccination_records vr WHERE vr.student_id = students.id)")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(
			&student.ID,
			&student.StudentID,
			&student.Name,
			&student.Class,
			&student.Gender,
			&student.DOB,
			&student.CreatedAt,
			&student.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, &student)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadRecords(ctx, students); err != nil {
		return nil, err
	}

	return students, nil
}

// loadRecords attaches vaccination records to the given students in entry
// order (record id ascending).
func (r *StudentRepository) loadRecords(ctx context.Context, students []*models.Student) error {
	if len(students) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(students))
	byID := make(map[int64]*models.Student, len(students))
	for _, s := range students {
		s.VaccinationRecords = []models.VaccinationRecord{}
		ids = append(ids, s.ID)
		byID[s.ID] = s
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, student_id, drive_id, vaccine_name, date
		FROM vaccination_records
		WHERE student_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("error loading vaccination records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.VaccinationRecord
		var ownerID int64
		if err := rows.Scan(&rec.ID, &ownerID, &rec.DriveID, &rec.VaccineName, &rec.Date); err != nil {
			return fmt.Errorf("error scanning vaccination record: %w", err)
		}
		if owner, ok := byID[ownerID]; ok {
			owner.VaccinationRecords = append(owner.VaccinationRecords, rec)
		}
	}
	return rows.Err()
}

// Update persists the editable student fields. The business key itself is
// immutable.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET name = $1, class = $2, gender = $3, dob = $4, updated_at = NOW()
		WHERE student_id = $5
	`

	cmdTag, err := r.db.Exec(ctx, query,
		student.Name, student.Class, student.Gender, student.DOB, student.StudentID)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// ExistingIDs returns which of the given business keys already exist.
func (r *StudentRepository) ExistingIDs(ctx context.Context, studentIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(studentIDs) == 0 {
		return existing, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT student_id FROM students WHERE student_id = ANY($1)`, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("error checking existing student IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning student ID: %w", err)
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

// InsertMany bulk-inserts students in one batch. Rows that lose to the
// uniqueness constraint on student_id (concurrent imports, direct creates)
// are reported back as conflicts rather than failing the batch.
func (r *StudentRepository) InsertMany(ctx context.Context, students []models.Student) (inserted int, conflicted []string, err error) {
	if len(students) == 0 {
		return 0, nil, nil
	}

	batch := &pgx.Batch{}
	for _, s := range students {
		batch.Queue(`
			INSERT INTO students (student_id, name, class, gender, dob)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (student_id) DO NOTHING`,
			s.StudentID, s.Name, s.Class, s.Gender, s.DOB)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for _, s := range students {
		cmdTag, execErr := results.Exec()
		if execErr != nil {
			return inserted, conflicted, fmt.Errorf("error inserting student %s: %w", s.StudentID, execErr)
		}
		if cmdTag.RowsAffected() == 0 {
			conflicted = append(conflicted, s.StudentID)
			continue
		}
		inserted++
	}

	return inserted, conflicted, nil
}

// Vaccinate performs the vaccination transaction for one (student, drive)
// pair: duplicate check, conditional dose decrement, and record insert run
// inside a single transaction, so a dose can never be spent without a
// matching record. The uniqueness constraint on (student_id, drive_id) is
// the backstop for concurrent requests that pass the duplicate check
// together. The vaccine name and date are taken from the drive itself.
func (r *StudentRepository) Vaccinate(ctx context.Context, studentID, driveID string) (*models.Student, error) {
	txErr := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM students WHERE student_id = $1`, studentID).Scan(&id)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.ErrStudentNotFound
			}
			return fmt.Errorf("error looking up student: %w", err)
		}

		var exists bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM vaccination_records WHERE student_id = $1 AND drive_id = $2)`,
			id, driveID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("error checking vaccination records: %w", err)
		}
		if exists {
			return apperrors.ErrAlreadyVaccinated
		}

		var vaccineName string
		var date time.Time
		err = tx.QueryRow(ctx,
			`SELECT vaccine_name, date FROM drives WHERE drive_id = $1`, driveID).
			Scan(&vaccineName, &date)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.ErrDriveNotFound
			}
			return fmt.Errorf("error looking up drive: %w", err)
		}

		// Conditional decrement: zero rows affected means the inventory
		// hit the floor between the lookup and now.
		cmdTag, err := tx.Exec(ctx, `
			UPDATE drives
			SET available_doses = available_doses - 1, updated_at = NOW()
			WHERE drive_id = $1 AND available_doses > 0`, driveID)
		if err != nil {
			if dberrors.IsCheckViolation(err, constraintDoseFloor) {
				return apperrors.ErrNoDosesLeft
			}
			return fmt.Errorf("error consuming dose: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNoDosesLeft
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO vaccination_records (student_id, drive_id, vaccine_name, date)
			VALUES ($1, $2, $3, $4)`,
			id, driveID, vaccineName, date)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, constraintStudentDriveUnique) {
				// A concurrent request won the race; rolling back also
				// returns the dose consumed above.
				return apperrors.ErrAlreadyVaccinated
			}
			return fmt.Errorf("error inserting vaccination record: %w", err)
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	student, err := r.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

// CountAll returns the total number of students.
func (r *StudentRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// CountVaccinated returns the number of students with at least one record.
func (r *StudentRepository) CountVaccinated(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM students s
		WHERE EXISTS (SELECT 1 FROM vaccination_records vr WHERE vr.student_id = s.id)`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting vaccinated students: %w", err)
	}
	return count, nil
}
