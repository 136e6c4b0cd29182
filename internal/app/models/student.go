package models

import "time"

// Student defines the student model based on the 'students' table.
// StudentID is the immutable business key; ID is the storage identity.
type Student struct {
	ID        int64     `json:"-" db:"id"`
	StudentID string    `json:"studentID" db:"student_id" example:"STU001"`
	Name      string    `json:"name" db:"name" example:"Aryan Kumar"`
	Class     string    `json:"class" db:"class" example:"6B"`
	Gender    Gender    `json:"gender" db:"gender" example:"Male"`
	DOB       time.Time `json:"dob" db:"dob"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// VaccinationRecords is loaded with the student, ordered by entry time.
	VaccinationRecords []VaccinationRecord `json:"vaccinationRecords"`
}

// Vaccinated reports whether the student has at least one record.
func (s *Student) Vaccinated() bool {
	return len(s.VaccinationRecords) > 0
}

// VaccinationRecord is owned by its Student; it has no independent
// lifecycle. DriveID references a Drive's business key, which may outlive
// the drive itself.
type VaccinationRecord struct {
	ID          int64     `json:"-" db:"id"`
	DriveID     string    `json:"driveId" db:"drive_id" example:"drive-1"`
	VaccineName string    `json:"vaccineName" db:"vaccine_name" example:"Covishield"`
	Date        time.Time `json:"date" db:"date"`
}
