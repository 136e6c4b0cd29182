package dto

// CreateStudentRequest represents student registration data.
// Dates are accepted as YYYY-MM-DD strings and parsed in the service so
// that an unparseable date surfaces as a format error, not a bind error.
type CreateStudentRequest struct {
	StudentID          string                     `json:"studentID" binding:"required"`
	Name               string                     `json:"name" binding:"required"`
	Class              string                     `json:"class" binding:"required"`
	Gender             string                     `json:"gender" binding:"required,oneof=Male Female Other"`
	DOB                string                     `json:"dob" binding:"required"`
	VaccinationRecords []VaccinationRecordRequest `json:"vaccinationRecords,omitempty"`
}

// UpdateStudentRequest carries the editable student fields. Nil fields are
// left unchanged; studentID itself is immutable.
type UpdateStudentRequest struct {
	Name   *string `json:"name,omitempty"`
	Class  *string `json:"class,omitempty"`
	Gender *string `json:"gender,omitempty" binding:"omitempty,oneof=Male Female Other"`
	DOB    *string `json:"dob,omitempty"`
}

// VaccinationRecordRequest is an embedded record supplied at registration time.
type VaccinationRecordRequest struct {
	DriveID     string `json:"driveId" binding:"required"`
	VaccineName string `json:"vaccineName"`
	Date        string `json:"date"`
}

// VaccinateRequest marks a student as vaccinated against a drive. The
// vaccine name and date fields are accepted for compatibility with older
// clients but the server re-derives both from the drive itself.
type VaccinateRequest struct {
	DriveID     string `json:"driveId" binding:"required"`
	VaccineName string `json:"vaccineName"`
	Date        string `json:"date"`
}

// ImportResult reports the outcome of a bulk CSV import.
type ImportResult struct {
	Imported   int      `json:"imported" example:"2"`
	Skipped    int      `json:"skipped" example:"1"`
	SkippedIDs []string `json:"skippedIds"`
}
