package models

import "time"

// ReportRow is one denormalized (student, vaccination record) pair used by
// the report aggregator and the exporters. It is derived, never persisted.
type ReportRow struct {
	StudentID   string    `json:"studentID"`
	Name        string    `json:"name"`
	Class       string    `json:"class"`
	VaccineName string    `json:"vaccineName"`
	DriveID     string    `json:"driveId"`
	Date        time.Time `json:"date"`
}
