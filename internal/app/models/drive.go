package models

import "time"

// Drive defines the vaccination drive model based on the 'drives' table.
type Drive struct {
	ID             int64     `json:"-" db:"id"`
	DriveID        string    `json:"id" db:"drive_id" example:"drive-1"`
	VaccineName    string    `json:"vaccineName" db:"vaccine_name" example:"Covishield"`
	Date           time.Time `json:"date" db:"date"`
	AvailableDoses int       `json:"availableDoses" db:"available_doses" example:"100"`
	Grades         string    `json:"grades" db:"grades" example:"5,6"`
	IsExpired      bool      `json:"isExpired" db:"is_expired"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}
