package dto

// CreateDriveRequest represents vaccination drive creation data.
type CreateDriveRequest struct {
	DriveID        string `json:"id" binding:"required"`
	VaccineName    string `json:"vaccineName" binding:"required"`
	Date           string `json:"date" binding:"required"`
	// Pointer so that a drive opening with zero doses still binds.
	AvailableDoses *int `json:"availableDoses" binding:"required,gte=0"`
	Grades         string `json:"grades" binding:"required"`
}

// UpdateDriveRequest carries the editable drive fields.
type UpdateDriveRequest struct {
	VaccineName    *string `json:"vaccineName,omitempty"`
	Date           *string `json:"date,omitempty"`
	AvailableDoses *int    `json:"availableDoses,omitempty" binding:"omitempty,gte=0"`
	Grades         *string `json:"grades,omitempty"`
}

// DriveSummary is the projection of a drive used by the dashboard overview.
type DriveSummary struct {
	DriveID        string `json:"id" example:"drive-1"`
	VaccineName    string `json:"vaccineName" example:"Covishield"`
	Date           string `json:"date" example:"2025-05-20"`
	AvailableDoses int    `json:"availableDoses" example:"100"`
	Grades         string `json:"grades" example:"5,6"`
}
