package dto

// Overview is the dashboard summary payload.
type Overview struct {
	TotalStudents       int64          `json:"totalStudents" example:"100"`
	VaccinatedCount     int64          `json:"vaccinatedCount" example:"60"`
	VaccinatedPercent   float64        `json:"vaccinatedPercent" example:"60.00"`
	UpcomingDrivesCount int            `json:"upcomingDrivesCount" example:"2"`
	UpcomingDrives      []DriveSummary `json:"upcomingDrives"`
}

// ClassStats is the per-class vaccination breakdown.
type ClassStats struct {
	Class             string  `json:"class" example:"6B"`
	Total             int     `json:"total" example:"20"`
	Vaccinated        int     `json:"vaccinated" example:"15"`
	VaccinatedPercent float64 `json:"vaccinatedPercent" example:"75.00"`
}

// VaccineCount is one entry in the most-used vaccine tally.
type VaccineCount struct {
	Name  string `json:"name" example:"Covishield"`
	Count int    `json:"count" example:"42"`
}

// Stats is the dashboard statistics payload.
type Stats struct {
	TotalStudents      int64          `json:"totalStudents" example:"100"`
	VaccinationByClass []ClassStats   `json:"vaccinationByClass"`
	MostUsedVaccines   []VaccineCount `json:"mostUsedVaccines"`
}
