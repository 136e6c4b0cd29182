package models

// Gender is the set of accepted student gender labels.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Valid reports whether g is one of the accepted labels.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// RoleType defines the user role type
type RoleType string

const (
	RoleCoordinator RoleType = "coordinator"
)
