package models

import "time"

// DrivingLevel is a pilot's self-declared experience class.
type DrivingLevel string

const (
	LevelAmateur      DrivingLevel = "amateur"
	LevelIntermediate DrivingLevel = "intermediate"
	LevelAdvanced     DrivingLevel = "advanced"
	LevelExpert       DrivingLevel = "expert"
)

// ValidDrivingLevel reports whether l is a known driving level.
func ValidDrivingLevel(l DrivingLevel) bool {
	switch l {
	case LevelAmateur, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	}
	return false
}

// StaffRole is the function a staff member fills on a team.
type StaffRole string

const (
	RoleMechanic    StaffRole = "mechanic"
	RoleCoordinator StaffRole = "coordinator"
	RoleSupport     StaffRole = "support"
)

// ValidStaffRole reports whether r is a known staff role.
func ValidStaffRole(r StaffRole) bool {
	switch r {
	case RoleMechanic, RoleCoordinator, RoleSupport:
		return true
	}
	return false
}

// Pilot is a rider on a team's roster. The pilot flagged as representative
// is the team's designated contact and cannot be removed.
type Pilot struct {
	ID     string `bson:"_id" json:"id"`
	TeamID string `bson:"team_id" json:"teamId"`

	Name    string `bson:"name" json:"name"`
	Surname string `bson:"surname" json:"surname"`
	DNI     string `bson:"dni" json:"dni"`
	Email   string `bson:"email" json:"email"`
	Phone   string `bson:"phone" json:"phone"`

	EmergencyContactName  string `bson:"emergency_contact_name" json:"emergencyContactName"`
	EmergencyContactPhone string `bson:"emergency_contact_phone" json:"emergencyContactPhone"`

	DrivingLevel     DrivingLevel `bson:"driving_level" json:"drivingLevel"`
	TrackExperience  string       `bson:"track_experience" json:"trackExperience"`
	IsRepresentative bool         `bson:"is_representative" json:"isRepresentative"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// StaffMember is a non-riding support role on a team's roster.
type StaffMember struct {
	ID     string `bson:"_id" json:"id"`
	TeamID string `bson:"team_id" json:"teamId"`

	Name  string    `bson:"name" json:"name"`
	DNI   string    `bson:"dni" json:"dni"`
	Phone string    `bson:"phone" json:"phone"`
	Role  StaffRole `bson:"role" json:"role"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
