package models

import "time"

// SettingsID is the fixed identifier of the singleton settings record.
const SettingsID = "registration"

// DefaultMaxTeams is the team cap applied when no settings record exists.
const DefaultMaxTeams = 35

// RegistrationSettings is the singleton configuration that controls whether
// new teams may register.
type RegistrationSettings struct {
	ID                        string     `bson:"_id" json:"id"`
	RegistrationOpen          bool       `bson:"registration_open" json:"registrationOpen"`
	RegistrationDeadline      *time.Time `bson:"registration_deadline,omitempty" json:"registrationDeadline"`
	PilotModificationDeadline *time.Time `bson:"pilot_modification_deadline,omitempty" json:"pilotModificationDeadline"`
	MaxTeams                  int        `bson:"max_teams" json:"maxTeams"`
	EventDate                 *time.Time `bson:"event_date,omitempty" json:"eventDate"`
	EventLocation             string     `bson:"event_location" json:"eventLocation"`
	UpdatedAt                 time.Time  `bson:"updated_at" json:"updatedAt"`
}

// DefaultSettings returns the settings applied before an admin has stored any.
func DefaultSettings() RegistrationSettings {
	return RegistrationSettings{
		ID:               SettingsID,
		RegistrationOpen: true,
		MaxTeams:         DefaultMaxTeams,
	}
}
