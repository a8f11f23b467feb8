package models

import "time"

// Patch types describe partial updates. Nil fields are left unchanged.
// Identifier, owner, status and creation-timestamp fields are absent on
// purpose: a client patch can never touch them.

// TeamPatch is the set of team fields a representative may update.
type TeamPatch struct {
	Name           *string `json:"name"`
	NumberOfPilots *int    `json:"numberOfPilots"`

	RepresentativeName    *string `json:"representativeName"`
	RepresentativeSurname *string `json:"representativeSurname"`
	RepresentativeDNI     *string `json:"representativeDni"`
	RepresentativePhone   *string `json:"representativePhone"`
	RepresentativeEmail   *string `json:"representativeEmail"`

	Address      *string `json:"address"`
	Municipality *string `json:"municipality"`
	PostalCode   *string `json:"postalCode"`
	Province     *string `json:"province"`

	MotorcycleBrand  *string         `json:"motorcycleBrand"`
	MotorcycleModel  *string         `json:"motorcycleModel"`
	EngineCapacity   *EngineCapacity `json:"engineCapacity"`
	RegistrationDate *string         `json:"registrationDate"`
	Modifications    *string         `json:"modifications"`

	Comments    *string `json:"comments"`
	GDPRConsent *bool   `json:"gdprConsent"`
}

// PilotPatch is the set of pilot fields a representative may update.
type PilotPatch struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	DNI     *string `json:"dni"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`

	EmergencyContactName  *string `json:"emergencyContactName"`
	EmergencyContactPhone *string `json:"emergencyContactPhone"`

	DrivingLevel     *DrivingLevel `json:"drivingLevel"`
	TrackExperience  *string       `json:"trackExperience"`
	IsRepresentative *bool         `json:"isRepresentative"`
}

// StaffPatch is the set of staff fields a representative may update.
type StaffPatch struct {
	Name  *string    `json:"name"`
	DNI   *string    `json:"dni"`
	Phone *string    `json:"phone"`
	Role  *StaffRole `json:"role"`
}

// SettingsPatch is the allow-list of settings fields an admin may update.
type SettingsPatch struct {
	RegistrationOpen          *bool      `json:"registrationOpen"`
	RegistrationDeadline      *time.Time `json:"registrationDeadline"`
	PilotModificationDeadline *time.Time `json:"pilotModificationDeadline"`
	MaxTeams                  *int       `json:"maxTeams"`
	EventDate                 *time.Time `json:"eventDate"`
	EventLocation             *string    `json:"eventLocation"`
}

// Empty reports whether the patch carries no fields at all.
func (p SettingsPatch) Empty() bool {
	return p.RegistrationOpen == nil && p.RegistrationDeadline == nil &&
		p.PilotModificationDeadline == nil && p.MaxTeams == nil &&
		p.EventDate == nil && p.EventLocation == nil
}
