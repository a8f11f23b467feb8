package models

import "time"

// RegistrationStatus is the lifecycle state of a team registration.
type RegistrationStatus string

const (
	StatusDraft     RegistrationStatus = "draft"
	StatusPending   RegistrationStatus = "pending"
	StatusConfirmed RegistrationStatus = "confirmed"
	StatusCancelled RegistrationStatus = "cancelled"
)

// ValidStatus reports whether s is one of the four registration states.
func ValidStatus(s RegistrationStatus) bool {
	switch s {
	case StatusDraft, StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// EngineCapacity is the motorcycle engine class a team races with.
type EngineCapacity string

const (
	Engine125cc4T EngineCapacity = "125cc_4t"
	Engine50cc2T  EngineCapacity = "50cc_2t"
)

// ValidEngineCapacity reports whether c is a known engine class.
func ValidEngineCapacity(c EngineCapacity) bool {
	return c == Engine125cc4T || c == Engine50cc2T
}

// Team represents one registered entrant unit, owned by exactly one user.
// JSON names are the public API shape; bson names are the document schema.
type Team struct {
	ID                   string `bson:"_id" json:"id"`
	RepresentativeUserID string `bson:"representative_user_id" json:"representativeUserId"`
	Name                 string `bson:"name" json:"name"`
	NumberOfPilots       int    `bson:"number_of_pilots" json:"numberOfPilots"`

	RepresentativeName    string `bson:"representative_name" json:"representativeName"`
	RepresentativeSurname string `bson:"representative_surname" json:"representativeSurname"`
	RepresentativeDNI     string `bson:"representative_dni" json:"representativeDni"`
	RepresentativePhone   string `bson:"representative_phone" json:"representativePhone"`
	RepresentativeEmail   string `bson:"representative_email" json:"representativeEmail"`

	Address      string `bson:"address" json:"address"`
	Municipality string `bson:"municipality" json:"municipality"`
	PostalCode   string `bson:"postal_code" json:"postalCode"`
	Province     string `bson:"province" json:"province"`

	MotorcycleBrand  string         `bson:"motorcycle_brand" json:"motorcycleBrand"`
	MotorcycleModel  string         `bson:"motorcycle_model" json:"motorcycleModel"`
	EngineCapacity   EngineCapacity `bson:"engine_capacity" json:"engineCapacity"`
	RegistrationDate string         `bson:"registration_date" json:"registrationDate"`
	Modifications    string         `bson:"modifications" json:"modifications"`

	Comments        string     `bson:"comments" json:"comments"`
	GDPRConsent     bool       `bson:"gdpr_consent" json:"gdprConsent"`
	GDPRConsentDate *time.Time `bson:"gdpr_consent_date,omitempty" json:"gdprConsentDate"`

	Status    RegistrationStatus `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// TeamWithRoster is a team with its pilots and staff loaded.
type TeamWithRoster struct {
	Team
	Pilots []Pilot       `json:"pilots"`
	Staff  []StaffMember `json:"staff"`
}
