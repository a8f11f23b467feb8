// Package store defines the repository interfaces the business logic runs
// against. Two adapters implement them: mongostore (document backend) and
// sqlstore (relational backend). All naming and storage differences live
// inside the adapters; the canonical model is shared/models.
package store

import (
	"context"
	"errors"

	"github.com/gripclub/registration-service/shared/models"
)

// Sentinel errors every adapter normalizes its backend errors to.
var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness rule.
	ErrDuplicate = errors.New("record already exists")
)

// TeamStore persists teams. One team per owning user.
type TeamStore interface {
	// Create inserts a new team. ErrDuplicate if the owner already has one.
	Create(ctx context.Context, team *models.Team) error
	// GetByID returns the team with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Team, error)
	// GetByOwner returns the team owned by userID, or ErrNotFound.
	GetByOwner(ctx context.Context, userID string) (*models.Team, error)
	// List returns every team, newest registration first.
	List(ctx context.Context) ([]models.Team, error)
	// Count returns the total number of registered teams.
	Count(ctx context.Context) (int64, error)
	// Update applies the patch to the team and returns the updated record.
	Update(ctx context.Context, id string, patch models.TeamPatch) (*models.Team, error)
	// UpdateStatus sets the team's status unconditionally (admin path).
	UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) (*models.Team, error)
	// TransitionStatus sets the status only if the team currently has the
	// `from` status. It is a single conditional write; a non-matching
	// precondition is not an error.
	TransitionStatus(ctx context.Context, id string, from, to models.RegistrationStatus) error
	// Delete removes the team record only (roster cascades are the
	// caller's responsibility so stage failures can be reported).
	Delete(ctx context.Context, id string) error
}

// PilotStore persists pilots scoped to their team.
type PilotStore interface {
	Create(ctx context.Context, pilot *models.Pilot) error
	// Get returns the pilot only when it belongs to teamID, else ErrNotFound.
	Get(ctx context.Context, teamID, id string) (*models.Pilot, error)
	// ListByTeam returns the team's pilots in creation order, ascending.
	ListByTeam(ctx context.Context, teamID string) ([]models.Pilot, error)
	CountByTeam(ctx context.Context, teamID string) (int64, error)
	// DNIExists reports whether another pilot on the team already carries
	// the national ID. excludeID skips one record (for self-updates).
	DNIExists(ctx context.Context, teamID, dni, excludeID string) (bool, error)
	Update(ctx context.Context, teamID, id string, patch models.PilotPatch) (*models.Pilot, error)
	Delete(ctx context.Context, teamID, id string) error
	// DeleteByTeam removes every pilot of the team (cascade step).
	DeleteByTeam(ctx context.Context, teamID string) error
}

// StaffStore persists staff members scoped to their team.
type StaffStore interface {
	Create(ctx context.Context, staff *models.StaffMember) error
	Get(ctx context.Context, teamID, id string) (*models.StaffMember, error)
	ListByTeam(ctx context.Context, teamID string) ([]models.StaffMember, error)
	CountByTeam(ctx context.Context, teamID string) (int64, error)
	DNIExists(ctx context.Context, teamID, dni, excludeID string) (bool, error)
	Update(ctx context.Context, teamID, id string, patch models.StaffPatch) (*models.StaffMember, error)
	Delete(ctx context.Context, teamID, id string) error
	DeleteByTeam(ctx context.Context, teamID string) error
}

// SettingsStore persists the singleton registration settings record.
type SettingsStore interface {
	// Get returns the stored settings, or ErrNotFound when none were
	// ever written.
	Get(ctx context.Context) (*models.RegistrationSettings, error)
	// Upsert applies the patch, creating the record with defaults merged
	// in on first write, and returns the stored result.
	Upsert(ctx context.Context, patch models.SettingsPatch) (*models.RegistrationSettings, error)
}

// Stores bundles the four repositories a backend adapter provides.
type Stores struct {
	Teams    TeamStore
	Pilots   PilotStore
	Staff    StaffStore
	Settings SettingsStore
}
