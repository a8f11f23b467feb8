// registration/service/roster_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gripclub/registration-service/registration/store"
	"github.com/gripclub/registration-service/shared/apperrors"
	"github.com/gripclub/registration-service/shared/models"
)

// MaxStaff is the staff roster limit per team.
const MaxStaff = 4

// PilotInput is the payload for adding a pilot to the roster.
type PilotInput struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	DNI     string `json:"dni"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`

	EmergencyContactName  string `json:"emergencyContactName"`
	EmergencyContactPhone string `json:"emergencyContactPhone"`

	DrivingLevel     models.DrivingLevel `json:"drivingLevel"`
	TrackExperience  string              `json:"trackExperience"`
	IsRepresentative bool                `json:"isRepresentative"`
}

// StaffInput is the payload for adding a staff member to the roster.
type StaffInput struct {
	Name  string           `json:"name"`
	DNI   string           `json:"dni"`
	Phone string           `json:"phone"`
	Role  models.StaffRole `json:"role"`
}

// RosterService encapsulates the business logic for pilot and staff
// rosters. Every operation resolves the team through the caller's own
// identity, never through a client-supplied team id.
type RosterService struct {
	teams  store.TeamStore
	pilots store.PilotStore
	staff  store.StaffStore
}

// NewRosterService creates a new RosterService instance.
func NewRosterService(stores store.Stores) *RosterService {
	return &RosterService{
		teams:  stores.Teams,
		pilots: stores.Pilots,
		staff:  stores.Staff,
	}
}

// resolveTeam loads the caller's team. Roster operations require one.
func (rs *RosterService) resolveTeam(ctx context.Context, userID string) (*models.Team, error) {
	team, err := rs.teams.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeValidation, "You must create a team first")
		}
		return nil, fmt.Errorf("failed to load team for user %s: %w", userID, err)
	}
	return team, nil
}

// checkNoOtherRepresentative enforces the single-representative rule.
// excludeID is the pilot being updated, so re-confirming its own flag
// is not a conflict.
func (rs *RosterService) checkNoOtherRepresentative(ctx context.Context, teamID, excludeID string) error {
	pilots, err := rs.pilots.ListByTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to list pilots for team %s: %w", teamID, err)
	}
	for _, pilot := range pilots {
		if pilot.IsRepresentative && pilot.ID != excludeID {
			return apperrors.New(apperrors.CodeConflict, "The team already has a representative pilot")
		}
	}
	return nil
}

// ListPilots returns the caller's pilot roster in creation order.
func (rs *RosterService) ListPilots(ctx context.Context, userID string) ([]models.Pilot, error) {
	team, err := rs.resolveTeam(ctx, userID)
	if err != nil {
		return nil, err
	}
	pilots, err := rs.pilots.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pilots for team %s: %w", team.ID, err)
	}
	return pilots, nil
}

// AddPilot adds a pilot to the caller's roster and re-runs the automatic
// status rule.
func (rs *RosterService) AddPilot(ctx context.Context, userID string, input PilotInput) (*models.Pilot, error) {
	team, err := rs.resolveTeam(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := rs.pilots.CountByTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pilots for team %s: %w", team.ID, err)
	}
	if count >= int64(team.NumberOfPilots) {
		return nil, apperrors.New(apperrors.CodeCapacity,
			fmt.Sprintf("Team already has maximum pilots (%d)", team.NumberOfPilots))
	}

	required := []struct {
		value string
		name  string
	}{
		{input.Name, "name"},
		{input.Surname, "surname"},
		{input.DNI, "dni"},
		{input.Email, "email"},
		{input.Phone, "phone"},
		{input.EmergencyContactName, "emergencyContactName"},
		{input.EmergencyContactPhone, "emergencyContactPhone"},
	}
	for _, field := range required {
		if field.value == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "Required field: "+field.name)
		}
	}

	level := input.DrivingLevel
	if level == "" {
		level = models.LevelAmateur
	}
	if !models.ValidDrivingLevel(level) {
		return nil, apperrors.New(apperrors.CodeValidation, "Invalid driving level")
	}

	exists, err := rs.pilots.DNIExists(ctx, team.ID, input.DNI, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check pilot dni for team %s: %w", team.ID, err)
	}
	if exists {
		return nil, apperrors.New(apperrors.CodeConflict, "A pilot with that ID already exists in the team")
	}

	if input.IsRepresentative {
		if err := rs.checkNoOtherRepresentative(ctx, team.ID, ""); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	pilot := &models.Pilot{
		ID:                    uuid.NewString(),
		TeamID:                team.ID,
		Name:                  input.Name,
		Surname:               input.Surname,
		DNI:                   input.DNI,
		Email:                 input.Email,
		Phone:                 input.Phone,
		EmergencyContactName:  input.EmergencyContactName,
		EmergencyContactPhone: input.EmergencyContactPhone,
		DrivingLevel:          level,
		TrackExperience:       input.TrackExperience,
		IsRepresentative:      input.IsRepresentative,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := rs.pilots.Create(ctx, pilot); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.New(apperrors.CodeConflict, "A pilot with that ID already exists in the team")
		}
		return nil, fmt.Errorf("failed to create pilot: %w", err)
	}

	// The rule only ever flips draft->pending here; the conditional write
	// leaves confirmed/cancelled teams untouched.
	if NextStatus(models.StatusDraft, int(count)+1) == models.StatusPending {
		if err := rs.teams.TransitionStatus(ctx, team.ID, models.StatusDraft, models.StatusPending); err != nil {
			return nil, fmt.Errorf("failed to update status for team %s: %w", team.ID, err)
		}
	}
	return pilot, nil
}

// UpdatePilot applies a partial update to a pilot on the caller's roster.
func (rs *RosterService) UpdatePilot(ctx context.Context, userID, pilotID string, patch models.PilotPatch) (*models.Pilot, error) {
	team, err := rs.resolveTeam(ctx, userID)
	if err != nil {
		return nil, err
	}

	current, err := rs.pilots.Get(ctx, team.ID, pilotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Pilot not found")
		}
		return nil, fmt.Errorf("failed to load pilot %s: %w", pilotID, err)
	}

	if patch.DrivingLevel != nil && !models.ValidDrivingLevel(*patch.DrivingLevel) {
		return nil, apperrors.New(apperrors.CodeValidation, "Invalid driving level")
	}
	if patch.DNI != nil && *patch.DNI != current.DNI {
		exists, err := rs.pilots.DNIExists(ctx, team.ID, *patch.DNI, pilotID)
		if err != nil {
			return nil, fmt.Errorf("failed to check pilot dni for team %s: %w", team.ID, err)
		}
		if exists {
			return nil, apperrors.New(apperrors.CodeConflict, "A pilot with that ID already exists in the team")
		}
	}
	if patch.IsRepresentative != nil && *patch.IsRepresentative && !current.IsRepresentative {
		if err := rs.checkNoOtherRepresentative(ctx, team.ID, pilotID); err != nil {
			return nil, err
		}
	}

	updated, err := rs.pilots.Update(ctx, team.ID, pilotID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Pilot not found")
		}
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.New(apperrors.CodeConflict, "A pilot with that ID already exists in the team")
		}
		return nil, fmt.Errorf("failed to update pilot %s: %w", pilotID, err)
	}
	return updated, nil
}

// RemovePilot deletes a pilot from the caller's roster and re-runs the
// automatic status rule. The designated representative is protected.
func (rs *RosterService) RemovePilot(ctx context.Context, userID, pilotID string) error {
	team, err := rs.resolveTeam(ctx, userID)
	if err != nil {
		return err
	}

	pilot, err := rs.pilots.Get(ctx, team.ID, pilotID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "Pilot not found")
		}
		return fmt.Errorf("failed to load pilot %s: %w", pilotID, err)
	}
	if pilot.IsRepresentative {
		return apperrors.New(apperrors.CodeForbidden, "Cannot delete the team representative")
	}

	if err := rs.pilots.Delete(ctx, team.ID, pilotID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "Pilot not found")
		}
		return fmt.Errorf("failed to delete pilot %s: %w", pilotID, err)
	}

	count, err := rs.pilots.CountByTeam(ctx, team.ID)
	if err != nil {
		return fmt.Errorf("failed to count pilots for team %s: %w", team.ID, err)
	}
	if NextStatus(models.StatusPending, int(count)) == models.StatusDraft {
		if err := rs.teams.TransitionStatus(ctx, team.ID, models.StatusPending, models.StatusDraft); err != nil {
			return fmt.Errorf("failed to update status for team %s: %w", team.ID, err)
		}
	}
	return nil
}

// ListStaff returns the caller's staff roster in creation order.
func (rs *RosterService) ListStaff(ctx context.Context, userID string) ([]models.StaffMember, error) {
	team, err := rs.resolveTeam(ctx, userID)
	if err != nil {
		return nil, err
	}
	staff, err := rs.staff.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff for team %s: %w", team.ID, err)
	}
	return staff, nil
}

// AddStaff adds a staff member to the caller's roster, capped at MaxStaff.
func (rs *RosterService) AddStaff(ctx context.Context, userID string, input StaffInput) (*models.StaffMember, error) {
	team, err := rs.resolveTeam(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := rs.staff.CountByTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count staff for team %s: %w", team.ID, err)
	}
	if count >= MaxStaff {
		return nil, apperrors.New(apperrors.CodeCapacity,
			fmt.Sprintf("Team already has maximum staff (%d)", MaxStaff))
	}

	if input.Name == "" || input.Role == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "Name and role are required")
	}
	if !models.ValidStaffRole(input.Role) {
		return nil, apperrors.New(apperrors.CodeValidation, "Invalid role")
	}
	if input.DNI != "" {
		exists, err := rs.staff.DNIExists(ctx, team.ID, input.DNI, "")
		if err != nil {
			return nil, fmt.Errorf("failed to check staff dni for team %s: %w", team.ID, err)
		}
		if exists {
			return nil, apperrors.New(apperrors.CodeConflict, "A staff member with that ID already exists in the team")
		}
	}

	now := time.Now().UTC()
	staff := &models.StaffMember{
		ID:        uuid.NewString(),
		TeamID:    team.ID,
		Name:      input.Name,
		DNI:       input.DNI,
		Phone:     input.Phone,
		Role:      input.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := rs.staff.Create(ctx, staff); err != nil {
		return nil, fmt.Errorf("failed to create staff member: %w", err)
	}
	return staff, nil
}

// UpdateStaff applies a partial update to a staff member on the caller's roster.
func (rs *RosterService) UpdateStaff(ctx context.Context, userID, staffID string, patch models.StaffPatch) (*models.StaffMember, error) {
	team, err := rs.resolveTeam(ctx, userID)
	if err != nil {
		return nil, err
	}

	current, err := rs.staff.Get(ctx, team.ID, staffID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Staff member not found")
		}
		return nil, fmt.Errorf("failed to load staff member %s: %w", staffID, err)
	}

	if patch.Role != nil && !models.ValidStaffRole(*patch.Role) {
		return nil, apperrors.New(apperrors.CodeValidation, "Invalid role")
	}
	if patch.DNI != nil && *patch.DNI != "" && *patch.DNI != current.DNI {
		exists, err := rs.staff.DNIExists(ctx, team.ID, *patch.DNI, staffID)
		if err != nil {
			return nil, fmt.Errorf("failed to check staff dni for team %s: %w", team.ID, err)
		}
		if exists {
			return nil, apperrors.New(apperrors.CodeConflict, "A staff member with that ID already exists in the team")
		}
	}

	updated, err := rs.staff.Update(ctx, team.ID, staffID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Staff member not found")
		}
		return nil, fmt.Errorf("failed to update staff member %s: %w", staffID, err)
	}
	return updated, nil
}

// RemoveStaff deletes a staff member from the caller's roster.
func (rs *RosterService) RemoveStaff(ctx context.Context, userID, staffID string) error {
	team, err := rs.resolveTeam(ctx, userID)
	if err != nil {
		return err
	}
	if err := rs.staff.Delete(ctx, team.ID, staffID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "Staff member not found")
		}
		return fmt.Errorf("failed to delete staff member %s: %w", staffID, err)
	}
	return nil
}
