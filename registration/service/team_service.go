// registration/service/team_service.go
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

// TeamInput is the payload for creating a team registration.
type TeamInput struct {
	Name           string `json:"name"`
	NumberOfPilots int    `json:"numberOfPilots"`

	RepresentativeName    string `json:"representativeName"`
	RepresentativeSurname string `json:"representativeSurname"`
	RepresentativeDNI     string `json:"representativeDni"`
	RepresentativePhone   string `json:"representativePhone"`
	RepresentativeEmail   string `json:"representativeEmail"`

	Address      string `json:"address"`
	Municipality string `json:"municipality"`
	PostalCode   string `json:"postalCode"`
	Province     string `json:"province"`

	MotorcycleBrand  string                `json:"motorcycleBrand"`
	MotorcycleModel  string                `json:"motorcycleModel"`
	EngineCapacity   models.EngineCapacity `json:"engineCapacity"`
	RegistrationDate string                `json:"registrationDate"`
	Modifications    string                `json:"modifications"`

	Comments    string `json:"comments"`
	GDPRConsent bool   `json:"gdprConsent"`
}

// TeamService encapsulates the business logic for team registrations.
type TeamService struct {
	teams    store.TeamStore
	pilots   store.PilotStore
	staff    store.StaffStore
	settings store.SettingsStore
}

// NewTeamService creates a new TeamService instance.
func NewTeamService(stores store.Stores) *TeamService {
	return &TeamService{
		teams:    stores.Teams,
		pilots:   stores.Pilots,
		staff:    stores.Staff,
		settings: stores.Settings,
	}
}

// GetMyTeam returns the caller's team with its roster loaded, or nil when
// the caller has not registered a team yet. Having no team is not an error.
func (ts *TeamService) GetMyTeam(ctx context.Context, userID string) (*models.TeamWithRoster, error) {
	team, err := ts.teams.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load team for user %s: %w", userID, err)
	}

	pilots, err := ts.pilots.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pilots for team %s: %w", team.ID, err)
	}
	staff, err := ts.staff.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff for team %s: %w", team.ID, err)
	}

	return &models.TeamWithRoster{Team: *team, Pilots: pilots, Staff: staff}, nil
}

// Create registers a new team for the caller, subject to the registration
// window, the global team cap and the one-team-per-user rule.
func (ts *TeamService) Create(ctx context.Context, userID string, input TeamInput) (*models.Team, error) {
	_, err := ts.teams.GetByOwner(ctx, userID)
	if err == nil {
		return nil, apperrors.New(apperrors.CodeConflict, "You already have a registered team")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing team for user %s: %w", userID, err)
	}

	settings, err := ts.currentSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.RegistrationOpen {
		return nil, apperrors.New(apperrors.CodeCapacity, "Registrations are closed")
	}
	if settings.RegistrationDeadline != nil && settings.RegistrationDeadline.Before(time.Now()) {
		return nil, apperrors.New(apperrors.CodeCapacity, "Registration deadline has passed")
	}
	if settings.MaxTeams > 0 {
		count, err := ts.teams.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count teams: %w", err)
		}
		if count >= int64(settings.MaxTeams) {
			return nil, apperrors.New(apperrors.CodeCapacity, "Maximum number of teams reached")
		}
	}

	if input.Name == "" || input.NumberOfPilots == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "Team name and number of pilots are required")
	}
	if input.NumberOfPilots < 4 || input.NumberOfPilots > 8 {
		return nil, apperrors.New(apperrors.CodeValidation, "Number of pilots must be between 4 and 8")
	}
	engineCapacity := input.EngineCapacity
	if engineCapacity == "" {
		engineCapacity = models.Engine125cc4T
	}
	if !models.ValidEngineCapacity(engineCapacity) {
		return nil, apperrors.New(apperrors.CodeValidation, "Invalid engine capacity")
	}

	now := time.Now().UTC()
	team := &models.Team{
		ID:                    uuid.NewString(),
		RepresentativeUserID:  userID,
		Name:                  input.Name,
		NumberOfPilots:        input.NumberOfPilots,
		RepresentativeName:    input.RepresentativeName,
		RepresentativeSurname: input.RepresentativeSurname,
		RepresentativeDNI:     input.RepresentativeDNI,
		RepresentativePhone:   input.RepresentativePhone,
		RepresentativeEmail:   input.RepresentativeEmail,
		Address:               input.Address,
		Municipality:          input.Municipality,
		PostalCode:            input.PostalCode,
		Province:              input.Province,
		MotorcycleBrand:       input.MotorcycleBrand,
		MotorcycleModel:       input.MotorcycleModel,
		EngineCapacity:        engineCapacity,
		RegistrationDate:      input.RegistrationDate,
		Modifications:         input.Modifications,
		Comments:              input.Comments,
		GDPRConsent:           input.GDPRConsent,
		Status:                models.StatusDraft,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if input.GDPRConsent {
		team.GDPRConsentDate = &now
	}

	if err := ts.teams.Create(ctx, team); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.New(apperrors.CodeConflict, "You already have a registered team")
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

// Update applies a partial update to the caller's own team. The patch type
// cannot carry owner, status, identifier or creation-timestamp changes, so
// those are stripped structurally.
func (ts *TeamService) Update(ctx context.Context, userID string, patch models.TeamPatch) (*models.Team, error) {
	team, err := ts.teams.GetByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Team not found")
		}
		return nil, fmt.Errorf("failed to load team for user %s: %w", userID, err)
	}

	if patch.NumberOfPilots != nil && (*patch.NumberOfPilots < 4 || *patch.NumberOfPilots > 8) {
		return nil, apperrors.New(apperrors.CodeValidation, "Number of pilots must be between 4 and 8")
	}
	if patch.EngineCapacity != nil && !models.ValidEngineCapacity(*patch.EngineCapacity) {
		return nil, apperrors.New(apperrors.CodeValidation, "Invalid engine capacity")
	}

	updated, err := ts.teams.Update(ctx, team.ID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Team not found")
		}
		return nil, fmt.Errorf("failed to update team %s: %w", team.ID, err)
	}
	return updated, nil
}

// UpdateStatus sets a team's lifecycle status. Admin only; the four enum
// values are the only accepted statuses.
func (ts *TeamService) UpdateStatus(ctx context.Context, teamID string, status models.RegistrationStatus) (*models.Team, error) {
	if !models.ValidStatus(status) {
		return nil, apperrors.New(apperrors.CodeValidation, "No valid fields to update")
	}
	team, err := ts.teams.UpdateStatus(ctx, teamID, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Team not found")
		}
		return nil, fmt.Errorf("failed to update status for team %s: %w", teamID, err)
	}
	return team, nil
}

// Delete removes a team and cascades over its roster. Admin only. The
// children go first so a failed stage aborts the cascade, and the error
// names the stage that failed.
func (ts *TeamService) Delete(ctx context.Context, teamID string) error {
	if _, err := ts.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "Team not found")
		}
		return fmt.Errorf("failed to load team %s: %w", teamID, err)
	}

	if err := ts.pilots.DeleteByTeam(ctx, teamID); err != nil {
		return apperrors.Wrap(apperrors.CodeBackend, "Failed to delete team pilots", err)
	}
	if err := ts.staff.DeleteByTeam(ctx, teamID); err != nil {
		return apperrors.Wrap(apperrors.CodeBackend, "Failed to delete team staff", err)
	}
	if err := ts.teams.Delete(ctx, teamID); err != nil {
		return apperrors.Wrap(apperrors.CodeBackend, "Failed to delete team", err)
	}
	return nil
}

// currentSettings returns the stored registration settings, falling back
// to the documented defaults when none were ever written.
func (ts *TeamService) currentSettings(ctx context.Context) (*models.RegistrationSettings, error) {
	settings, err := ts.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			defaults := models.DefaultSettings()
			return &defaults, nil
		}
		return nil, fmt.Errorf("failed to load registration settings: %w", err)
	}
	return settings, nil
}
