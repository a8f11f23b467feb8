// registration/service/admin_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gripclub/registration-service/registration/store"
	"github.com/gripclub/registration-service/shared/apperrors"
	"github.com/gripclub/registration-service/shared/models"
)

// AdminTeam is a team with its roster loaded and the counts the admin
// list view renders.
type AdminTeam struct {
	models.TeamWithRoster
	PilotsCount int `json:"pilotsCount"`
	StaffCount  int `json:"staffCount"`
}

// AdminService encapsulates the aggregation and settings logic behind the
// admin endpoints. Mutating a single team goes through TeamService.
type AdminService struct {
	teams    store.TeamStore
	pilots   store.PilotStore
	staff    store.StaffStore
	settings store.SettingsStore
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(stores store.Stores) *AdminService {
	return &AdminService{
		teams:    stores.Teams,
		pilots:   stores.Pilots,
		staff:    stores.Staff,
		settings: stores.Settings,
	}
}

// ListTeams returns every team with its roster, newest first, together
// with the dashboard aggregates over the same snapshot.
func (as *AdminService) ListTeams(ctx context.Context) ([]AdminTeam, *RegistrationStats, error) {
	teams, err := as.loadTeams(ctx)
	if err != nil {
		return nil, nil, err
	}
	return teams, BuildStats(teams), nil
}

func (as *AdminService) loadTeams(ctx context.Context) ([]AdminTeam, error) {
	teams, err := as.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	result := make([]AdminTeam, 0, len(teams))
	for _, team := range teams {
		pilots, err := as.pilots.ListByTeam(ctx, team.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load pilots for team %s: %w", team.ID, err)
		}
		staff, err := as.staff.ListByTeam(ctx, team.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load staff for team %s: %w", team.ID, err)
		}
		result = append(result, AdminTeam{
			TeamWithRoster: models.TeamWithRoster{Team: team, Pilots: pilots, Staff: staff},
			PilotsCount:    len(pilots),
			StaffCount:     len(staff),
		})
	}
	return result, nil
}

// GetSettings returns the registration settings, falling back to the
// documented defaults when none were ever written.
func (as *AdminService) GetSettings(ctx context.Context) (*models.RegistrationSettings, error) {
	settings, err := as.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			defaults := models.DefaultSettings()
			return &defaults, nil
		}
		return nil, fmt.Errorf("failed to load registration settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings applies a partial update to the settings record, creating
// it on first write. An empty patch is rejected.
func (as *AdminService) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (*models.RegistrationSettings, error) {
	if patch.Empty() {
		return nil, apperrors.New(apperrors.CodeValidation, "No valid fields to update")
	}
	settings, err := as.settings.Upsert(ctx, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update registration settings: %w", err)
	}
	return settings, nil
}
