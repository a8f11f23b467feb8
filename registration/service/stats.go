// registration/service/stats.go
package service

import (
	"fmt"
	"math"

	"github.com/gripclub/registration-service/shared/models"
)

// RegistrationStats is the aggregate snapshot shown on the admin dashboard.
type RegistrationStats struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`

	TotalPilots int `json:"totalPilots"`
	TotalStaff  int `json:"totalStaff"`

	DrivingLevels       map[string]int `json:"drivingLevels"`
	EngineTypes         map[string]int `json:"engineTypes"`
	StaffRoles          map[string]int `json:"staffRoles"`
	RegistrationsByDate map[string]int `json:"registrationsByDate"`

	TeamsWithoutGDPR int `json:"teamsWithoutGdpr"`

	// ConversionRate is confirmed over total, as a rounded percentage.
	ConversionRate int `json:"conversionRate"`
	// AvgPilotsPerTeam is rendered with one decimal, "0" when empty.
	AvgPilotsPerTeam string `json:"avgPilotsPerTeam"`
}

// BuildStats computes the dashboard aggregates in a single pass over the
// teams and their rosters.
func BuildStats(teams []AdminTeam) *RegistrationStats {
	stats := &RegistrationStats{
		DrivingLevels: map[string]int{
			string(models.LevelAmateur):      0,
			string(models.LevelIntermediate): 0,
			string(models.LevelAdvanced):     0,
			string(models.LevelExpert):       0,
		},
		EngineTypes: map[string]int{
			string(models.Engine125cc4T): 0,
			string(models.Engine50cc2T):  0,
		},
		StaffRoles: map[string]int{
			string(models.RoleMechanic):    0,
			string(models.RoleCoordinator): 0,
			string(models.RoleSupport):     0,
		},
		RegistrationsByDate: map[string]int{},
		AvgPilotsPerTeam:    "0",
	}

	for _, team := range teams {
		stats.Total++
		switch team.Status {
		case models.StatusDraft:
			stats.Draft++
		case models.StatusPending:
			stats.Pending++
		case models.StatusConfirmed:
			stats.Confirmed++
		case models.StatusCancelled:
			stats.Cancelled++
		}

		stats.EngineTypes[string(team.EngineCapacity)]++
		stats.RegistrationsByDate[team.CreatedAt.UTC().Format("2006-01-02")]++
		if !team.GDPRConsent {
			stats.TeamsWithoutGDPR++
		}

		stats.TotalPilots += len(team.Pilots)
		for _, pilot := range team.Pilots {
			stats.DrivingLevels[string(pilot.DrivingLevel)]++
		}
		stats.TotalStaff += len(team.Staff)
		for _, member := range team.Staff {
			stats.StaffRoles[string(member.Role)]++
		}
	}

	if stats.Total > 0 {
		stats.ConversionRate = int(math.Round(float64(stats.Confirmed) / float64(stats.Total) * 100))
		stats.AvgPilotsPerTeam = fmt.Sprintf("%.1f", float64(stats.TotalPilots)/float64(stats.Total))
	}
	return stats
}
