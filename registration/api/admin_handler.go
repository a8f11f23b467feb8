// registration/api/admin_handler.go
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/gripclub/registration-service/registration/service"
	"github.com/gripclub/registration-service/shared/api"
	"github.com/gripclub/registration-service/shared/apperrors"
	"github.com/gripclub/registration-service/shared/auth"
	"github.com/gripclub/registration-service/shared/models"
)

// AdminAPIHandlers holds references to the services behind the admin endpoints.
type AdminAPIHandlers struct {
	Verifier     *auth.Verifier
	TeamService  *service.TeamService
	AdminService *service.AdminService
}

// NewAdminAPIHandlers is the constructor for the admin API handlers.
func NewAdminAPIHandlers(v *auth.Verifier, ts *service.TeamService, as *service.AdminService) *AdminAPIHandlers {
	return &AdminAPIHandlers{
		Verifier:     v,
		TeamService:  ts,
		AdminService: as,
	}
}

// requireAdmin verifies the bearer token and the admin allow-list, writing
// the error response itself when either check fails.
func (aah *AdminAPIHandlers) requireAdmin(w http.ResponseWriter, r *http.Request) *auth.Identity {
	id, err := aah.Verifier.Authenticate(r)
	if err != nil {
		api.WriteDomainError(w, err)
		return nil
	}
	if !aah.Verifier.IsAdmin(id) {
		api.WriteDomainError(w, apperrors.New(apperrors.CodeAdminRequired, "Admin access required"))
		return nil
	}
	return id
}

// --- Handler Methods ---

// ListTeamsHandler returns every team with its roster plus the dashboard stats.
// GET /admin/teams
func (aah *AdminAPIHandlers) ListTeamsHandler(w http.ResponseWriter, r *http.Request) {
	if aah.requireAdmin(w, r) == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	teams, stats, err := aah.AdminService.ListTeams(ctx)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"stats": stats,
	})
}

// UpdateTeamStatusHandler sets a team's lifecycle status.
// PUT /admin/teams?id={teamId}
func (aah *AdminAPIHandlers) UpdateTeamStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := aah.requireAdmin(w, r)
	if id == nil {
		return
	}

	teamID := r.URL.Query().Get("id")
	if teamID == "" {
		api.WriteError(w, http.StatusBadRequest, "Team ID required")
		return
	}

	var req struct {
		Status models.RegistrationStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	team, err := aah.TeamService.UpdateStatus(ctx, teamID, req.Status)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"team": team})
	log.Printf("INFO: Team %s status set to %s by admin %s", teamID, req.Status, id.Email)
}

// DeleteTeamHandler removes a team and its whole roster.
// DELETE /admin/teams?id={teamId}
func (aah *AdminAPIHandlers) DeleteTeamHandler(w http.ResponseWriter, r *http.Request) {
	id := aah.requireAdmin(w, r)
	if id == nil {
		return
	}

	teamID := r.URL.Query().Get("id")
	if teamID == "" {
		api.WriteError(w, http.StatusBadRequest, "Team ID required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := aah.TeamService.Delete(ctx, teamID); err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Team deleted successfully"})
	log.Printf("INFO: Team %s deleted by admin %s", teamID, id.Email)
}

// GetSettingsHandler returns the registration settings.
// GET /admin/settings
func (aah *AdminAPIHandlers) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if aah.requireAdmin(w, r) == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	settings, err := aah.AdminService.GetSettings(ctx)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"settings": settings})
}

// UpdateSettingsHandler applies a partial update to the registration settings.
// PUT /admin/settings
func (aah *AdminAPIHandlers) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	id := aah.requireAdmin(w, r)
	if id == nil {
		return
	}

	var patch models.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	settings, err := aah.AdminService.UpdateSettings(ctx, patch)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"settings": settings})
	log.Printf("INFO: Registration settings updated by admin %s", id.Email)
}

// ExportHandler streams a CSV or JSON download of the registration data.
// GET /admin/export?type={teams|pilots|staff|all}&format=csv
func (aah *AdminAPIHandlers) ExportHandler(w http.ResponseWriter, r *http.Request) {
	id := aah.requireAdmin(w, r)
	if id == nil {
		return
	}

	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = "teams"
	}
	// The format parameter is accepted for compatibility; the dataset
	// determines the format.
	_ = r.URL.Query().Get("format")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	file, err := aah.AdminService.Export(ctx, kind)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(file.Body)
	log.Printf("INFO: Export %s downloaded by admin %s", file.Filename, id.Email)
}

// RegisterRoutes registers the admin API endpoints.
func (aah *AdminAPIHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/admin/teams", aah.ListTeamsHandler).Methods("GET")
	router.HandleFunc("/admin/teams", aah.UpdateTeamStatusHandler).Methods("PUT")
	router.HandleFunc("/admin/teams", aah.DeleteTeamHandler).Methods("DELETE")

	router.HandleFunc("/admin/settings", aah.GetSettingsHandler).Methods("GET")
	router.HandleFunc("/admin/settings", aah.UpdateSettingsHandler).Methods("PUT")

	router.HandleFunc("/admin/export", aah.ExportHandler).Methods("GET")
}
