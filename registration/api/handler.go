// registration/api/handler.go
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
	"github.com/gripclub/registration-service/shared/auth"
	"github.com/gripclub/registration-service/shared/models"
)

// RegistrationAPIHandlers holds references to the services that handle
// the team-facing business logic.
type RegistrationAPIHandlers struct {
	Verifier      *auth.Verifier
	TeamService   *service.TeamService
	RosterService *service.RosterService
}

// NewRegistrationAPIHandlers is the constructor for the team-facing API handlers.
func NewRegistrationAPIHandlers(v *auth.Verifier, ts *service.TeamService, rs *service.RosterService) *RegistrationAPIHandlers {
	return &RegistrationAPIHandlers{
		Verifier:      v,
		TeamService:   ts,
		RosterService: rs,
	}
}

// authenticate verifies the bearer token, writing the error response itself
// when the caller is not authenticated.
func (rah *RegistrationAPIHandlers) authenticate(w http.ResponseWriter, r *http.Request) *auth.Identity {
	id, err := rah.Verifier.Authenticate(r)
	if err != nil {
		api.WriteDomainError(w, err)
		return nil
	}
	return id
}

// --- Handler Methods ---

// GetMyTeamHandler returns the caller's team with its roster, or a null
// team when none is registered yet.
// GET /api/teams
func (rah *RegistrationAPIHandlers) GetMyTeamHandler(w http.ResponseWriter, r *http.Request) {
	id := rah.authenticate(w, r)
	if id == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	team, err := rah.TeamService.GetMyTeam(ctx, id.UserID)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"team": team})
}

// CreateTeamHandler registers a new team owned by the caller.
// POST /api/teams
func (rah *RegistrationAPIHandlers) CreateTeamHandler(w http.ResponseWriter, r *http.Request) {
	id := rah.authenticate(w, r)
	if id == nil {
		return
	}

	var input service.TeamInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	team, err := rah.TeamService.Create(ctx, id.UserID, input)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]interface{}{"team": team})
	log.Printf("INFO: Team %s registered by user %s", team.ID, id.UserID)
}

// UpdateTeamHandler applies a partial update to the caller's team.
// PUT /api/teams
func (rah *RegistrationAPIHandlers) UpdateTeamHandler(w http.ResponseWriter, r *http.Request) {
	id := rah.authenticate(w, r)
	if id == nil {
		return
	}

	var patch models.TeamPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	team, err := rah.TeamService.Update(ctx, id.UserID, patch)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"team": team})
}

// ListPilotsHandler returns the caller's pilot roster.
// GET /api/pilots
func (rah *RegistrationAPIHandlers) ListPilotsHandler(w http.ResponseWriter, r *http.Request) {
	id := rah.authenticate(w, r)
	if id == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pilots, err := rah.RosterService.ListPilots(ctx, id.UserID)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	if pilots == nil {
		pilots = []models.Pilot{}
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"pilots": pilots})
}

// AddPilotHandler adds a pilot to the caller's roster.
// POST /api/pilots
func (rah *RegistrationAPIHandlers) AddPilotHandler(w http.ResponseWriter, r *http.Request) {
	id := rah.authenticate(w, r)
	if id == nil {
		return
	}

	var input service.PilotInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pilot, err := rah.RosterService.AddPilot(ctx, id.UserID, input)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]interface{}{"pilot": pilot})
	log.Printf("INFO: Pilot %s added to team %s", pilot.ID, pilot.TeamID)
}

// UpdatePilotHandler applies a partial update to a pilot on the caller's roster.
// PUT /api/pilots?id={pilotId}
func (rah *RegistrationAPIHandlers) UpdatePilotHandler(w http.ResponseWriter, r *http.Request) {
	id := rah.authenticate(w, r)
	if id == nil {
		return
	}

	pilotID := r.URL.Query().Get("id")
	if pilotID == "" {
		api.WriteError(w, http.StatusBadRequest, "Pilot ID required")
		return
	}

	var patch models.PilotPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pilot, err := rah.RosterService.UpdatePilot(ctx, id.UserID, pilotID, patch)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"pilot": pilot})
}

// RemovePilotHandler deletes a pilot from the caller's roster.
// DELETE /api/pilots?id={pilotId}
func (rah *RegistrationAPIHandlers) RemovePilotHandler(w http.ResponseWriter, r *http.Request) {
	id := rah.authenticate(w, r)
	if id == nil {
		return
	}

	pilotID := r.URL.Query().Get("id")
	if pilotID == "" {
		api.WriteError(w, http.StatusBadRequest, "Pilot ID required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := rah.RosterService.RemovePilot(ctx, id.UserID, pilotID); err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	log.Printf("INFO: Pilot %s removed by user %s", pilotID, id.UserID)
}

// ListStaffHandler returns the caller's staff roster.
// GET /api/staff
func (rah *RegistrationAPIHandlers) ListStaffHandler(w http.ResponseWriter, r *http.Request) {
	id := rah.authenticate(w, r)
	if id == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	staff, err := rah.RosterService.ListStaff(ctx, id.UserID)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}
	if staff == nil {
		staff = []models.StaffMember{}
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"staff": staff})
}

// AddStaffHandler adds a staff member to the caller's roster.
// POST /api/staff
func (rah *RegistrationAPIHandlers) AddStaffHandler(w http.ResponseWriter, r *http.Request) {
	id := rah.authenticate(w, r)
	if id == nil {
		return
	}

	var input service.StaffInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	staff, err := rah.RosterService.AddStaff(ctx, id.UserID, input)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]interface{}{"staff": staff})
	log.Printf("INFO: Staff member %s added to team %s", staff.ID, staff.TeamID)
}

// UpdateStaffHandler applies a partial update to a staff member on the caller's roster.
// PUT /api/staff?id={staffId}
func (rah *RegistrationAPIHandlers) UpdateStaffHandler(w http.ResponseWriter, r *http.Request) {
	id := rah.authenticate(w, r)
	if id == nil {
		return
	}

	staffID := r.URL.Query().Get("id")
	if staffID == "" {
		api.WriteError(w, http.StatusBadRequest, "Staff ID required")
		return
	}

	var patch models.StaffPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	staff, err := rah.RosterService.UpdateStaff(ctx, id.UserID, staffID, patch)
	if err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"staff": staff})
}

// RemoveStaffHandler deletes a staff member from the caller's roster.
// DELETE /api/staff?id={staffId}
func (rah *RegistrationAPIHandlers) RemoveStaffHandler(w http.ResponseWriter, r *http.Request) {
	id := rah.authenticate(w, r)
	if id == nil {
		return
	}

	staffID := r.URL.Query().Get("id")
	if staffID == "" {
		api.WriteError(w, http.StatusBadRequest, "Staff ID required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := rah.RosterService.RemoveStaff(ctx, id.UserID, staffID); err != nil {
		api.WriteDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	log.Printf("INFO: Staff member %s removed by user %s", staffID, id.UserID)
}

// RegisterRoutes registers the team-facing API endpoints.
// This method is called from main.go to set up the HTTP routes.
func (rah *RegistrationAPIHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/teams", rah.GetMyTeamHandler).Methods("GET")
	router.HandleFunc("/api/teams", rah.CreateTeamHandler).Methods("POST")
	router.HandleFunc("/api/teams", rah.UpdateTeamHandler).Methods("PUT")

	router.HandleFunc("/api/pilots", rah.ListPilotsHandler).Methods("GET")
	router.HandleFunc("/api/pilots", rah.AddPilotHandler).Methods("POST")
	router.HandleFunc("/api/pilots", rah.UpdatePilotHandler).Methods("PUT")
	router.HandleFunc("/api/pilots", rah.RemovePilotHandler).Methods("DELETE")

	router.HandleFunc("/api/staff", rah.ListStaffHandler).Methods("GET")
	router.HandleFunc("/api/staff", rah.AddStaffHandler).Methods("POST")
	router.HandleFunc("/api/staff", rah.UpdateStaffHandler).Methods("PUT")
	router.HandleFunc("/api/staff", rah.RemoveStaffHandler).Methods("DELETE")
}
