package api

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gripclub/registration-service/registration/service"
	"github.com/gripclub/registration-service/registration/store"
	"github.com/gripclub/registration-service/registration/store/sqlstore"
	sharedapi "github.com/gripclub/registration-service/shared/api"
	"github.com/gripclub/registration-service/shared/auth"
	"github.com/gripclub/registration-service/shared/sqlitedb"
)

// testServer wires the full stack against a throwaway SQLite database:
// router, middleware, handlers, services and stores.
type testServer struct {
	*httptest.Server
	priv ed25519.PrivateKey
}

func newTestServer(t *testing.T, adminEmails []string) *testServer {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	verifier := auth.NewVerifier(pub, adminEmails)

	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlstore.Init(context.Background(), db))

	stores := store.Stores{
		Teams:    sqlstore.NewTeamStore(db),
		Pilots:   sqlstore.NewPilotStore(db),
		Staff:    sqlstore.NewStaffStore(db),
		Settings: sqlstore.NewSettingsStore(db),
	}
	teamService := service.NewTeamService(stores)
	rosterService := service.NewRosterService(stores)
	adminService := service.NewAdminService(stores)

	base := sharedapi.NewBaseServer(":0", nil)
	NewRegistrationAPIHandlers(verifier, teamService, rosterService).RegisterRoutes(base.Router)
	NewAdminAPIHandlers(verifier, teamService, adminService).RegisterRoutes(base.Router)

	server := httptest.NewServer(base.Server.Handler)
	t.Cleanup(server.Close)
	return &testServer{Server: server, priv: priv}
}

func (s *testServer) token(t *testing.T, userID, email string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(s.priv)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var payload map[string]json.RawMessage
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		_ = json.NewDecoder(resp.Body).Decode(&payload)
	}
	return resp, payload
}

func teamBody() map[string]any {
	return map[string]any{
		"name":                "Grip Monkeys",
		"numberOfPilots":      4,
		"representativeName":  "Marta",
		"representativeEmail": "marta@example.com",
		"gdprConsent":         true,
	}
}

func pilotBody(dni string) map[string]any {
	return map[string]any{
		"name":                  "Luis",
		"surname":               "Navarro",
		"dni":                   dni,
		"email":                 "luis@example.com",
		"phone":                 "600333444",
		"emergencyContactName":  "Ana",
		"emergencyContactPhone": "600555666",
	}
}

func TestTeamsEndpointRequiresAuth(t *testing.T) {
	s := newTestServer(t, nil)

	resp, payload := s.do(t, http.MethodGet, "/api/teams", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `"Not authenticated"`, string(payload["error"]))
}

func TestTeamLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, "user-1", "marta@example.com")

	// No team yet: 200 with a null team.
	resp, payload := s.do(t, http.MethodGet, "/api/teams", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "null", string(payload["team"]))

	resp, payload = s.do(t, http.MethodPost, "/api/teams", token, teamBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(payload["team"], &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "draft", created.Status)

	// Duplicate registration is a conflict.
	resp, payload = s.do(t, http.MethodPost, "/api/teams", token, teamBody())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `"You already have a registered team"`, string(payload["error"]))

	resp, payload = s.do(t, http.MethodPut, "/api/teams", token, map[string]any{"name": "Renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(payload["team"], &updated))
	assert.Equal(t, "Renamed", updated.Name)
}

func TestPilotEndpointsOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, "user-1", "marta@example.com")

	resp, _ := s.do(t, http.MethodPost, "/api/teams", token, teamBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, payload := s.do(t, http.MethodPost, "/api/pilots", token, pilotBody("11111111A"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var pilot struct {
		ID           string `json:"id"`
		DrivingLevel string `json:"drivingLevel"`
	}
	require.NoError(t, json.Unmarshal(payload["pilot"], &pilot))
	assert.Equal(t, "amateur", pilot.DrivingLevel)

	resp, payload = s.do(t, http.MethodGet, "/api/pilots", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pilots []json.RawMessage
	require.NoError(t, json.Unmarshal(payload["pilots"], &pilots))
	assert.Len(t, pilots, 1)

	// Missing id query parameter.
	resp, payload = s.do(t, http.MethodDelete, "/api/pilots", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `"Pilot ID required"`, string(payload["error"]))

	resp, payload = s.do(t, http.MethodDelete, "/api/pilots?id="+pilot.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", string(payload["success"]))
}

func TestStaffEndpointsOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, "user-1", "marta@example.com")

	resp, _ := s.do(t, http.MethodPost, "/api/teams", token, teamBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, payload := s.do(t, http.MethodPost, "/api/staff", token, map[string]any{
		"name": "Paco",
		"role": "mechanic",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var member struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(payload["staff"], &member))

	resp, payload = s.do(t, http.MethodPut, "/api/staff?id="+member.ID, token, map[string]any{"role": "support"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var changed struct {
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(payload["staff"], &changed))
	assert.Equal(t, "support", changed.Role)
}

func TestAdminEndpointsRequireAllowList(t *testing.T) {
	s := newTestServer(t, []string{"admin@example.com"})
	userToken := s.token(t, "user-1", "user@example.com")
	adminToken := s.token(t, "admin-1", "admin@example.com")

	resp, payload := s.do(t, http.MethodGet, "/admin/teams", userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.JSONEq(t, `"Admin access required"`, string(payload["error"]))

	resp, payload = s.do(t, http.MethodGet, "/admin/teams", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, payload, "teams")
	assert.Contains(t, payload, "stats")
}

func TestAdminTeamManagementOverHTTP(t *testing.T) {
	s := newTestServer(t, []string{"admin@example.com"})
	userToken := s.token(t, "user-1", "user@example.com")
	adminToken := s.token(t, "admin-1", "admin@example.com")

	resp, payload := s.do(t, http.MethodPost, "/api/teams", userToken, teamBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var team struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(payload["team"], &team))

	resp, payload = s.do(t, http.MethodPut, "/admin/teams?id="+team.ID, adminToken, map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var confirmed struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(payload["team"], &confirmed))
	assert.Equal(t, "confirmed", confirmed.Status)

	resp, payload = s.do(t, http.MethodDelete, "/admin/teams?id="+team.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"Team deleted successfully"`, string(payload["message"]))

	resp, payload = s.do(t, http.MethodDelete, "/admin/teams?id="+team.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `"Team not found"`, string(payload["error"]))
}

func TestAdminSettingsOverHTTP(t *testing.T) {
	s := newTestServer(t, []string{"admin@example.com"})
	adminToken := s.token(t, "admin-1", "admin@example.com")

	resp, payload := s.do(t, http.MethodGet, "/admin/settings", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var settings struct {
		RegistrationOpen bool `json:"registrationOpen"`
		MaxTeams         int  `json:"maxTeams"`
	}
	require.NoError(t, json.Unmarshal(payload["settings"], &settings))
	assert.True(t, settings.RegistrationOpen)
	assert.Equal(t, 35, settings.MaxTeams)

	resp, payload = s.do(t, http.MethodPut, "/admin/settings", adminToken, map[string]any{"maxTeams": 20})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(payload["settings"], &settings))
	assert.Equal(t, 20, settings.MaxTeams)

	resp, payload = s.do(t, http.MethodPut, "/admin/settings", adminToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `"No valid fields to update"`, string(payload["error"]))
}

func TestAdminExportOverHTTP(t *testing.T) {
	s := newTestServer(t, []string{"admin@example.com"})
	adminToken := s.token(t, "admin-1", "admin@example.com")

	req, err := http.NewRequest(http.MethodGet, s.URL+"/admin/export?type=teams", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "equipos-")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "\uFEFF"))

	resp2, payload := s.do(t, http.MethodGet, "/admin/export?type=bogus", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
	assert.JSONEq(t, `"Invalid export type. Use: teams, pilots, staff, or all"`, string(payload["error"]))
}

func TestUnknownRouteAndMethod(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.token(t, "user-1", "marta@example.com")

	resp, payload := s.do(t, http.MethodGet, "/api/unknown", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `"Not found"`, string(payload["error"]))

	resp, payload = s.do(t, http.MethodPatch, "/api/teams", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.JSONEq(t, `"Method not allowed"`, string(payload["error"]))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, s.URL+"/api/teams", nil)
	require.NoError(t, err)
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", resp.Header.Get("Access-Control-Allow-Headers"))
}
