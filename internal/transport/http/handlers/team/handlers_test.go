package teamhandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/auth"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/team"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/middleware"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	handler := NewHandler(team.NewService(team.NewInMemoryStore()))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithUser(req.Context(), auth.UserContext{
				UserID:   "admin-1",
				TenantID: "tenant-1",
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	handler.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func createTeam(t *testing.T, router http.Handler, name string, permissions []string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/teams", map[string]any{
		"name":        name,
		"permissions": permissions,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData(t, rec)["id"].(string)
}

func createUser(t *testing.T, router http.Handler, name, email string, teams []string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/users", map[string]any{
		"name":  name,
		"email": email,
		"teams": teams,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData(t, rec)["id"].(string)
}

func TestTeamCRUD(t *testing.T) {
	router := newTestRouter(t)

	id := createTeam(t, router, "Privacy Officers", []string{"ropa.view", "ropa.edit"})

	rec := doJSON(t, router, http.MethodGet, "/teams/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Privacy Officers", decodeData(t, rec)["name"])

	rec = doJSON(t, router, http.MethodPut, "/teams/"+id, map[string]any{
		"name":        "Privacy Office",
		"permissions": []string{"ropa.view"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData(t, rec)
	assert.Equal(t, "Privacy Office", updated["name"])
	assert.Len(t, updated["permissions"], 1)

	rec = doJSON(t, router, http.MethodDelete, "/teams/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/teams/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTeamRequiresName(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/teams", map[string]any{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUserValidatesEmail(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/users", map[string]any{
		"name":  "Alice",
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEffectivePermissionsAcrossTeams(t *testing.T) {
	router := newTestRouter(t)

	privacy := createTeam(t, router, "Privacy", []string{"ropa.view", "ropa.edit"})
	auditors := createTeam(t, router, "Auditors", []string{"audit.read", "ropa.view"})
	userID := createUser(t, router, "Alice", "alice@example.com", []string{privacy, auditors})

	rec := doJSON(t, router, http.MethodGet, "/users/"+userID+"/permissions", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	effective := decodeData(t, rec)

	ropa, ok := effective["ropa"].([]any)
	require.True(t, ok, "expected ropa group: %v", effective)
	assert.ElementsMatch(t, []any{"ropa.view", "ropa.edit"}, ropa)
	auditGroup, ok := effective["audit"].([]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"audit.read"}, auditGroup)
}

func TestSetUserTeamsReplacesAssignments(t *testing.T) {
	router := newTestRouter(t)

	privacy := createTeam(t, router, "Privacy", []string{"ropa.view"})
	auditors := createTeam(t, router, "Auditors", []string{"audit.read"})
	userID := createUser(t, router, "Bob", "bob@example.com", []string{privacy})

	rec := doJSON(t, router, http.MethodPut, "/users/"+userID+"/teams", map[string]any{
		"teams": []string{auditors},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/users/"+userID+"/permissions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	effective := decodeData(t, rec)
	assert.NotContains(t, effective, "ropa")
	assert.Contains(t, effective, "audit")
}

func TestSelfDeleteRejected(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodDelete, "/users/admin-1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateUserStatus(t *testing.T) {
	router := newTestRouter(t)
	userID := createUser(t, router, "Carol", "carol@example.com", nil)

	rec := doJSON(t, router, http.MethodPut, "/users/"+userID, map[string]any{"status": "disabled"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, team.UserStatusDisabled, decodeData(t, rec)["status"])

	rec = doJSON(t, router, http.MethodPut, "/users/"+userID, map[string]any{"status": "frozen"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
