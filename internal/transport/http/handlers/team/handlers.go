package teamhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/audit"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/team"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/api"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/middleware"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service *team.Service
	Audit   *audit.Service
}

func NewHandler(service *team.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/teams", func(r chi.Router) {
		r.Get("/", h.handleListTeams)
		r.Post("/", h.handleCreateTeam)
		r.Get("/{teamID}", h.handleGetTeam)
		r.Put("/{teamID}", h.handleUpdateTeam)
		r.Delete("/{teamID}", h.handleDeleteTeam)
	})
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.handleListUsers)
		r.Post("/", h.handleCreateUser)
		r.Get("/{userID}", h.handleGetUser)
		r.Put("/{userID}", h.handleUpdateUser)
		r.Delete("/{userID}", h.handleDeleteUser)
		r.Put("/{userID}/teams", h.handleSetUserTeams)
		r.Get("/{userID}/permissions", h.handleUserPermissions)
	})
}

type teamRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) handleListTeams(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	teams, err := h.Service.ListTeams(r.Context(), user.TenantID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "team_list_failed", "failed to list teams", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, teams, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload teamRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("name", payload.Name, "name is required")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Service.CreateTeam(r.Context(), user.TenantID, payload.Name, payload.Description, payload.Permissions)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "team_create_failed", "failed to create team", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, user.TenantID, user.UserID, audit.ActionTeamCreated, audit.EntityTeam, created.ID, nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	t, err := h.Service.GetTeam(r.Context(), user.TenantID, chi.URLParam(r, "teamID"))
	if err != nil {
		h.failLookup(w, r, err, "team_get_failed", "failed to load team")
		return
	}
	api.Success(w, t, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload teamRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	updated, err := h.Service.UpdateTeam(r.Context(), user.TenantID, chi.URLParam(r, "teamID"), payload.Name, payload.Description, payload.Permissions)
	if err != nil {
		h.failLookup(w, r, err, "team_update_failed", "failed to update team")
		return
	}
	h.record(r, user.TenantID, user.UserID, audit.ActionTeamUpdated, audit.EntityTeam, updated.ID, nil, updated)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	teamID := chi.URLParam(r, "teamID")

	if err := h.Service.DeleteTeam(r.Context(), user.TenantID, teamID); err != nil {
		h.failLookup(w, r, err, "team_delete_failed", "failed to delete team")
		return
	}
	h.record(r, user.TenantID, user.UserID, audit.ActionTeamDeleted, audit.EntityTeam, teamID, nil, nil)
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

type userRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	Teams      []string `json:"teams"`
	Status     string   `json:"status"`
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	users, total, err := h.Service.ListUsers(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_list_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload userRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("name", payload.Name, "name is required")
	validator.Required("email", payload.Email, "email is required")
	if email := strings.TrimSpace(payload.Email); email != "" && !strings.Contains(email, "@") {
		validator.Add("email", "must be a valid email address")
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	created, err := h.Service.CreateUser(r.Context(), user.TenantID, payload.Name, payload.Email, payload.Department, payload.Teams)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to create user", middleware.GetRequestID(r.Context()))
		return
	}
	h.record(r, user.TenantID, user.UserID, audit.ActionUserCreated, audit.EntityUser, created.ID, nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	u, err := h.Service.GetUser(r.Context(), user.TenantID, chi.URLParam(r, "userID"))
	if err != nil {
		h.failLookup(w, r, err, "user_get_failed", "failed to load user")
		return
	}
	api.Success(w, u, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload userRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Enum("status", payload.Status, []string{team.UserStatusActive, team.UserStatusDisabled}, "status must be active or disabled")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	existing, err := h.Service.GetUser(r.Context(), user.TenantID, chi.URLParam(r, "userID"))
	if err != nil {
		h.failLookup(w, r, err, "user_update_failed", "failed to update user")
		return
	}
	if payload.Name != "" {
		existing.Name = strings.TrimSpace(payload.Name)
	}
	if payload.Email != "" {
		existing.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	}
	existing.Department = strings.TrimSpace(payload.Department)
	if payload.Status != "" {
		existing.Status = strings.ToLower(strings.TrimSpace(payload.Status))
	}
	if payload.Teams != nil {
		existing.TeamIDs = payload.Teams
	}

	if err := h.Service.UpdateUser(r.Context(), existing); err != nil {
		h.failLookup(w, r, err, "user_update_failed", "failed to update user")
		return
	}
	h.record(r, user.TenantID, user.UserID, audit.ActionUserUpdated, audit.EntityUser, existing.ID, nil, existing)
	api.Success(w, existing, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	userID := chi.URLParam(r, "userID")

	if userID == user.UserID {
		api.Fail(w, http.StatusConflict, "self_delete", "you cannot delete your own account", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.DeleteUser(r.Context(), user.TenantID, userID); err != nil {
		h.failLookup(w, r, err, "user_delete_failed", "failed to delete user")
		return
	}
	h.record(r, user.TenantID, user.UserID, audit.ActionUserDeleted, audit.EntityUser, userID, nil, nil)
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

type userTeamsRequest struct {
	Teams []string `json:"teams"`
}

func (h *Handler) handleSetUserTeams(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload userTeamsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.Service.SetUserTeams(r.Context(), user.TenantID, userID, payload.Teams); err != nil {
		h.failLookup(w, r, err, "user_teams_failed", "failed to update team assignments")
		return
	}
	h.record(r, user.TenantID, user.UserID, audit.ActionUserUpdated, audit.EntityUser, userID, nil, payload.Teams)
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUserPermissions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	effective, err := h.Service.Effective(r.Context(), user.TenantID, chi.URLParam(r, "userID"))
	if err != nil {
		h.failLookup(w, r, err, "permissions_failed", "failed to compute permissions")
		return
	}
	api.Success(w, effective, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failLookup(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	if errors.Is(err, team.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "resource not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusInternalServerError, code, message, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, tenantID, actorID, action, entityType, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), tenantID, actorID, action, entityType, entityID,
		middleware.GetRequestID(r.Context()), r.RemoteAddr, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
