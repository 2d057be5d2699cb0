package articleshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/articles"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/api"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/middleware"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service *articles.Service
}

func NewHandler(service *articles.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/articles", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Put("/{slug}", h.handleUpsert)
		r.Get("/{slug}", h.handleGet)
		r.Delete("/{slug}", h.handleDelete)
	})
}

type articleRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Body     string `json:"body"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	items, err := h.Service.List(r.Context(), user.TenantID, r.URL.Query().Get("category"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "article_list_failed", "failed to list articles", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	art, err := h.Service.Get(r.Context(), user.TenantID, chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, articles.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "article not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "article_get_failed", "failed to load article", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, art, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload articleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("title", payload.Title, "title is required")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	art, err := h.Service.Upsert(r.Context(), user.TenantID, chi.URLParam(r, "slug"), payload.Title, payload.Category, payload.Body)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "article_save_failed", "failed to save article", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, art, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.Delete(r.Context(), user.TenantID, chi.URLParam(r, "slug")); err != nil {
		if errors.Is(err, articles.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "article not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "article_delete_failed", "failed to delete article", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
