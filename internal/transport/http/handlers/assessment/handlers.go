package assessmenthandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/assessment"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/audit"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/platform/metrics"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/api"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/middleware"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/shared"
)

type Handler struct {
	Service        *assessment.Service
	Audit          *audit.Service
	Metrics        *metrics.Collector
	Idempotency    *middleware.IdempotencyStore
	UploadDir      string
	MaxUploadBytes int64
}

func NewHandler(service *assessment.Service) *Handler {
	return &Handler{Service: service, UploadDir: "uploads", MaxUploadBytes: 10 << 20}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	h.RegisterDraftRoutes(r)
	h.RegisterAssessmentRoutes(r)
}

// RegisterDraftRoutes covers the wizard mutations, guarded by the edit
// permission at the mount point.
func (h *Handler) RegisterDraftRoutes(r chi.Router) {
	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", h.handleOpenDraft)
		r.Get("/{draftID}", h.handleGetDraft)
		r.Delete("/{draftID}", h.handleCloseDraft)
		r.Patch("/{draftID}/fields", h.handleSetField)
		r.Post("/{draftID}/next", h.handleNext)
		r.Post("/{draftID}/previous", h.handlePrevious)
		r.Post("/{draftID}/action-items", h.handleAddActionItem)
		r.Post("/{draftID}/attachments", h.handleUploadAttachments)
		r.Delete("/{draftID}/attachments/{field}/{index}", h.handleRemoveAttachment)
		r.Post("/{draftID}/submit", h.handleSubmit)
	})
	r.Delete("/assessments/{assessmentID}", h.handleDelete)
	r.Post("/action-items/{itemID}/status", h.handleActionItemStatus)
}

// RegisterAssessmentRoutes covers the read side of submitted assessments.
func (h *Handler) RegisterAssessmentRoutes(r chi.Router) {
	r.Get("/assessments", h.handleList)
	r.Get("/assessments/{assessmentID}", h.handleGet)
	r.Get("/assessments/{assessmentID}/export", h.handleExport)
}

type openDraftRequest struct {
	Type string `json:"type"`
}

func (h *Handler) handleOpenDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload openDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	atype, err := assessment.ParseType(strings.ToUpper(strings.TrimSpace(payload.Type)))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_type", "unknown assessment type", middleware.GetRequestID(r.Context()))
		return
	}

	draft, err := h.Service.OpenDraft(r.Context(), atype, user.TenantID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "draft_open_failed", "failed to open draft", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Metrics != nil {
		h.Metrics.DraftsOpened.Inc()
	}
	api.Created(w, draftResponse(draft), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	draft, err := h.Service.GetDraft(r.Context(), user.TenantID, chi.URLParam(r, "draftID"))
	if err != nil {
		h.failDraftError(w, r, err, "draft_get_failed", "failed to load draft")
		return
	}
	api.Success(w, draftResponse(draft), middleware.GetRequestID(r.Context()))
}

type setFieldRequest struct {
	Section string `json:"section"`
	Field   string `json:"field"`
	Value   any    `json:"value"`
}

func (h *Handler) handleSetField(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload setFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("section", payload.Section, "section is required")
	validator.Required("field", payload.Field, "field is required")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	draft, err := h.Service.SetField(r.Context(), user.TenantID, chi.URLParam(r, "draftID"), payload.Section, payload.Field, payload.Value)
	if err != nil {
		h.failDraftError(w, r, err, "draft_update_failed", "failed to update draft")
		return
	}
	api.Success(w, draftResponse(draft), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	h.handleStep(w, r, h.Service.Advance)
}

func (h *Handler) handlePrevious(w http.ResponseWriter, r *http.Request) {
	h.handleStep(w, r, h.Service.Retreat)
}

func (h *Handler) handleStep(w http.ResponseWriter, r *http.Request, step func(ctx context.Context, tenantID, id string) (*assessment.Draft, error)) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	draft, err := step(r.Context(), user.TenantID, chi.URLParam(r, "draftID"))
	if err != nil {
		h.failDraftError(w, r, err, "draft_step_failed", "failed to change stage")
		return
	}
	api.Success(w, draftResponse(draft), middleware.GetRequestID(r.Context()))
}

type actionItemRequest struct {
	Field       string `json:"field"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AssigneeID  string `json:"assigneeId"`
	DueDate     string `json:"dueDate"`
}

func (h *Handler) handleAddActionItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload actionItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("title", payload.Title, "title is required")
	var due *time.Time
	if strings.TrimSpace(payload.DueDate) != "" {
		if parsed, ok := validator.Date("dueDate", payload.DueDate); ok {
			due = &parsed
		}
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	_, created, err := h.Service.AddActionItem(r.Context(), user.TenantID, chi.URLParam(r, "draftID"), assessment.ActionItem{
		LinkedField: payload.Field,
		Title:       payload.Title,
		Description: payload.Description,
		AssigneeID:  payload.AssigneeID,
		DueDate:     due,
	})
	if err != nil {
		h.failDraftError(w, r, err, "action_item_failed", "failed to add action item")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUploadAttachments(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	draftID := chi.URLParam(r, "draftID")

	maxBytes := h.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "invalid multipart payload", middleware.GetRequestID(r.Context()))
		return
	}

	field := strings.TrimSpace(r.FormValue("field"))
	if field == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "field is required", middleware.GetRequestID(r.Context()))
		return
	}
	description := r.FormValue("description")

	files := r.MultipartForm.File["document"]
	if len(files) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "at least one document is required", middleware.GetRequestID(r.Context()))
		return
	}

	staged := make([]assessment.Attachment, 0, len(files))
	headers := make(map[string]*multipart.FileHeader, len(files))
	for _, fh := range files {
		att := assessment.Attachment{
			ID:          uuid.NewString(),
			Field:       field,
			Name:        filepath.Base(fh.Filename),
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Description: description,
			UploadedAt:  time.Now(),
		}
		staged = append(staged, att)
		headers[att.ID] = fh
	}

	accepted, rejected := assessment.FilterAttachments(staged)
	if h.Metrics != nil && len(rejected) > 0 {
		h.Metrics.UploadsRejected.Add(float64(len(rejected)))
	}

	saved := make([]assessment.Attachment, 0, len(accepted))
	for _, att := range accepted {
		src, err := headers[att.ID].Open()
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "upload_failed", "failed to store attachment", middleware.GetRequestID(r.Context()))
			return
		}
		path, err := h.storeFile(user.TenantID, draftID, att.ID, src)
		if err != nil {
			slog.Warn("attachment store failed", "draftId", draftID, "err", err)
			api.Fail(w, http.StatusInternalServerError, "upload_failed", "failed to store attachment", middleware.GetRequestID(r.Context()))
			return
		}
		att.Path = path
		saved = append(saved, att)
	}

	draft, err := h.Service.AppendAttachments(r.Context(), user.TenantID, draftID, saved)
	if err != nil {
		h.failDraftError(w, r, err, "draft_update_failed", "failed to attach documents")
		return
	}

	warnings := make([]map[string]string, 0, len(rejected))
	for _, att := range rejected {
		warnings = append(warnings, map[string]string{
			"name":   att.Name,
			"reason": "unsupported content type " + att.ContentType,
		})
	}
	api.Success(w, map[string]any{
		"draft":    draftResponse(draft),
		"accepted": saved,
		"rejected": warnings,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRemoveAttachment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_index", "attachment index must be a non-negative integer", middleware.GetRequestID(r.Context()))
		return
	}

	removed, err := h.Service.RemoveAttachment(r.Context(), user.TenantID, chi.URLParam(r, "draftID"), chi.URLParam(r, "field"), index)
	if err != nil {
		h.failDraftError(w, r, err, "attachment_remove_failed", "failed to remove attachment")
		return
	}
	if removed.Path != "" {
		if err := os.Remove(removed.Path); err != nil && !os.IsNotExist(err) {
			slog.Warn("attachment file delete failed", "path", removed.Path, "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "removed"}, middleware.GetRequestID(r.Context()))
}

type submitRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	draftID := chi.URLParam(r, "draftID")

	var payload submitRequest
	if r.Body != nil {
		// body is optional; absence means plain submit
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	if payload.Status != "" && payload.Status != assessment.StatusSubmitted && payload.Status != assessment.StatusCompleted {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be submitted or completed", middleware.GetRequestID(r.Context()))
		return
	}

	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestHash := middleware.RequestHash([]byte(draftID + "|" + payload.Status))
	if idemKey != "" && h.Idempotency != nil {
		stored, found, err := h.Idempotency.Check(r.Context(), user.TenantID, user.UserID, "drafts.submit", idemKey, requestHash)
		if err != nil {
			if errors.Is(err, middleware.ErrIdempotencyConflict) {
				api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different request", middleware.GetRequestID(r.Context()))
				return
			}
			api.Fail(w, http.StatusInternalServerError, "idempotency_error", "idempotency check failed", middleware.GetRequestID(r.Context()))
			return
		}
		if found {
			var record assessment.Assessment
			if err := json.Unmarshal(stored, &record); err == nil {
				api.Success(w, record, middleware.GetRequestID(r.Context()))
				return
			}
		}
	}

	record, err := h.Service.Submit(r.Context(), user.TenantID, draftID, payload.Status)
	if err != nil {
		var vErr *assessment.ValidationError
		switch {
		case errors.As(err, &vErr):
			api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "assessment validation failed",
				map[string]any{"fields": vErr.Fields}, middleware.GetRequestID(r.Context()))
		case errors.Is(err, assessment.ErrNotTerminal):
			api.Fail(w, http.StatusConflict, "not_terminal", "draft has not reached the final stage", middleware.GetRequestID(r.Context()))
		case errors.Is(err, assessment.ErrDraftNotFound):
			api.Fail(w, http.StatusConflict, "draft_conflict", "draft already submitted or unknown", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "submit_failed", "failed to submit assessment", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if h.Metrics != nil {
		h.Metrics.Submissions.WithLabelValues(string(record.Type)).Inc()
	}
	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), user.TenantID, user.UserID, audit.ActionAssessmentSubmitted,
			audit.EntityAssessment, record.ID, middleware.GetRequestID(r.Context()), r.RemoteAddr, nil, record); err != nil {
			slog.Warn("audit record failed", "action", audit.ActionAssessmentSubmitted, "err", err)
		}
	}
	if idemKey != "" && h.Idempotency != nil {
		if response, err := json.Marshal(record); err == nil {
			if err := h.Idempotency.Save(r.Context(), user.TenantID, user.UserID, "drafts.submit", idemKey, requestHash, response); err != nil {
				slog.Warn("idempotency save failed", "draftId", draftID, "err", err)
			}
		}
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCloseDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.CloseDraft(r.Context(), user.TenantID, chi.URLParam(r, "draftID")); err != nil && !errors.Is(err, assessment.ErrDraftNotFound) {
		api.Fail(w, http.StatusInternalServerError, "draft_close_failed", "failed to close draft", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "closed"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	filter := assessment.Filter{
		Type:   strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type"))),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Owner:  strings.TrimSpace(r.URL.Query().Get("owner")),
	}

	items, total, err := h.Service.ListAssessments(r.Context(), user.TenantID, filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "assessment_list_failed", "failed to list assessments", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.GetAssessment(r.Context(), user.TenantID, chi.URLParam(r, "assessmentID"))
	if err != nil {
		if errors.Is(err, assessment.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "assessment not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "assessment_get_failed", "failed to load assessment", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	assessmentID := chi.URLParam(r, "assessmentID")

	if err := h.Service.DeleteAssessment(r.Context(), user.TenantID, assessmentID); err != nil {
		if errors.Is(err, assessment.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "assessment not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "assessment_delete_failed", "failed to delete assessment", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), user.TenantID, user.UserID, audit.ActionAssessmentDeleted,
			audit.EntityAssessment, assessmentID, middleware.GetRequestID(r.Context()), r.RemoteAddr, nil, nil); err != nil {
			slog.Warn("audit record failed", "action", audit.ActionAssessmentDeleted, "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.GetAssessment(r.Context(), user.TenantID, chi.URLParam(r, "assessmentID"))
	if err != nil {
		if errors.Is(err, assessment.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "assessment not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "assessment_get_failed", "failed to load assessment", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.ID+".pdf"))
	if err := assessment.WritePDF(record, w); err != nil {
		slog.Warn("pdf export failed", "assessmentId", record.ID, "err", err)
	}
}

type actionItemStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleActionItemStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload actionItemStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("status", payload.Status, "status is required")
	validator.Enum("status", payload.Status, []string{"open", "in_progress", "done"}, "status must be open, in_progress or done")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Service.UpdateActionItemStatus(r.Context(), user.TenantID, chi.URLParam(r, "itemID"), payload.Status); err != nil {
		if errors.Is(err, assessment.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "action item not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "action_item_failed", "failed to update action item", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": payload.Status}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failDraftError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	if errors.Is(err, assessment.ErrDraftNotFound) {
		api.Fail(w, http.StatusNotFound, "draft_not_found", "draft not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusInternalServerError, code, message, middleware.GetRequestID(r.Context()))
}

func (h *Handler) storeFile(tenantID, draftID, attachmentID string, src io.ReadCloser) (string, error) {
	defer src.Close()
	dir := filepath.Join(h.UploadDir, tenantID, draftID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	path := filepath.Join(dir, attachmentID)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// draftResponse shapes the wizard state the way the console consumes it:
// 1-based stage number plus current step coordinates.
func draftResponse(d *assessment.Draft) map[string]any {
	step := d.CurrentStep()
	return map[string]any{
		"id":          d.ID,
		"type":        d.Type,
		"stage":       d.StageNumber(),
		"stageName":   step.Stage,
		"tab":         step.Tab,
		"section":     step.Section,
		"sections":    d.Sections,
		"errors":      d.Errors,
		"actionItems": d.ActionItems,
		"attachments": d.Attachments,
		"revision":    d.Revision,
		"lastSavedAt": d.LastSavedAt,
	}
}
