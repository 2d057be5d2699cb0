package assessmenthandler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/assessment"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/domain/auth"
	"github.com/ProteccioData/Proteccio-ROPA-Org-sub000/internal/transport/http/middleware"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Handler) {
	t.Helper()
	service := assessment.NewService(
		assessment.NewInMemoryStore(),
		assessment.NewInMemoryDraftStore(),
		assessment.NewManager(),
		nil,
	)
	handler := NewHandler(service)
	handler.UploadDir = t.TempDir()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithUser(req.Context(), auth.UserContext{
				UserID:   "user-1",
				TenantID: "tenant-1",
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	handler.RegisterRoutes(r)
	return r, handler
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
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Error   *struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func openDraft(t *testing.T, router http.Handler, atype string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/drafts", map[string]string{"type": atype})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decodeData(t, rec)
	id, ok := data["id"].(string)
	require.True(t, ok, "draft id missing")
	return id
}

func TestOpenDraftUnknownType(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/drafts", map[string]string{"type": "XXX"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvanceBlockedUntilRequiredFieldsFilled(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openDraft(t, router, "LIA")

	rec := doJSON(t, router, http.MethodPost, "/drafts/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, float64(1), data["stage"], "validation failure must not advance")
	errs, ok := data["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "purposeTest.processingPurpose")
	assert.Contains(t, errs, "purposeTest.intendedBenefit")

	for field, value := range map[string]string{
		"processingPurpose": "fraud prevention",
		"intendedBenefit":   "fewer chargebacks",
	} {
		rec = doJSON(t, router, http.MethodPatch, "/drafts/"+id+"/fields", map[string]any{
			"section": "purposeTest", "field": field, "value": value,
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/drafts/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeData(t, rec)
	assert.Equal(t, float64(2), data["stage"])
	assert.Empty(t, data["errors"])
}

func TestPreviousIsNoOpAtFirstStage(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openDraft(t, router, "DPIA")

	rec := doJSON(t, router, http.MethodPost, "/drafts/"+id+"/previous", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeData(t, rec)["stage"])
}

func fillLIADraft(t *testing.T, router http.Handler, id string) {
	t.Helper()
	sections := map[string]map[string]string{
		"purposeTest":   {"processingPurpose": "fraud prevention", "intendedBenefit": "fewer chargebacks"},
		"necessityTest": {"necessityJustification": "no softer option works", "alternativesConsidered": "manual review"},
		"balancingTest": {"individualImpact": "low", "reasonableExpectations": "documented in privacy notice"},
		"safeguards":    {"appliedSafeguards": "pseudonymisation"},
		"decision":      {"outcome": "proceed", "reviewer": "dpo@example.com"},
	}
	for section, fields := range sections {
		for field, value := range fields {
			rec := doJSON(t, router, http.MethodPatch, "/drafts/"+id+"/fields", map[string]any{
				"section": section, "field": field, "value": value,
			})
			require.Equal(t, http.StatusOK, rec.Code)
		}
	}
	for i := 0; i < 4; i++ {
		rec := doJSON(t, router, http.MethodPost, "/drafts/"+id+"/next", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestSubmitLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openDraft(t, router, "LIA")

	rec := doJSON(t, router, http.MethodPost, "/drafts/"+id+"/submit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "submit before terminal stage must fail")

	fillLIADraft(t, router, id)

	rec = doJSON(t, router, http.MethodPost, "/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	record := decodeData(t, rec)
	assert.Equal(t, "submitted", record["status"])

	rec = doJSON(t, router, http.MethodPost, "/drafts/"+id+"/submit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "second submit must conflict")

	rec = doJSON(t, router, http.MethodGet, "/assessments/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/assessments?type=LIA", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
}

func TestSubmitValidationErrorListsAllFields(t *testing.T) {
	router, handler := newTestRouter(t)
	id := openDraft(t, router, "LIA")
	fillLIADraft(t, router, id)

	// blank out an earlier stage after reaching the terminal one
	_, err := handler.Service.SetField(
		httptest.NewRequest(http.MethodGet, "/", nil).Context(),
		"tenant-1", id, "purposeTest", "processingPurpose", "",
	)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Fields map[string]string `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "validation_error", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Details.Fields, "purposeTest.processingPurpose")
}

func TestCloseDraftDiscardsProgress(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openDraft(t, router, "TIA")

	rec := doJSON(t, router, http.MethodDelete, "/drafts/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/drafts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddActionItem(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openDraft(t, router, "DPIA")

	rec := doJSON(t, router, http.MethodPost, "/drafts/"+id+"/action-items", map[string]any{
		"field":       "riskAssessment.identifiedRisks",
		"title":       "Document the access review cadence",
		"description": "Security to confirm quarterly reviews",
		"dueDate":     "2026-10-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decodeData(t, rec)
	assert.Equal(t, id, item["linkedAssessmentId"])
	assert.Equal(t, "open", item["status"])
	assert.Equal(t, float64(1), item["stage"])
}

func TestActionItemRequiresTitle(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openDraft(t, router, "DPIA")

	rec := doJSON(t, router, http.MethodPost, "/drafts/"+id+"/action-items", map[string]any{
		"field": "riskAssessment.identifiedRisks",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartUpload(t *testing.T, files map[string]string, field string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("field", field))
	require.NoError(t, writer.WriteField("description", "supporting evidence"))
	for name, contentType := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename=%q`, name))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("file-content"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadFiltersDisallowedContentTypes(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openDraft(t, router, "ROPA")

	body, contentType := multipartUpload(t, map[string]string{
		"evidence.pdf": "application/pdf",
		"malware.exe":  "application/x-msdownload",
	}, "generalInfo.evidence")

	req := httptest.NewRequest(http.MethodPost, "/drafts/"+id+"/attachments", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	accepted, ok := data["accepted"].([]any)
	require.True(t, ok)
	require.Len(t, accepted, 1)
	rejected, ok := data["rejected"].([]any)
	require.True(t, ok)
	require.Len(t, rejected, 1)
	warning := rejected[0].(map[string]any)
	assert.Equal(t, "malware.exe", warning["name"])
	assert.True(t, strings.Contains(warning["reason"].(string), "application/x-msdownload"))
}

func TestRemoveAttachment(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openDraft(t, router, "ROPA")

	body, contentType := multipartUpload(t, map[string]string{
		"evidence.pdf": "application/pdf",
	}, "generalInfo.evidence")
	req := httptest.NewRequest(http.MethodPost, "/drafts/"+id+"/attachments", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec2 := doJSON(t, router, http.MethodDelete, "/drafts/"+id+"/attachments/generalInfo.evidence/0", nil)
	require.Equal(t, http.StatusOK, rec2.Code, rec2.Body.String())

	rec3 := doJSON(t, router, http.MethodDelete, "/drafts/"+id+"/attachments/generalInfo.evidence/0", nil)
	assert.Equal(t, http.StatusInternalServerError, rec3.Code, "removing a missing attachment reports an error")
}

func TestExportProducesPDF(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openDraft(t, router, "LIA")
	fillLIADraft(t, router, id)

	rec := doJSON(t, router, http.MethodPost, "/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/assessments/"+id+"/export", nil)
	recExport := httptest.NewRecorder()
	router.ServeHTTP(recExport, req)
	require.Equal(t, http.StatusOK, recExport.Code)
	assert.Equal(t, "application/pdf", recExport.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(recExport.Body.Bytes(), []byte("%PDF")))
}

func TestDeleteAssessment(t *testing.T) {
	router, _ := newTestRouter(t)
	id := openDraft(t, router, "LIA")
	fillLIADraft(t, router, id)

	rec := doJSON(t, router, http.MethodPost, "/drafts/"+id+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/assessments/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/assessments/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	service := assessment.NewService(
		assessment.NewInMemoryStore(),
		assessment.NewInMemoryDraftStore(),
		assessment.NewManager(),
		nil,
	)
	r := chi.NewRouter()
	NewHandler(service).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assessments", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
