package assessment

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeDPIA Type = "DPIA"
	TypeLIA  Type = "LIA"
	TypeTIA  Type = "TIA"
	TypeRoPA Type = "ROPA"
)

func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case TypeDPIA, TypeLIA, TypeTIA, TypeRoPA:
		return Type(raw), nil
	}
	return "", fmt.Errorf("unknown assessment type %q", raw)
}

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusCompleted = "completed"
)

// Sections maps section name to field name to value. Field values are either
// a string or a list of strings, mirroring the wizard payloads the console
// sends; attachments are tracked separately.
type Sections map[string]map[string]any

// ActionItem is a follow-up task spawned from a wizard field. It keeps a
// back-reference to the draft it was created in and the field/stage that
// triggered it.
type ActionItem struct {
	ID                 string     `json:"id"`
	LinkedAssessmentID string     `json:"linkedAssessmentId"`
	LinkedField        string     `json:"linkedField"`
	Stage              int        `json:"stage"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	AssigneeID         string     `json:"assigneeId"`
	DueDate            *time.Time `json:"dueDate,omitempty"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Attachment records a staged file for a draft field. The file body lives on
// disk under the upload directory; only metadata travels with the draft.
type Attachment struct {
	ID          string    `json:"id"`
	Field       string    `json:"field"`
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Description string    `json:"description"`
	Path        string    `json:"-"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Assessment is a submitted compliance record assembled from a draft.
type Assessment struct {
	ID          string       `json:"id"`
	TenantID    string       `json:"tenantId"`
	Type        Type         `json:"type"`
	Status      string       `json:"status"`
	OwnerID     string       `json:"ownerId"`
	Sections    Sections     `json:"sections"`
	ActionItems []ActionItem `json:"actionItems"`
	Attachments []Attachment `json:"attachments,omitempty"`
	SubmittedAt time.Time    `json:"submittedAt"`
}

type Filter struct {
	Type   string
	Status string
	Owner  string
}
