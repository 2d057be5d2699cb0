package assessment

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Draft is the server-owned state of one open wizard instance. The id is
// assigned when the wizard opens and never regenerated until the draft is
// submitted or discarded.
type Draft struct {
	ID          string            `json:"id"`
	TenantID    string            `json:"tenantId"`
	OwnerID     string            `json:"ownerId"`
	Type        Type              `json:"type"`
	Step        int               `json:"step"`
	Sections    Sections          `json:"sections"`
	Errors      map[string]string `json:"errors"`
	ActionItems []ActionItem      `json:"actionItems"`
	Attachments []Attachment      `json:"attachments"`
	Revision    int64             `json:"revision"`
	Touched     bool              `json:"touched"`
	LastSavedAt *time.Time        `json:"lastSavedAt,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// NewDraft opens a fresh draft positioned at the first step, with empty
// sections for every step of the type's sequence.
func NewDraft(t Type, tenantID, ownerID string, now time.Time) *Draft {
	sections := Sections{}
	for _, step := range Steps(t) {
		sections[step.Section] = map[string]any{}
	}
	return &Draft{
		ID:        fmt.Sprintf("%s-%d", t, now.UnixMilli()),
		TenantID:  tenantID,
		OwnerID:   ownerID,
		Type:      t,
		Sections:  sections,
		Errors:    map[string]string{},
		CreatedAt: now,
	}
}

func (d *Draft) steps() []Step {
	return Steps(d.Type)
}

// CurrentStep returns the step the wizard is positioned at.
func (d *Draft) CurrentStep() Step {
	steps := d.steps()
	if d.Step < 0 || d.Step >= len(steps) {
		return Step{}
	}
	return steps[d.Step]
}

// StageNumber is the 1-based position exposed to the console.
func (d *Draft) StageNumber() int {
	return d.Step + 1
}

// AtTerminal reports whether the draft sits on the last step, where Submit
// replaces Next.
func (d *Draft) AtTerminal() bool {
	return d.Step == len(d.steps())-1
}

// SetField stores a value, clears any stale error for that field, and marks
// the draft touched for the auto-save flusher.
func (d *Draft) SetField(section, field string, value any) {
	if d.Sections == nil {
		d.Sections = Sections{}
	}
	if d.Sections[section] == nil {
		d.Sections[section] = map[string]any{}
	}
	d.Sections[section][field] = value
	delete(d.Errors, section+"."+field)
	d.Touched = true
	d.Revision++
}

// Next validates the current step's section. On any missing required field it
// records one error per offending field and stays put; on success it clears
// the section's errors and advances exactly one step. Returns whether the
// draft advanced.
func (d *Draft) Next() bool {
	step := d.CurrentStep()
	if errs := d.validateStep(step); len(errs) > 0 {
		for key, msg := range errs {
			d.Errors[key] = msg
		}
		return false
	}
	d.clearSectionErrors(step.Section)
	if d.AtTerminal() {
		return false
	}
	d.Step++
	d.Revision++
	return true
}

// Previous moves back one step without validation; it is a no-op at the
// first step.
func (d *Draft) Previous() {
	if d.Step > 0 {
		d.Step--
		d.Revision++
	}
}

func (d *Draft) validateStep(step Step) map[string]string {
	schema, ok := SchemaFor(d.Type, step.Section)
	if !ok {
		return nil
	}
	return ValidateSection(schema, d.Sections[step.Section])
}

// ValidateAll runs every step's schema, for submission from the terminal
// step.
func (d *Draft) ValidateAll() map[string]string {
	errs := map[string]string{}
	for _, step := range d.steps() {
		for key, msg := range d.validateStep(step) {
			errs[key] = msg
		}
	}
	return errs
}

func (d *Draft) clearSectionErrors(section string) {
	prefix := section + "."
	for key := range d.Errors {
		if strings.HasPrefix(key, prefix) {
			delete(d.Errors, key)
		}
	}
}

// HasContent reports whether any field across any section holds a non-empty
// value. Auto-save skips drafts that are still all defaults.
func (d *Draft) HasContent() bool {
	for _, fields := range d.Sections {
		for _, value := range fields {
			if !IsMissing(value) {
				return true
			}
		}
	}
	return len(d.ActionItems) > 0 || len(d.Attachments) > 0
}

// AddActionItem tags the item with the draft id, field path, and current
// stage, then appends it in order.
func (d *Draft) AddActionItem(item ActionItem) ActionItem {
	item.LinkedAssessmentID = d.ID
	item.Stage = d.StageNumber()
	if item.Status == "" {
		item.Status = "open"
	}
	d.ActionItems = append(d.ActionItems, item)
	d.Touched = true
	d.Revision++
	return item
}

// RemoveAttachment drops the attachment at index within a field's list and
// returns it for file cleanup. Returns false when the index is out of range.
func (d *Draft) RemoveAttachment(field string, index int) (Attachment, bool) {
	pos := -1
	count := 0
	for i, att := range d.Attachments {
		if att.Field != field {
			continue
		}
		if count == index {
			pos = i
			break
		}
		count++
	}
	if pos < 0 {
		return Attachment{}, false
	}
	removed := d.Attachments[pos]
	d.Attachments = append(d.Attachments[:pos], d.Attachments[pos+1:]...)
	d.Touched = true
	d.Revision++
	return removed, true
}

// clone returns a deep copy safe to hand out after the manager lock is
// released.
func (d *Draft) clone() *Draft {
	payload, err := json.Marshal(d)
	if err != nil {
		shallow := *d
		return &shallow
	}
	var out Draft
	if err := json.Unmarshal(payload, &out); err != nil {
		shallow := *d
		return &shallow
	}
	return &out
}

// FieldAttachments returns the attachments staged for one field, in upload
// order.
func (d *Draft) FieldAttachments(field string) []Attachment {
	var out []Attachment
	for _, att := range d.Attachments {
		if att.Field == field {
			out = append(out, att)
		}
	}
	return out
}
