package assessment

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders a submitted assessment as a printable record, one block
// per section in wizard order, then the linked action items.
func WritePDF(record *Assessment, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("%s Assessment %s", record.Type, record.ID))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Status: %s", record.Status))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Submitted: %s", record.SubmittedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	for _, section := range sectionOrder(record) {
		fields := record.Sections[section]
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, section)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)

		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			pdf.MultiCell(0, 6, fmt.Sprintf("%s: %s", name, renderValue(fields[name])), "", "", false)
			pdf.Ln(1)
		}
		pdf.Ln(4)
	}

	if len(record.ActionItems) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Action items")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, item := range record.ActionItems {
			pdf.MultiCell(0, 6, fmt.Sprintf("[%s] %s (field %s, stage %d)", item.Status, item.Title, item.LinkedField, item.Stage), "", "", false)
			pdf.Ln(1)
		}
	}

	return pdf.Output(w)
}

// sectionOrder follows the wizard's step sequence, then any extra sections
// alphabetically.
func sectionOrder(record *Assessment) []string {
	var out []string
	seen := map[string]bool{}
	for _, step := range Steps(record.Type) {
		if _, ok := record.Sections[step.Section]; ok && !seen[step.Section] {
			out = append(out, step.Section)
			seen[step.Section] = true
		}
	}
	var rest []string
	for section := range record.Sections {
		if !seen[section] {
			rest = append(rest, section)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func renderValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(value)
}
