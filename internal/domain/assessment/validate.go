package assessment

import "strings"

// IsMissing reports whether a field value counts as absent: nil, an empty or
// whitespace-only string, or a zero-length list.
func IsMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

func listLen(value any) int {
	switch v := value.(type) {
	case []string:
		return len(v)
	case []any:
		return len(v)
	}
	return 0
}

// ValidateSection runs one section's schema against its field values and
// returns error messages keyed by "section.field". Every offending field is
// reported, not just the first.
func ValidateSection(schema SectionSchema, fields map[string]any) map[string]string {
	errs := map[string]string{}
	for _, field := range schema.Required {
		if IsMissing(fields[field]) {
			errs[schema.Section+"."+field] = "this field is required"
		}
	}
	for _, check := range schema.Checks {
		if listLen(fields[check.A]) != listLen(fields[check.B]) {
			errs[schema.Section+"."+check.Report] = check.Reason
		}
	}
	return errs
}
