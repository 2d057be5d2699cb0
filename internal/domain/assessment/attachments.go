package assessment

import "strings"

// allowedContentTypes is the upload allow-list: PDF, Word, Excel, JPEG, SVG,
// and raw email. Files outside the list are dropped from the batch, not the
// whole upload.
var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"image/jpeg":     true,
	"image/svg+xml":  true,
	"message/rfc822": true,
}

// AllowedContentType checks a MIME type against the allow-list, ignoring any
// charset or boundary parameters.
func AllowedContentType(contentType string) bool {
	base := contentType
	if idx := strings.Index(base, ";"); idx >= 0 {
		base = base[:idx]
	}
	return allowedContentTypes[strings.ToLower(strings.TrimSpace(base))]
}

// FilterAttachments splits an upload batch into accepted and rejected parts
// by content type. Order within each part is preserved.
func FilterAttachments(batch []Attachment) (accepted, rejected []Attachment) {
	for _, att := range batch {
		if AllowedContentType(att.ContentType) {
			accepted = append(accepted, att)
		} else {
			rejected = append(rejected, att)
		}
	}
	return accepted, rejected
}
