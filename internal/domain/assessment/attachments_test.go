package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedContentType(t *testing.T) {
	cases := []struct {
		contentType string
		allowed     bool
	}{
		{"application/pdf", true},
		{"application/pdf; charset=binary", true},
		{"APPLICATION/PDF", true},
		{"application/msword", true},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"application/vnd.ms-excel", true},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true},
		{"image/jpeg", true},
		{"image/svg+xml", true},
		{"message/rfc822", true},
		{"image/png", false},
		{"application/zip", false},
		{"text/html", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, AllowedContentType(tc.contentType), tc.contentType)
	}
}

func TestFilterAttachmentsKeepsValidSubset(t *testing.T) {
	batch := []Attachment{
		{Name: "report.pdf", ContentType: "application/pdf"},
		{Name: "malware.exe", ContentType: "application/x-msdownload"},
		{Name: "photo.jpg", ContentType: "image/jpeg"},
		{Name: "page.html", ContentType: "text/html"},
	}

	accepted, rejected := FilterAttachments(batch)

	assert.Len(t, accepted, 2)
	assert.Len(t, rejected, 2)
	assert.Equal(t, "report.pdf", accepted[0].Name)
	assert.Equal(t, "photo.jpg", accepted[1].Name)
	assert.Equal(t, "malware.exe", rejected[0].Name)
}

func TestFilterAttachmentsAllValid(t *testing.T) {
	batch := []Attachment{
		{Name: "a.pdf", ContentType: "application/pdf"},
		{Name: "b.xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	}
	accepted, rejected := FilterAttachments(batch)
	assert.Len(t, accepted, 2)
	assert.Empty(t, rejected)
}
