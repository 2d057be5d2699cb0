package middleware

import (
	"net/http"
	"strings"
)

// BodyLimit caps JSON mutation payloads. Multipart uploads are exempt; the
// attachment handler enforces its own larger limit.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isMutation := r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch
			isMultipart := strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/")
			if maxBytes > 0 && isMutation && !isMultipart {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
