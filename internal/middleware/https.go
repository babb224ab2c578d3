// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"
)

// ForceHTTPS returns a wrapper that 308-redirects plain HTTP requests to
// the HTTPS version of the same URL.  Requests for “localhost”, requests
// that arrived over TLS, and requests a TLS-terminating proxy marked with
// X-Forwarded-Proto: https pass through unchanged.  When enabled is false
// the wrapper is the identity.
func ForceHTTPS(enabled bool) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		if !enabled {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS != nil || stripPort(r.Host) == "localhost" ||
				strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
				h.ServeHTTP(w, r)
				return
			}
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
		})
	}
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
