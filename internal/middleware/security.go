// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects default headers on every relay response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years)
//   • Content-Security-Policy   –  the relay only serves JSON, so nothing
//                                  may load, frame, or execute
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Cache-Control             –  status payloads are per visitor
//
// Notes
// -----
// • Headers are set before next.ServeHTTP, because JSON handlers write the
//   body (and therefore the header block) immediately.  Handlers may still
//   override any value.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

var securityHeaders = [][2]string{
	{"Strict-Transport-Security", "max-age=63072000; includeSubDomains"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Cache-Control", "no-store"},
}

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range securityHeaders {
			if h.Get(kv[0]) == "" {
				h.Set(kv[0], kv[1])
			}
		}
		next.ServeHTTP(w, r)
	})
}
