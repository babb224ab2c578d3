// internal/middleware/middleware_test.go
//
// Unit-tests for the security-header and HTTPS wrappers.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurity_SetsDefaultsWithoutOverriding(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "max-age=60")
		w.WriteHeader(http.StatusOK)
	})
	rr := httptest.NewRecorder()
	Security(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rr.Header().Get("Cache-Control"); got != "max-age=60" {
		t.Errorf("handler override lost: %q", got)
	}
}

func TestForceHTTPS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	cases := []struct {
		name    string
		enabled bool
		host    string
		proto   string
		want    int
	}{
		{"disabled", false, "example.com", "", http.StatusOK},
		{"redirect", true, "example.com", "", http.StatusPermanentRedirect},
		{"localhost", true, "localhost:8080", "", http.StatusOK},
		{"proxy tls", true, "example.com", "https", http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "http://"+c.host+"/forms/contact", nil)
		if c.proto != "" {
			req.Header.Set("X-Forwarded-Proto", c.proto)
		}
		rr := httptest.NewRecorder()
		ForceHTTPS(c.enabled)(ok).ServeHTTP(rr, req)
		if rr.Code != c.want {
			t.Errorf("%s: status = %d, want %d", c.name, rr.Code, c.want)
		}
		if c.want == http.StatusPermanentRedirect {
			if loc := rr.Header().Get("Location"); loc != "https://example.com/forms/contact" {
				t.Errorf("%s: Location = %q", c.name, loc)
			}
		}
	}
}
