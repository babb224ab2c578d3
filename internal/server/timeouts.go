// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
// Production hardening recommends:
//
//   • ReadTimeout   – abort slow-loris headers (10 s)
//   • WriteTimeout  – cap total response time; must exceed the submit
//                     timeout so a slow endpoint still gets its answer back
//   • IdleTimeout   – close keep-alives on idle clients (60 s)
//
// This helper centralises those defaults so cmd/web doesn’t repeat
// boilerplate.
//

package server

import (
	"net/http"
	"time"
)

// writeSlack is added on top of the submit timeout for encoding and I/O.
const writeSlack = 10 * time.Second

// New constructs an *http.Server whose WriteTimeout leaves room for one
// full outbound submission.
func New(addr string, handler http.Handler, submitTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      submitTimeout + writeSlack,
		IdleTimeout:       60 * time.Second,
	}
}
