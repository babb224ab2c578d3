// internal/session/session.go
//
// Visitor session cookie.
//
// Context
//   The relay holds one form instance per visitor, form, and page, so it
//   needs a stable, anonymous visitor key.  This package issues a random
//   UUID in the “contactform_session” cookie on first contact and reads it
//   back afterwards.  The cookie carries no personal data; submitted field
//   values never touch it.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	cookieName = "contactform_session"
	lifetime   = 24 * time.Hour
)

// Ensure returns the visitor ID from r, issuing a fresh cookie on w when
// the cookie is missing or malformed.
func Ensure(w http.ResponseWriter, r *http.Request) string {
	if id, ok := Current(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(lifetime),
	})
	return id
}

// Current returns the visitor ID stored in the cookie, if any.
//
// ok == false when the cookie is missing or not a UUID.
func Current(r *http.Request) (id string, ok bool) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}
