// Package authcookie implements a minimal cookie-based Authenticator,
// generalizing the original's CookieService (a plugin that displayed and
// updated cookies) into the port's Authenticator gate: a request passes if
// it carries a recognized session cookie, and fails otherwise with a 401.
package authcookie

import (
	"strings"

	"github.com/mattyclarkson/pion/http"
)

// Store looks up whether a cookie value names a valid session. Callers
// supply their own backing store (memory map, database, cache); this
// package only implements the Cookie header parsing and the
// http.Authenticator wiring around it.
type Store interface {
	Valid(sessionID string) bool
}

// Authenticator gates requests on the presence of a valid session cookie.
type Authenticator struct {
	CookieName string
	Store      Store
}

// New constructs an Authenticator reading cookieName, backed by store.
func New(cookieName string, store Store) *Authenticator {
	return &Authenticator{CookieName: cookieName, Store: store}
}

// Authenticate implements http.Authenticator.
func (a *Authenticator) Authenticate(req *http.Message, w *http.ResponseWriter) bool {
	sessionID := a.lookupCookie(req.Headers.Get("Cookie"))
	if sessionID == "" || !a.Store.Valid(sessionID) {
		w.SetStatus(401, "")
		w.Headers().Set("Content-Type", "text/html")
		w.Headers().Set("WWW-Authenticate", "Cookie")
		w.WriteNoCopy([]byte("<html><head>\n<title>401 Unauthorized</title>\n</head><body>\n<h1>Unauthorized</h1>\n<p>A valid session cookie is required to access "))
		w.WriteValue(req.OriginalResource)
		w.WriteNoCopy([]byte(".</p>\n</body></html>\n"))
		return false
	}
	return true
}

func (a *Authenticator) lookupCookie(header string) string {
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), a.CookieName) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
