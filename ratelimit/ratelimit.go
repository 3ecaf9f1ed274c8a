// Package ratelimit implements a per-resource http.Limiter backed by
// golang.org/x/time/rate. It fills in the one concern the corpus's own
// limit handlet (hemi/classic/handlets/limit) names but leaves as a
// stub ("Limit handlets limit clients' visiting frequency" with an empty,
// TODO'd Handle method): a real token-bucket check, keyed the same
// longest-prefix-aware way the Dispatch Engine itself routes requests, so
// a limit registered at "/api" also bounds "/api/v2/orders".
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/mattyclarkson/pion/http"
)

// Limiter holds one token-bucket limiter per registered resource prefix
// and allows a request if the longest matching prefix's bucket has a
// token available.
type Limiter struct {
	mu       sync.Mutex
	limiters []prefixLimiter
}

type prefixLimiter struct {
	resource string
	limiter  *rate.Limiter
}

// New constructs an empty Limiter. Use Add to register per-resource
// limits before passing it to a Server as pion.WithLimit or to an
// http.Engine as Engine.Limit.
func New() *Limiter {
	return &Limiter{}
}

// Add registers a token-bucket limit for resource and everything nested
// under it: rps tokens are added per second, up to burst tokens banked.
func (l *Limiter) Add(resource string, rps float64, burst int) {
	resource = http.StripTrailingSlash(resource)
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, pl := range l.limiters {
		if pl.resource == resource {
			l.limiters[i].limiter = rate.NewLimiter(rate.Limit(rps), burst)
			return
		}
	}
	l.limiters = append(l.limiters, prefixLimiter{
		resource: resource,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	})
}

// Allow implements http.Limiter: it finds the longest registered prefix
// of req.Resource and consumes one token from its bucket, denying the
// request if none is available. A request matching no registered prefix
// is always allowed.
func (l *Limiter) Allow(req *http.Message) bool {
	resource := http.StripTrailingSlash(req.Resource)

	l.mu.Lock()
	lim := l.findLocked(resource)
	l.mu.Unlock()

	if lim == nil {
		return true
	}
	return lim.Allow()
}

// findLocked returns the *rate.Limiter registered at the longest prefix of
// resource, or nil if none matches. Callers must hold l.mu.
func (l *Limiter) findLocked(resource string) *rate.Limiter {
	var best *prefixLimiter
	for i := range l.limiters {
		candidate := l.limiters[i].resource
		if candidate != "" {
			if len(resource) < len(candidate) {
				continue
			}
			if resource[:len(candidate)] != candidate {
				continue
			}
			if len(resource) != len(candidate) && resource[len(candidate)] != '/' {
				continue
			}
		}
		if best == nil || len(candidate) > len(best.resource) {
			best = &l.limiters[i]
		}
	}
	if best == nil {
		return nil
	}
	return best.limiter
}
