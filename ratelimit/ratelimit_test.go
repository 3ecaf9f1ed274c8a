package ratelimit

import (
	"testing"

	"github.com/mattyclarkson/pion/http"
)

func TestLimiterAllowsUnregisteredResource(t *testing.T) {
	l := New()
	req := &http.Message{Resource: "/anything"}
	if !l.Allow(req) {
		t.Fatal("expected an unregistered resource to always be allowed")
	}
}

func TestLimiterDeniesOverBurst(t *testing.T) {
	l := New()
	l.Add("/api", 0, 1) // zero refill rate, one token banked

	req := &http.Message{Resource: "/api/orders"}
	if !l.Allow(req) {
		t.Fatal("expected the first request to consume the single banked token")
	}
	if l.Allow(req) {
		t.Fatal("expected the second request to be denied with no refill")
	}
}

func TestLimiterAppliesToNestedResources(t *testing.T) {
	l := New()
	l.Add("/api", 0, 1)

	if !l.Allow(&http.Message{Resource: "/api/v2/orders"}) {
		t.Fatal("expected a limit on /api to apply to nested resources")
	}
}

func TestLimiterLongestPrefixWins(t *testing.T) {
	l := New()
	l.Add("/api", 0, 0)        // exhausted immediately
	l.Add("/api/health", 0, 1) // but /api/health has its own bucket

	if !l.Allow(&http.Message{Resource: "/api/health"}) {
		t.Fatal("expected the more specific limiter to take precedence")
	}
}
