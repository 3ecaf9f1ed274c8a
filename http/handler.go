package http

// Authenticator gates requests before they reach a Handler, the Go shape
// of the original's PionUserPtr-backed auth check (m_auth_ptr->handleRequest
// in http_server.cpp): given the request, decide whether it may proceed,
// and if not, write a rejection directly onto w and report handled=true so
// the Dispatch Engine does not also try to run a handler or its own
// default responder.
type Authenticator interface {
	Authenticate(req *Message, w *ResponseWriter) (allowed bool)
}

// Limiter gates requests on rate, applied after authentication and before
// handler lookup. Denying a request means writing a 503 and returning
// false; allowing it returns true and does nothing to w.
type Limiter interface {
	Allow(req *Message) bool
}

// AuthenticatorFunc adapts a plain function to Authenticator.
type AuthenticatorFunc func(req *Message, w *ResponseWriter) bool

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(req *Message, w *ResponseWriter) bool { return f(req, w) }

// LimiterFunc adapts a plain function to Limiter.
type LimiterFunc func(req *Message) bool

// Allow calls f.
func (f LimiterFunc) Allow(req *Message) bool { return f(req) }
