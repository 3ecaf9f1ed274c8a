package http

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mattyclarkson/pion/tcp"
)

// MaxRedirects is the default bound on redirect-chain resolution, the Go
// name for the original's MAX_REDIRECTS constant in http_server.cpp.
// Engine.MaxRedirects overrides it per-engine; this constant is only the
// default NewEngine starts from.
const MaxRedirects = 10

// Engine is the Dispatch Engine: it owns a Registry, a RedirectTable, an
// optional Authenticator and Limiter, and runs the full per-request gate
// sequence described by the original's handleRequest, extended with a
// rate-limit gate between authentication and handler lookup.
type Engine struct {
	Registry  *Registry
	Redirects *RedirectTable
	Auth      Authenticator
	Limit     Limiter

	ReadTimeout time.Duration

	// MaxRedirects bounds redirect-chain resolution. Zero or negative
	// falls back to the package default MaxRedirects.
	MaxRedirects int

	Responders ErrorResponders
	Logger     *slog.Logger
}

// NewEngine constructs an Engine with an empty registry and redirect
// table and no authenticator or limiter configured.
func NewEngine() *Engine {
	return &Engine{
		Registry:     NewRegistry(),
		Redirects:    NewRedirectTable(),
		MaxRedirects: MaxRedirects,
		Logger:       slog.Default(),
	}
}

// HandleConnection drives the read-dispatch-respond cycle for one accepted
// connection until it is closed, handling keep-alive by looping Receive
// calls on the same Reader, mirroring the original's
// HTTPServer::handleConnection.
func (e *Engine) HandleConnection(conn *tcp.Connection, parser *Parser, bufPool *tcp.BufferPool) {
	reader := NewReader(conn, parser, bufPool)

	for {
		result := reader.Receive(e.ReadTimeout)
		switch result.Status {
		case StatusOK:
			e.HandleRequest(conn, result.Message)
			if !conn.IsOpen() {
				return
			}
			if conn.Lifecycle() == tcp.Close {
				return
			}

		case StatusParseError:
			var pe *ParseError
			errMsg := result.Err.Error()
			if errors.As(result.Err, &pe) {
				errMsg = pe.Error()
			}
			conn.SetLifecycle(tcp.Close)
			e.Responders.HandleBadRequest(conn, func() {}, errMsg)
			return

		case StatusTimeout:
			e.Logger.Debug("read timeout, closing connection", "conn_id", conn.ID())
			conn.SetLifecycle(tcp.Close)
			conn.Finish()
			return

		case StatusIOError:
			return
		}
	}
}

// HandleRequest runs the gate sequence for one already-decoded request:
// error gate, normalize, redirect resolution, authentication, rate
// limiting, handler lookup, and a fault-envelope-wrapped handler
// invocation. It ports the body of the original's handleRequest method.
func (e *Engine) HandleRequest(conn *tcp.Connection, req *Message) {
	// finished decides, from the request's own Connection header, whether
	// the transport stays open for another pipelined/keep-alive message
	// once this response is sent. It never closes the socket itself —
	// that only happens once HandleConnection's loop sees tcp.Close and
	// returns, and the Listener's wrapper calls Finish.
	finished := func() {
		if req.Headers.WantsClose() {
			conn.SetLifecycle(tcp.Close)
		} else {
			conn.SetLifecycle(tcp.KeepAlive)
		}
	}

	if !req.Valid {
		conn.SetLifecycle(tcp.Close)
		e.Responders.HandleBadRequest(conn, func() {}, "invalid request")
		return
	}

	req.ChangeResource(StripTrailingSlash(req.Resource))

	resource, ok := e.resolveRedirects(req.Resource)
	if !ok {
		e.Responders.HandleServerError(conn, finished, req.OriginalResource, "Maximum number of redirects exceeded")
		return
	}
	req.ChangeResource(resource)

	w := NewResponseWriter(conn, finished)
	w.SetVersion(req.Version)

	if e.Auth != nil {
		if allowed := e.Auth.Authenticate(req, w); !allowed {
			_ = w.Send()
			return
		}
	}

	if e.Limit != nil {
		if !e.Limit.Allow(req) {
			e.Responders.HandleServiceUnavailable(conn, finished, req.Resource)
			return
		}
	}

	handler, ok := e.Registry.Find(req.Resource)
	if !ok {
		e.Responders.HandleNotFoundRequest(conn, finished, req.OriginalResource)
		return
	}

	e.invoke(handler, req, w, conn, finished)
}

// invoke runs handler inside a fault envelope: a panic is the Go
// realization of the original's catch (std::exception&) around the
// handler call — any recovered value becomes a 500 response — while a
// true out-of-memory condition in Go is a fatal, unrecoverable runtime
// error that terminates the process outright, which is exactly the
// "OOM is fatal, everything else is recoverable" split the original makes
// explicit with its separate std::bad_alloc rethrow. No special-case code
// is needed to get that behavior: the Go runtime already refuses to let a
// recover() catch an allocation failure.
func (e *Engine) invoke(handler Handler, req *Message, w *ResponseWriter, conn *tcp.Connection, finished func()) {
	defer func() {
		if r := recover(); r != nil {
			e.Logger.Error("handler panicked", "conn_id", conn.ID(), "resource", req.Resource, "panic", r)
			e.Responders.HandleServerError(conn, finished, req.OriginalResource, fmt.Sprint(r))
		}
	}()
	handler.Handle(req, w)
}

// resolveRedirects follows RedirectTable hops starting at resource, up to
// e.MaxRedirects times, returning the final resource. It is a depth
// counter, not a visited-set, the same bound the original uses in its
// handleRequest loop. ok is false if the chain was still unresolved after
// the bound was reached.
func (e *Engine) resolveRedirects(resource string) (string, bool) {
	max := e.MaxRedirects
	if max <= 0 {
		max = MaxRedirects
	}
	for i := 0; i < max; i++ {
		next, ok := e.Redirects.Lookup(resource)
		if !ok {
			return resource, true
		}
		resource = next
	}
	return "", false
}
