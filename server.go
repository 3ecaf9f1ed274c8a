// Package pion is an embeddable HTTP/1.x server: bind a listener, register
// resource handlers by prefix, and run. It is built on package tcp for
// connection/transport handling and package http for parsing and request
// dispatch, the same split the library takes its name from.
package pion

import (
	"context"

	"github.com/mattyclarkson/pion/http"
	"github.com/mattyclarkson/pion/tcp"
)

// Server owns a listener and a Dispatch Engine, and is the type an
// embedder constructs, configures with Handle/GET/POST/etc., and runs.
// This generalizes the teacher's Server{R *router.HTTPRouter; prs
// protocol.HTTPParser} to the new engine, keeping the same shape: one
// struct bundling the router/registry and the parsing configuration.
type Server struct {
	cfg        Config
	engine     *http.Engine
	ln         *tcp.Listener
	bufPool    *tcp.BufferPool
	middleware []func(http.Handler) http.Handler
}

// New constructs a Server listening at addr, applying any options over
// the package defaults.
func New(addr string, opts ...Option) *Server {
	cfg := defaultConfig(addr)
	for _, opt := range opts {
		opt(&cfg)
	}

	engine := http.NewEngine()
	engine.ReadTimeout = cfg.ReadTimeout
	engine.Auth = cfg.Auth
	engine.Limit = cfg.Limit
	if cfg.MaxRedirects > 0 {
		engine.MaxRedirects = cfg.MaxRedirects
	}
	if cfg.Logger != nil {
		engine.Logger = cfg.Logger
	}

	return &Server{
		cfg:     cfg,
		engine:  engine,
		bufPool: tcp.NewBufferPool(0),
	}
}

// Handle registers handler at resource for any method, the base
// registration primitive the verb-specific helpers below build on. Any
// middleware installed via Use before this call wraps handler, outermost
// first in registration order.
func (s *Server) Handle(resource string, handler http.Handler) {
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}
	s.engine.Registry.Add(resource, handler)
}

// HandleFunc is the function-literal convenience form of Handle.
func (s *Server) HandleFunc(resource string, fn func(req *http.Message, w *http.ResponseWriter)) {
	s.Handle(resource, http.HandlerFunc(fn))
}

// GET registers handler at resource, matching the teacher's planned
// GET/POST/PUT/PATCH/DELETE convenience surface. The method itself is not
// checked against the registered verb: resource routing here is by
// longest-prefix path alone, with method checking left to the handler
// (mirroring the original, which also dispatches purely by resource).
func (s *Server) GET(resource string, fn func(req *http.Message, w *http.ResponseWriter)) {
	s.HandleFunc(resource, fn)
}

// POST registers handler at resource. See GET for the method-checking
// note.
func (s *Server) POST(resource string, fn func(req *http.Message, w *http.ResponseWriter)) {
	s.HandleFunc(resource, fn)
}

// PUT registers handler at resource. See GET for the method-checking
// note.
func (s *Server) PUT(resource string, fn func(req *http.Message, w *http.ResponseWriter)) {
	s.HandleFunc(resource, fn)
}

// PATCH registers handler at resource. See GET for the method-checking
// note.
func (s *Server) PATCH(resource string, fn func(req *http.Message, w *http.ResponseWriter)) {
	s.HandleFunc(resource, fn)
}

// DELETE registers handler at resource. See GET for the method-checking
// note.
func (s *Server) DELETE(resource string, fn func(req *http.Message, w *http.ResponseWriter)) {
	s.HandleFunc(resource, fn)
}

// Redirect registers a redirect from one resource to another, resolved by
// the Dispatch Engine before handler lookup.
func (s *Server) Redirect(from, to string) {
	s.engine.Redirects.Add(from, to)
}

// Use wraps every handler subsequently registered through Handle/GET/...
// with middleware, applied innermost-last (the last Use call wraps
// everything registered after it, closest to the final handler), the
// minimal middleware chaining the teacher's Use stub in server.go implies.
func (s *Server) Use(mw func(http.Handler) http.Handler) {
	s.middleware = append(s.middleware, mw)
}

// Run binds the listener and serves until ctx is cancelled, at which point
// it stops accepting new connections and waits for in-flight ones to
// finish.
func (s *Server) Run(ctx context.Context) error {
	ln, err := tcp.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	return ln.Serve(ctx, func(ctx context.Context, conn *tcp.Connection) {
		parser := http.NewParser(s.cfg.MaxHeaderBytes, s.cfg.MaxContentLength)
		s.engine.HandleConnection(conn, parser, s.bufPool)
	})
}

// Addr returns the bound listening address. Valid only after Run has
// started (or returned an error).
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.cfg.Addr
	}
	return s.ln.Addr().String()
}

// Stop stops accepting new connections and waits (bounded by ctx) for
// in-flight connections to finish.
func (s *Server) Stop(ctx context.Context) error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Shutdown(ctx)
}
