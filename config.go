package pion

import (
	"log/slog"
	"time"

	"github.com/mattyclarkson/pion/http"
)

// Config holds the knobs an embedder can tune before calling Run, mirroring
// the teacher's intended SetConfig surface (server_test.go and Test() in
// server.go reference a config struct passed once at setup).
type Config struct {
	// Addr is the host:port to listen on.
	Addr string

	// ReadTimeout bounds how long a connection may sit waiting for a
	// complete request before it is closed. Zero disables the timeout.
	ReadTimeout time.Duration

	// MaxHeaderBytes bounds the size of a request's header block before
	// it is rejected as too large. Zero disables the limit.
	MaxHeaderBytes int

	// MaxContentLength bounds a request body's declared Content-Length.
	// Zero disables the limit.
	MaxContentLength int64

	// MaxRedirects bounds how many hops the Dispatch Engine will follow
	// when resolving a chain of registered redirects. Zero uses
	// http.MaxRedirects.
	MaxRedirects int

	// Auth, when set, gates every request before it reaches a handler.
	Auth http.Authenticator

	// Limit, when set, gates every request on rate after authentication.
	Limit http.Limiter

	// Logger receives structured log events for accepted connections,
	// handler panics, and timeouts. Defaults to slog.Default().
	Logger *slog.Logger
}

// Option mutates a Config, the functional-options idiom used in place of
// a builder or a giant constructor argument list.
type Option func(*Config)

// WithReadTimeout sets the per-connection read timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) { c.ReadTimeout = d }
}

// WithMaxHeaderBytes bounds the header block size.
func WithMaxHeaderBytes(n int) Option {
	return func(c *Config) { c.MaxHeaderBytes = n }
}

// WithMaxContentLength bounds the request body size.
func WithMaxContentLength(n int64) Option {
	return func(c *Config) { c.MaxContentLength = n }
}

// WithAuth installs an Authenticator run before every request's handler.
func WithAuth(a http.Authenticator) Option {
	return func(c *Config) { c.Auth = a }
}

// WithLimit installs a Limiter run after authentication and before every
// request's handler.
func WithLimit(l http.Limiter) Option {
	return func(c *Config) { c.Limit = l }
}

// WithLogger overrides the default structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithMaxRedirects bounds redirect-chain resolution. Zero or negative
// leaves the Dispatch Engine's own default (http.MaxRedirects) in place.
func WithMaxRedirects(n int) Option {
	return func(c *Config) { c.MaxRedirects = n }
}

func defaultConfig(addr string) Config {
	return Config{
		Addr:        addr,
		ReadTimeout: 30 * time.Second,
		Logger:      slog.Default(),
	}
}
