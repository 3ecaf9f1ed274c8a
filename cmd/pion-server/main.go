// Command pion-server is a minimal embedder demonstrating Handle/GET
// registration, an installed Authenticator and Limiter, a redirect, and
// graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattyclarkson/pion"
	"github.com/mattyclarkson/pion/authcookie"
	"github.com/mattyclarkson/pion/http"
	"github.com/mattyclarkson/pion/ratelimit"
)

type memoryStore map[string]bool

func (m memoryStore) Valid(sessionID string) bool { return m[sessionID] }

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	sessions := memoryStore{"demo-session": true}
	auth := authcookie.New("pion_session", sessions)

	limiter := ratelimit.New()
	limiter.Add("/api", 5, 10)

	srv := pion.New("127.0.0.1:8080",
		pion.WithReadTimeout(30*time.Second),
		pion.WithMaxContentLength(1<<20),
		pion.WithAuth(auth),
		pion.WithLimit(limiter),
		pion.WithLogger(logger),
	)

	srv.GET("/", func(req *http.Message, w *http.ResponseWriter) {
		w.SetStatus(200, "")
		w.Headers().Set("Content-Type", "text/plain")
		w.WriteString("welcome")
		_ = w.Send()
	})

	srv.GET("/api/status", func(req *http.Message, w *http.ResponseWriter) {
		w.SetStatus(200, "")
		w.Headers().Set("Content-Type", "application/json")
		w.WriteString(`{"status":"ok"}`)
		_ = w.Send()
	})

	srv.Redirect("/old-home", "/")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("listening", "addr", srv.Addr())
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
