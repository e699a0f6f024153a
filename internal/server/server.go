// internal/server/server.go
// Package server serves the calibration dashboard over HTTP. Every request
// reloads the input tables, so a refreshed calibration run shows up on the
// next page load.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/mwiater/calview/internal/calibration"
	"github.com/mwiater/calview/internal/logging"
	"github.com/mwiater/calview/internal/report"
	"github.com/mwiater/calview/internal/util"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8501"

const (
	shutdownTimeout = 5 * time.Second
	maxLoggedQuery  = 200
)

// Options configures a Server.
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	Paths          calibration.Paths
	DefaultMetrics []string
}

// Server renders the dashboard for each request.
type Server struct {
	opts Options
}

// New returns a Server for opts, filling in the default address.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	return &Server{opts: opts}
}

// Handler returns the routes of the dashboard server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /healthz", handleHealth)
	return mux
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	metrics := r.URL.Query()["metric"]
	logging.LogEvent("GET %s metrics=%s", r.URL.Path, util.TruncateRunes(fmt.Sprintf("%q", metrics), maxLoggedQuery))

	dash, err := s.render(metrics)
	if err != nil {
		logging.LogEvent("dashboard render failed: %v", err)
		templ.Handler(errorPage(report.Title, err), templ.WithStatus(http.StatusInternalServerError)).ServeHTTP(w, r)
		return
	}

	page, err := dashboardPage(dash)
	if err != nil {
		templ.Handler(errorPage(report.Title, err), templ.WithStatus(http.StatusInternalServerError)).ServeHTTP(w, r)
		return
	}
	templ.Handler(page).ServeHTTP(w, r)
}

func (s *Server) render(metrics []string) (report.Dashboard, error) {
	ds, err := calibration.Load(s.opts.Paths)
	if err != nil {
		return report.Dashboard{}, err
	}
	return report.Build(ds, metrics, s.opts.DefaultMetrics)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// Run listens on the configured address until ctx is cancelled, then shuts
// the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:     s.Handler(),
		ReadTimeout: s.opts.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.LogEvent("dashboard listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard shutdown failed: %w", err)
	}
	logging.LogEvent("dashboard stopped")
	return nil
}
