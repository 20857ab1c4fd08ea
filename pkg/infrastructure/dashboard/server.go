// Package dashboard is the HTTP boundary of the live board: it serves the
// static dashboard page and the board snapshot as JSON. It performs no
// domain logic beyond resolving the output-path override and delegating to
// the snapshot provider.
package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bmadlabs/liveboard/pkg/domain/board"
)

// SnapshotProvider rebuilds the board from the artifact tree under
// outputDir. Every call is a full re-scan.
type SnapshotProvider interface {
	Build(outputDir string) board.Snapshot
}

// Options configures the server boundary.
type Options struct {
	// ResolveOutput maps the optional ?output= query value to an absolute
	// artifact root. Required.
	ResolveOutput func(string) string
	// DashboardFile is the on-disk HTML asset served at "/", "/index.html"
	// and "/<its base name>". A missing file yields a 404 page.
	DashboardFile string
	// Events, when non-nil, is mounted at /api/events for live refresh.
	Events http.Handler
}

// Server is the live-board HTTP server.
type Server struct {
	addr     string
	provider SnapshotProvider
	opts     Options
	server   *http.Server
}

// NewServer creates a live-board server bound to addr.
func NewServer(addr string, provider SnapshotProvider, opts Options) *Server {
	return &Server{
		addr:     addr,
		provider: provider,
		opts:     opts,
	}
}

// Handler returns the server's route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/board", s.handleBoard)
	if s.opts.Events != nil {
		mux.Handle("GET /api/events", s.opts.Events)
	}
	mux.HandleFunc("GET /", s.handleRoot)

	return mux
}

// Start starts the server. It blocks until Shutdown or a listener error.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		// SSE connections stay open indefinitely, so only reads get a
		// timeout.
		ReadHeaderTimeout: 15 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// handleRoot serves the dashboard page on its known paths and a JSON 404
// everywhere else.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/", "/index.html", "/" + filepath.Base(s.opts.DashboardFile):
		s.servePage(w)
	default:
		s.writeNotFound(w)
	}
}

func (s *Server) servePage(w http.ResponseWriter) {
	html, err := os.ReadFile(s.opts.DashboardFile)
	if err != nil || len(html) == 0 {
		s.writeHTML(w, http.StatusNotFound, []byte("<h1>Dashboard file not found</h1>"))
		return
	}
	s.writeHTML(w, http.StatusOK, html)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	outputDir := s.opts.ResolveOutput(r.URL.Query().Get("output"))
	snapshot := s.provider.Build(outputDir)
	s.writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) writeNotFound(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
}
