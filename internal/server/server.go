package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ChicagoDave/scwdeck/pkg/deck"
)

// Server is the local preview server. Every request rebuilds the project
// from disk, so edits show up on reload.
type Server struct {
	projectPath string
	port        int
	log         *zap.Logger
}

// New creates a server for the given project directory.
func New(projectPath string, port int, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		projectPath: projectPath,
		port:        port,
		log:         log,
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/deck", s.handleDeck)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/lattice", s.handleLattice)
	mux.HandleFunc("GET /api/manifest", s.handleManifest)
	mux.HandleFunc("GET /api/dimensions", s.handleDimensions)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("scwdeck server starting",
		zap.String("url", fmt.Sprintf("http://localhost:%d", s.port)),
		zap.String("project", s.projectPath),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("scwdeck server stopping")
		return srv.Shutdown(shutdownCtx)
	}
}

// build runs the pipeline, answering with 500 when the spec cannot be read.
func (s *Server) build(w http.ResponseWriter) (*deck.Build, bool) {
	b, err := deck.BuildProject(s.projectPath, s.log)
	if err != nil {
		s.log.Error("build failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return b, true
}

// buildValid also requires a clean report, answering with the report and
// 422 otherwise.
func (s *Server) buildValid(w http.ResponseWriter) (*deck.Build, bool) {
	b, ok := s.build(w)
	if !ok {
		return nil, false
	}
	if !b.Report.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, b.Report)
		return nil, false
	}
	return b, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>scwdeck</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div>
<h1>scwdeck</h1>
<ul>
<li><a style="color:#8cf" href="/api/deck">deck</a></li>
<li><a style="color:#8cf" href="/api/validation">validation</a></li>
<li><a style="color:#8cf" href="/api/lattice">lattice</a></li>
<li><a style="color:#8cf" href="/api/dimensions">dimensions</a></li>
<li><a style="color:#8cf" href="/api/manifest">manifest</a></li>
</ul>
</div>
</body></html>`)
}

func (s *Server) handleDeck(w http.ResponseWriter, _ *http.Request) {
	b, ok := s.buildValid(w)
	if !ok {
		return
	}
	data, err := b.Deck.Bytes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	b, ok := s.build(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b.Report)
}

func (s *Server) handleLattice(w http.ResponseWriter, _ *http.Request) {
	b, ok := s.buildValid(w)
	if !ok {
		return
	}
	if b.Deck.Lattice == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "spec has no lattice"})
		return
	}
	writeJSON(w, http.StatusOK, b.Deck.Lattice)
}

func (s *Server) handleDimensions(w http.ResponseWriter, _ *http.Request) {
	b, ok := s.build(w)
	if !ok {
		return
	}
	if b.Dimensions == nil {
		writeJSON(w, http.StatusUnprocessableEntity, b.Report)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order":  b.Dimensions.Order(),
		"values": b.Dimensions.Values(),
	})
}

func (s *Server) handleManifest(w http.ResponseWriter, _ *http.Request) {
	b, ok := s.buildValid(w)
	if !ok {
		return
	}
	data, err := b.Deck.Bytes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, deck.NewManifest(b.Deck, b.Spec.OutputPath(), data))
}
