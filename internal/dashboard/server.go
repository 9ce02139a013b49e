package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"PeakWatch/internal/model"
)

// Style is the renderer's presentation knobs. The core decides the sign;
// the style maps it to a color.
type Style struct {
	UpColor        string
	DownColor      string
	MutedColor     string
	RefreshSeconds int
}

// DefaultStyle mirrors the original dashboard's palette.
func DefaultStyle(refreshSeconds int) Style {
	return Style{
		UpColor:        "#e03131",
		DownColor:      "#1971c2",
		MutedColor:     "#868e96",
		RefreshSeconds: refreshSeconds,
	}
}

// Server renders the latest snapshot over HTTP. It keeps no history: each
// published snapshot replaces the previous one.
type Server struct {
	addr  string
	style Style
	srv   *http.Server

	mu     sync.RWMutex
	latest *model.Snapshot
}

// NewServer creates a dashboard server listening on addr.
func NewServer(addr string, style Style) *Server {
	s := &Server{addr: addr, style: style}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/api/snapshot", s.handleSnapshot).Methods("GET")
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Publish stores the snapshot as the current render source. Implements the
// scheduler's Sink.
func (s *Server) Publish(snap *model.Snapshot) {
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()
}

// Latest returns the most recently published snapshot, or nil before the
// first tick completes.
func (s *Server) Latest() *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	log.Printf("[INFO] dashboard listening on %s", s.addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{Snapshot: s.Latest(), Style: s.style}); err != nil {
		log.Printf("[ERROR] render dashboard: %v", err)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.Latest()
	if snap == nil {
		http.Error(w, `{"error":"no snapshot yet"}`, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		log.Printf("[ERROR] encode snapshot: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := "warming_up"
	if s.Latest() != nil {
		status = "ok"
	}
	fmt.Fprintf(w, `{"status":%q}`, status)
}
