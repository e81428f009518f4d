package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"CryptoBuckets/internal/journal"
	"CryptoBuckets/internal/scheduler"
)

type passRunner interface {
	Latest() *scheduler.TickResult
	RunNow() *scheduler.TickResult
}

type journalHealth interface {
	LastJournalError() error
}

// Server exposes the HTML dashboard and a small JSON API over the latest
// refresh pass.
type Server struct {
	Addr       string
	Sched      passRunner
	Journal    *journal.Journal
	Dispatcher journalHealth
}

// NewServer creates a web server instance.
func NewServer(addr string, sched passRunner, j *journal.Journal, d journalHealth) *Server {
	return &Server{Addr: addr, Sched: sched, Journal: j, Dispatcher: d}
}

// stateResponse is the /api/state payload.
type stateResponse struct {
	Latest         *scheduler.TickResult `json:"latest"`
	JournalStats   journal.Stats         `json:"journal_stats"`
	JournalEntries []journal.Entry       `json:"journal_entries"`
	JournalError   string                `json:"journal_error,omitempty"`
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/api/state", s.handleState)
	r.Post("/api/refresh", s.handleRefresh)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("[INFO] web server listening on %s", s.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, s.Sched.Latest())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, s.Sched.RunNow())
}

func (s *Server) writeState(w http.ResponseWriter, latest *scheduler.TickResult) {
	resp := stateResponse{Latest: latest}

	if stats, err := s.Journal.Stats(); err == nil {
		resp.JournalStats = stats
	} else {
		log.Printf("[WARN] journal stats: %v", err)
	}
	if entries, err := s.Journal.Read(20); err == nil {
		resp.JournalEntries = entries
	} else {
		log.Printf("[WARN] journal read: %v", err)
	}
	if s.Dispatcher != nil {
		if err := s.Dispatcher.LastJournalError(); err != nil {
			resp.JournalError = err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[WARN] encode state response: %v", err)
	}
}
