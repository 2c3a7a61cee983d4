package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
)

// Server previews a built site: it serves the output directory, exposes the
// rendered sequence payload as JSON, and answers health checks.
type Server struct {
	router chi.Router
	log    *slog.Logger
	outDir string

	mu   sync.RWMutex
	data map[string]any
}

// New creates the preview server over outDir with the given render payload.
func New(log *slog.Logger, outDir string, data map[string]any) *Server {
	s := &Server{
		log:    log,
		outDir: outDir,
		data:   data,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetData swaps in a freshly built render payload. Watch mode calls this
// after every rebuild.
func (s *Server) SetData(data map[string]any) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/api/sequence", s.handleSequence)
	r.Handle("/*", http.FileServer(http.Dir(s.outDir)))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encode sequence payload", "error", err)
	}
}
