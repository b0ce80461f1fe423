package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nfoedit/nfoedit/internal/batch"
	"github.com/nfoedit/nfoedit/internal/domain"
	"github.com/nfoedit/nfoedit/internal/history"
	"github.com/nfoedit/nfoedit/internal/tmdb"
)

// Server is the HTTP API server
type Server struct {
	processor *batch.Processor
	history   *history.Store
	tmdb      *tmdb.Client
	addr      string
	mux       *http.ServeMux
}

// NewServer creates a new API server. history and tmdbClient may be nil;
// their endpoints then return empty results or 503.
func NewServer(processor *batch.Processor, hist *history.Store, tmdbClient *tmdb.Client, addr string) *Server {
	s := &Server{
		processor: processor,
		history:   hist,
		tmdb:      tmdbClient,
		addr:      addr,
		mux:       http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/batch/preview", s.previewHandler())
	s.mux.HandleFunc("/api/batch/apply", s.applyHandler())
	s.mux.HandleFunc("/api/batch/status/", s.statusHandler())
	s.mux.HandleFunc("/api/batch/tasks", s.listTasksHandler())
	s.mux.HandleFunc("/api/batch/tasks/", s.deleteTaskHandler())
	s.mux.HandleFunc("/api/history", s.historyHandler())
	s.mux.HandleFunc("/api/nfo", s.nfoHandler())
	s.mux.HandleFunc("/api/tmdb/search", s.tmdbSearchHandler())
	s.mux.HandleFunc("/api/tmdb/import/", s.tmdbImportHandler())
}

// Handler returns the server's routing handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return http.ListenAndServe(s.addr, s.mux)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// statusForError maps engine errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, batch.ErrTaskNotFound), errors.Is(err, batch.ErrDirectoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, batch.ErrResourceLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, batch.ErrTaskConflict), errors.Is(err, domain.ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, batch.ErrUnknownField), errors.Is(err, batch.ErrInvalidMode):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
