package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/nfoedit/nfoedit/internal/batch"
	"github.com/nfoedit/nfoedit/internal/domain"
	"github.com/nfoedit/nfoedit/internal/nfo"
	"github.com/nfoedit/nfoedit/internal/tmdb"
)

// maxStatusErrors bounds the error list in status responses
const maxStatusErrors = 20

// PreviewRequest is the batch preview request body
type PreviewRequest struct {
	Directory string `json:"directory"`
	Field     string `json:"field"`
	Value     string `json:"value"`
	Mode      string `json:"mode"`
}

// PreviewResponse is the batch preview response
type PreviewResponse struct {
	TaskID      string                 `json:"task_id"`
	TotalFiles  int                    `json:"total_files"`
	SampleFiles []domain.PreviewRecord `json:"sample_files"`
}

// ApplyRequest is the batch apply request body
type ApplyRequest struct {
	TaskID string `json:"task_id"`
}

// StatusResponse is the task status response
type StatusResponse struct {
	TaskID     string             `json:"task_id"`
	Status     string             `json:"status"`
	Progress   float64            `json:"progress"`
	Processed  int                `json:"processed"`
	Total      int                `json:"total"`
	Success    int                `json:"success"`
	Failed     int                `json:"failed"`
	Stale      bool               `json:"stale"`
	Errors     []domain.TaskError `json:"errors"`
	FailReason string             `json:"fail_reason,omitempty"`
}

func snapshotToStatus(snap domain.TaskSnapshot) StatusResponse {
	errs := snap.Errors
	if len(errs) > maxStatusErrors {
		errs = errs[len(errs)-maxStatusErrors:]
	}
	if errs == nil {
		errs = []domain.TaskError{}
	}
	return StatusResponse{
		TaskID:     snap.ID,
		Status:     string(snap.Status),
		Progress:   snap.Progress,
		Processed:  snap.Processed,
		Total:      snap.TotalFiles,
		Success:    snap.Success,
		Failed:     snap.Failed,
		Stale:      snap.Stale,
		Errors:     errs,
		FailReason: snap.FailReason,
	}
}

func (s *Server) previewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req PreviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Directory == "" || req.Field == "" {
			writeError(w, http.StatusBadRequest, "directory and field are required")
			return
		}
		if req.Mode == "" {
			req.Mode = string(domain.ModeOverwrite)
		}
		mode, err := domain.ParseMode(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		task, err := s.processor.Preview(req.Directory, req.Field, req.Value, mode)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}

		sample := task.PreviewFiles
		if len(sample) > batch.SampleSize {
			sample = sample[:batch.SampleSize]
		}

		writeJSON(w, PreviewResponse{
			TaskID:      task.ID,
			TotalFiles:  task.TotalFiles,
			SampleFiles: sample,
		})
	}
}

func (s *Server) applyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req ApplyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TaskID == "" {
			writeError(w, http.StatusBadRequest, "task_id is required")
			return
		}

		task, err := s.processor.Apply(req.TaskID)
		if err != nil {
			writeError(w, statusForError(err), err.Error())
			return
		}

		// Immediate acknowledgment; progress is observed by polling status
		writeJSON(w, map[string]string{
			"task_id": task.ID,
			"status":  string(domain.StatusRunning),
		})
	}
}

func (s *Server) statusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		taskID := strings.TrimPrefix(r.URL.Path, "/api/batch/status/")
		if taskID == "" {
			writeError(w, http.StatusBadRequest, "task ID required")
			return
		}

		task, ok := s.processor.Store().Get(taskID)
		if !ok {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}

		writeJSON(w, snapshotToStatus(task.Snapshot()))
	}
}

func (s *Server) listTasksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		tasks := s.processor.Store().ListAll()
		responses := make([]StatusResponse, 0, len(tasks))
		for _, t := range tasks {
			responses = append(responses, snapshotToStatus(t.Snapshot()))
		}
		sort.Slice(responses, func(i, j int) bool {
			return responses[i].TaskID < responses[j].TaskID
		})

		writeJSON(w, responses)
	}
}

func (s *Server) deleteTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		taskID := strings.TrimPrefix(r.URL.Path, "/api/batch/tasks/")
		if taskID == "" {
			writeError(w, http.StatusBadRequest, "task ID required")
			return
		}

		if !s.processor.Store().Delete(taskID) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}

		writeJSON(w, map[string]string{"status": "deleted"})
	}
}

func (s *Server) historyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		if s.history == nil {
			writeJSON(w, []interface{}{})
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		runs, err := s.history.List(limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, runs)
	}
}

// NFORequest is the single-record update body
type NFORequest struct {
	Path string      `json:"path"`
	Data *nfo.Record `json:"data"`
}

func (s *Server) nfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			path := r.URL.Query().Get("path")
			if path == "" {
				writeError(w, http.StatusBadRequest, "path is required")
				return
			}
			rec, err := nfo.Parse(path)
			if err != nil {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeJSON(w, map[string]interface{}{"path": path, "data": rec})

		case http.MethodPut:
			var req NFORequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" || req.Data == nil {
				writeError(w, http.StatusBadRequest, "path and data are required")
				return
			}
			if ok, errs := nfo.Validate(req.Data); !ok {
				writeError(w, http.StatusUnprocessableEntity, strings.Join(errs, "; "))
				return
			}
			if err := nfo.Save(req.Data, req.Path); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, map[string]string{"status": "saved"})

		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

// TMDBSearchItem is one search hit in the search response
type TMDBSearchItem struct {
	ID            int     `json:"id"`
	MediaType     string  `json:"media_type"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Year          string  `json:"year"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	VoteAverage   float64 `json:"vote_average"`
}

func (s *Server) tmdbSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if s.tmdb == nil {
			writeError(w, http.StatusServiceUnavailable, "tmdb lookup not configured")
			return
		}

		query := r.URL.Query().Get("q")
		if query == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}

		result, err := s.tmdb.SearchMulti(r.Context(), query, 1)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}

		items := make([]TMDBSearchItem, 0, len(result.Results))
		for _, hit := range result.Results {
			if hit.MediaType != "movie" && hit.MediaType != "tv" {
				continue
			}
			original := hit.OriginalTitle
			if original == "" {
				original = hit.OriginalName
			}
			items = append(items, TMDBSearchItem{
				ID:            hit.ID,
				MediaType:     hit.MediaType,
				Title:         hit.DisplayTitle(),
				OriginalTitle: original,
				Year:          hit.Year(),
				Overview:      hit.Overview,
				PosterPath:    hit.PosterPath,
				VoteAverage:   hit.VoteAverage,
			})
		}

		writeJSON(w, map[string]interface{}{"results": items})
	}
}

func (s *Server) tmdbImportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if s.tmdb == nil {
			writeError(w, http.StatusServiceUnavailable, "tmdb lookup not configured")
			return
		}

		// Path: /api/tmdb/import/{movie|tv}/{id}
		path := strings.TrimPrefix(r.URL.Path, "/api/tmdb/import/")
		parts := strings.SplitN(path, "/", 2)
		if len(parts) != 2 {
			writeError(w, http.StatusBadRequest, "expected /api/tmdb/import/{type}/{id}")
			return
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid tmdb id")
			return
		}

		var rec *nfo.Record
		switch parts[0] {
		case "movie":
			movie, err := s.tmdb.MovieDetails(r.Context(), id)
			if err != nil {
				writeError(w, http.StatusBadGateway, err.Error())
				return
			}
			rec = tmdb.MovieToRecord(movie)
		case "tv":
			tv, err := s.tmdb.TVDetails(r.Context(), id)
			if err != nil {
				writeError(w, http.StatusBadGateway, err.Error())
				return
			}
			rec = tmdb.TVToRecord(tv)
		default:
			writeError(w, http.StatusBadRequest, "invalid media type")
			return
		}

		writeJSON(w, rec)
	}
}
