package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/blackwell-systems/repoeval/internal/evaluate"
	"github.com/blackwell-systems/repoeval/internal/github"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuccessResponse wraps a completed evaluation.
type SuccessResponse struct {
	Success bool             `json:"success"`
	Data    *evaluate.Result `json:"data"`
}

type analyzeRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "GitHub Repository Evaluator API is running",
	})
}

func (s *Server) handleAnalyzeURL(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large",
				fmt.Sprintf("Request body must not exceed %d bytes", tooLarge.Limit))
			return
		}
		writeJSONError(w, http.StatusBadRequest, "Invalid request body", "Request body must be JSON of the form {\"url\": \"...\"}")
		return
	}
	if req.URL == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing repository URL", "Please provide a GitHub repository URL")
		return
	}

	owner, repo, err := github.ParseRepoURL(req.URL)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid GitHub URL",
			"Please provide a valid GitHub repository URL (e.g., https://github.com/owner/repo)")
		return
	}
	s.analyze(w, r, owner, repo)
}

func (s *Server) handleAnalyzePath(w http.ResponseWriter, r *http.Request) {
	owner, repo := r.PathValue("owner"), r.PathValue("repo")
	if owner == "" || repo == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing parameters", "Please provide both owner and repo parameters")
		return
	}
	s.analyze(w, r, owner, repo)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, owner, repo string) {
	log := s.logger.With("owner", owner, "repo", repo, "request_id", requestID(r.Context()))
	log.Info("analyzing repository")

	snap, err := s.fetcher.FetchSnapshot(r.Context(), owner, repo)
	if err != nil {
		kind := failureKind(err)
		s.metrics.fetchFailures.WithLabelValues(kind).Inc()
		log.Warn("fetch failed", "kind", kind, "error", err)
		switch kind {
		case "not_found":
			writeJSONError(w, http.StatusNotFound, "Repository not found", "The specified repository does not exist or is private")
		case "forbidden":
			writeJSONError(w, http.StatusForbidden, "Access denied", "This repository is private or access is restricted")
		default:
			writeJSONError(w, http.StatusInternalServerError, "Analysis failed", err.Error())
		}
		return
	}

	res, err := s.evaluator.Evaluate(snap)
	if err != nil {
		log.Error("evaluation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Analysis failed", err.Error())
		return
	}

	s.metrics.evaluations.WithLabelValues(string(res.Level)).Inc()
	s.metrics.scores.Observe(float64(res.Score))
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: res})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, http.StatusNotFound, "Not found", "The requested endpoint does not exist")
}

// failureKind buckets a fetch error for status mapping and metrics.
func failureKind(err error) string {
	switch {
	case github.IsNotFound(err):
		return "not_found"
	case github.IsForbidden(err):
		return "forbidden"
	case errors.Is(err, github.ErrInvalidURL):
		return "invalid_url"
	default:
		return "other"
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
