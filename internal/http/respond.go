package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
	"github.com/Clark-Hu/movie-catalog/internal/repository"
	"github.com/Clark-Hu/movie-catalog/internal/store"
)

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error().Err(err).Msg("http: failed to encode response")
		}
	}
}

func (s *Server) respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// respondStoreError maps catalog errors onto status codes. Not-found becomes 404;
// store, attach and formatting failures become 500 with the underlying error
// text in details. A request abandoned by its client is logged at debug level.
func (s *Server) respondStoreError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, repository.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}
	if errors.Is(err, context.Canceled) {
		s.logger.Debug().Err(err).Msg("http: request cancelled by client")
		s.respondError(w, http.StatusInternalServerError, "REQUEST_CANCELLED", message)
		return
	}

	var (
		attachErr *store.AttachError
		queryErr  *repository.QueryError
		formatErr *domain.FormatError
		code      = "INTERNAL_ERROR"
	)
	switch {
	case errors.As(err, &attachErr):
		code = "STORE_ATTACH_ERROR"
	case errors.As(err, &queryErr):
		code = "QUERY_ERROR"
	case errors.As(err, &formatErr):
		code = "FORMAT_ERROR"
	}

	s.logger.Error().Err(err).Str("code", code).Msg(message)
	s.respondJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    code,
		Message: message,
		Details: err.Error(),
	})
}
