package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raysh454/seolens/internal/app"
	"github.com/raysh454/seolens/internal/auditor"
	"github.com/raysh454/seolens/internal/logging"
	"github.com/raysh454/seolens/internal/pagination"
	"github.com/raysh454/seolens/internal/render"
	"github.com/raysh454/seolens/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeData(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, Envelope{Message: msg, Data: data})
}

func writePage(w http.ResponseWriter, msg string, data any, info pagination.Info) {
	writeJSON(w, http.StatusOK, Envelope{Message: msg, Data: data, Info: &info})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Message: msg})
}

// fail maps err onto a status and a client-safe message. Unexpected errors
// are logged and reported as 500 without detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			logging.F("method", r.Method),
			logging.F("path", r.URL.Path),
			logging.Err(err))
	} else {
		s.logger.Warn("request rejected",
			logging.F("path", r.URL.Path),
			logging.F("status", status),
			logging.Err(err))
	}
	writeError(w, status, msg)
}

func classify(err error) (int, string) {
	var runErr *auditor.RunError
	switch {
	case errors.As(err, &runErr):
		return http.StatusBadRequest, "audit failed for " + runErr.Target
	case errors.Is(err, auditor.ErrEngineFailure),
		errors.Is(err, auditor.ErrResourceAcquisition),
		errors.Is(err, auditor.ErrNormalization):
		return http.StatusBadRequest, "audit failed"
	case errors.Is(err, app.ErrJobNotFound):
		return http.StatusNotFound, "Job doesn't exist"
	case errors.Is(err, app.ErrNoAudits):
		return http.StatusNotFound, "Project has no audits yet"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Project doesn't exist"
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "You already have an entry for this url"
	case errors.Is(err, app.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, render.ErrRender):
		return http.StatusInternalServerError, "Failed to create PDF"
	default:
		return http.StatusInternalServerError, "Something went wrong, please try again later"
	}
}
