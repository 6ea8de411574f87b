package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/drainline/pkg/errors"
)

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// StatusCode maps an error code to an HTTP status.
func StatusCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidProject,
		errors.ErrCodeInvalidLimits, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeOutletNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNoActiveProject, errors.ErrCodeProjectExists:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := StatusCode(code)
	resp := errorResponse{Code: code, Message: errors.UserMessage(err)}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", middleware.GetReqID(r.Context()))
		resp = errorResponse{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func errBadBody(err error) error {
	return errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err)
}
