package http

import (
	"errors"
	"net/http"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/observability"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Op     string `json:"op,omitempty"`
	Step   *int   `json:"step,omitempty"`
	Key    string `json:"key,omitempty"`
}

// StatusOf maps an engine or store error to an HTTP status.
// Answers that do not satisfy a question are 422; operations that do not
// fit the session's position are 409.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrFlowNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidValue), errors.Is(err, domain.ErrStepIncomplete):
		return http.StatusUnprocessableEntity
	case domain.IsValidation(err):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDeliveryFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	body := ErrorResponse{Error: err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		step := verr.Step
		body.Reason = observability.Reason(err)
		body.Op = verr.Op
		body.Step = &step
		body.Key = verr.Key
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "err", err)
		if status == http.StatusInternalServerError {
			body.Error = "internal error"
		}
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, body)
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}
