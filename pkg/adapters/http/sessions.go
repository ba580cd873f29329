package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/session"
)

// FlowInfo describes an available flow.
type FlowInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Steps int    `json:"steps"`
}

// FlowDetail is the serialisable definition of a flow.
type FlowDetail struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Intro     string            `json:"intro,omitempty"`
	Questions []domain.Question `json:"questions"`
}

// StartRequest is the body of POST /sessions.
type StartRequest struct {
	FlowID    string `json:"flow_id"`
	SessionID string `json:"session_id,omitempty"`
}

// SubmitRequest is the body of POST /sessions/{id}/answers.
type SubmitRequest struct {
	Step  *int    `json:"step"`
	Value *string `json:"value"`
}

// ListFlows handles GET /flows.
func (s *Server) ListFlows(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Flows()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]FlowInfo, 0, len(ids))
	for _, id := range ids {
		f, err := s.Engine.Flow(id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, FlowInfo{ID: f.ID(), Title: f.Title(), Steps: f.Len()})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetFlow handles GET /flows/{flowID}.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request) {
	f, err := s.Engine.Flow(chi.URLParam(r, "flowID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, FlowDetail{
		ID:        f.ID(),
		Title:     f.Title(),
		Intro:     f.Intro(),
		Questions: f.Questions(),
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.FlowID == "" {
		s.badRequest(w, "request body must carry flow_id")
		return
	}

	state, err := s.Sessions.Start(r.Context(), s.Engine, body.FlowID, body.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionExists) {
			s.writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session started", "session_id", state.SessionID, "flow_id", state.FlowID)
	s.broadcast(nil, state)
	s.writeView(w, r, http.StatusCreated, state)
}

// GetView handles GET /sessions/{sessionID}.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeView(w, r, http.StatusOK, state)
}

// DeleteSession handles DELETE /sessions/{sessionID}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitAnswer handles POST /sessions/{sessionID}/answers.
func (s *Server) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var body SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Step == nil || body.Value == nil {
		s.badRequest(w, "request body must carry step and value")
		return
	}

	value := *body.Value
	if s.sanitize != nil {
		clean, err := s.sanitize(value)
		if err != nil {
			s.logger.Warn("input rejected", "err", err, "size", len(value))
			s.badRequest(w, "invalid input: "+err.Error())
			return
		}
		value = clean
	}

	s.mutate(w, r, func(ctx context.Context, st *domain.State) (*domain.State, error) {
		return s.Engine.Submit(ctx, st, *body.Step, value)
	})
}

// Advance handles POST /sessions/{sessionID}/advance.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.Engine.Advance)
}

// Back handles POST /sessions/{sessionID}/back.
func (s *Server) Back(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.Engine.Back)
}

// Complete handles POST /sessions/{sessionID}/complete.
func (s *Server) Complete(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.Engine.Complete)
}

// GetSummary handles GET /sessions/{sessionID}/summary.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries, err := s.Engine.Summary(r.Context(), state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.SummaryEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// mutate applies op to the stored session under its lock, persists the result
// and broadcasts the diff to subscribers.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, *domain.State) (*domain.State, error)) {
	ctx := r.Context()
	var prev *domain.State
	next, err := s.Sessions.Update(ctx, chi.URLParam(r, "sessionID"), func(st *domain.State) (*domain.State, error) {
		prev = st
		return op(ctx, st)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.broadcast(prev, next)
	s.writeView(w, r, http.StatusOK, next)
}

func (s *Server) writeView(w http.ResponseWriter, r *http.Request, status int, state *domain.State) {
	view, err := s.Engine.View(r.Context(), state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, status, view)
}

func (s *Server) broadcast(prev, next *domain.State) {
	diff := domain.Diff(prev, next)
	if diff == nil {
		return
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("diff encode failed", "session_id", next.SessionID, "err", err)
		return
	}
	s.Streams.Broadcast(next.SessionID, string(payload))
}
