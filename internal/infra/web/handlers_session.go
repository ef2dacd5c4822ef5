package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/infra/metrics"
	"privilege-club/internal/usecase"
)

type sessionResponse struct {
	SessionID     string               `json:"session_id"`
	State         string               `json:"state"`
	Report        *eligibilityResponse `json:"report,omitempty"`
	Activation    *activationResponse  `json:"activation,omitempty"`
	PointsAwarded int                  `json:"points_awarded,omitempty"`
}

func toSessionResponse(id string, snap usecase.SessionSnapshot) sessionResponse {
	resp := sessionResponse{
		SessionID:     id,
		State:         string(snap.State),
		PointsAwarded: snap.PointsAwarded,
	}
	if snap.Report != nil {
		rep := toEligibilityResponse(snap.Report)
		resp.Report = &rep
	}
	if snap.Record != nil {
		resp.Activation = &activationResponse{
			ID:             snap.Record.ID,
			PartnerID:      snap.Record.PartnerID,
			OfferID:        snap.Record.OfferID,
			ValidationCode: snap.Record.ValidationCode,
			ActivatedAt:    snap.Record.ActivatedAt,
			ExpiresAt:      snap.Record.ExpiresAt,
		}
	}
	return resp
}

// handleSessionCreate starts a polling activation session for the member at
// the partner. The session runs on its own goroutine until closed; the poll
// cadence comes from the engine config. An optional body position seeds the
// member's reported location.
func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	memberID := memberIDFrom(r)
	partnerID := chi.URLParam(r, "partnerID")

	if _, err := s.partners.FindByID(ctx, partnerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Partner not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to open session", http.StatusInternalServerError)
		return
	}

	if r.ContentLength > 0 {
		var req positionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		coords, err := model.NewCoordinates(req.Lat, req.Lng)
		if err != nil {
			http.Error(w, "Invalid coordinates", http.StatusBadRequest)
			return
		}
		if err := s.locations.Report(ctx, memberID, coords); err != nil {
			s.log.Error().Err(err).Msg("store reported position")
			http.Error(w, "Failed to open session", http.StatusInternalServerError)
			return
		}
	}

	id := uuid.NewString()
	sess := usecase.NewActivationSession(
		memberID, partnerID,
		s.eligibilityUC, s.activationUC, s.feedbackUC,
		s.sessionCfg, s.log, nil,
	)
	s.sessMu.Lock()
	s.sessions[id] = &memberSession{memberID: memberID, session: sess}
	s.sessMu.Unlock()

	// The loop must outlive this request; it is cancelled by DELETE or
	// server shutdown, not by the request context.
	sess.Start(context.Background())

	writeJSON(w, http.StatusCreated, toSessionResponse(id, sess.Snapshot()))
}

// lookupSession resolves the session ID and enforces ownership. Another
// member's session is indistinguishable from a missing one.
func (s *Server) lookupSession(r *http.Request) (string, *usecase.ActivationSession, bool) {
	id := chi.URLParam(r, "sessionID")
	s.sessMu.Lock()
	defer s.sessMu.Unlock()
	ms, ok := s.sessions[id]
	if !ok || ms.memberID != memberIDFrom(r) {
		return "", nil, false
	}
	return id, ms.session, true
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookupSession(r)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(id, sess.Snapshot()))
}

// handleSessionActivate triggers the member's activation request through
// the session state machine, which re-validates eligibility freshly.
func (s *Server) handleSessionActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, sess, ok := s.lookupSession(r)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	if r.ContentLength > 0 {
		var req positionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		coords, err := model.NewCoordinates(req.Lat, req.Lng)
		if err != nil {
			http.Error(w, "Invalid coordinates", http.StatusBadRequest)
			return
		}
		if err := s.locations.Report(ctx, memberIDFrom(r), coords); err != nil {
			s.log.Error().Err(err).Msg("store reported position")
			http.Error(w, "Failed to activate", http.StatusInternalServerError)
			return
		}
	}

	_, err := sess.Activate(ctx)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotEligible):
			metrics.IncActivationsRejected()
			writeJSON(w, http.StatusConflict, toSessionResponse(id, sess.Snapshot()))
		case errors.Is(err, domain.ErrOfferUnavailable):
			metrics.IncActivationsRejected()
			http.Error(w, "Offer unavailable", http.StatusConflict)
		default:
			http.Error(w, "Failed to activate", http.StatusInternalServerError)
		}
		return
	}

	metrics.IncActivationsCreated()
	writeJSON(w, http.StatusOK, toSessionResponse(id, sess.Snapshot()))
}

// handleSessionFeedback opens the feedback form if needed and submits it.
func (s *Server) handleSessionFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, sess, ok := s.lookupSession(r)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	snap := sess.Snapshot()
	switch snap.State {
	case usecase.StateActive:
		if err := sess.OpenFeedback(); err != nil {
			http.Error(w, "No activation to review", http.StatusConflict)
			return
		}
	case usecase.StateAwaitingFeedback:
	default:
		http.Error(w, "No activation to review", http.StatusConflict)
		return
	}

	points, err := sess.SubmitFeedback(ctx, req.Rating, req.Comment, req.SavingsAmount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRating), errors.Is(err, domain.ErrInvalidArgument):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrFeedbackAlreadySubmitted):
			http.Error(w, "Feedback already submitted", http.StatusConflict)
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "Activation not found", http.StatusNotFound)
		default:
			http.Error(w, "Failed to submit feedback", http.StatusInternalServerError)
		}
		return
	}

	metrics.ObserveFeedback(req.Rating, points)
	writeJSON(w, http.StatusOK, toSessionResponse(id, sess.Snapshot()))
}

// handleSessionClose tears the session down; the polling loop and any
// in-flight evaluation stop before the response is written.
func (s *Server) handleSessionClose(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookupSession(r)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	s.sessMu.Lock()
	delete(s.sessions, id)
	s.sessMu.Unlock()
	sess.Close()

	w.WriteHeader(http.StatusNoContent)
}
