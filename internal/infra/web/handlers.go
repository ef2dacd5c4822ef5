package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/infra/metrics"
)

type positionRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type lastActivationDTO struct {
	HoursAgo float64 `json:"hours_ago"`
}

type eligibilityResponse struct {
	CanActivate     bool               `json:"can_activate"`
	DistanceMeters  *float64           `json:"distance_meters,omitempty"`
	IsOpen          bool               `json:"is_open"`
	HasSubscription bool               `json:"has_subscription"`
	LastActivation  *lastActivationDTO `json:"last_activation,omitempty"`
	Reasons         []string           `json:"reasons"`
}

func toEligibilityResponse(rep *model.EligibilityReport) eligibilityResponse {
	resp := eligibilityResponse{
		CanActivate:     rep.CanActivate,
		DistanceMeters:  rep.DistanceMeters,
		IsOpen:          rep.IsOpen,
		HasSubscription: rep.HasSubscription,
		Reasons:         rep.Reasons,
	}
	if rep.LastActivation != nil {
		resp.LastActivation = &lastActivationDTO{HoursAgo: rep.LastActivation.HoursAgo}
	}
	if resp.Reasons == nil {
		resp.Reasons = []string{} // marshal as [], not null
	}
	return resp
}

type activationResponse struct {
	ID             string    `json:"id"`
	PartnerID      string    `json:"partner_id"`
	OfferID        string    `json:"offer_id"`
	ValidationCode string    `json:"validation_code"`
	ActivatedAt    time.Time `json:"activated_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type feedbackRequest struct {
	Rating        int      `json:"rating"`
	Comment       string   `json:"comment"`
	SavingsAmount *float64 `json:"savings_amount,omitempty"`
}

type partnerResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	OpenNow        bool    `json:"open_now"`
	DefaultOfferID string  `json:"default_offer_id"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleEligibility ingests the device position from the request body and
// runs one eligibility evaluation against it.
func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	memberID := memberIDFrom(r)
	partnerID := chi.URLParam(r, "partnerID")

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
		http.Error(w, "Failed to evaluate eligibility", http.StatusInternalServerError)
		return
	}

	rep, err := s.eligibilityUC.Evaluate(ctx, memberID, partnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Partner not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to evaluate eligibility", http.StatusInternalServerError)
		return
	}

	metrics.ObserveEligibility(rep.CanActivate, len(rep.Reasons))
	// A report with no distance means a signal could not be gathered and
	// the evaluation failed closed.
	if !rep.CanActivate && rep.DistanceMeters == nil {
		metrics.IncDetectionFailure()
	}
	writeJSON(w, http.StatusOK, toEligibilityResponse(rep))
}

// handleActivate creates an activation. The decision is re-validated at
// request time; a stale eligible poll does not authorize anything. An
// optional body position refreshes the stored location first.
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	memberID := memberIDFrom(r)
	partnerID := chi.URLParam(r, "partnerID")

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
			http.Error(w, "Failed to activate", http.StatusInternalServerError)
			return
		}
	}

	rec, rep, err := s.activationUC.Activate(ctx, memberID, partnerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotEligible):
			metrics.IncActivationsRejected()
			writeJSON(w, http.StatusConflict, toEligibilityResponse(rep))
		case errors.Is(err, domain.ErrOfferUnavailable):
			metrics.IncActivationsRejected()
			http.Error(w, "Offer unavailable", http.StatusConflict)
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "Partner not found", http.StatusNotFound)
		default:
			http.Error(w, "Failed to activate", http.StatusInternalServerError)
		}
		return
	}

	metrics.IncActivationsCreated()
	writeJSON(w, http.StatusCreated, activationResponse{
		ID:             rec.ID,
		PartnerID:      rec.PartnerID,
		OfferID:        rec.OfferID,
		ValidationCode: rec.ValidationCode,
		ActivatedAt:    rec.ActivatedAt,
		ExpiresAt:      rec.ExpiresAt,
	})
}

// handleFeedback stores the one-time feedback for an activation and
// returns the points credited.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	activationID := chi.URLParam(r, "activationID")

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	points, err := s.feedbackUC.Submit(ctx, activationID, req.Rating, req.Comment, req.SavingsAmount)
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
	writeJSON(w, http.StatusOK, struct {
		PointsAwarded int `json:"points_awarded"`
	}{PointsAwarded: points})
}

func (s *Server) handlePartnerGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	partnerID := chi.URLParam(r, "partnerID")

	p, err := s.partners.FindByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Partner not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load partner", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, partnerResponse{
		ID:             p.ID,
		Name:           p.Name,
		Lat:            p.Location.Lat,
		Lng:            p.Location.Lng,
		OpenNow:        p.OpeningHours.IsOpenAt(time.Now()),
		DefaultOfferID: p.DefaultOfferID,
	})
}
