package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/repository"
	"privilege-club/internal/infra/logging"
	"privilege-club/internal/usecase"
)

// LocationReporter receives device positions pushed by member clients.
type LocationReporter interface {
	Report(ctx context.Context, memberID string, coords model.Coordinates) error
}

type Server struct {
	eligibilityUC *usecase.EligibilityUseCase
	activationUC  *usecase.ActivationUseCase
	feedbackUC    *usecase.FeedbackUseCase
	partners      repository.PartnerRepository
	locations     LocationReporter
	auth          *AuthManager
	sessionCfg    usecase.SessionConfig
	log           *zerolog.Logger

	sessMu   sync.Mutex
	sessions map[string]*memberSession
}

// memberSession binds a running activation session to its owner.
type memberSession struct {
	memberID string
	session  *usecase.ActivationSession
}

func NewServer(
	eligibilityUC *usecase.EligibilityUseCase,
	activationUC *usecase.ActivationUseCase,
	feedbackUC *usecase.FeedbackUseCase,
	partners repository.PartnerRepository,
	locations LocationReporter,
	auth *AuthManager,
	sessionCfg usecase.SessionConfig,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		eligibilityUC: eligibilityUC,
		activationUC:  activationUC,
		feedbackUC:    feedbackUC,
		partners:      partners,
		locations:     locations,
		auth:          auth,
		sessionCfg:    sessionCfg,
		log:           &l,
		sessions:      make(map[string]*memberSession),
	}
}

// Shutdown closes every live activation session, stopping their polling
// goroutines.
func (s *Server) Shutdown() {
	s.sessMu.Lock()
	live := make([]*memberSession, 0, len(s.sessions))
	for _, ms := range s.sessions {
		live = append(live, ms)
	}
	s.sessions = make(map[string]*memberSession)
	s.sessMu.Unlock()

	for _, ms := range live {
		ms.session.Close()
	}
}

// Router builds the HTTP surface. Member routes sit behind the session
// middleware; health and metrics are open.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.sessionMiddleware)
		r.Get("/partners/{partnerID}", s.handlePartnerGet)
		r.Post("/partners/{partnerID}/eligibility", s.handleEligibility)
		r.Post("/partners/{partnerID}/activations", s.handleActivate)
		r.Post("/activations/{activationID}/feedback", s.handleFeedback)

		r.Post("/partners/{partnerID}/session", s.handleSessionCreate)
		r.Get("/sessions/{sessionID}", s.handleSessionGet)
		r.Post("/sessions/{sessionID}/activate", s.handleSessionActivate)
		r.Post("/sessions/{sessionID}/feedback", s.handleSessionFeedback)
		r.Delete("/sessions/{sessionID}", s.handleSessionClose)
	})

	return r
}

type ctxKey int

const memberIDKey ctxKey = iota

// requestLogger tags every request with a fresh request ID and logs its
// outcome with timing.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := logging.WithRequestID(r.Context(), reqID)
		w.Header().Set("X-Request-ID", reqID)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		s.log.Debug().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

// sessionMiddleware authenticates the member session and stashes the
// member ID in the request context.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), memberIDKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func memberIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(memberIDKey).(string)
	return id
}
