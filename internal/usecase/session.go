package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
)

// SessionState is the lifecycle position of an activation session.
type SessionState string

const (
	StateIdle              SessionState = "idle"
	StateDetecting         SessionState = "detecting"
	StateEligible          SessionState = "eligible"
	StateIneligible        SessionState = "ineligible"
	StateActivating        SessionState = "activating"
	StateActive            SessionState = "active"
	StateAwaitingFeedback  SessionState = "awaiting_feedback"
	StateFeedbackSubmitted SessionState = "feedback_submitted"
	StateClosed            SessionState = "closed"
)

// SessionSnapshot is a point-in-time view for the presentation layer.
type SessionSnapshot struct {
	State         SessionState
	Report        *model.EligibilityReport
	Record        *model.ActivationRecord
	PointsAwarded int
}

// SessionConfig carries session parameters. A zero PollInterval falls back
// to 30 seconds.
type SessionConfig struct {
	PollInterval time.Duration
}

// ActivationSession owns the lifecycle of one member looking at one
// partner's privilege:
//
//	Idle -> Detecting -> {Eligible|Ineligible} -> Activating -> Active
//	     -> {AwaitingFeedback -> FeedbackSubmitted} -> Closed
//
// Ineligible loops back through Detecting on every poll tick until the
// conditions are met or the session is closed. Closing is terminal from
// any state and stops all background work.
//
// Ticks run on a single loop goroutine and are therefore strictly
// serialized. A generation counter guards against the remaining race: a
// tick whose evaluation was in flight when the session activated or closed
// is superseded and its result discarded.
type ActivationSession struct {
	memberID  string
	partnerID string

	eligibility *EligibilityUseCase
	activation  *ActivationUseCase
	feedback    *FeedbackUseCase

	interval time.Duration
	onChange func(SessionSnapshot) // optional observer, invoked outside the lock
	log      *zerolog.Logger

	mu         sync.Mutex
	state      SessionState
	report     *model.EligibilityReport
	record     *model.ActivationRecord
	points     int
	generation uint64
	tickCancel context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewActivationSession(
	memberID, partnerID string,
	eligibility *EligibilityUseCase,
	activation *ActivationUseCase,
	feedback *FeedbackUseCase,
	cfg SessionConfig,
	logger *zerolog.Logger,
	onChange func(SessionSnapshot),
) *ActivationSession {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	l := logger.With().
		Str("component", "ActivationSession").
		Str("member_id", memberID).
		Str("partner_id", partnerID).
		Logger()
	return &ActivationSession{
		memberID:    memberID,
		partnerID:   partnerID,
		eligibility: eligibility,
		activation:  activation,
		feedback:    feedback,
		interval:    interval,
		onChange:    onChange,
		log:         &l,
		state:       StateIdle,
		done:        make(chan struct{}),
	}
}

// Start moves the session from Idle to Detecting, runs one evaluation
// immediately and then polls every interval. Calling Start twice has no
// effect.
func (s *ActivationSession) Start(parentCtx context.Context) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(parentCtx)
	s.ctx = ctx
	s.cancel = cancel
	s.state = StateDetecting
	s.mu.Unlock()

	s.notify()
	go s.loop(ctx)
}

func (s *ActivationSession) loop(ctx context.Context) {
	defer close(s.done)

	s.runTick(ctx) // immediate evaluation on entry
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

// runTick performs one evaluation cycle. Polling only continues while the
// session is still deciding; once an activation is underway or done, ticks
// become no-ops. An Ineligible session re-enters Detecting for the length
// of the evaluation, so observers see the loop, not a frozen verdict.
func (s *ActivationSession) runTick(ctx context.Context) {
	s.mu.Lock()
	reentered := false
	switch s.state {
	case StateIneligible:
		s.state = StateDetecting
		reentered = true
	case StateDetecting, StateEligible:
	default:
		s.mu.Unlock()
		return
	}
	gen := s.generation
	tickCtx, cancel := context.WithTimeout(ctx, s.interval)
	s.tickCancel = cancel
	s.mu.Unlock()

	if reentered {
		s.notify()
	}

	report, err := s.eligibility.Evaluate(tickCtx, s.memberID, s.partnerID)
	cancel()

	s.mu.Lock()
	if s.generation != gen {
		// superseded by an activation or close while in flight
		s.mu.Unlock()
		return
	}
	switch s.state {
	case StateDetecting, StateEligible, StateIneligible:
	default:
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("evaluation failed")
		s.report = failClosedReport()
		s.state = StateIneligible
	} else {
		s.report = report
		if report.CanActivate {
			s.state = StateEligible
		} else {
			s.state = StateIneligible
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Activate is the user-initiated activation request. The session must
// currently be Eligible; the use case then re-validates all conditions
// freshly, so a decision that went stale since the last poll cannot slip
// through.
func (s *ActivationSession) Activate(ctx context.Context) (*model.ActivationRecord, error) {
	s.mu.Lock()
	if s.state != StateEligible {
		s.mu.Unlock()
		return nil, domain.ErrNotEligible
	}
	s.state = StateActivating
	s.generation++
	if s.tickCancel != nil {
		s.tickCancel()
	}
	s.mu.Unlock()
	s.notify()

	rec, report, err := s.activation.Activate(ctx, s.memberID, s.partnerID)

	s.mu.Lock()
	if s.state == StateClosed {
		// dismissed mid-request; the record, if created, persists server-side
		s.mu.Unlock()
		return rec, err
	}
	if err != nil {
		if report != nil {
			s.report = report
		}
		s.state = StateIneligible // polling resumes on the next tick
		s.mu.Unlock()
		s.notify()
		return nil, err
	}
	s.record = rec
	s.report = report
	s.state = StateActive
	s.mu.Unlock()
	s.notify()
	return rec, nil
}

// OpenFeedback moves an Active session to AwaitingFeedback. Feedback is
// optional; a member may close the session without ever calling this.
func (s *ActivationSession) OpenFeedback() error {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return domain.ErrInvalidArgument
	}
	s.state = StateAwaitingFeedback
	s.mu.Unlock()
	s.notify()
	return nil
}

// SubmitFeedback forwards the member's rating, optional comment and
// optional savings amount. Validation failures leave the state untouched.
func (s *ActivationSession) SubmitFeedback(ctx context.Context, rating int, comment string, savingsAmount *float64) (int, error) {
	s.mu.Lock()
	if s.state != StateAwaitingFeedback {
		s.mu.Unlock()
		return 0, domain.ErrInvalidArgument
	}
	rec := s.record
	s.mu.Unlock()
	if rec == nil {
		return 0, domain.ErrNotFound
	}

	points, err := s.feedback.Submit(ctx, rec.ID, rating, comment, savingsAmount)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return points, nil
	}
	s.points = points
	s.state = StateFeedbackSubmitted
	s.mu.Unlock()
	s.notify()
	return points, nil
}

// Close is the terminal transition, valid from any state. It cancels the
// polling loop and any in-flight evaluation; no background work outlives
// the session.
func (s *ActivationSession) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	s.generation++
	if s.tickCancel != nil {
		s.tickCancel()
	}
	cancel := s.cancel
	started := s.ctx != nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if started {
		<-s.done
	}
	s.notify()
}

// Snapshot returns a point-in-time copy of the session for rendering.
func (s *ActivationSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		State:         s.state,
		Report:        s.report,
		Record:        s.record,
		PointsAwarded: s.points,
	}
}

// StartDisplayClock runs a cosmetic one-second wall clock while an
// activation is live, calling fn with the time left on the validation
// window. Purely presentational; no state transition depends on it. The
// goroutine stops when the window closes or the session leaves the
// Active/AwaitingFeedback states.
func (s *ActivationSession) StartDisplayClock(fn func(remaining time.Duration)) {
	if fn == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			snap := s.Snapshot()
			if snap.Record == nil {
				return
			}
			switch snap.State {
			case StateActive, StateAwaitingFeedback, StateFeedbackSubmitted:
			default:
				return
			}
			remaining := time.Until(snap.Record.ExpiresAt)
			if remaining <= 0 {
				fn(0)
				return
			}
			fn(remaining)
		}
	}()
}

func (s *ActivationSession) notify() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.Snapshot())
}
