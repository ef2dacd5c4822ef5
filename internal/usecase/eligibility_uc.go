package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/adapter"
	"privilege-club/internal/domain/ports/repository"
)

// Reason strings surfaced to members, always appended in the same order:
// subscription, distance, opening hours, cooldown. Detection failures
// collapse to the single generic reason.
const (
	reasonNoSubscription  = "no active subscription"
	reasonClosed          = "partner is currently closed"
	reasonDetectionFailed = "could not verify eligibility, please try again"
)

func reasonTooFar(meters float64) string {
	return fmt.Sprintf("too far (%.0fm)", meters)
}

func reasonRecentActivation(hoursAgo float64) string {
	return fmt.Sprintf("recent activation (%dh ago)", int(math.Floor(hoursAgo)))
}

// EligibilityConfig carries the engine thresholds. Zero values fall back to
// the product defaults: 100 m radius, 24 h cooldown, 10 s location timeout.
type EligibilityConfig struct {
	ProximityRadiusMeters float64
	Cooldown              time.Duration
	LocationTimeout       time.Duration
}

func (c EligibilityConfig) withDefaults() EligibilityConfig {
	if c.ProximityRadiusMeters <= 0 {
		c.ProximityRadiusMeters = 100
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 24 * time.Hour
	}
	if c.LocationTimeout <= 0 {
		c.LocationTimeout = 10 * time.Second
	}
	return c
}

// EligibilityUseCase combines live location, subscription state, opening
// hours and cooldown history into a single activation decision.
type EligibilityUseCase struct {
	partners    repository.PartnerRepository
	activations repository.ActivationRepository
	location    adapter.LocationProvider
	subs        adapter.SubscriptionGate
	cfg         EligibilityConfig
	log         *zerolog.Logger
}

func NewEligibilityUseCase(
	partners repository.PartnerRepository,
	activations repository.ActivationRepository,
	location adapter.LocationProvider,
	subs adapter.SubscriptionGate,
	cfg EligibilityConfig,
	logger *zerolog.Logger,
) *EligibilityUseCase {
	l := logger.With().Str("component", "EligibilityUseCase").Logger()
	return &EligibilityUseCase{
		partners:    partners,
		activations: activations,
		location:    location,
		subs:        subs,
		cfg:         cfg.withDefaults(),
		log:         &l,
	}
}

// Evaluate gathers the four signals and reduces them to a report.
//
// An unknown partner surfaces as domain.ErrNotFound. Every signal-gathering
// failure (location denied or timed out, subscription service unreachable,
// history lookup failure) degrades to a fail-closed report carrying a single
// generic reason and no partial fields; it is never returned as an error.
// Business ineligibility is data, not an error.
func (uc *EligibilityUseCase) Evaluate(ctx context.Context, memberID, partnerID string) (*model.EligibilityReport, error) {
	partner, err := uc.partners.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	locCtx, cancel := context.WithTimeout(ctx, uc.cfg.LocationTimeout)
	defer cancel()
	loc, err := uc.location.Current(locCtx, memberID)
	if err != nil {
		uc.log.Warn().Err(err).Str("member_id", memberID).Msg("location unavailable")
		return failClosedReport(), nil
	}

	status, err := uc.subs.Status(ctx, memberID)
	if err != nil {
		uc.log.Warn().Err(err).Str("member_id", memberID).Msg("subscription status unavailable")
		return failClosedReport(), nil
	}

	last, err := uc.activations.FindLastByMemberAndPartner(ctx, memberID, partnerID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.log.Warn().Err(err).Str("member_id", memberID).Str("partner_id", partnerID).Msg("activation history unavailable")
			return failClosedReport(), nil
		}
		last = nil
	}

	return evaluate(loc, partner, status, last, time.Now(), uc.cfg), nil
}

// evaluate is the pure decision core: synchronous and side-effect-free
// given its inputs. All four conditions must hold for CanActivate; reasons
// are additive, never short-circuited, so the member sees every blocking
// factor at once.
func evaluate(loc model.Coordinates, partner *model.Partner, status model.SubscriptionStatus, last *model.ActivationRecord, now time.Time, cfg EligibilityConfig) *model.EligibilityReport {
	dist := model.DistanceMeters(loc, partner.Location)
	report := &model.EligibilityReport{
		DistanceMeters:  &dist,
		IsOpen:          partner.OpeningHours.IsOpenAt(now),
		HasSubscription: status.Active,
		Reasons:         make([]string, 0, 4),
	}
	if last != nil {
		report.LastActivation = &model.LastActivation{HoursAgo: last.HoursSince(now)}
	}

	if !report.HasSubscription {
		report.Reasons = append(report.Reasons, reasonNoSubscription)
	}
	if dist > cfg.ProximityRadiusMeters {
		report.Reasons = append(report.Reasons, reasonTooFar(dist))
	}
	if !report.IsOpen {
		report.Reasons = append(report.Reasons, reasonClosed)
	}
	if report.LastActivation != nil && report.LastActivation.HoursAgo < cfg.Cooldown.Hours() {
		report.Reasons = append(report.Reasons, reasonRecentActivation(report.LastActivation.HoursAgo))
	}
	report.CanActivate = len(report.Reasons) == 0
	return report
}

// failClosedReport is the degraded outcome when a signal could not be
// gathered. No partial fields: a report built from stale or defaulted
// coordinates must never satisfy the proximity check.
func failClosedReport() *model.EligibilityReport {
	return &model.EligibilityReport{Reasons: []string{reasonDetectionFailed}}
}
