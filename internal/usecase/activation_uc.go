package usecase

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/repository"
)

// ActivationConfig carries activation parameters. A zero CodeTTL falls
// back to a 2 hour validation window.
type ActivationConfig struct {
	CodeTTL time.Duration
}

// ActivationUseCase creates activation records for eligible members.
type ActivationUseCase struct {
	eligibility *EligibilityUseCase
	partners    repository.PartnerRepository
	offers      repository.OfferRepository
	activations repository.ActivationRepository
	cfg         ActivationConfig
	log         *zerolog.Logger
}

func NewActivationUseCase(
	eligibility *EligibilityUseCase,
	partners repository.PartnerRepository,
	offers repository.OfferRepository,
	activations repository.ActivationRepository,
	cfg ActivationConfig,
	logger *zerolog.Logger,
) *ActivationUseCase {
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 2 * time.Hour
	}
	l := logger.With().Str("component", "ActivationUseCase").Logger()
	return &ActivationUseCase{
		eligibility: eligibility,
		partners:    partners,
		offers:      offers,
		activations: activations,
		cfg:         cfg,
		log:         &l,
	}
}

// Activate re-validates all four conditions at request time; the caller's
// last poll may be up to a poll interval stale, so a remembered
// CanActivate flag is never trusted. On a negative decision the fresh
// report is returned alongside domain.ErrNotEligible so the caller can
// show the current blocking reasons.
func (uc *ActivationUseCase) Activate(ctx context.Context, memberID, partnerID string) (*model.ActivationRecord, *model.EligibilityReport, error) {
	report, err := uc.eligibility.Evaluate(ctx, memberID, partnerID)
	if err != nil {
		return nil, nil, err
	}
	if !report.CanActivate {
		return nil, report, domain.ErrNotEligible
	}

	partner, err := uc.partners.FindByID(ctx, partnerID)
	if err != nil {
		return nil, nil, err
	}
	offer, err := uc.offers.FindByID(ctx, partner.DefaultOfferID)
	if err != nil {
		return nil, nil, err
	}
	if !offer.Active {
		return nil, nil, domain.ErrOfferUnavailable
	}

	code, err := generateValidationCode()
	if err != nil {
		return nil, nil, err
	}
	rec, err := model.NewActivationRecord(ulid.Make().String(), memberID, partnerID, offer.ID, code, time.Now(), uc.cfg.CodeTTL)
	if err != nil {
		return nil, nil, err
	}
	if err := uc.activations.Save(ctx, nil, rec); err != nil {
		return nil, nil, err
	}

	uc.log.Info().
		Str("member_id", memberID).
		Str("partner_id", partnerID).
		Str("activation_id", rec.ID).
		Time("expires_at", rec.ExpiresAt).
		Msg("privilege activated")
	return rec, report, nil
}
