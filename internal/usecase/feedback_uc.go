package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/repository"
)

// FeedbackConfig controls the loyalty points awarded on submission. Zero
// values fall back to the product defaults: 10 base, 2 per rating star,
// 5 bonus when a savings amount is reported.
type FeedbackConfig struct {
	BasePoints      int
	PerRatingPoints int
	SavingsBonus    int
}

func (c FeedbackConfig) withDefaults() FeedbackConfig {
	if c.BasePoints <= 0 {
		c.BasePoints = 10
	}
	if c.PerRatingPoints <= 0 {
		c.PerRatingPoints = 2
	}
	if c.SavingsBonus <= 0 {
		c.SavingsBonus = 5
	}
	return c
}

// FeedbackUseCase captures post-activation feedback and credits loyalty
// points. One submission per activation record; duplicates are rejected.
type FeedbackUseCase struct {
	activations repository.ActivationRepository
	members     repository.MemberRepository
	txm         repository.TransactionManager // optional; nil runs the non-transactional path
	cfg         FeedbackConfig
	log         *zerolog.Logger
}

func NewFeedbackUseCase(
	activations repository.ActivationRepository,
	members repository.MemberRepository,
	txm repository.TransactionManager,
	cfg FeedbackConfig,
	logger *zerolog.Logger,
) *FeedbackUseCase {
	l := logger.With().Str("component", "FeedbackUseCase").Logger()
	return &FeedbackUseCase{
		activations: activations,
		members:     members,
		txm:         txm,
		cfg:         cfg.withDefaults(),
		log:         &l,
	}
}

// Submit validates and stores feedback, returning the points awarded.
//
// A rating outside 1..5 or a negative savings amount is rejected locally
// before any repository call. The feedback write and the points credit
// happen in one transaction when a TransactionManager is available.
func (uc *FeedbackUseCase) Submit(ctx context.Context, activationID string, rating int, comment string, savingsAmount *float64) (int, error) {
	if rating < 1 || rating > 5 {
		return 0, domain.ErrInvalidRating
	}
	if savingsAmount != nil && *savingsAmount < 0 {
		return 0, domain.ErrInvalidArgument
	}

	rec, err := uc.activations.FindByID(ctx, activationID)
	if err != nil {
		return 0, err
	}
	if rec.Feedback != nil {
		return 0, domain.ErrFeedbackAlreadySubmitted
	}

	points := uc.cfg.BasePoints + uc.cfg.PerRatingPoints*rating
	if savingsAmount != nil {
		points += uc.cfg.SavingsBonus
	}
	fb := &model.ActivationFeedback{
		Rating:        rating,
		Comment:       comment,
		SavingsAmount: savingsAmount,
		PointsAwarded: points,
		SubmittedAt:   time.Now(),
	}

	write := func(ctx context.Context, tx repository.Tx) error {
		if err := uc.activations.SetFeedback(ctx, tx, activationID, fb); err != nil {
			return err
		}
		return uc.members.AddPoints(ctx, tx, rec.MemberID, points)
	}
	if uc.txm != nil {
		err = uc.txm.WithTx(ctx, pgx.TxOptions{}, write)
	} else {
		err = write(ctx, nil)
	}
	if err != nil {
		return 0, err
	}

	uc.log.Info().
		Str("activation_id", activationID).
		Int("rating", rating).
		Int("points", points).
		Msg("feedback recorded")
	return points, nil
}
