package repository

import (
	"context"
	"time"

	"privilege-club/internal/domain/model"
)

// ActivationRepository persists activation records and their one-time
// feedback.
type ActivationRepository interface {
	Save(ctx context.Context, tx Tx, rec *model.ActivationRecord) error
	FindByID(ctx context.Context, id string) (*model.ActivationRecord, error)
	// FindLastByMemberAndPartner returns the most recent activation for the
	// (member, partner) pair, or domain.ErrNotFound when none exists. This
	// is the cooldown signal; it is scoped per pair, not per member.
	FindLastByMemberAndPartner(ctx context.Context, memberID, partnerID string) (*model.ActivationRecord, error)
	// SetFeedback writes the feedback fields exactly once; a second write
	// returns domain.ErrFeedbackAlreadySubmitted.
	SetFeedback(ctx context.Context, tx Tx, activationID string, fb *model.ActivationFeedback) error
	// DeleteActivatedBefore removes records activated before the cutoff.
	// The cutoff must stay far beyond the cooldown horizon or the cooldown
	// signal would be destroyed. Returns the number of rows removed.
	DeleteActivatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
