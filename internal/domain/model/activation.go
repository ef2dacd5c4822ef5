package model

import (
	"time"

	"privilege-club/internal/domain"
)

// ActivationFeedback is the one-time feedback a member may attach to an
// activation: a required rating plus optional comment and savings amount.
type ActivationFeedback struct {
	Rating        int
	Comment       string
	SavingsAmount *float64 // nil when the member did not report savings
	PointsAwarded int
	SubmittedAt   time.Time
}

// ActivationRecord is one redemption of a privilege at a partner. It is
// immutable after creation except for Feedback, which may be set exactly
// once. The validation code is opaque; staff compare it visually.
type ActivationRecord struct {
	ID             string // ULID
	MemberID       string // UUID
	PartnerID      string // UUID
	OfferID        string // UUID
	ValidationCode string
	ActivatedAt    time.Time
	ExpiresAt      time.Time
	Feedback       *ActivationFeedback // nil until submitted
}

// NewActivationRecord validates and constructs a record. ttl is the display
// window of the validation code and must be positive.
func NewActivationRecord(id, memberID, partnerID, offerID, code string, activatedAt time.Time, ttl time.Duration) (*ActivationRecord, error) {
	if id == "" || memberID == "" || partnerID == "" || offerID == "" || code == "" {
		return nil, domain.ErrInvalidArgument
	}
	if ttl <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &ActivationRecord{
		ID:             id,
		MemberID:       memberID,
		PartnerID:      partnerID,
		OfferID:        offerID,
		ValidationCode: code,
		ActivatedAt:    activatedAt,
		ExpiresAt:      activatedAt.Add(ttl),
	}, nil
}

// HoursSince returns the elapsed time since activation in fractional hours.
func (r *ActivationRecord) HoursSince(now time.Time) float64 {
	return now.Sub(r.ActivatedAt).Hours()
}

// Expired reports whether the validation window has passed.
func (r *ActivationRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
