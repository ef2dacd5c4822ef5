package model

import (
	"time"

	"privilege-club/internal/domain"
)

// Offer is a privilege (discount or perk) a partner makes available to
// subscribed members.
type Offer struct {
	ID          string // UUID
	PartnerID   string // UUID
	Title       string
	Description string
	Active      bool
	CreatedAt   time.Time
}

// NewOffer validates and constructs an offer.
func NewOffer(id, partnerID, title, description string) (*Offer, error) {
	if id == "" || partnerID == "" || title == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Offer{
		ID:          id,
		PartnerID:   partnerID,
		Title:       title,
		Description: description,
		Active:      true,
		CreatedAt:   time.Now(),
	}, nil
}
