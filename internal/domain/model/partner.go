package model

import (
	"time"

	"privilege-club/internal/domain"
)

// Partner is a local business offering privileges to members. Owned by the
// partner-management subsystem; the engine only reads it.
type Partner struct {
	ID             string // UUID
	Name           string
	Location       Coordinates
	OpeningHours   WeeklySchedule // nil means always open
	DefaultOfferID string         // UUID of the offer activated by default
	CreatedAt      time.Time
}

// NewPartner validates and constructs a partner.
func NewPartner(id, name string, location Coordinates, hours WeeklySchedule, defaultOfferID string) (*Partner, error) {
	if id == "" || name == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Partner{
		ID:             id,
		Name:           name,
		Location:       location,
		OpeningHours:   hours,
		DefaultOfferID: defaultOfferID,
		CreatedAt:      time.Now(),
	}, nil
}
