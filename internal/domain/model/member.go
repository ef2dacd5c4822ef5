package model

import (
	"time"

	"privilege-club/internal/domain"
)

// Member is a subscribing user of the platform.
type Member struct {
	ID            string // UUID
	Email         string
	DisplayName   string
	LoyaltyPoints int
	JoinedAt      time.Time
}

// NewMember validates and constructs a member.
func NewMember(id, email, displayName string) (*Member, error) {
	if id == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Member{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		JoinedAt:    time.Now(),
	}, nil
}
