package adapter

import (
	"context"

	"privilege-club/internal/domain/model"
)

// SubscriptionGate is the boundary to the subscription collaborator.
// A transport failure is reported as an error and treated as "not
// eligible"; the engine never interprets why a subscription is inactive.
type SubscriptionGate interface {
	Status(ctx context.Context, memberID string) (model.SubscriptionStatus, error)
}
