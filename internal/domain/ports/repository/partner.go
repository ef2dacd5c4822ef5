package repository

import (
	"context"

	"privilege-club/internal/domain/model"
)

// PartnerRepository is the read-mostly port over partner-management data.
type PartnerRepository interface {
	Save(ctx context.Context, tx Tx, partner *model.Partner) error
	FindByID(ctx context.Context, partnerID string) (*model.Partner, error)
	List(ctx context.Context) ([]*model.Partner, error)
}
