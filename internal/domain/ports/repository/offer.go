package repository

import (
	"context"

	"privilege-club/internal/domain/model"
)

type OfferRepository interface {
	Save(ctx context.Context, tx Tx, offer *model.Offer) error
	FindByID(ctx context.Context, offerID string) (*model.Offer, error)
	ListByPartner(ctx context.Context, partnerID string) ([]*model.Offer, error)
}
