package repository

import (
	"context"

	"privilege-club/internal/domain/model"
)

type MemberRepository interface {
	Save(ctx context.Context, tx Tx, member *model.Member) error
	FindByID(ctx context.Context, memberID string) (*model.Member, error)
	// AddPoints atomically credits loyalty points to the member's balance.
	AddPoints(ctx context.Context, tx Tx, memberID string, points int) error
}
