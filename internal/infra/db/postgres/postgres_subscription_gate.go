package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/adapter"
)

var _ adapter.SubscriptionGate = (*PostgresSubscriptionGate)(nil)

// PostgresSubscriptionGate answers the subscription question from the
// member_subscriptions table owned by the billing subsystem. Failures are
// returned as-is; callers decide what a missing answer means.
type PostgresSubscriptionGate struct {
	pool *pgxpool.Pool
}

func NewPostgresSubscriptionGate(pool *pgxpool.Pool) *PostgresSubscriptionGate {
	return &PostgresSubscriptionGate{pool: pool}
}

func (g *PostgresSubscriptionGate) Status(ctx context.Context, memberID string) (model.SubscriptionStatus, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM member_subscriptions
   WHERE member_id=$1 AND status='active' AND expires_at > $2
);
`
	var active bool
	if err := g.pool.QueryRow(ctx, q, memberID, time.Now()).Scan(&active); err != nil {
		return model.SubscriptionStatus{}, err
	}
	return model.SubscriptionStatus{Active: active}, nil
}
