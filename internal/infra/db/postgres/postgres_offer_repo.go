package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/repository"
)

var _ repository.OfferRepository = (*PostgresOfferRepo)(nil)

type PostgresOfferRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresOfferRepo(pool *pgxpool.Pool) *PostgresOfferRepo {
	return &PostgresOfferRepo{pool: pool}
}

func (r *PostgresOfferRepo) Save(ctx context.Context, tx repository.Tx, o *model.Offer) error {
	const q = `
INSERT INTO offers (
  id, partner_id, title, description, active, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6
) ON CONFLICT (id) DO UPDATE SET
  title=$3, description=$4, active=$5;
`
	_, err := execSQL(ctx, r.pool, tx, q, o.ID, o.PartnerID, o.Title, o.Description, o.Active, o.CreatedAt)
	return err
}

func (r *PostgresOfferRepo) FindByID(ctx context.Context, offerID string) (*model.Offer, error) {
	const q = `
SELECT id, partner_id, title, description, active, created_at
  FROM offers WHERE id=$1;
`
	row, err := pickRow(ctx, r.pool, nil, q, offerID)
	if err != nil {
		return nil, err
	}
	var o model.Offer
	if err := row.Scan(&o.ID, &o.PartnerID, &o.Title, &o.Description, &o.Active, &o.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *PostgresOfferRepo) ListByPartner(ctx context.Context, partnerID string) ([]*model.Offer, error) {
	const q = `
SELECT id, partner_id, title, description, active, created_at
  FROM offers WHERE partner_id=$1 ORDER BY created_at;
`
	rows, err := r.pool.Query(ctx, q, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Offer
	for rows.Next() {
		var o model.Offer
		if err := rows.Scan(&o.ID, &o.PartnerID, &o.Title, &o.Description, &o.Active, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}
