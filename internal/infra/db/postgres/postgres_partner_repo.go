package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/repository"
)

var _ repository.PartnerRepository = (*PostgresPartnerRepo)(nil)

type PostgresPartnerRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPartnerRepo(pool *pgxpool.Pool) *PostgresPartnerRepo {
	return &PostgresPartnerRepo{pool: pool}
}

func (r *PostgresPartnerRepo) Save(ctx context.Context, tx repository.Tx, p *model.Partner) error {
	const q = `
INSERT INTO partners (
  id, name, lat, lng, opening_hours, default_offer_id, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7
) ON CONFLICT (id) DO UPDATE SET
  name=$2, lat=$3, lng=$4, opening_hours=$5, default_offer_id=$6;
`
	hours, err := marshalSchedule(p.OpeningHours)
	if err != nil {
		return err
	}
	_, err = execSQL(ctx, r.pool, tx, q, p.ID, p.Name, p.Location.Lat, p.Location.Lng, hours, p.DefaultOfferID, p.CreatedAt)
	return err
}

func (r *PostgresPartnerRepo) FindByID(ctx context.Context, partnerID string) (*model.Partner, error) {
	const q = `
SELECT id, name, lat, lng, opening_hours, default_offer_id, created_at
  FROM partners WHERE id=$1;
`
	row, err := pickRow(ctx, r.pool, nil, q, partnerID)
	if err != nil {
		return nil, err
	}
	return scanPartner(row)
}

func (r *PostgresPartnerRepo) List(ctx context.Context) ([]*model.Partner, error) {
	const q = `
SELECT id, name, lat, lng, opening_hours, default_offer_id, created_at
  FROM partners ORDER BY name;
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPartner(row pgx.Row) (*model.Partner, error) {
	var p model.Partner
	var hours []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Location.Lat, &p.Location.Lng, &hours, &p.DefaultOfferID, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &p.OpeningHours); err != nil {
			return nil, fmt.Errorf("%w: opening_hours: %v", domain.ErrReadDatabaseRow, err)
		}
	}
	return &p, nil
}

// marshalSchedule stores the weekly schedule as JSONB; a nil schedule is
// stored as NULL and read back as always open.
func marshalSchedule(ws model.WeeklySchedule) ([]byte, error) {
	if ws == nil {
		return nil, nil
	}
	return json.Marshal(ws)
}
