package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/repository"
)

var _ repository.MemberRepository = (*PostgresMemberRepo)(nil)

type PostgresMemberRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresMemberRepo(pool *pgxpool.Pool) *PostgresMemberRepo {
	return &PostgresMemberRepo{pool: pool}
}

func (r *PostgresMemberRepo) Save(ctx context.Context, tx repository.Tx, m *model.Member) error {
	const q = `
INSERT INTO members (
  id, email, display_name, loyalty_points, joined_at
) VALUES (
  $1,$2,$3,$4,$5
) ON CONFLICT (id) DO UPDATE SET
  email=$2, display_name=$3;
`
	_, err := execSQL(ctx, r.pool, tx, q, m.ID, m.Email, m.DisplayName, m.LoyaltyPoints, m.JoinedAt)
	return err
}

func (r *PostgresMemberRepo) FindByID(ctx context.Context, memberID string) (*model.Member, error) {
	const q = `
SELECT id, email, display_name, loyalty_points, joined_at
  FROM members WHERE id=$1;
`
	row, err := pickRow(ctx, r.pool, nil, q, memberID)
	if err != nil {
		return nil, err
	}
	var m model.Member
	if err := row.Scan(&m.ID, &m.Email, &m.DisplayName, &m.LoyaltyPoints, &m.JoinedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresMemberRepo) AddPoints(ctx context.Context, tx repository.Tx, memberID string, points int) error {
	const q = `
UPDATE members SET loyalty_points = loyalty_points + $2 WHERE id=$1;
`
	tag, err := execSQL(ctx, r.pool, tx, q, memberID, points)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
