package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/repository"
)

var _ repository.ActivationRepository = (*PostgresActivationRepo)(nil)

type PostgresActivationRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresActivationRepo(pool *pgxpool.Pool) *PostgresActivationRepo {
	return &PostgresActivationRepo{pool: pool}
}

func (r *PostgresActivationRepo) Save(ctx context.Context, tx repository.Tx, rec *model.ActivationRecord) error {
	const q = `
INSERT INTO activations (
  id, member_id, partner_id, offer_id, validation_code, activated_at, expires_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7
);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		rec.ID, rec.MemberID, rec.PartnerID, rec.OfferID, rec.ValidationCode, rec.ActivatedAt, rec.ExpiresAt)
	return err
}

func (r *PostgresActivationRepo) FindByID(ctx context.Context, id string) (*model.ActivationRecord, error) {
	const q = `
SELECT id, member_id, partner_id, offer_id, validation_code, activated_at, expires_at,
       feedback_rating, feedback_comment, feedback_savings, feedback_points, feedback_at
  FROM activations WHERE id=$1;
`
	row, err := pickRow(ctx, r.pool, nil, q, id)
	if err != nil {
		return nil, err
	}
	return scanActivation(row)
}

func (r *PostgresActivationRepo) FindLastByMemberAndPartner(ctx context.Context, memberID, partnerID string) (*model.ActivationRecord, error) {
	const q = `
SELECT id, member_id, partner_id, offer_id, validation_code, activated_at, expires_at,
       feedback_rating, feedback_comment, feedback_savings, feedback_points, feedback_at
  FROM activations
 WHERE member_id=$1 AND partner_id=$2
 ORDER BY activated_at DESC LIMIT 1;
`
	row, err := pickRow(ctx, r.pool, nil, q, memberID, partnerID)
	if err != nil {
		return nil, err
	}
	return scanActivation(row)
}

func (r *PostgresActivationRepo) SetFeedback(ctx context.Context, tx repository.Tx, activationID string, fb *model.ActivationFeedback) error {
	// The IS NULL guard makes the write first-wins under concurrency.
	const q = `
UPDATE activations
   SET feedback_rating=$2, feedback_comment=$3, feedback_savings=$4, feedback_points=$5, feedback_at=$6
 WHERE id=$1 AND feedback_rating IS NULL;
`
	tag, err := execSQL(ctx, r.pool, tx, q,
		activationID, fb.Rating, fb.Comment, fb.SavingsAmount, fb.PointsAwarded, fb.SubmittedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		const check = `SELECT feedback_rating IS NOT NULL FROM activations WHERE id=$1;`
		row, err := pickRow(ctx, r.pool, tx, check, activationID)
		if err != nil {
			return err
		}
		var submitted bool
		if err := row.Scan(&submitted); err != nil {
			if err == pgx.ErrNoRows {
				return domain.ErrNotFound
			}
			return err
		}
		if submitted {
			return domain.ErrFeedbackAlreadySubmitted
		}
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresActivationRepo) DeleteActivatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM activations WHERE activated_at < $1;`
	tag, err := r.pool.Exec(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanActivation(row pgx.Row) (*model.ActivationRecord, error) {
	var rec model.ActivationRecord
	var (
		rating  *int
		comment *string
		savings *float64
		points  *int
		at      *time.Time
	)
	if err := row.Scan(&rec.ID, &rec.MemberID, &rec.PartnerID, &rec.OfferID, &rec.ValidationCode,
		&rec.ActivatedAt, &rec.ExpiresAt, &rating, &comment, &savings, &points, &at); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if rating != nil {
		fb := &model.ActivationFeedback{Rating: *rating, SavingsAmount: savings}
		if comment != nil {
			fb.Comment = *comment
		}
		if points != nil {
			fb.PointsAwarded = *points
		}
		if at != nil {
			fb.SubmittedAt = *at
		}
		rec.Feedback = fb
	}
	return &rec, nil
}
