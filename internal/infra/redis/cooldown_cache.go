package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/repository"
	"privilege-club/internal/infra/metrics"
)

var _ repository.ActivationRepository = (*CachedActivationRepo)(nil)

// CachedActivationRepo fronts the activation store with a redis cache for
// the cooldown lookup, which runs on every polling tick. Entries live for
// the cooldown window; after that the answer no longer blocks anything and
// a database miss is acceptable.
type CachedActivationRepo struct {
	inner  repository.ActivationRepository
	client RedisClient
	ttl    time.Duration
}

func NewCachedActivationRepo(inner repository.ActivationRepository, client RedisClient, cooldown time.Duration) *CachedActivationRepo {
	return &CachedActivationRepo{inner: inner, client: client, ttl: cooldown}
}

func cooldownKey(memberID, partnerID string) string {
	return "cooldown:" + memberID + ":" + partnerID
}

func (r *CachedActivationRepo) Save(ctx context.Context, tx repository.Tx, rec *model.ActivationRecord) error {
	if err := r.inner.Save(ctx, tx, rec); err != nil {
		return err
	}
	// A fresh activation is by definition the most recent one.
	if data, err := json.Marshal(rec); err == nil {
		_ = r.client.Set(ctx, cooldownKey(rec.MemberID, rec.PartnerID), data, r.ttl)
	}
	return nil
}

func (r *CachedActivationRepo) FindByID(ctx context.Context, id string) (*model.ActivationRecord, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *CachedActivationRepo) FindLastByMemberAndPartner(ctx context.Context, memberID, partnerID string) (*model.ActivationRecord, error) {
	key := cooldownKey(memberID, partnerID)
	data, err := r.client.Get(ctx, key)
	switch {
	case err == nil:
		var rec model.ActivationRecord
		if err := json.Unmarshal([]byte(data), &rec); err == nil {
			metrics.IncCacheHit("cooldown")
			return &rec, nil
		}
		metrics.IncCacheError("cooldown")
	case err == redis.Nil:
		metrics.IncCacheMiss("cooldown")
	default:
		metrics.IncCacheError("cooldown")
	}

	rec, err := r.inner.FindLastByMemberAndPartner(ctx, memberID, partnerID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rec); err == nil {
		_ = r.client.Set(ctx, key, data, r.ttl)
	}
	return rec, nil
}

func (r *CachedActivationRepo) SetFeedback(ctx context.Context, tx repository.Tx, activationID string, fb *model.ActivationFeedback) error {
	if err := r.inner.SetFeedback(ctx, tx, activationID, fb); err != nil {
		return err
	}
	// The cached cooldown entry may now carry a stale Feedback field; drop
	// it and let the next lookup repopulate.
	if rec, err := r.inner.FindByID(ctx, activationID); err == nil {
		_ = r.client.Del(ctx, cooldownKey(rec.MemberID, rec.PartnerID))
	}
	return nil
}

func (r *CachedActivationRepo) DeleteActivatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.inner.DeleteActivatedBefore(ctx, cutoff)
}
