package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/adapter"
	"privilege-club/internal/infra/metrics"
)

var _ adapter.LocationProvider = (*LocationCache)(nil)

// LocationCache holds the last position each member's device reported.
// The TTL is the staleness bound: once a report ages out, Current returns
// a location timeout and the caller fails closed.
type LocationCache struct {
	client RedisClient
	maxAge time.Duration
}

func NewLocationCache(client RedisClient, maxAge time.Duration) *LocationCache {
	return &LocationCache{client: client, maxAge: maxAge}
}

func locationKey(memberID string) string { return "location:" + memberID }

// Report stores a freshly reported position for the member.
func (c *LocationCache) Report(ctx context.Context, memberID string, coords model.Coordinates) error {
	data, err := json.Marshal(coords)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, locationKey(memberID), data, c.maxAge)
}

func (c *LocationCache) Current(ctx context.Context, memberID string) (model.Coordinates, error) {
	data, err := c.client.Get(ctx, locationKey(memberID))
	if err == redis.Nil {
		metrics.IncCacheMiss("location")
		return model.Coordinates{}, domain.ErrLocationTimeout
	}
	if err != nil {
		metrics.IncCacheError("location")
		return model.Coordinates{}, err
	}
	var coords model.Coordinates
	if err := json.Unmarshal([]byte(data), &coords); err != nil {
		metrics.IncCacheError("location")
		return model.Coordinates{}, err
	}
	metrics.IncCacheHit("location")
	return coords, nil
}
