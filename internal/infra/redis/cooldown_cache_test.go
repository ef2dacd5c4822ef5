package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/repository"
)

// fakeRedis is an in-memory RedisClient; expirations are ignored.
type fakeRedis struct {
	mu sync.Mutex
	m  map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{m: make(map[string]string)}
}

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case string:
		f.m[key] = v
	case []byte:
		f.m[key] = string(v)
	}
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.m[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.m, k)
	}
	return nil
}

func (f *fakeRedis) Close() error { return nil }

// countingActivationRepo records how often the backing store was asked.
type countingActivationRepo struct {
	mu        sync.Mutex
	last      *model.ActivationRecord
	lastCalls int
}

func (r *countingActivationRepo) Save(ctx context.Context, tx repository.Tx, rec *model.ActivationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.last = &cp
	return nil
}

func (r *countingActivationRepo) FindByID(ctx context.Context, id string) (*model.ActivationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil || r.last.ID != id {
		return nil, domain.ErrNotFound
	}
	cp := *r.last
	return &cp, nil
}

func (r *countingActivationRepo) FindLastByMemberAndPartner(ctx context.Context, memberID, partnerID string) (*model.ActivationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastCalls++
	if r.last == nil || r.last.MemberID != memberID || r.last.PartnerID != partnerID {
		return nil, domain.ErrNotFound
	}
	cp := *r.last
	return &cp, nil
}

func (r *countingActivationRepo) SetFeedback(ctx context.Context, tx repository.Tx, id string, fb *model.ActivationFeedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil || r.last.ID != id {
		return domain.ErrNotFound
	}
	if r.last.Feedback != nil {
		return domain.ErrFeedbackAlreadySubmitted
	}
	cp := *fb
	r.last.Feedback = &cp
	return nil
}

func (r *countingActivationRepo) DeleteActivatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *countingActivationRepo) findCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastCalls
}

func testRecord(t *testing.T) *model.ActivationRecord {
	t.Helper()
	rec, err := model.NewActivationRecord(
		"01J8ZK0000000000000000TEST", "member-1", "partner-1", "offer-1",
		"AAAA-BBBB-CCCC", time.Now(), 2*time.Hour)
	if err != nil {
		t.Fatalf("NewActivationRecord: %v", err)
	}
	return rec
}

func TestCachedActivationRepo_MissThenHit(t *testing.T) {
	t.Parallel()

	inner := &countingActivationRepo{}
	cache := NewCachedActivationRepo(inner, newFakeRedis(), 24*time.Hour)
	if err := inner.Save(context.Background(), nil, testRecord(t)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, err := cache.FindLastByMemberAndPartner(context.Background(), "member-1", "partner-1")
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	if inner.findCalls() != 1 {
		t.Fatalf("backing store calls = %d, want 1", inner.findCalls())
	}

	again, err := cache.FindLastByMemberAndPartner(context.Background(), "member-1", "partner-1")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if inner.findCalls() != 1 {
		t.Fatalf("second lookup hit the backing store (calls = %d)", inner.findCalls())
	}
	if again.ID != rec.ID {
		t.Fatalf("cached record ID = %q, want %q", again.ID, rec.ID)
	}
}

func TestCachedActivationRepo_SaveWritesThrough(t *testing.T) {
	t.Parallel()

	inner := &countingActivationRepo{}
	cache := NewCachedActivationRepo(inner, newFakeRedis(), 24*time.Hour)

	if err := cache.Save(context.Background(), nil, testRecord(t)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := cache.FindLastByMemberAndPartner(context.Background(), "member-1", "partner-1"); err != nil {
		t.Fatalf("lookup after save: %v", err)
	}
	if inner.findCalls() != 0 {
		t.Fatalf("lookup after save hit the backing store (calls = %d)", inner.findCalls())
	}
}

func TestCachedActivationRepo_FeedbackDropsCacheEntry(t *testing.T) {
	t.Parallel()

	inner := &countingActivationRepo{}
	cache := NewCachedActivationRepo(inner, newFakeRedis(), 24*time.Hour)
	rec := testRecord(t)
	if err := cache.Save(context.Background(), nil, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fb := &model.ActivationFeedback{Rating: 5, PointsAwarded: 20, SubmittedAt: time.Now()}
	if err := cache.SetFeedback(context.Background(), nil, rec.ID, fb); err != nil {
		t.Fatalf("SetFeedback: %v", err)
	}

	got, err := cache.FindLastByMemberAndPartner(context.Background(), "member-1", "partner-1")
	if err != nil {
		t.Fatalf("lookup after feedback: %v", err)
	}
	if inner.findCalls() != 1 {
		t.Fatalf("stale cache entry served after feedback (calls = %d)", inner.findCalls())
	}
	if got.Feedback == nil || got.Feedback.Rating != 5 {
		t.Fatalf("feedback missing from reloaded record: %+v", got.Feedback)
	}
}
