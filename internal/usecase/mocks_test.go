package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/repository"
)

// memPartnerRepo is a small in-memory implementation used by unit tests.
type memPartnerRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Partner
}

func newMemPartnerRepo() *memPartnerRepo {
	return &memPartnerRepo{store: make(map[string]*model.Partner)}
}

func (m *memPartnerRepo) Save(ctx context.Context, tx repository.Tx, p *model.Partner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPartnerRepo) FindByID(ctx context.Context, id string) (*model.Partner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPartnerRepo) List(ctx context.Context) ([]*model.Partner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Partner, 0, len(m.store))
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memOfferRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Offer
}

func newMemOfferRepo() *memOfferRepo {
	return &memOfferRepo{store: make(map[string]*model.Offer)}
}

func (m *memOfferRepo) Save(ctx context.Context, tx repository.Tx, o *model.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.store[o.ID] = &cp
	return nil
}

func (m *memOfferRepo) FindByID(ctx context.Context, id string) (*model.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOfferRepo) ListByPartner(ctx context.Context, partnerID string) ([]*model.Offer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Offer
	for _, o := range m.store {
		if o.PartnerID == partnerID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memMemberRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Member
}

func newMemMemberRepo() *memMemberRepo {
	return &memMemberRepo{store: make(map[string]*model.Member)}
}

func (m *memMemberRepo) Save(ctx context.Context, tx repository.Tx, mem *model.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *mem
	m.store[mem.ID] = &cp
	return nil
}

func (m *memMemberRepo) FindByID(ctx context.Context, id string) (*model.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mem, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *mem
	return &cp, nil
}

func (m *memMemberRepo) AddPoints(ctx context.Context, tx repository.Tx, id string, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	mem.LoyaltyPoints += points
	return nil
}

// memActivationRepo keeps activations in memory and counts writes so tests
// can assert that no network-side effect happened.
type memActivationRepo struct {
	mu           sync.RWMutex
	store        map[string]*model.ActivationRecord
	saveErr      error
	findErr      error
	feedbackSets int
}

func newMemActivationRepo() *memActivationRepo {
	return &memActivationRepo{store: make(map[string]*model.ActivationRecord)}
}

func (m *memActivationRepo) Save(ctx context.Context, tx repository.Tx, rec *model.ActivationRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.store[rec.ID] = &cp
	return nil
}

func (m *memActivationRepo) FindByID(ctx context.Context, id string) (*model.ActivationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memActivationRepo) FindLastByMemberAndPartner(ctx context.Context, memberID, partnerID string) (*model.ActivationRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var last *model.ActivationRecord
	for _, rec := range m.store {
		if rec.MemberID != memberID || rec.PartnerID != partnerID {
			continue
		}
		if last == nil || rec.ActivatedAt.After(last.ActivatedAt) {
			last = rec
		}
	}
	if last == nil {
		return nil, domain.ErrNotFound
	}
	cp := *last
	return &cp, nil
}

func (m *memActivationRepo) SetFeedback(ctx context.Context, tx repository.Tx, id string, fb *model.ActivationFeedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.Feedback != nil {
		return domain.ErrFeedbackAlreadySubmitted
	}
	m.feedbackSets++
	cp := *fb
	rec.Feedback = &cp
	return nil
}

func (m *memActivationRepo) DeleteActivatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, rec := range m.store {
		if rec.ActivatedAt.Before(cutoff) {
			delete(m.store, id)
			n++
		}
	}
	return n, nil
}

// stubLocationProvider returns a fixed position or a typed failure and
// counts how often it was asked.
type stubLocationProvider struct {
	mu    sync.Mutex
	loc   model.Coordinates
	err   error
	calls int
}

func (s *stubLocationProvider) Current(ctx context.Context, memberID string) (model.Coordinates, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return model.Coordinates{}, s.err
	}
	return s.loc, nil
}

func (s *stubLocationProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubSubscriptionGate reports a fixed subscription status or a transport
// failure.
type stubSubscriptionGate struct {
	mu     sync.Mutex
	active bool
	err    error
}

func (s *stubSubscriptionGate) Status(ctx context.Context, memberID string) (model.SubscriptionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.SubscriptionStatus{}, s.err
	}
	return model.SubscriptionStatus{Active: s.active}, nil
}

func (s *stubSubscriptionGate) setActive(v bool) {
	s.mu.Lock()
	s.active = v
	s.mu.Unlock()
}
