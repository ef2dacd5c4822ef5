package web

import (
	"context"
	"sync"
	"time"

	"privilege-club/internal/domain"
	"privilege-club/internal/domain/model"
	"privilege-club/internal/domain/ports/repository"
)

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

type memActivationRepo struct {
	mu    sync.RWMutex
	store map[string]*model.ActivationRecord
}

func newMemActivationRepo() *memActivationRepo {
	return &memActivationRepo{store: make(map[string]*model.ActivationRecord)}
}

func (m *memActivationRepo) Save(ctx context.Context, tx repository.Tx, rec *model.ActivationRecord) error {
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

// memLocationStore plays both sides of the location flow: the web layer
// pushes reported positions in, the eligibility engine reads them back.
type memLocationStore struct {
	mu    sync.RWMutex
	store map[string]model.Coordinates
}

func newMemLocationStore() *memLocationStore {
	return &memLocationStore{store: make(map[string]model.Coordinates)}
}

func (m *memLocationStore) Report(ctx context.Context, memberID string, coords model.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[memberID] = coords
	return nil
}

func (m *memLocationStore) Current(ctx context.Context, memberID string) (model.Coordinates, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coords, ok := m.store[memberID]
	if !ok {
		return model.Coordinates{}, domain.ErrLocationTimeout
	}
	return coords, nil
}

type stubSubscriptionGate struct {
	mu     sync.Mutex
	active bool
}

func (s *stubSubscriptionGate) Status(ctx context.Context, memberID string) (model.SubscriptionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.SubscriptionStatus{Active: s.active}, nil
}
