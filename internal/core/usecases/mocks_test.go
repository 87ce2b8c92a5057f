package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/trailhead/internal/core/domain"
	"github.com/samirrijal/trailhead/internal/core/ports"
)

// --- Mock ActivityRepository ---

type mockActivityRepo struct {
	listFn         func(ctx context.Context) ([]domain.Activity, error)
	listInBoundsFn func(ctx context.Context, b domain.Bounds) ([]domain.Activity, error)
	listByBudgetFn func(ctx context.Context, level domain.BudgetLevel) ([]domain.Activity, error)
	createFn       func(ctx context.Context, a *domain.Activity) error
}

func (m *mockActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	if m.createFn != nil {
		return m.createFn(ctx, a)
	}
	a.ID = 99
	return nil
}

func (m *mockActivityRepo) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	return nil, domain.ErrNotFound
}

func (m *mockActivityRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Activity, error) {
	return nil, nil
}

func (m *mockActivityRepo) List(ctx context.Context) ([]domain.Activity, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockActivityRepo) ListByCategory(ctx context.Context, category string) ([]domain.Activity, error) {
	return nil, nil
}

func (m *mockActivityRepo) ListByBudget(ctx context.Context, level domain.BudgetLevel) ([]domain.Activity, error) {
	if m.listByBudgetFn != nil {
		return m.listByBudgetFn(ctx, level)
	}
	return nil, nil
}

func (m *mockActivityRepo) ListInBounds(ctx context.Context, b domain.Bounds) ([]domain.Activity, error) {
	if m.listInBoundsFn != nil {
		return m.listInBoundsFn(ctx, b)
	}
	return nil, nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache { return &mockCache{data: make(map[string][]byte)} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu       sync.Mutex
	created  []int64
	placed   []int64
	statuses []domain.OrderStatus
	err      error
}

func (m *mockPublisher) PublishActivityCreated(ctx context.Context, a *domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, a.ID)
	return m.err
}

func (m *mockPublisher) PublishOrderPlaced(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.placed = append(m.placed, o.ID)
	return m.err
}

func (m *mockPublisher) PublishOrderStatus(ctx context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, o.Status)
	return m.err
}

// --- Mock Recommender ---

type mockRecommender struct {
	recommendFn func(ctx context.Context, req ports.RecommendationRequest, candidates []ports.CandidateActivity) (*ports.RecommendationResult, error)
}

func (m *mockRecommender) Recommend(ctx context.Context, req ports.RecommendationRequest, candidates []ports.CandidateActivity) (*ports.RecommendationResult, error) {
	return m.recommendFn(ctx, req, candidates)
}

// --- Mock FulfillmentStarter ---

type mockStarter struct {
	started []int64
	err     error
}

func (m *mockStarter) StartFulfillment(ctx context.Context, orderID, userID int64) error {
	m.started = append(m.started, orderID)
	return m.err
}
