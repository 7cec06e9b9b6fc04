package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/service"

	"github.com/google/uuid"
)

// MockEventBus
type MockEventBus struct {
	mu        sync.Mutex
	Events    []service.OrderEvent
	PublishFn func(ctx context.Context, e service.OrderEvent) error
}

func (m *MockEventBus) PublishOrderEvent(ctx context.Context, e service.OrderEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, e)
	m.mu.Unlock()
	if m.PublishFn != nil {
		return m.PublishFn(ctx, e)
	}
	return nil
}

func (m *MockEventBus) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		out = append(out, e.Type)
	}
	return out
}

// MockPasswordHasher
type MockPasswordHasher struct {
	HashFunc    func(password string) (string, error)
	CompareFunc func(hash, password string) bool
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *MockPasswordHasher) Compare(hash, password string) bool {
	if m.CompareFunc != nil {
		return m.CompareFunc(hash, password)
	}
	return hash == "hashed:"+password
}

// MockTokenProvider
type MockTokenProvider struct {
	SignAccessFunc func(ctx context.Context, sub uuid.UUID, isAdmin bool, ttl time.Duration) (string, time.Time, error)
	ParseFunc      func(ctx context.Context, token string) (*service.Claims, error)
}

func (m *MockTokenProvider) SignAccess(ctx context.Context, sub uuid.UUID, isAdmin bool, ttl time.Duration) (string, time.Time, error) {
	if m.SignAccessFunc != nil {
		return m.SignAccessFunc(ctx, sub, isAdmin, ttl)
	}
	return "token-" + sub.String(), time.Now().Add(ttl), nil
}

func (m *MockTokenProvider) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(ctx, token)
	}
	return nil, nil
}

// MockRateLimiter хранит счётчики в памяти, TTL игнорируется
type MockRateLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{counts: map[string]int64{}}
}

func (m *MockRateLimiter) Hit(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *MockRateLimiter) Count(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key], nil
}

func (m *MockRateLimiter) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, key)
	return nil
}

// MockProductCache
type MockProductCache struct {
	products    []models.Product
	hit         bool
	Gets        int
	Sets        int
	Invalidated int
}

func (m *MockProductCache) GetProducts(context.Context) ([]models.Product, bool, error) {
	m.Gets++
	return m.products, m.hit, nil
}

func (m *MockProductCache) SetProducts(_ context.Context, p []models.Product) error {
	m.Sets++
	m.products, m.hit = p, true
	return nil
}

func (m *MockProductCache) InvalidateProducts(context.Context) error {
	m.Invalidated++
	m.products, m.hit = nil, false
	return nil
}

func customerCtx(id uuid.UUID) context.Context {
	return service.WithIdentity(context.Background(), id, false)
}

func adminCtx() context.Context {
	return service.WithIdentity(context.Background(), uuid.New(), true)
}
