package service

import (
	"context"
	"io"
	"time"

	"github.com/makpal80/avtoray/internal/models"

	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type Claims struct {
	UserID  uuid.UUID
	IsAdmin bool
	Exp     time.Time
}

type TokenProvider interface {
	SignAccess(ctx context.Context, sub uuid.UUID, isAdmin bool, ttl time.Duration) (token string, exp time.Time, err error)
	ParseAndValidateAccess(ctx context.Context, token string) (*Claims, error)
}

// ProductCache keeps the public catalog listing. A nil cache disables caching.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]models.Product, bool, error)
	SetProducts(ctx context.Context, products []models.Product) error
	InvalidateProducts(ctx context.Context) error
}

// RateLimiter counts failures per key inside a sliding TTL window.
type RateLimiter interface {
	Hit(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Count(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

type ReportWriter interface {
	WriteOrders(w io.Writer, title string, orders []*models.Order) error
}
