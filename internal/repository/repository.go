package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB         *gorm.DB
	Users      UserRepo
	Products   ProductRepo
	Variants   VariantRepo
	Orders     OrderRepo
	OrderLines OrderLineRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Users:      NewUserRepo(db),
		Products:   NewProductRepo(db),
		Variants:   NewVariantRepo(db),
		Orders:     NewOrderRepo(db),
		OrderLines: NewOrderLineRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against repositories bound to one transaction.
// A Repository assembled without a DB (fakes in tests) runs fn on itself.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.DB == nil {
		return fn(r)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
