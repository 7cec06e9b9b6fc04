package repository

import (
	"context"
	"errors"

	"github.com/makpal80/avtoray/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	IncrementOrdersCount(ctx context.Context, id uuid.UUID) (int, error)
	UpdateDiscount(ctx context.Context, id uuid.UUID, percent int) (bool, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) UserRepo { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *userRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("phone = ?", phone).Count(&cnt).Error
	return cnt > 0, err
}

// IncrementOrdersCount bumps the approved-orders counter and returns the new value.
func (r *userRepo) IncrementOrdersCount(ctx context.Context, id uuid.UUID) (int, error) {
	var u models.User
	res := r.db.WithContext(ctx).Model(&u).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "orders_count"}}}).
		Where("id = ?", id).
		UpdateColumn("orders_count", gorm.Expr("orders_count + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return u.OrdersCount, nil
}

func (r *userRepo) UpdateDiscount(ctx context.Context, id uuid.UUID, percent int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("discount_percent", percent)
	return res.RowsAffected > 0, res.Error
}
