package repository

import (
	"context"
	"errors"

	"github.com/makpal80/avtoray/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VariantRepo interface {
	Create(ctx context.Context, v *models.ProductVariant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListImageURLs(ctx context.Context) ([]string, error)
}

type variantRepo struct{ db *gorm.DB }

func NewVariantRepo(db *gorm.DB) VariantRepo { return &variantRepo{db: db} }

func (r *variantRepo) Create(ctx context.Context, v *models.ProductVariant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *variantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var v models.ProductVariant
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *variantRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductVariant{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *variantRepo) ListImageURLs(ctx context.Context) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).Model(&models.ProductVariant{}).
		Where("image_url <> ''").Distinct().Pluck("image_url", &urls).Error
	return urls, err
}
