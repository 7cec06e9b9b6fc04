package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/makpal80/avtoray/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductListFilter struct {
	Query      string // по name
	OnlyActive bool
	Limit      int // 0: без ограничения
	Offset     int
}

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)
	BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func preloadVariants(db *gorm.DB) *gorm.DB {
	return db.Order("product_variants.created_at ASC")
}

// Create writes every column explicitly so Active=false is not replaced by the column default.
func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Select("ID", "Name", "Price", "DiscountPercent", "Active", "CreatedAt", "UpdatedAt").
		Create(p).Error
}

func (r *productRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		var cnt int64
		err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&cnt).Error
		return cnt > 0, err
	}
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Preload("Variants", preloadVariants).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if f.OnlyActive {
		q = q.Where("active = ?", true)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where("lower(name) LIKE lower(?)", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("name ASC").Order("created_at ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var list []models.Product
	err := q.Preload("Variants", preloadVariants).Find(&list).Error
	return list, total, err
}

func (r *productRepo) BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Product
	err := r.db.WithContext(ctx).Preload("Variants", preloadVariants).Where("id IN ?", ids).Find(&list).Error
	return list, err
}
