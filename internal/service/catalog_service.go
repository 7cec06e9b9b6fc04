package service

import (
	"context"
	"strings"
	"time"

	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateProductInput struct {
	Name            string
	Price           int64
	DiscountPercent int
}

// UpdateProductInput is a partial update; nil fields stay unchanged.
type UpdateProductInput struct {
	Name            *string
	Price           *int64
	DiscountPercent *int
	Active          *bool
}

type CatalogService struct {
	repo  *repository.Repository
	cache ProductCache // может быть nil
	log   *zap.Logger
	now   func() time.Time
}

func NewCatalogService(repo *repository.Repository, cache ProductCache, log *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, log: log, now: time.Now}
}

// ListProducts returns active products with their variants. Only the unfiltered
// listing goes through the cache.
func (s *CatalogService) ListProducts(ctx context.Context, q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" && s.cache != nil {
		products, ok, err := s.cache.GetProducts(ctx)
		if err != nil {
			s.log.Warn("catalog cache read failed", zap.Error(err))
		} else if ok {
			return products, nil
		}
	}

	products, _, err := s.repo.Products.List(ctx, repository.ProductListFilter{Query: q, OnlyActive: true})
	if err != nil {
		return nil, err
	}

	if q == "" && s.cache != nil {
		if err := s.cache.SetProducts(ctx, products); err != nil {
			s.log.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

func (s *CatalogService) AdminListProducts(ctx context.Context, q string) ([]models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	products, _, err := s.repo.Products.List(ctx, repository.ProductListFilter{Query: q})
	return products, err
}

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price < 0 {
		return nil, ErrInvalidProduct
	}
	if !validPercent(in.DiscountPercent) {
		return nil, ErrInvalidDiscount
	}

	now := s.now()
	p := &models.Product{
		Name:            name,
		Price:           in.Price,
		DiscountPercent: in.DiscountPercent,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("product created", zap.String("product_id", p.ID.String()), zap.String("name", p.Name))
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrInvalidProduct
		}
		fields["name"] = name
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, ErrInvalidProduct
		}
		fields["price"] = *in.Price
	}
	if in.DiscountPercent != nil {
		if !validPercent(*in.DiscountPercent) {
			return nil, ErrInvalidDiscount
		}
		fields["discount_percent"] = *in.DiscountPercent
	}
	if in.Active != nil {
		fields["active"] = *in.Active
	}
	if len(fields) > 0 {
		fields["updated_at"] = s.now()
	}

	found, err := s.repo.Products.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrProductNotFound
	}
	if len(fields) > 0 {
		s.invalidate(ctx)
	}

	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// AddVariant registers a variant whose image was already stored at imageURL.
func (s *CatalogService) AddVariant(ctx context.Context, productID uuid.UUID, name, imageURL string) (*models.ProductVariant, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidProduct
	}

	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	v := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      name,
		ImageURL:  imageURL,
		CreatedAt: s.now(),
	}
	if err := s.repo.Variants.Create(ctx, v); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return v, nil
}

// DeleteVariant removes a variant. Placed orders keep the frozen variant name.
func (s *CatalogService) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	ok, err := s.repo.Variants.Delete(ctx, variantID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVariantNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProducts(ctx); err != nil {
		s.log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func validPercent(p int) bool { return p >= 0 && p <= 100 }
