package repository

import (
	"context"

	"github.com/makpal80/avtoray/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderLineRepo interface {
	BulkCreate(ctx context.Context, lines []models.OrderLine) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error)
	SumByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
}

type orderLineRepo struct{ db *gorm.DB }

func NewOrderLineRepo(db *gorm.DB) OrderLineRepo { return &orderLineRepo{db: db} }

func (r *orderLineRepo) BulkCreate(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *orderLineRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	var rows []models.OrderLine
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("position ASC").Find(&rows).Error
	return rows, err
}

func (r *orderLineRepo) SumByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.OrderLine{}).
		Select("COALESCE(SUM(line_total), 0)").
		Where("order_id = ?", orderID).
		Scan(&total).Error
	return total, err
}
