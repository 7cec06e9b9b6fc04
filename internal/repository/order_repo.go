package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/makpal80/avtoray/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderListFilter struct {
	UserID *uuid.UUID
	Status *models.OrderStatus
	Query  string // имя / телефон / марка авто клиента
	Limit  int
	Offset int
}

type OrderReportFilter struct {
	UserID *uuid.UUID
	From   time.Time // включительно
	To     time.Time // исключительно
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error)
	NextUserOrderNumber(ctx context.Context, userID uuid.UUID) (int, error)
	List(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error)
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
	ListForReport(ctx context.Context, f OrderReportFilter) ([]*models.Order, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Order("order_lines.position ASC")
}

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit("User", "Lines").Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Lines", preloadLines).Preload("User").First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (r *orderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Lines", preloadLines).Preload("User").
		First(&ord, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

// TransitionStatus is a compare-and-set on status: it reports false when the order
// is missing or no longer in from, so of two racing callers only one wins.
func (r *orderRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

// NextUserOrderNumber must run under a lock on the user's row.
func (r *orderRepo) NextUserOrderNumber(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(MAX(user_order_number), 0) + 1").
		Where("user_id = ?", userID).
		Scan(&n).Error
	return n, err
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]*models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.UserID != nil {
		q = q.Where("orders.user_id = ?", *f.UserID)
	}
	if f.Status != nil {
		q = q.Where("orders.status = ?", *f.Status)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + s + "%"
		q = q.Joins("JOIN users ON users.id = orders.user_id").
			Where("lower(users.name) LIKE lower(?) OR users.phone LIKE ? OR lower(users.car_brand) LIKE lower(?)", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}

	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []*models.Order
	err := q.Select("orders.*").Order("orders.created_at DESC").Limit(f.Limit).Offset(f.Offset).
		Preload("Lines", preloadLines).Preload("User").Find(&list).Error
	return list, total, err
}

func (r *orderRepo) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	type row struct {
		Status models.OrderStatus
		Cnt    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS cnt").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[models.OrderStatus]int64{
		models.OrderStatusPending:  0,
		models.OrderStatusApproved: 0,
		models.OrderStatusRejected: 0,
	}
	for _, rw := range rows {
		out[rw.Status] = rw.Cnt
	}
	return out, nil
}

func (r *orderRepo) ListForReport(ctx context.Context, f OrderReportFilter) ([]*models.Order, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", f.From, f.To)
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	var list []*models.Order
	err := q.Order("created_at ASC").Preload("Lines", preloadLines).Preload("User").Find(&list).Error
	return list, err
}

func (r *orderRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}
