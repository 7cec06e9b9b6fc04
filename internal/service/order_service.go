package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/makpal80/avtoray/internal/cart"
	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/pricing"
	"github.com/makpal80/avtoray/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderService struct {
	repo    *repository.Repository
	loyalty LoyaltyPolicy
	events  EventBus
	log     *zap.Logger
	now     func() time.Time
}

func NewOrderService(repo *repository.Repository, loyalty LoyaltyPolicy, events EventBus, log *zap.Logger) OrderService {
	if loyalty == nil {
		loyalty = TierPolicy(nil)
	}
	return &orderService{
		repo:    repo,
		loyalty: loyalty,
		events:  events,
		log:     log,
		now:     time.Now,
	}
}

func validateSubmit(in SubmitOrderInput) error {
	if len(in.Items) == 0 {
		return ErrEmptyCart
	}
	if !in.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 || it.Quantity > cart.MaxQuantity {
			return ErrQuantityInvalid
		}
	}
	return nil
}

// buildCart resolves submitted items against the live catalog. Duplicate
// (product, variant) selections collapse into one line.
func buildCart(ctx context.Context, products repository.ProductRepo, items []OrderItemInput) (*cart.Cart, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	list, err := products.BatchGetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(list))
	for _, p := range list {
		byID[p.ID] = p
	}

	c := cart.New()
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
		}
		if !p.Active {
			return nil, fmt.Errorf("%w: %s", ErrProductInactive, p.Name)
		}
		if _, err := c.AddQuantity(p, it.VariantID, it.Quantity); err != nil {
			return nil, fmt.Errorf("%w: %s", err, p.Name)
		}
	}
	return c, nil
}

func (s *orderService) Preview(ctx context.Context, in SubmitOrderInput) (*pricing.Breakdown, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateSubmit(in); err != nil {
		return nil, err
	}

	user, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	c, err := buildCart(ctx, s.repo.Products, in.Items)
	if err != nil {
		return nil, err
	}
	b := pricing.Compute(c.Lines(), user.DiscountPercent, in.PaymentMethod)
	return &b, nil
}

func (s *orderService) Submit(ctx context.Context, in SubmitOrderInput) (*models.Order, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateSubmit(in); err != nil {
		return nil, err
	}

	var (
		order *models.Order
		now   = s.now()
	)

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		// Блокируем клиента: номер заказа и скидка читаются согласованно.
		user, err := tx.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		c, err := buildCart(ctx, tx.Products, in.Items)
		if err != nil {
			return err
		}
		b := pricing.Compute(c.Lines(), user.DiscountPercent, in.PaymentMethod)

		number, err := tx.Orders.NextUserOrderNumber(ctx, userID)
		if err != nil {
			return err
		}

		order = &models.Order{
			UserID:                 userID,
			UserOrderNumber:        number,
			Status:                 models.OrderStatusPending,
			PaymentMethod:          in.PaymentMethod,
			TotalAmount:            b.SubtotalOriginal,
			ProductDiscountAmount:  b.ProductDiscountAmount,
			DiscountPercent:        b.CustomerDiscountPercent,
			CustomerDiscountAmount: b.CustomerDiscountAmount,
			SurchargeAmount:        b.Surcharge,
			FinalAmount:            b.FinalPayable,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		lines := make([]models.OrderLine, 0, len(b.Lines))
		for i, l := range b.Lines {
			lines = append(lines, models.OrderLine{
				OrderID:                order.ID,
				Position:               i,
				ProductID:              l.ProductID,
				ProductName:            l.ProductName,
				VariantID:              l.VariantID,
				VariantName:            l.VariantName,
				Quantity:               l.Quantity,
				OriginalPrice:          l.OriginalPrice,
				DiscountedUnitPrice:    l.DiscountedUnitPrice,
				ProductDiscountPercent: l.ProductDiscountPercent,
				LineTotal:              l.LineTotal,
				CreatedAt:              now,
			})
		}
		if err := tx.OrderLines.BulkCreate(ctx, lines); err != nil {
			return err
		}

		created, err := tx.Orders.GetByID(ctx, order.ID)
		if err != nil {
			return err
		}
		if created != nil {
			order = created
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order submitted",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("user_order_number", order.UserOrderNumber),
		zap.Int64("final_amount", order.FinalAmount),
		zap.String("payment_method", string(order.PaymentMethod)),
	)
	s.publish(ctx, EventOrderCreated, order)
	return order, nil
}

func (s *orderService) Approve(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusApproved)
}

func (s *orderService) Reject(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusRejected)
}

// transition moves a pending order to a terminal status. A second call on the
// same order fails with ErrOrderNotPending; nothing here is idempotent.
func (s *orderService) transition(ctx context.Context, id uuid.UUID, to models.OrderStatus) (*models.Order, error) {
	adminID, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	var ord *models.Order
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Orders.TransitionStatus(ctx, id, models.OrderStatusPending, to)
		if err != nil {
			return err
		}
		if !ok {
			exists, err := tx.Orders.Exists(ctx, id)
			if err != nil {
				return err
			}
			if !exists {
				return ErrOrderNotFound
			}
			return ErrOrderNotPending
		}

		ord, err = tx.Orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ord == nil {
			return ErrOrderNotFound
		}

		if to == models.OrderStatusApproved {
			return s.creditLoyalty(ctx, tx, ord.UserID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotPending) {
			s.log.Warn("order transition conflict",
				zap.String("order_id", id.String()),
				zap.String("target", string(to)),
				zap.String("admin_id", adminID.String()))
		}
		return nil, err
	}

	s.log.Info("order status changed",
		zap.String("order_id", id.String()),
		zap.String("status", string(to)),
		zap.String("admin_id", adminID.String()))

	event := EventOrderApproved
	if to == models.OrderStatusRejected {
		event = EventOrderRejected
	}
	s.publish(ctx, event, ord)
	return ord, nil
}

// creditLoyalty counts the approval and raises the customer's discount when the
// policy grants more than they already have. Admin-set values are never lowered.
func (s *orderService) creditLoyalty(ctx context.Context, tx *repository.Repository, userID uuid.UUID) error {
	count, err := tx.Users.IncrementOrdersCount(ctx, userID)
	if err != nil {
		return err
	}
	user, err := tx.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if pct := s.loyalty.DiscountFor(count); pct > user.DiscountPercent {
		if _, err := tx.Users.UpdateDiscount(ctx, userID, pct); err != nil {
			return err
		}
		s.log.Info("loyalty discount raised",
			zap.String("user_id", userID.String()),
			zap.Int("orders_count", count),
			zap.Int("discount_percent", pct))
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var ord *models.Order
	if role == RoleAdmin {
		ord, err = s.repo.Orders.GetByID(ctx, id)
	} else {
		ord, err = s.repo.Orders.GetByIDForUser(ctx, id, userID)
	}
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

// ListMyOrders is the caller's own history; q is ignored.
func (s *orderService) ListMyOrders(ctx context.Context, q ListQuery) (*OrderPage, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	f, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	return s.list(ctx, f, repository.OrderListFilter{UserID: &userID, Status: f.Status})
}

func (s *orderService) ListOrders(ctx context.Context, q ListQuery) (*OrderPage, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	f, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	return s.list(ctx, f, repository.OrderListFilter{Status: f.Status, Query: f.Query})
}

func (s *orderService) list(ctx context.Context, f ListFilter, rf repository.OrderListFilter) (*OrderPage, error) {
	rf.Limit = f.Limit
	rf.Offset = f.Offset()

	list, total, err := s.repo.Orders.List(ctx, rf)
	if err != nil {
		return nil, err
	}

	items := make([]models.Order, len(list))
	for i, o := range list {
		items[i] = *o
	}
	return &OrderPage{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *orderService) CountOrders(ctx context.Context) (map[models.OrderStatus]int64, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.Orders.CountByStatus(ctx)
}

func (s *orderService) publish(ctx context.Context, eventType string, o *models.Order) {
	if s.events == nil || o == nil {
		return
	}
	e := OrderEvent{
		Type:            eventType,
		OrderID:         o.ID,
		UserID:          o.UserID,
		UserOrderNumber: o.UserOrderNumber,
		Status:          string(o.Status),
		PaymentMethod:   string(o.PaymentMethod),
		TotalAmount:     o.TotalAmount,
		DiscountPercent: o.DiscountPercent,
		FinalAmount:     o.FinalAmount,
		OccurredAt:      s.now(),
	}
	if o.User != nil {
		e.UserName, e.UserPhone = o.User.Name, o.User.Phone
	}
	for _, l := range o.Lines {
		le := OrderLineEvent{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.DiscountedUnitPrice,
			LineTotal:   l.LineTotal,
		}
		if l.VariantName != nil {
			le.VariantName = *l.VariantName
		}
		e.Lines = append(e.Lines, le)
	}
	if err := s.events.PublishOrderEvent(ctx, e); err != nil {
		s.log.Error("publish order event failed",
			zap.String("type", eventType),
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
	}
}
