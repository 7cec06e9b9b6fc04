package service

import (
	"context"

	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/pricing"

	"github.com/google/uuid"
)

type OrderItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

type SubmitOrderInput struct {
	Items         []OrderItemInput
	PaymentMethod models.PaymentMethod
}

type OrderService interface {
	// Preview prices a cart the same way Submit does. The result is advisory:
	// catalog prices or the customer's discount may change before submission.
	Preview(ctx context.Context, in SubmitOrderInput) (*pricing.Breakdown, error)
	Submit(ctx context.Context, in SubmitOrderInput) (*models.Order, error)
	Approve(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Reject(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListMyOrders(ctx context.Context, q ListQuery) (*OrderPage, error)
	ListOrders(ctx context.Context, q ListQuery) (*OrderPage, error)
	CountOrders(ctx context.Context) (map[models.OrderStatus]int64, error)
}
