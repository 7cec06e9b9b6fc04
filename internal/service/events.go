package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated  = "order.created"
	EventOrderApproved = "order.approved"
	EventOrderRejected = "order.rejected"
)

type OrderLineEvent struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	VariantName string    `json:"variant_name,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	LineTotal   int64     `json:"line_total"`
}

// OrderEvent is one envelope for every lifecycle change; Type tells them apart.
type OrderEvent struct {
	Type            string           `json:"type"`
	OrderID         uuid.UUID        `json:"order_id"`
	UserID          uuid.UUID        `json:"user_id"`
	UserName        string           `json:"user_name,omitempty"`
	UserPhone       string           `json:"user_phone,omitempty"`
	UserOrderNumber int              `json:"user_order_number"`
	Status          string           `json:"status"`
	PaymentMethod   string           `json:"payment_method"`
	TotalAmount     int64            `json:"total_amount"`
	DiscountPercent int              `json:"discount_percent"`
	FinalAmount     int64            `json:"final_amount"`
	Lines           []OrderLineEvent `json:"lines,omitempty"`
	OccurredAt      time.Time        `json:"occurred_at"`
}

type EventBus interface {
	PublishOrderEvent(ctx context.Context, e OrderEvent) error
}
