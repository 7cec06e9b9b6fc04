package dto

type OrderItemRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	Quantity  int     `json:"quantity" binding:"required,min=1,max=10000"`
	TypeID    *string `json:"type_id" binding:"omitempty,uuid"`
}

type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string             `json:"payment_method" binding:"required,oneof=cash bank installment"`
}

type ListOrdersQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Q      string `form:"q"`
	Status string `form:"status" binding:"omitempty,oneof=all pending approved rejected"`
}

type OrderLineResponse struct {
	ProductID              string  `json:"product_id"`
	ProductName            string  `json:"product_name"`
	TypeID                 *string `json:"type_id,omitempty"`
	TypeName               *string `json:"type_name,omitempty"`
	Quantity               int     `json:"quantity"`
	OriginalPrice          int64   `json:"original_price"`
	ProductDiscountPercent int     `json:"product_discount_percent"`
	DiscountedUnitPrice    int64   `json:"discounted_unit_price"`
	LineTotal              int64   `json:"line_total"`
}

type OrderUserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	CarBrand string `json:"car_brand"`
}

type OrderResponse struct {
	ID                     string              `json:"id"`
	UserID                 string              `json:"user_id"`
	UserOrderNumber        int                 `json:"user_order_number"`
	Status                 string              `json:"status"`
	PaymentMethod          string              `json:"payment_method"`
	TotalAmount            int64               `json:"total_amount"`
	ProductDiscountAmount  int64               `json:"product_discount_amount"`
	DiscountPercent        int                 `json:"discount_percent"`
	CustomerDiscountAmount int64               `json:"customer_discount_amount"`
	SurchargeAmount        int64               `json:"surcharge_amount"`
	FinalAmount            int64               `json:"final_amount"`
	CreatedAt              string              `json:"created_at"`
	UpdatedAt              string              `json:"updated_at"`
	User                   *OrderUserResponse  `json:"user,omitempty"`
	Items                  []OrderLineResponse `json:"items"`
}

type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type OrderCountResponse struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

type PreviewLineResponse struct {
	Key                    string  `json:"key"`
	ProductID              string  `json:"product_id"`
	ProductName            string  `json:"product_name"`
	TypeID                 *string `json:"type_id,omitempty"`
	TypeName               *string `json:"type_name,omitempty"`
	Quantity               int     `json:"quantity"`
	OriginalPrice          int64   `json:"original_price"`
	ProductDiscountPercent int     `json:"product_discount_percent"`
	DiscountedUnitPrice    int64   `json:"discounted_unit_price"`
	LineTotal              int64   `json:"line_total"`
}

// PreviewResponse носит справочный характер: итог фиксируется только при создании заказа.
type PreviewResponse struct {
	Lines                        []PreviewLineResponse `json:"lines"`
	SubtotalOriginal             int64                 `json:"subtotal_original"`
	SubtotalAfterProductDiscount int64                 `json:"subtotal_after_product_discount"`
	ProductDiscountAmount        int64                 `json:"product_discount_amount"`
	CustomerDiscountPercent      int                   `json:"customer_discount_percent"`
	CustomerDiscountAmount       int64                 `json:"customer_discount_amount"`
	FinalBeforeSurcharge         int64                 `json:"final_before_surcharge"`
	PaymentMethod                string                `json:"payment_method"`
	Surcharge                    int64                 `json:"surcharge"`
	FinalPayable                 int64                 `json:"final_payable"`
}
