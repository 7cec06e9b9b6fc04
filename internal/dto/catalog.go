package dto

type VariantResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
}

type ProductResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Price           int64             `json:"price"`
	DiscountPercent int               `json:"discount_percent"`
	Active          bool              `json:"active"`
	Types           []VariantResponse `json:"types"`
}

type CreateProductRequest struct {
	Name            string `json:"name" binding:"required"`
	Price           *int64 `json:"price" binding:"required,min=0"`
	DiscountPercent int    `json:"discount_percent" binding:"min=0,max=100"`
}

type UpdateProductRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1"`
	Price           *int64  `json:"price" binding:"omitempty,min=0"`
	DiscountPercent *int    `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	Active          *bool   `json:"active"`
}
