package dto

type RegisterRequest struct {
	Phone    string `json:"phone" binding:"required,min=10,max=16"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	CarBrand string `json:"car_brand"`
}

// LoginRequest приходит как form-urlencoded (username = телефон).
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type UserResponse struct {
	ID              string `json:"id"`
	Phone           string `json:"phone"`
	Name            string `json:"name"`
	CarBrand        string `json:"car_brand"`
	OrdersCount     int    `json:"orders_count"`
	DiscountPercent int    `json:"discount_percent"`
	IsAdmin         bool   `json:"is_admin"`
}

type SetDiscountRequest struct {
	DiscountPercent *int `json:"discount_percent" binding:"required,min=0,max=100"`
}
