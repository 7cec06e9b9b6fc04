package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusRejected OrderStatus = "rejected"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusApproved || s == OrderStatusRejected
}

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentBank        PaymentMethod = "bank"
	PaymentInstallment PaymentMethod = "installment"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentBank, PaymentInstallment:
		return true
	}
	return false
}

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Phone           string    `gorm:"type:text;not null"` // уникальность через индекс в миграции
	Password        string    `gorm:"type:text;not null"` // bcrypt hash
	Name            string    `gorm:"type:text;not null"`
	CarBrand        string    `gorm:"type:text;not null;default:''"`
	OrdersCount     int       `gorm:"not null;default:0"` // только подтверждённые заказы
	DiscountPercent int       `gorm:"not null;default:0"`
	IsAdmin         bool      `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

type Product struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string    `gorm:"type:text;not null"`
	Price           int64     `gorm:"not null;default:0"`
	DiscountPercent int       `gorm:"not null;default:0"`
	Active          bool      `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "products" }

// Variant returns the variant with the given id, or nil.
func (p *Product) Variant(id uuid.UUID) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

type ProductVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:text;not null"`
	ImageURL  string    `gorm:"type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (ProductVariant) TableName() string { return "product_variants" }

type Order struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID     `gorm:"type:uuid;not null;index"`
	UserOrderNumber int           `gorm:"not null"`
	Status          OrderStatus   `gorm:"type:text;not null;default:'pending';index"`
	PaymentMethod   PaymentMethod `gorm:"type:text;not null"`

	TotalAmount            int64 `gorm:"not null;default:0"` // до всех скидок
	ProductDiscountAmount  int64 `gorm:"not null;default:0"`
	DiscountPercent        int   `gorm:"not null;default:0"` // скидка клиента на момент заказа
	CustomerDiscountAmount int64 `gorm:"not null;default:0"`
	SurchargeAmount        int64 `gorm:"not null;default:0"`
	FinalAmount            int64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	User  *User       `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// OrderLine freezes names and prices so history survives catalog edits.
type OrderLine struct {
	ID                     uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID                uuid.UUID  `gorm:"type:uuid;not null;index"`
	Position               int        `gorm:"not null;default:0"`
	ProductID              uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductName            string     `gorm:"type:text;not null"`
	VariantID              *uuid.UUID `gorm:"type:uuid"`
	VariantName            *string    `gorm:"type:text"`
	Quantity               int        `gorm:"type:int;not null"`
	OriginalPrice          int64      `gorm:"not null"`
	DiscountedUnitPrice    int64      `gorm:"not null"`
	ProductDiscountPercent int        `gorm:"not null;default:0"`
	LineTotal              int64      `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderLine) TableName() string { return "order_lines" }
