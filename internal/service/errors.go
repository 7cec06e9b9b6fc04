package service

import (
	"errors"

	"github.com/makpal80/avtoray/internal/cart"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNotPending      = errors.New("order is not pending")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductInactive      = errors.New("product is not active")
	ErrVariantNotFound      = errors.New("variant not found")
	ErrUserNotFound         = errors.New("user not found")

	ErrQuantityInvalid   = cart.ErrQuantityInvalid
	ErrVariantRequired   = cart.ErrVariantRequired
	ErrUnknownVariant    = cart.ErrUnknownVariant
	ErrUnexpectedVariant = cart.ErrUnexpectedVariant

	ErrInvalidProduct   = errors.New("invalid product data")
	ErrInvalidDiscount  = errors.New("discount percent must be within 0..100")
	ErrInvalidQuery     = errors.New("invalid list query")
	ErrInvalidDateRange = errors.New("invalid date range")

	ErrInvalidRegistration = errors.New("invalid registration data")
	ErrPhoneExists         = errors.New("phone already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTooManyRequests     = errors.New("too many requests")
)
