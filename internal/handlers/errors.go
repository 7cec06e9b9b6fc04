package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/makpal80/avtoray/internal/dto"
	"github.com/makpal80/avtoray/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validationErrors = []error{
	service.ErrEmptyCart,
	service.ErrQuantityInvalid,
	service.ErrVariantRequired,
	service.ErrUnknownVariant,
	service.ErrUnexpectedVariant,
	service.ErrInvalidPaymentMethod,
	service.ErrProductInactive,
	service.ErrInvalidProduct,
	service.ErrInvalidDiscount,
	service.ErrInvalidQuery,
	service.ErrInvalidDateRange,
	service.ErrInvalidRegistration,
}

var notFoundErrors = []error{
	service.ErrOrderNotFound,
	service.ErrProductNotFound,
	service.ErrVariantNotFound,
	service.ErrUserNotFound,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError maps service errors onto HTTP responses. Unknown errors become 500.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case isAny(err, validationErrors):
		c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), nil))
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError(err.Error()))
	case isAny(err, notFoundErrors):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
	case errors.Is(err, service.ErrOrderNotPending), errors.Is(err, service.ErrPhoneExists):
		c.JSON(http.StatusConflict, dto.NewConflictError(err.Error()))
	case errors.Is(err, service.ErrTooManyRequests):
		c.JSON(http.StatusTooManyRequests, dto.NewRateLimitedError(err.Error()))
	default:
		log.Error("Внутренняя ошибка", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

// writeBindError reports binding failures with per-field details when available.
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, dto.FieldError{
				Field:   fieldPath(fe),
				Message: fieldMessage(fe),
				Tag:     fe.Tag(),
			})
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", fields))
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", nil))
}

// fieldPath strips the root struct name: "CreateOrderRequest.Items[0].Quantity" -> "items[0].quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return toSnake(ns)
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] != '.' {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	}
	return fmt.Sprintf("failed on %s", fe.Tag())
}
