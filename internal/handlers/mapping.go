package handlers

import (
	"time"

	"github.com/makpal80/avtoray/internal/dto"
	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/pricing"

	"github.com/google/uuid"
)

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID.String(),
		Phone:           u.Phone,
		Name:            u.Name,
		CarBrand:        u.CarBrand,
		OrdersCount:     u.OrdersCount,
		DiscountPercent: u.DiscountPercent,
		IsAdmin:         u.IsAdmin,
	}
}

func toProductResponse(p models.Product) dto.ProductResponse {
	types := make([]dto.VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		types = append(types, toVariantResponse(v))
	}
	return dto.ProductResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		Active:          p.Active,
		Types:           types,
	}
}

func toProductsResponse(list []models.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toVariantResponse(v models.ProductVariant) dto.VariantResponse {
	return dto.VariantResponse{
		ID:        v.ID.String(),
		ProductID: v.ProductID.String(),
		Name:      v.Name,
		ImageURL:  v.ImageURL,
	}
}

func toOrderResponse(o *models.Order) dto.OrderResponse {
	items := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, dto.OrderLineResponse{
			ProductID:              l.ProductID.String(),
			ProductName:            l.ProductName,
			TypeID:                 uuidPtrString(l.VariantID),
			TypeName:               l.VariantName,
			Quantity:               l.Quantity,
			OriginalPrice:          l.OriginalPrice,
			ProductDiscountPercent: l.ProductDiscountPercent,
			DiscountedUnitPrice:    l.DiscountedUnitPrice,
			LineTotal:              l.LineTotal,
		})
	}
	resp := dto.OrderResponse{
		ID:                     o.ID.String(),
		UserID:                 o.UserID.String(),
		UserOrderNumber:        o.UserOrderNumber,
		Status:                 string(o.Status),
		PaymentMethod:          string(o.PaymentMethod),
		TotalAmount:            o.TotalAmount,
		ProductDiscountAmount:  o.ProductDiscountAmount,
		DiscountPercent:        o.DiscountPercent,
		CustomerDiscountAmount: o.CustomerDiscountAmount,
		SurchargeAmount:        o.SurchargeAmount,
		FinalAmount:            o.FinalAmount,
		CreatedAt:              o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              o.UpdatedAt.Format(time.RFC3339),
		Items:                  items,
	}
	if o.User != nil {
		resp.User = &dto.OrderUserResponse{
			ID:       o.User.ID.String(),
			Name:     o.User.Name,
			Phone:    o.User.Phone,
			CarBrand: o.User.CarBrand,
		}
	}
	return resp
}

func toPreviewResponse(b *pricing.Breakdown) dto.PreviewResponse {
	lines := make([]dto.PreviewLineResponse, 0, len(b.Lines))
	for _, l := range b.Lines {
		lines = append(lines, dto.PreviewLineResponse{
			Key:                    string(l.Key),
			ProductID:              l.ProductID.String(),
			ProductName:            l.ProductName,
			TypeID:                 uuidPtrString(l.VariantID),
			TypeName:               l.VariantName,
			Quantity:               l.Quantity,
			OriginalPrice:          l.OriginalPrice,
			ProductDiscountPercent: l.ProductDiscountPercent,
			DiscountedUnitPrice:    l.DiscountedUnitPrice,
			LineTotal:              l.LineTotal,
		})
	}
	return dto.PreviewResponse{
		Lines:                        lines,
		SubtotalOriginal:             b.SubtotalOriginal,
		SubtotalAfterProductDiscount: b.SubtotalAfterProductDiscount,
		ProductDiscountAmount:        b.ProductDiscountAmount,
		CustomerDiscountPercent:      b.CustomerDiscountPercent,
		CustomerDiscountAmount:       b.CustomerDiscountAmount,
		FinalBeforeSurcharge:         b.FinalBeforeSurcharge,
		PaymentMethod:                string(b.PaymentMethod),
		Surcharge:                    b.Surcharge,
		FinalPayable:                 b.FinalPayable,
	}
}
