// Package pricing turns cart lines into a priced breakdown. The same Compute runs
// for the customer's advisory preview and for the authoritative total stored on
// the order, so the two can never drift apart.
//
// Order of adjustments is fixed: product discounts per unit, then the customer's
// loyalty percent on the discounted subtotal, then the installment surcharge on
// what is left.
package pricing

import (
	"github.com/makpal80/avtoray/internal/cart"
	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/money"

	"github.com/google/uuid"
)

const InstallmentSurchargePercent = 15

type LineBreakdown struct {
	Key                    cart.Key
	ProductID              uuid.UUID
	ProductName            string
	VariantID              *uuid.UUID
	VariantName            *string
	Quantity               int
	OriginalPrice          int64
	ProductDiscountPercent int
	DiscountedUnitPrice    int64
	OriginalTotal          int64
	LineTotal              int64
}

type Breakdown struct {
	Lines                        []LineBreakdown
	SubtotalOriginal             int64
	SubtotalAfterProductDiscount int64
	ProductDiscountAmount        int64
	CustomerDiscountPercent      int
	CustomerDiscountAmount       int64
	FinalBeforeSurcharge         int64
	PaymentMethod                models.PaymentMethod
	Surcharge                    int64
	FinalPayable                 int64
}

// UnitPrice is the per-unit price after the product's own discount.
func UnitPrice(p models.Product) int64 {
	return money.ApplyPercent(p.Price, p.DiscountPercent)
}

// Surcharge is the fee a payment method adds on top of the discounted amount.
func Surcharge(amount int64, method models.PaymentMethod) int64 {
	if method != models.PaymentInstallment {
		return 0
	}
	return money.Percent(amount, InstallmentSurchargePercent)
}

func Compute(lines []cart.Line, customerDiscountPercent int, method models.PaymentMethod) Breakdown {
	b := Breakdown{
		Lines:                   make([]LineBreakdown, 0, len(lines)),
		CustomerDiscountPercent: customerDiscountPercent,
		PaymentMethod:           method,
	}

	for _, l := range lines {
		qty := int64(l.Quantity)
		unit := UnitPrice(l.Product)

		lb := LineBreakdown{
			Key:                    l.Key,
			ProductID:              l.Product.ID,
			ProductName:            l.Product.Name,
			Quantity:               l.Quantity,
			OriginalPrice:          l.Product.Price,
			ProductDiscountPercent: l.Product.DiscountPercent,
			DiscountedUnitPrice:    unit,
			OriginalTotal:          l.Product.Price * qty,
			LineTotal:              unit * qty,
		}
		if v := l.Variant(); v != nil {
			id, name := v.ID, v.Name
			lb.VariantID, lb.VariantName = &id, &name
		}

		b.SubtotalOriginal += lb.OriginalTotal
		b.SubtotalAfterProductDiscount += lb.LineTotal
		b.Lines = append(b.Lines, lb)
	}

	b.ProductDiscountAmount = b.SubtotalOriginal - b.SubtotalAfterProductDiscount
	b.FinalBeforeSurcharge = money.ApplyPercent(b.SubtotalAfterProductDiscount, customerDiscountPercent)
	b.CustomerDiscountAmount = b.SubtotalAfterProductDiscount - b.FinalBeforeSurcharge
	b.Surcharge = Surcharge(b.FinalBeforeSurcharge, method)
	b.FinalPayable = b.FinalBeforeSurcharge + b.Surcharge
	return b
}
