package helpers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-backend/pkg/db/models"
)

var hundred = decimal.NewFromInt(100)

// Rates holds the order-level charges applied on top of the discounted subtotal.
type Rates struct {
	ShippingFee decimal.Decimal
	TaxRate     decimal.Decimal
}

// Quote is the server-side price breakdown of an order.
type Quote struct {
	Subtotal           decimal.Decimal
	Discount           decimal.Decimal
	DiscountedSubtotal decimal.Decimal
	ShippingFee        decimal.Decimal
	Tax                decimal.Decimal
	Total              decimal.Decimal
	// VoucherCode is set only when the voucher was valid at pricing time.
	VoucherCode *string
	// VoucherDropped reports that a voucher was looked up but rejected as expired.
	VoucherDropped bool
}

// PriceOrder recomputes the order total from authoritative data. The client's discount claim
// only caps the discount; a nil or negative claim grants nothing.
func PriceOrder(subtotal decimal.Decimal, voucher *models.Voucher, claim *decimal.Decimal, today time.Time, rates Rates) Quote {
	quote := Quote{
		Subtotal:    subtotal,
		Discount:    decimal.Zero,
		ShippingFee: rates.ShippingFee,
	}

	if voucher != nil {
		if VoucherActive(voucher, today) {
			code := voucher.Code
			quote.VoucherCode = &code
			server := subtotal.Mul(voucher.DiscountPercentage).Div(hundred).Round(2)
			quote.Discount = appliedDiscount(server, claim, subtotal)
		} else {
			quote.VoucherDropped = true
		}
	}

	quote.DiscountedSubtotal = subtotal.Sub(quote.Discount)
	quote.Tax = quote.DiscountedSubtotal.Mul(rates.TaxRate).Round(2)
	quote.Total = quote.DiscountedSubtotal.Add(quote.ShippingFee).Add(quote.Tax).Round(2)
	return quote
}

// VoucherActive reports whether the voucher is still valid on today's calendar date.
func VoucherActive(voucher *models.Voucher, today time.Time) bool {
	if voucher == nil {
		return false
	}
	expires := voucher.ExpiresOn
	ey, em, ed := expires.Date()
	ty, tm, td := today.Date()
	if ey != ty {
		return ey > ty
	}
	if em != tm {
		return em > tm
	}
	return ed >= td
}

func appliedDiscount(server decimal.Decimal, claim *decimal.Decimal, subtotal decimal.Decimal) decimal.Decimal {
	if claim == nil || claim.IsNegative() {
		return decimal.Zero
	}
	applied := decimal.Min(claim.Truncate(2), server)
	if applied.GreaterThan(subtotal) {
		applied = subtotal
	}
	if applied.IsNegative() {
		return decimal.Zero
	}
	return applied
}
