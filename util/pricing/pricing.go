// Package pricing computes effective line prices from item discounts.
// Pure functions, no storage access.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/alphaanurag-333/Etrymart-admin-sub001/model"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice applies a flat or percent discount to a unit price,
// clamped at zero. Negative inputs and percent discounts over 100 are
// caller contract violations.
func EffectivePrice(unitPrice, discount decimal.Decimal, kind model.DiscountType) (decimal.Decimal, error) {
	if unitPrice.IsNegative() {
		return decimal.Zero, model.Errf(model.ErrInvalidInput, "unit price %s is negative", unitPrice)
	}
	if discount.IsNegative() {
		return decimal.Zero, model.Errf(model.ErrInvalidInput, "discount %s is negative", discount)
	}

	var out decimal.Decimal
	switch kind {
	case model.DiscountFlat:
		out = unitPrice.Sub(discount)
	case model.DiscountPercent:
		if discount.GreaterThan(hundred) {
			return decimal.Zero, model.Errf(model.ErrInvalidInput, "percent discount %s exceeds 100", discount)
		}
		out = unitPrice.Sub(unitPrice.Mul(discount).Div(hundred))
	default:
		return decimal.Zero, model.Errf(model.ErrInvalidInput, "unknown discount type %q", kind)
	}

	if out.IsNegative() {
		return decimal.Zero, nil
	}
	return out, nil
}

// LineTotal is EffectivePrice times quantity.
func LineTotal(it model.OrderItem) (decimal.Decimal, error) {
	if it.Quantity <= 0 {
		return decimal.Zero, model.Errf(model.ErrInvalidInput, "quantity %d must be positive", it.Quantity)
	}
	eff, err := EffectivePrice(it.UnitPrice, it.Discount, it.DiscountType)
	if err != nil {
		return decimal.Zero, err
	}
	return eff.Mul(decimal.NewFromInt(int64(it.Quantity))), nil
}

// OrderTotal derives the order total from its items, shipping and coupon,
// clamped at zero.
func OrderTotal(items []model.OrderItem, shipping, coupon decimal.Decimal) (decimal.Decimal, error) {
	if shipping.IsNegative() || coupon.IsNegative() {
		return decimal.Zero, model.Errf(model.ErrInvalidInput, "shipping %s / coupon %s must be non-negative", shipping, coupon)
	}

	sum := decimal.Zero
	for _, it := range items {
		line, err := LineTotal(it)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(line)
	}

	total := sum.Add(shipping).Sub(coupon)
	if total.IsNegative() {
		return decimal.Zero, nil
	}
	return total, nil
}
