package order

import (
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/townkart-backend/internal/platform/apperr"
)

// computePricing derives the order pricing from the line items. Shipping,
// tax and discount default to zero. Supplied subtotal and total are checked
// against the derived values so the stored total identity always holds.
func computePricing(items []*Item, in *PricingInput) (Pricing, error) {
	var p Pricing
	for _, it := range items {
		p.Subtotal = p.Subtotal.Add(it.LineTotal())
	}
	p.Subtotal = p.Subtotal.Round(2)
	if in == nil {
		in = &PricingInput{}
	}

	fields := map[string]string{}
	component := func(name string, v *decimal.Decimal) decimal.Decimal {
		if v == nil {
			return decimal.Zero
		}
		if v.IsNegative() {
			fields[name] = "must be greater than or equal to 0"
		}
		return v.Round(2)
	}
	p.ShippingCost = component("pricing.shippingCost", in.ShippingCost)
	p.Tax = component("pricing.tax", in.Tax)
	p.Discount = component("pricing.discount", in.Discount)
	if len(fields) > 0 {
		return Pricing{}, apperr.ValidationFields("validation failed", fields)
	}

	if in.Subtotal != nil && !in.Subtotal.Round(2).Equal(p.Subtotal) {
		return Pricing{}, apperr.ValidationFields("validation failed", map[string]string{
			"pricing.subtotal": "does not match the line items",
		})
	}

	p.Total = p.Subtotal.Add(p.ShippingCost).Add(p.Tax).Sub(p.Discount)
	if p.Total.IsNegative() {
		return Pricing{}, apperr.ValidationFields("validation failed", map[string]string{
			"pricing.discount": "must not exceed the order amount",
		})
	}
	if in.Total != nil && !in.Total.Round(2).Equal(p.Total) {
		return Pricing{}, apperr.ValidationFields("validation failed", map[string]string{
			"pricing.total": "must equal subtotal + shippingCost + tax - discount",
		})
	}
	return p, nil
}
