package economics

import (
	"github.com/shopspring/decimal"
)

// DiscountType is how a coupon or referral discount reduces a price.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount is a coupon or referral reduction applied to a list price.
type Discount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Validate rejects negative values, percentages above 100 and unknown types.
func (d Discount) Validate() error {
	switch d.Type {
	case DiscountPercentage:
		return checkPercent("discount.value", d.Value)
	case DiscountFixed:
		if d.Value.IsNegative() {
			return inputErr("discount.value", d.Value, "must not be negative")
		}
		return checkScale("discount.value", d.Value)
	}
	return &InvalidInputError{Field: "discount.type", Value: string(d.Type), Reason: "unknown discount type"}
}

// Apply reduces price by the discount. A fixed amount larger than the price
// is clamped so the result is floored at 0.
func (d Discount) Apply(price decimal.Decimal) (decimal.Decimal, error) {
	if err := d.Validate(); err != nil {
		return decimal.Zero, err
	}
	if d.Type == DiscountPercentage {
		return NetPrice(price, d.Value)
	}
	if price.IsNegative() {
		return decimal.Zero, inputErr("price", price, "must not be negative")
	}
	return decimal.Max(price.Sub(d.Value), decimal.Zero), nil
}
