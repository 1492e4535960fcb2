package economics

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PlanPrices maps a plan type to its gross list price.
type PlanPrices map[string]decimal.Decimal

// NormalizePlan is the canonical key form of a plan type.
func NormalizePlan(plan string) string {
	return strings.ToLower(strings.TrimSpace(plan))
}

// Price looks up the list price for plan.
func (p PlanPrices) Price(plan string) (decimal.Decimal, error) {
	price, ok := p[NormalizePlan(plan)]
	if !ok {
		return decimal.Zero, configErr("plan_price."+NormalizePlan(plan), "no list price configured for plan")
	}
	return price, nil
}

// NetPrice applies a percentage discount to a gross price. Discounts outside
// [0, 100] are rejected, so the result is never negative.
func NetPrice(gross, discountPercent decimal.Decimal) (decimal.Decimal, error) {
	if gross.IsNegative() {
		return decimal.Zero, inputErr("gross_price", gross, "must not be negative")
	}
	if err := checkPercent("discount_percent", discountPercent); err != nil {
		return decimal.Zero, err
	}
	return gross.Mul(hundred.Sub(discountPercent)).Div(hundred), nil
}

// CommissionKind distinguishes ledger actuals from projections.
type CommissionKind string

const (
	CommissionNone     CommissionKind = "none"
	CommissionEstimate CommissionKind = "estimate"
	CommissionPaid     CommissionKind = "paid"
)

// Commission is the result of ComputeCommission. Amount is unrounded.
type Commission struct {
	Amount decimal.Decimal `json:"amount"`
	Kind   CommissionKind  `json:"kind"`
}

// IsEstimate reports whether the amount is a projection rather than a ledger figure.
func (c Commission) IsEstimate() bool {
	return c.Kind == CommissionEstimate
}

// Display renders the amount for people, rounding to 2 decimal places.
func (c Commission) Display(currency string) string {
	amount := currency + c.Amount.StringFixed(2)
	switch c.Kind {
	case CommissionPaid:
		return "+" + amount + " Paid"
	case CommissionEstimate:
		return "Est. " + amount
	}
	return amount
}

// ComputeCommission returns the commission for one referral at ratePercent,
// with the customer's effective discount already resolved.
//
// Cancelled referrals yield zero. Referrals whose commission was processed by
// the ledger yield the stored amount unchanged. Everything else is an estimate.
func ComputeCommission(r Referral, ratePercent, discountPercent decimal.Decimal, prices PlanPrices) (Commission, error) {
	if r.Status == StatusCancelled {
		return Commission{Amount: decimal.Zero, Kind: CommissionNone}, nil
	}
	if r.CommissionProcessed {
		return Commission{Amount: r.CommissionEarned, Kind: CommissionPaid}, nil
	}

	if err := checkPercent("commission_rate_percent", ratePercent); err != nil {
		return Commission{}, err
	}
	gross, err := prices.Price(r.PlanType)
	if err != nil {
		return Commission{}, err
	}
	net, err := NetPrice(gross, discountPercent)
	if err != nil {
		return Commission{}, err
	}

	return Commission{
		Amount: net.Mul(ratePercent).Div(hundred),
		Kind:   CommissionEstimate,
	}, nil
}

// ValidatePercent checks that v is a percentage in [0, 100] with at most
// two decimal places, the precision percentages are stored at.
func ValidatePercent(field string, v decimal.Decimal) error {
	return checkPercent(field, v)
}

func checkPercent(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return inputErr(field, v, "must not be negative")
	}
	if v.GreaterThan(hundred) {
		return inputErr(field, v, "must not exceed 100")
	}
	return checkScale(field, v)
}

func checkScale(field string, v decimal.Decimal) error {
	if !v.Equal(v.Round(percentScale)) {
		return inputErr(field, v, "must have at most 2 decimal places")
	}
	return nil
}
