package economics

import (
	"github.com/shopspring/decimal"
)

// MonthlyProjection sums the commission of every active referral, each at its
// effective rate and discount. Pending and cancelled referrals are excluded.
func MonthlyProjection(referrals []Referral, a Account, table TierTable, globalDiscount decimal.Decimal, prices PlanPrices) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, r := range referrals {
		if r.Status != StatusActive {
			continue
		}
		c, err := CommissionFor(r, a, table, globalDiscount, prices)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(c.Amount)
	}
	return total, nil
}

// CommissionFor resolves the effective rate and discount for r, then computes
// its commission.
func CommissionFor(r Referral, a Account, table TierTable, globalDiscount decimal.Decimal, prices PlanPrices) (Commission, error) {
	if r.Status == StatusCancelled || r.CommissionProcessed {
		return ComputeCommission(r, decimal.Zero, decimal.Zero, prices)
	}
	rate, err := EffectiveCommissionRate(r, a, table)
	if err != nil {
		return Commission{}, err
	}
	discount, err := EffectiveDiscount(r, globalDiscount)
	if err != nil {
		return Commission{}, err
	}
	return ComputeCommission(r, rate, discount, prices)
}
