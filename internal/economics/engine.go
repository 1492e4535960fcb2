// Package economics computes affiliate tiers, effective commission rates and
// discounts, commissions and projections. Every function is pure; the same
// code backs the figures shown to affiliates and the ones reported to admins.
// The authoritative ledger is the only writer of paid commission amounts.
package economics

import (
	"github.com/shopspring/decimal"
)

// Engine binds a validated Settings snapshot to the pure functions of this
// package.
type Engine struct {
	settings Settings
}

// NewEngine validates s and returns an Engine over it.
func NewEngine(s Settings) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Engine{settings: s}, nil
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() Settings {
	return e.settings
}

func (e *Engine) ResolveTier(count int) (TierEntry, error) {
	return ResolveTier(count, e.settings.Tiers)
}

func (e *Engine) NextTierInfo(count int) (NextTier, error) {
	return NextTierInfo(count, e.settings.Tiers)
}

// NextTierFor is NextTierInfo starting from a's tier, honoring its override.
func (e *Engine) NextTierFor(a Account) (NextTier, error) {
	return a.NextTier(e.settings.Tiers)
}

func (e *Engine) EffectiveCommissionRate(r Referral, a Account) (decimal.Decimal, error) {
	return EffectiveCommissionRate(r, a, e.settings.Tiers)
}

func (e *Engine) EffectiveDiscount(r Referral) (decimal.Decimal, error) {
	return EffectiveDiscount(r, e.settings.DefaultDiscountPercent)
}

// ComputeCommission computes r's commission at ratePercent using r's
// effective discount.
func (e *Engine) ComputeCommission(r Referral, ratePercent decimal.Decimal) (Commission, error) {
	if r.Status == StatusCancelled || r.CommissionProcessed {
		return ComputeCommission(r, ratePercent, decimal.Zero, e.settings.PlanPrices)
	}
	discount, err := e.EffectiveDiscount(r)
	if err != nil {
		return Commission{}, err
	}
	return ComputeCommission(r, ratePercent, discount, e.settings.PlanPrices)
}

// CommissionFor computes r's commission at the rate a earns on it.
func (e *Engine) CommissionFor(r Referral, a Account) (Commission, error) {
	return CommissionFor(r, a, e.settings.Tiers, e.settings.DefaultDiscountPercent, e.settings.PlanPrices)
}

func (e *Engine) MonthlyProjection(referrals []Referral, a Account) (decimal.Decimal, error) {
	return MonthlyProjection(referrals, a, e.settings.Tiers, e.settings.DefaultDiscountPercent, e.settings.PlanPrices)
}

// Snapshot returns the discount and commission rate to freeze onto a referral
// registering now under upline account a.
func (e *Engine) Snapshot(a Account) (discount, rate decimal.Decimal, err error) {
	rate, err = EffectiveCommissionRate(Referral{}, a, e.settings.Tiers)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return e.settings.DefaultDiscountPercent, rate, nil
}

// Display formats an amount in the configured currency, rounded to 2 places.
func (e *Engine) Display(amount decimal.Decimal) string {
	return e.settings.Currency + amount.StringFixed(2)
}
