package economics

import (
	"github.com/shopspring/decimal"
)

// ReferralStatus is the lifecycle state of a referral.
type ReferralStatus string

const (
	StatusPending   ReferralStatus = "pending"
	StatusActive    ReferralStatus = "active"
	StatusCancelled ReferralStatus = "cancelled"
)

// Valid reports whether s is one of the known states.
func (s ReferralStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows s -> next.
func (s ReferralStatus) CanTransitionTo(next ReferralStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusActive || next == StatusCancelled
	case StatusActive:
		return next == StatusCancelled
	}
	return false
}

// Referral is a downstream subscriber attributed to an upline affiliate.
//
// Snapshot fields are nil until captured at registration. Once captured they
// are the terms the subscriber signed up under, and a captured zero is a real
// zero, not "unset".
type Referral struct {
	PlanType                      string
	Status                        ReferralStatus
	SnapshotDiscountPercent       *decimal.Decimal
	SnapshotCommissionRatePercent *decimal.Decimal
	CommissionEarned              decimal.Decimal
	CommissionProcessed           bool
}

// Account is an affiliate's standing.
type Account struct {
	TierOverride            *TierName
	CustomCommissionRate    *decimal.Decimal
	SuccessfulReferralCount int
	WalletBalance           decimal.Decimal
	LifetimeEarnings        decimal.Decimal
}

// Validate checks the wallet invariants.
func (a Account) Validate() error {
	if a.SuccessfulReferralCount < 0 {
		return inputErr("successful_referral_count", intString(a.SuccessfulReferralCount), "must not be negative")
	}
	if a.WalletBalance.IsNegative() {
		return inputErr("wallet_balance", a.WalletBalance, "must not be negative")
	}
	if a.LifetimeEarnings.IsNegative() {
		return inputErr("lifetime_earnings", a.LifetimeEarnings, "must not be negative")
	}
	if a.WalletBalance.GreaterThan(a.LifetimeEarnings) {
		return inputErr("wallet_balance", a.WalletBalance, "exceeds lifetime earnings")
	}
	if a.CustomCommissionRate != nil {
		if err := checkPercent("custom_commission_rate", *a.CustomCommissionRate); err != nil {
			return err
		}
	}
	return nil
}

// Tier returns the account's tier: the override when it names a known tier,
// otherwise the tier derived from the successful referral count.
func (a Account) Tier(table TierTable) (TierEntry, error) {
	if a.TierOverride != nil {
		if entry, ok := table.Find(*a.TierOverride); ok {
			return entry, nil
		}
		if len(table) > 0 {
			return TierEntry{}, configErr("tier_override", "unknown tier "+string(*a.TierOverride))
		}
	}
	return ResolveTier(a.SuccessfulReferralCount, table)
}

// NextTier reports progress from the account's tier to the one above it.
// An override sets the starting tier; progress is still measured against
// the successful referral count.
func (a Account) NextTier(table TierTable) (NextTier, error) {
	if a.TierOverride == nil {
		return NextTierInfo(a.SuccessfulReferralCount, table)
	}
	if _, err := resolveIndex(a.SuccessfulReferralCount, table); err != nil {
		return NextTier{}, err
	}
	idx, ok := table.index(*a.TierOverride)
	if !ok {
		return NextTier{}, configErr("tier_override", "unknown tier "+string(*a.TierOverride))
	}
	return nextTierFrom(idx, a.SuccessfulReferralCount, table), nil
}

// EffectiveCommissionRate picks the rate the upline earns on a referral.
// First match wins: the referral's captured rate, the account's non-zero
// custom rate, then the account's tier rate.
func EffectiveCommissionRate(r Referral, a Account, table TierTable) (decimal.Decimal, error) {
	if r.SnapshotCommissionRatePercent != nil {
		rate := *r.SnapshotCommissionRatePercent
		if err := checkPercent("snapshot_commission_rate_percent", rate); err != nil {
			return decimal.Zero, err
		}
		return rate, nil
	}

	if a.CustomCommissionRate != nil && !a.CustomCommissionRate.IsZero() {
		rate := *a.CustomCommissionRate
		if err := checkPercent("custom_commission_rate", rate); err != nil {
			return decimal.Zero, err
		}
		return rate, nil
	}

	tier, err := a.Tier(table)
	if err != nil {
		return decimal.Zero, err
	}
	return tier.CommissionRatePercent, nil
}

// EffectiveDiscount picks the discount the referred customer receives: the
// captured discount if any, otherwise the current global default.
func EffectiveDiscount(r Referral, globalDefaultPercent decimal.Decimal) (decimal.Decimal, error) {
	discount := globalDefaultPercent
	field := "global_discount_percent"
	if r.SnapshotDiscountPercent != nil {
		discount = *r.SnapshotDiscountPercent
		field = "snapshot_discount_percent"
	}
	if err := checkPercent(field, discount); err != nil {
		return decimal.Zero, err
	}
	return discount, nil
}
