package economics

import (
	"github.com/shopspring/decimal"
)

// TierName identifies an affiliate tier.
type TierName string

const (
	TierAgent      TierName = "Agent"
	TierSuperAgent TierName = "SuperAgent"
	TierPartner    TierName = "Partner"
)

// MaxLevelName is reported as the next tier once the highest tier is reached.
const MaxLevelName = "Max Level"

// percentScale is the number of decimal places rates and discounts keep.
const percentScale = 2

var (
	hundred = decimal.NewFromInt(100)
)

// TierEntry is one row of the tier table.
type TierEntry struct {
	Name                  TierName        `json:"name"`
	CommissionRatePercent decimal.Decimal `json:"commission_rate_percent"`
	ReferralThreshold     int             `json:"referral_threshold"`
}

// TierTable is ordered by ReferralThreshold ascending. The first entry's
// threshold is treated as 0 and the last entry has no upper bound.
type TierTable []TierEntry

// Validate checks that the table is usable for tier resolution.
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return configErr("tiers", "tier table is empty, at least one base tier is required")
	}
	for i, entry := range t {
		if entry.Name == "" {
			return configErr("tiers", "tier name is empty")
		}
		if err := checkPercent("tiers."+string(entry.Name)+".rate", entry.CommissionRatePercent); err != nil {
			return &ConfigurationError{Field: "tiers." + string(entry.Name) + ".rate", Reason: err.Error()}
		}
		if i > 0 && entry.ReferralThreshold <= t[i-1].ReferralThreshold {
			return configErr("tiers."+string(entry.Name)+".threshold", "thresholds must be strictly ascending")
		}
	}
	return nil
}

// Find returns the entry with the given name.
func (t TierTable) Find(name TierName) (TierEntry, bool) {
	for _, entry := range t {
		if entry.Name == name {
			return entry, true
		}
	}
	return TierEntry{}, false
}

func (t TierTable) index(name TierName) (int, bool) {
	for i, entry := range t {
		if entry.Name == name {
			return i, true
		}
	}
	return 0, false
}

// ResolveTier returns the last entry whose threshold is <= count.
func ResolveTier(count int, table TierTable) (TierEntry, error) {
	idx, err := resolveIndex(count, table)
	if err != nil {
		return TierEntry{}, err
	}
	return table[idx], nil
}

func resolveIndex(count int, table TierTable) (int, error) {
	if len(table) == 0 {
		return 0, configErr("tiers", "tier table is empty, at least one base tier is required")
	}
	if count < 0 {
		return 0, inputErr("successful_referral_count", intString(count), "must not be negative")
	}

	idx := 0
	for i := 1; i < len(table); i++ {
		if table[i].ReferralThreshold <= count {
			idx = i
		}
	}
	return idx, nil
}

// NextTier describes the distance from the current tier to the next one.
type NextTier struct {
	CurrentCount    int             `json:"current_count"`
	CurrentTier     TierName        `json:"current_tier"`
	NextTierName    string          `json:"next_tier_name"`
	TargetThreshold int             `json:"target_threshold"`
	NextTierRate    decimal.Decimal `json:"next_tier_rate"`
	MaxLevel        bool            `json:"max_level"`
}

// NextTierInfo reports the next tier target for a referral count. At the
// highest tier it returns the Max Level sentinel with TargetThreshold equal
// to the current count.
func NextTierInfo(count int, table TierTable) (NextTier, error) {
	idx, err := resolveIndex(count, table)
	if err != nil {
		return NextTier{}, err
	}
	return nextTierFrom(idx, count, table), nil
}

func nextTierFrom(idx, count int, table TierTable) NextTier {
	current := table[idx]
	if idx == len(table)-1 {
		return NextTier{
			CurrentCount:    count,
			CurrentTier:     current.Name,
			NextTierName:    MaxLevelName,
			TargetThreshold: count,
			NextTierRate:    current.CommissionRatePercent,
			MaxLevel:        true,
		}
	}

	next := table[idx+1]
	return NextTier{
		CurrentCount:    count,
		CurrentTier:     current.Name,
		NextTierName:    string(next.Name),
		TargetThreshold: next.ReferralThreshold,
		NextTierRate:    next.CommissionRatePercent,
	}
}

// ProgressPercent is min(100, current/target*100), or 100 when target is 0.
func (n NextTier) ProgressPercent() decimal.Decimal {
	if n.TargetThreshold <= 0 {
		return hundred
	}
	pct := decimal.NewFromInt(int64(n.CurrentCount)).
		Div(decimal.NewFromInt(int64(n.TargetThreshold))).
		Mul(hundred)
	return decimal.Min(pct, hundred)
}

// Remaining is the number of successful referrals still needed.
func (n NextTier) Remaining() int {
	if n.MaxLevel || n.CurrentCount >= n.TargetThreshold {
		return 0
	}
	return n.TargetThreshold - n.CurrentCount
}
