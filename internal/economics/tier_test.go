package economics

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func defaultTiers() TierTable {
	return DefaultSettings().Tiers
}

func TestResolveTierBoundaries(t *testing.T) {
	tests := []struct {
		count int
		want  TierName
	}{
		{0, TierAgent},
		{9, TierAgent},
		{10, TierSuperAgent},
		{49, TierSuperAgent},
		{50, TierPartner},
		{5000, TierPartner},
	}

	for _, tt := range tests {
		got, err := ResolveTier(tt.count, defaultTiers())
		if err != nil {
			t.Fatalf("ResolveTier(%d) failed: %v", tt.count, err)
		}
		if got.Name != tt.want {
			t.Errorf("ResolveTier(%d) = %s, want %s", tt.count, got.Name, tt.want)
		}
	}
}

func TestResolveTierFirstThresholdIsImplicitZero(t *testing.T) {
	table := TierTable{
		{Name: TierAgent, CommissionRatePercent: decimal.NewFromInt(10), ReferralThreshold: 3},
		{Name: TierPartner, CommissionRatePercent: decimal.NewFromInt(20), ReferralThreshold: 5},
	}

	got, err := ResolveTier(0, table)
	if err != nil {
		t.Fatalf("ResolveTier failed: %v", err)
	}
	if got.Name != TierAgent {
		t.Errorf("expected base tier for count below first threshold, got %s", got.Name)
	}
}

func TestResolveTierEmptyTable(t *testing.T) {
	_, err := ResolveTier(3, TierTable{})

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected error to match ErrConfiguration")
	}
}

func TestResolveTierNegativeCount(t *testing.T) {
	_, err := ResolveTier(-1, defaultTiers())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResolveTierMonotonic(t *testing.T) {
	table := defaultTiers()
	prev, err := ResolveTier(0, table)
	if err != nil {
		t.Fatalf("ResolveTier failed: %v", err)
	}
	for c := 1; c <= 200; c++ {
		cur, err := ResolveTier(c, table)
		if err != nil {
			t.Fatalf("ResolveTier(%d) failed: %v", c, err)
		}
		if cur.CommissionRatePercent.LessThan(prev.CommissionRatePercent) {
			t.Fatalf("rate dropped from %s to %s at count %d", prev.CommissionRatePercent, cur.CommissionRatePercent, c)
		}
		prev = cur
	}
}

func TestNextTierInfo(t *testing.T) {
	info, err := NextTierInfo(4, defaultTiers())
	if err != nil {
		t.Fatalf("NextTierInfo failed: %v", err)
	}
	if info.NextTierName != string(TierSuperAgent) || info.TargetThreshold != 10 {
		t.Errorf("unexpected next tier: %+v", info)
	}
	if !info.NextTierRate.Equal(decimal.NewFromInt(15)) {
		t.Errorf("expected next rate 15, got %s", info.NextTierRate)
	}
	if !info.ProgressPercent().Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected progress 40, got %s", info.ProgressPercent())
	}
	if info.Remaining() != 6 {
		t.Errorf("expected 6 remaining, got %d", info.Remaining())
	}
}

func TestNextTierInfoMaxLevel(t *testing.T) {
	info, err := NextTierInfo(50, defaultTiers())
	if err != nil {
		t.Fatalf("NextTierInfo failed: %v", err)
	}
	if !info.MaxLevel || info.NextTierName != MaxLevelName {
		t.Fatalf("expected Max Level sentinel, got %+v", info)
	}
	if info.TargetThreshold != 50 {
		t.Errorf("expected target to equal current count, got %d", info.TargetThreshold)
	}
	if !info.ProgressPercent().Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100%% progress, got %s", info.ProgressPercent())
	}
}

func TestProgressPercentZeroTarget(t *testing.T) {
	single := TierTable{{Name: TierAgent, CommissionRatePercent: decimal.NewFromInt(10)}}
	info, err := NextTierInfo(0, single)
	if err != nil {
		t.Fatalf("NextTierInfo failed: %v", err)
	}
	if info.TargetThreshold != 0 {
		t.Fatalf("expected zero target, got %d", info.TargetThreshold)
	}
	if !info.ProgressPercent().Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100%% progress for zero target, got %s", info.ProgressPercent())
	}
}

func TestTierTableValidate(t *testing.T) {
	bad := TierTable{
		{Name: TierAgent, CommissionRatePercent: decimal.NewFromInt(10), ReferralThreshold: 0},
		{Name: TierSuperAgent, CommissionRatePercent: decimal.NewFromInt(15), ReferralThreshold: 0},
	}
	if err := bad.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected duplicate thresholds to be rejected, got %v", err)
	}

	overRate := TierTable{{Name: TierAgent, CommissionRatePercent: decimal.NewFromInt(101)}}
	if err := overRate.Validate(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected rate above 100 to be rejected, got %v", err)
	}

	if err := defaultTiers().Validate(); err != nil {
		t.Errorf("default tiers should validate: %v", err)
	}
}
