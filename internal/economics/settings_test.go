package economics

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseSettingsDefaults(t *testing.T) {
	s, defaulted, err := ParseSettings(map[string]string{})
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}

	if !s.DefaultDiscountPercent.Equal(decimal.NewFromInt(5)) {
		t.Errorf("expected default discount 5, got %s", s.DefaultDiscountPercent)
	}
	wantRates := []int64{10, 15, 20}
	wantThresholds := []int{0, 10, 50}
	for i, tier := range s.Tiers {
		if !tier.CommissionRatePercent.Equal(decimal.NewFromInt(wantRates[i])) {
			t.Errorf("tier %s: expected rate %d, got %s", tier.Name, wantRates[i], tier.CommissionRatePercent)
		}
		if tier.ReferralThreshold != wantThresholds[i] {
			t.Errorf("tier %s: expected threshold %d, got %d", tier.Name, wantThresholds[i], tier.ReferralThreshold)
		}
	}

	wantDefaulted := []string{
		KeyCurrency,
		KeyReferralDiscount,
		KeyAgentRate,
		KeyPartnerRate,
		KeyPartnerThreshold,
		KeySuperAgentRate,
		KeySuperAgentThreshold,
	}
	if !reflect.DeepEqual(defaulted, wantDefaulted) {
		t.Errorf("expected defaulted %v, got %v", wantDefaulted, defaulted)
	}
}

func TestParseSettingsOverrides(t *testing.T) {
	s, defaulted, err := ParseSettings(map[string]string{
		KeyReferralDiscount:    "10",
		KeyAgentRate:           "12.5",
		KeySuperAgentRate:      "17",
		KeyPartnerRate:         "25",
		KeySuperAgentThreshold: "5",
		KeyPartnerThreshold:    "25",
		KeyCurrency:            "USD",
		"plan_price_Agency":    "499",
		"plan_price_pro":       "249",
	})
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}
	if len(defaulted) != 0 {
		t.Errorf("expected nothing defaulted, got %v", defaulted)
	}

	tier, err := ResolveTier(5, s.Tiers)
	if err != nil {
		t.Fatalf("ResolveTier failed: %v", err)
	}
	if tier.Name != TierSuperAgent || !tier.CommissionRatePercent.Equal(decimal.NewFromInt(17)) {
		t.Errorf("unexpected tier %+v", tier)
	}

	price, err := s.PlanPrices.Price("agency")
	if err != nil || !price.Equal(decimal.NewFromInt(499)) {
		t.Errorf("expected agency price 499, got %s (%v)", price, err)
	}
	price, _ = s.PlanPrices.Price("basic")
	if !price.Equal(decimal.NewFromInt(69)) {
		t.Errorf("expected default basic price 69 to be kept, got %s", price)
	}
	if s.Currency != "USD" {
		t.Errorf("expected USD, got %s", s.Currency)
	}
}

func TestParseSettingsRejectsBadValues(t *testing.T) {
	tests := []map[string]string{
		{KeyReferralDiscount: "five"},
		{KeyReferralDiscount: "120"},
		{KeyPartnerRate: "-3"},
		{KeySuperAgentThreshold: "ten"},
		{KeySuperAgentThreshold: "60"},
		{"plan_price_basic": "-1"},
		{KeyAgentRate: "12.345"},
		{KeyReferralDiscount: "5.125"},
	}

	for _, values := range tests {
		_, _, err := ParseSettings(values)
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("%v: expected ErrConfiguration, got %v", values, err)
		}
	}
}

func TestParseSettingsAcceptsTrailingZeros(t *testing.T) {
	s, _, err := ParseSettings(map[string]string{KeyAgentRate: "12.350"})
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}
	if !s.Tiers[0].CommissionRatePercent.Equal(decimal.RequireFromString("12.35")) {
		t.Errorf("expected agent rate 12.35, got %s", s.Tiers[0].CommissionRatePercent)
	}
}

func TestSettingsValuesRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.Currency = "SGD"
	s.PlanPrices["team"] = decimal.NewFromInt(399)

	parsed, defaulted, err := ParseSettings(s.Values())
	if err != nil {
		t.Fatalf("ParseSettings failed: %v", err)
	}
	if len(defaulted) != 0 {
		t.Errorf("expected nothing defaulted, got %v", defaulted)
	}
	if parsed.Currency != "SGD" {
		t.Errorf("expected SGD, got %s", parsed.Currency)
	}
	if price, err := parsed.PlanPrices.Price("team"); err != nil || !price.Equal(decimal.NewFromInt(399)) {
		t.Errorf("expected team price 399, got %s (%v)", price, err)
	}
}

func TestNewEngineRejectsEmptyTiers(t *testing.T) {
	s := DefaultSettings()
	s.Tiers = nil
	if _, err := NewEngine(s); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
