package economics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Setting keys as stored in the settings source.
const (
	KeyReferralDiscount    = "referral_discount_percent"
	KeyAgentRate           = "tier_agent_rate"
	KeySuperAgentRate      = "tier_super_agent_rate"
	KeyPartnerRate         = "tier_partner_rate"
	KeySuperAgentThreshold = "tier_super_agent_threshold"
	KeyPartnerThreshold    = "tier_partner_threshold"
	KeyCurrency            = "currency"
	KeyPlanPricePrefix     = "plan_price_"
)

// Settings is the typed form of the administrator-managed economics settings.
type Settings struct {
	DefaultDiscountPercent decimal.Decimal `json:"default_discount_percent"`
	Tiers                  TierTable       `json:"tiers"`
	PlanPrices             PlanPrices      `json:"plan_prices"`
	Currency               string          `json:"currency"`
}

// DefaultSettings are the fallbacks used when a key is missing from the source.
func DefaultSettings() Settings {
	return Settings{
		DefaultDiscountPercent: decimal.NewFromInt(5),
		Tiers: TierTable{
			{Name: TierAgent, CommissionRatePercent: decimal.NewFromInt(10), ReferralThreshold: 0},
			{Name: TierSuperAgent, CommissionRatePercent: decimal.NewFromInt(15), ReferralThreshold: 10},
			{Name: TierPartner, CommissionRatePercent: decimal.NewFromInt(20), ReferralThreshold: 50},
		},
		PlanPrices: PlanPrices{
			"basic": decimal.NewFromInt(69),
			"pro":   decimal.NewFromInt(199),
		},
		Currency: "RM",
	}
}

// Validate checks every field of s.
func (s Settings) Validate() error {
	if err := checkPercent(KeyReferralDiscount, s.DefaultDiscountPercent); err != nil {
		return &ConfigurationError{Field: KeyReferralDiscount, Reason: err.Error()}
	}
	if err := s.Tiers.Validate(); err != nil {
		return err
	}
	if len(s.PlanPrices) == 0 {
		return configErr("plan_prices", "no plan prices configured")
	}
	for plan, price := range s.PlanPrices {
		if price.IsNegative() {
			return configErr(KeyPlanPricePrefix+plan, "price must not be negative")
		}
	}
	if strings.TrimSpace(s.Currency) == "" {
		return configErr(KeyCurrency, "currency is empty")
	}
	return nil
}

// Values flattens s back into key/value form.
func (s Settings) Values() map[string]string {
	values := map[string]string{
		KeyReferralDiscount: s.DefaultDiscountPercent.String(),
		KeyCurrency:         s.Currency,
	}
	for _, tier := range s.Tiers {
		switch tier.Name {
		case TierAgent:
			values[KeyAgentRate] = tier.CommissionRatePercent.String()
		case TierSuperAgent:
			values[KeySuperAgentRate] = tier.CommissionRatePercent.String()
			values[KeySuperAgentThreshold] = strconv.Itoa(tier.ReferralThreshold)
		case TierPartner:
			values[KeyPartnerRate] = tier.CommissionRatePercent.String()
			values[KeyPartnerThreshold] = strconv.Itoa(tier.ReferralThreshold)
		}
	}
	for plan, price := range s.PlanPrices {
		values[KeyPlanPricePrefix+plan] = price.String()
	}
	return values
}

// ParseSettings builds Settings from raw key/value pairs. Missing keys take
// their DefaultSettings value and are reported in defaulted; malformed or
// out-of-range values fail with a ConfigurationError.
func ParseSettings(values map[string]string) (Settings, []string, error) {
	s := DefaultSettings()
	p := parser{values: values}

	s.DefaultDiscountPercent = p.decimalValue(KeyReferralDiscount, s.DefaultDiscountPercent)
	s.Currency = p.stringValue(KeyCurrency, s.Currency)

	agent, superAgent, partner := s.Tiers[0], s.Tiers[1], s.Tiers[2]
	agent.CommissionRatePercent = p.decimalValue(KeyAgentRate, agent.CommissionRatePercent)
	superAgent.CommissionRatePercent = p.decimalValue(KeySuperAgentRate, superAgent.CommissionRatePercent)
	partner.CommissionRatePercent = p.decimalValue(KeyPartnerRate, partner.CommissionRatePercent)
	superAgent.ReferralThreshold = p.intValue(KeySuperAgentThreshold, superAgent.ReferralThreshold)
	partner.ReferralThreshold = p.intValue(KeyPartnerThreshold, partner.ReferralThreshold)
	s.Tiers = TierTable{agent, superAgent, partner}

	for key := range values {
		if !strings.HasPrefix(key, KeyPlanPricePrefix) {
			continue
		}
		plan := NormalizePlan(strings.TrimPrefix(key, KeyPlanPricePrefix))
		if plan == "" || strings.TrimSpace(values[key]) == "" {
			continue
		}
		s.PlanPrices[plan] = p.decimalValue(key, decimal.Zero)
	}

	if p.err != nil {
		return Settings{}, nil, p.err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, nil, err
	}
	sort.Strings(p.defaulted)
	return s, p.defaulted, nil
}

type parser struct {
	values    map[string]string
	defaulted []string
	err       error
}

func (p *parser) raw(key string) (string, bool) {
	v, ok := p.values[key]
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		p.defaulted = append(p.defaulted, key)
		return "", false
	}
	return v, true
}

func (p *parser) decimalValue(key string, fallback decimal.Decimal) decimal.Decimal {
	v, ok := p.raw(key)
	if !ok {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		p.fail(key, "not a decimal: "+v)
		return fallback
	}
	return d
}

func (p *parser) intValue(key string, fallback int) int {
	v, ok := p.raw(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, "not an integer: "+v)
		return fallback
	}
	return n
}

func (p *parser) stringValue(key, fallback string) string {
	v, ok := p.raw(key)
	if !ok {
		return fallback
	}
	return v
}

func (p *parser) fail(key, reason string) {
	if p.err == nil {
		p.err = configErr(key, reason)
	}
}
