package models

import (
	"time"

	"github.com/shopspring/decimal"

	"affiliate-engine/internal/economics"
)

// AffiliateAccount is one user's standing in the affiliate program
type AffiliateAccount struct {
	ID                      uint             `gorm:"primaryKey" json:"id"`
	UserID                  uint             `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName             string           `gorm:"size:100" json:"display_name"`
	Code                    string           `gorm:"uniqueIndex;size:20;not null" json:"code"`
	TierOverride            *string          `gorm:"size:20" json:"tier_override,omitempty"`
	CustomCommissionRate    *decimal.Decimal `gorm:"type:decimal(5,2)" json:"custom_commission_rate,omitempty"`
	SuccessfulReferralCount int              `gorm:"default:0;not null" json:"successful_referral_count"`
	WalletBalance           decimal.Decimal  `gorm:"type:decimal(18,2);default:0;not null" json:"wallet_balance"`
	LifetimeEarnings        decimal.Decimal  `gorm:"type:decimal(18,2);default:0;not null;index" json:"lifetime_earnings"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

func (AffiliateAccount) TableName() string {
	return "affiliate_accounts"
}

// Economics converts the row into the engine's account view
func (a AffiliateAccount) Economics() economics.Account {
	account := economics.Account{
		CustomCommissionRate:    a.CustomCommissionRate,
		SuccessfulReferralCount: a.SuccessfulReferralCount,
		WalletBalance:           a.WalletBalance,
		LifetimeEarnings:        a.LifetimeEarnings,
	}
	if a.TierOverride != nil && *a.TierOverride != "" {
		tier := economics.TierName(*a.TierOverride)
		account.TierOverride = &tier
	}
	return account
}
