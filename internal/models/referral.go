package models

import (
	"time"

	"github.com/shopspring/decimal"

	"affiliate-engine/internal/economics"
)

// Referral is a downstream subscriber attributed to an upline affiliate.
// CommissionEarned and CommissionProcessed are written by the ledger procedure only.
type Referral struct {
	ID                            uint                     `gorm:"primaryKey" json:"id"`
	ReferrerID                    uint                     `gorm:"not null;index" json:"referrer_id"`
	Referrer                      *AffiliateAccount        `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredUserID                uint                     `gorm:"uniqueIndex;not null" json:"referred_user_id"`
	ReferredName                  string                   `gorm:"size:100" json:"referred_name"`
	PlanType                      string                   `gorm:"size:30;not null" json:"plan_type"`
	Status                        economics.ReferralStatus `gorm:"size:20;default:pending;index" json:"status"`
	SnapshotDiscountPercent       *decimal.Decimal         `gorm:"type:decimal(5,2)" json:"snapshot_discount_percent"`
	SnapshotCommissionRatePercent *decimal.Decimal         `gorm:"type:decimal(5,2)" json:"snapshot_commission_rate_percent"`
	CommissionEarned              decimal.Decimal          `gorm:"type:decimal(18,2);default:0;not null" json:"commission_earned"`
	CommissionProcessed           bool                     `gorm:"default:false;not null" json:"commission_processed"`
	ReferredAt                    time.Time                `gorm:"autoCreateTime" json:"referred_at"`
	UpdatedAt                     time.Time                `json:"updated_at"`
}

func (Referral) TableName() string {
	return "referrals"
}

// Economics converts the row into the engine's referral view
func (r Referral) Economics() economics.Referral {
	return economics.Referral{
		PlanType:                      r.PlanType,
		Status:                        r.Status,
		SnapshotDiscountPercent:       r.SnapshotDiscountPercent,
		SnapshotCommissionRatePercent: r.SnapshotCommissionRatePercent,
		CommissionEarned:              r.CommissionEarned,
		CommissionProcessed:           r.CommissionProcessed,
	}
}
