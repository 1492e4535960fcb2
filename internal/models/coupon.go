package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"affiliate-engine/internal/economics"
)

// Coupon is an admin-issued price reduction
type Coupon struct {
	ID           uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	Code         string                 `gorm:"uniqueIndex;size:32;not null" json:"code"`
	DiscountType economics.DiscountType `gorm:"size:20;not null" json:"discount_type"`
	Value        decimal.Decimal        `gorm:"type:decimal(18,2);not null" json:"value"`
	PlanType     *string                `gorm:"size:30" json:"plan_type,omitempty"` // nil applies to every plan
	IsActive     bool                   `gorm:"default:true;index" json:"is_active"`
	ExpiresAt    *time.Time             `json:"expires_at,omitempty"`
	CreatedBy    uint                   `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Discount returns the coupon's reduction in engine form
func (c Coupon) Discount() economics.Discount {
	return economics.Discount{Type: c.DiscountType, Value: c.Value}
}
