package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"affiliate-engine/internal/economics"
	"affiliate-engine/internal/models"
)

// GetAffiliateByUserID retrieves the affiliate account owned by a user
func (r *Repository) GetAffiliateByUserID(ctx context.Context, userID uint) (*models.AffiliateAccount, error) {
	var account models.AffiliateAccount
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

// GetAffiliateByID retrieves an affiliate account by primary key
func (r *Repository) GetAffiliateByID(ctx context.Context, id uint) (*models.AffiliateAccount, error) {
	var account models.AffiliateAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

// GetAffiliateByCode retrieves an affiliate account by referral code
func (r *Repository) GetAffiliateByCode(ctx context.Context, code string) (*models.AffiliateAccount, error) {
	var account models.AffiliateAccount
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&account).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

// CreateAffiliate creates a new affiliate account
func (r *Repository) CreateAffiliate(ctx context.Context, account *models.AffiliateAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// UpdateAffiliateOverride sets or clears the admin overrides of an account
func (r *Repository) UpdateAffiliateOverride(ctx context.Context, accountID uint, rate *decimal.Decimal, tier *string) error {
	result := r.db.WithContext(ctx).Model(&models.AffiliateAccount{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"custom_commission_rate": rate,
			"tier_override":          tier,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TopAffiliates returns the accounts with the highest lifetime earnings
func (r *Repository) TopAffiliates(ctx context.Context, limit int) ([]models.AffiliateAccount, error) {
	var accounts []models.AffiliateAccount
	err := r.db.WithContext(ctx).
		Order("lifetime_earnings DESC").
		Order("id ASC").
		Limit(limit).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// CreateReferral creates a referral with its snapshot fields already frozen
func (r *Repository) CreateReferral(ctx context.Context, referral *models.Referral) error {
	return r.db.WithContext(ctx).Create(referral).Error
}

// GetReferralByID retrieves a referral by ID
func (r *Repository) GetReferralByID(ctx context.Context, id uint) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&referral).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &referral, nil
}

// GetReferralByReferredUser retrieves the referral of a subscriber, if any
func (r *Repository) GetReferralByReferredUser(ctx context.Context, userID uint) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.WithContext(ctx).Where("referred_user_id = ?", userID).First(&referral).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &referral, nil
}

// ListReferralsByReferrer returns every referral of an upline account, newest first
func (r *Repository) ListReferralsByReferrer(ctx context.Context, referrerID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("referred_at DESC").
		Order("id DESC").
		Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}

// UpdateReferralStatus moves a referral from one status to another. It
// reports false when the referral is no longer in the expected status.
// Activation also counts towards the upline's successful referrals.
func (r *Repository) UpdateReferralStatus(ctx context.Context, referral *models.Referral, to economics.ReferralStatus) (bool, error) {
	updated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Referral{}).
			Where("id = ? AND status = ?", referral.ID, referral.Status).
			Update("status", to)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if to == economics.StatusActive {
			if err := tx.Model(&models.AffiliateAccount{}).
				Where("id = ?", referral.ReferrerID).
				Update("successful_referral_count", gorm.Expr("successful_referral_count + 1")).Error; err != nil {
				return fmt.Errorf("failed to count successful referral: %w", err)
			}
		}
		updated = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if updated {
		referral.Status = to
	}
	return updated, nil
}
