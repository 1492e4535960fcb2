package repository

import (
	"context"

	"affiliate-engine/internal/models"
)

// CreateCoupon creates a new coupon
func (r *Repository) CreateCoupon(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

// GetCouponByCode retrieves a coupon by code regardless of its state
func (r *Repository) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &coupon, nil
}

// ListCoupons returns all coupons, newest first
func (r *Repository) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// DeactivateCoupon switches a coupon off
func (r *Repository) DeactivateCoupon(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("code = ?", code).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
