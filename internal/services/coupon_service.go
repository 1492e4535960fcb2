package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"affiliate-engine/internal/economics"
	"affiliate-engine/internal/models"
	"affiliate-engine/internal/repository"
	"affiliate-engine/internal/settings"
)

type CouponService struct {
	repo     *repository.Repository
	settings *settings.Provider
	admin    *AdminService
	log      *zap.Logger
}

func NewCouponService(repo *repository.Repository, provider *settings.Provider, admin *AdminService, log *zap.Logger) *CouponService {
	return &CouponService{
		repo:     repo,
		settings: provider,
		admin:    admin,
		log:      log,
	}
}

// CreateCouponInput describes a new coupon
type CreateCouponInput struct {
	Code         string
	DiscountType economics.DiscountType
	Value        decimal.Decimal
	PlanType     string
	ExpiresAt    *time.Time
}

// CreateCoupon validates and stores a coupon
func (s *CouponService) CreateCoupon(ctx context.Context, in CreateCouponInput, adminID uint) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, &economics.InvalidInputError{Field: "code", Value: in.Code, Reason: "code is required"}
	}
	discount := economics.Discount{Type: in.DiscountType, Value: in.Value}
	if err := discount.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCouponByCode(ctx, code); err == nil {
		return nil, ErrCouponExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check coupon: %w", err)
	}

	coupon := &models.Coupon{
		Code:         code,
		DiscountType: in.DiscountType,
		Value:        in.Value,
		IsActive:     true,
		ExpiresAt:    in.ExpiresAt,
		CreatedBy:    adminID,
	}
	if plan := economics.NormalizePlan(in.PlanType); plan != "" {
		if _, err := s.settings.Current().PlanPrices.Price(plan); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, in.PlanType)
		}
		coupon.PlanType = &plan
	}

	if err := s.repo.CreateCoupon(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.admin.LogAdminAction(ctx, adminID, "CREATE_COUPON", "COUPON", coupon.ID.String(), map[string]interface{}{
		"code":  code,
		"type":  string(in.DiscountType),
		"value": in.Value.String(),
	})
	return coupon, nil
}

func (s *CouponService) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return s.repo.ListCoupons(ctx)
}

// DeactivateCoupon switches a coupon off
func (s *CouponService) DeactivateCoupon(ctx context.Context, code string, adminID uint) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := s.repo.DeactivateCoupon(ctx, code); err != nil {
		return fmt.Errorf("coupon %q: %w", code, err)
	}
	s.admin.LogAdminAction(ctx, adminID, "DEACTIVATE_COUPON", "COUPON", code, nil)
	return nil
}

// Quote is the price of a plan after a coupon
type Quote struct {
	Code         string          `json:"code"`
	PlanType     string          `json:"plan_type"`
	ListPrice    decimal.Decimal `json:"list_price"`
	Discount     decimal.Decimal `json:"discount"`
	FinalPrice   decimal.Decimal `json:"final_price"`
	DisplayPrice string          `json:"display_price"`
}

// Quote applies a coupon to a plan's list price. The result never goes below zero.
func (s *CouponService) Quote(ctx context.Context, code, planType string) (*Quote, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	coupon, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("coupon %q: %w", code, err)
	}
	if !coupon.IsActive || (coupon.ExpiresAt != nil && time.Now().After(*coupon.ExpiresAt)) {
		return nil, ErrCouponInactive
	}

	plan := economics.NormalizePlan(planType)
	if coupon.PlanType != nil && *coupon.PlanType != plan {
		return nil, fmt.Errorf("%w: coupon %s is for plan %s", ErrCouponInactive, code, *coupon.PlanType)
	}

	engine := s.settings.Engine()
	price, err := engine.Settings().PlanPrices.Price(plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, planType)
	}
	final, err := coupon.Discount().Apply(price)
	if err != nil {
		return nil, err
	}

	return &Quote{
		Code:         code,
		PlanType:     plan,
		ListPrice:    price,
		Discount:     price.Sub(final),
		FinalPrice:   final,
		DisplayPrice: engine.Display(final),
	}, nil
}
