package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"affiliate-engine/internal/economics"
)

func TestCouponQuote(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	coupons := []CreateCouponInput{
		{Code: "tenoff", DiscountType: economics.DiscountPercentage, Value: decimal.NewFromInt(10)},
		{Code: "BIGFIXED", DiscountType: economics.DiscountFixed, Value: decimal.NewFromInt(500)},
		{Code: "PROONLY", DiscountType: economics.DiscountFixed, Value: decimal.NewFromInt(20), PlanType: "pro"},
	}
	for _, in := range coupons {
		if _, err := env.coupons.CreateCoupon(ctx, in, 99); err != nil {
			t.Fatalf("CreateCoupon(%s) failed: %v", in.Code, err)
		}
	}

	tests := []struct {
		code, plan string
		final      string
	}{
		{"TENOFF", "pro", "179.10"},
		{"bigfixed", "basic", "0.00"},
		{"PROONLY", "Pro", "179.00"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			quote, err := env.coupons.Quote(ctx, tt.code, tt.plan)
			if err != nil {
				t.Fatalf("Quote failed: %v", err)
			}
			if got := quote.FinalPrice.StringFixed(2); got != tt.final {
				t.Errorf("expected final price %s, got %s", tt.final, got)
			}
		})
	}

	if _, err := env.coupons.Quote(ctx, "PROONLY", "basic"); !errors.Is(err, ErrCouponInactive) {
		t.Errorf("expected plan mismatch to be rejected, got %v", err)
	}
}

func TestCouponLifecycleErrors(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	in := CreateCouponInput{Code: "SPRING", DiscountType: economics.DiscountPercentage, Value: decimal.NewFromInt(15)}
	if _, err := env.coupons.CreateCoupon(ctx, in, 99); err != nil {
		t.Fatalf("CreateCoupon failed: %v", err)
	}
	if _, err := env.coupons.CreateCoupon(ctx, in, 99); !errors.Is(err, ErrCouponExists) {
		t.Errorf("expected ErrCouponExists, got %v", err)
	}

	tooMuch := CreateCouponInput{Code: "HUGE", DiscountType: economics.DiscountPercentage, Value: decimal.NewFromInt(150)}
	if _, err := env.coupons.CreateCoupon(ctx, tooMuch, 99); !errors.Is(err, economics.ErrInvalidInput) {
		t.Errorf("expected invalid input for 150%%, got %v", err)
	}

	if err := env.coupons.DeactivateCoupon(ctx, "spring", 99); err != nil {
		t.Fatalf("DeactivateCoupon failed: %v", err)
	}
	if _, err := env.coupons.Quote(ctx, "SPRING", "basic"); !errors.Is(err, ErrCouponInactive) {
		t.Errorf("expected ErrCouponInactive, got %v", err)
	}

	past := time.Now().Add(-time.Hour)
	expired := CreateCouponInput{Code: "OLD", DiscountType: economics.DiscountFixed, Value: decimal.NewFromInt(5), ExpiresAt: &past}
	if _, err := env.coupons.CreateCoupon(ctx, expired, 99); err != nil {
		t.Fatalf("CreateCoupon failed: %v", err)
	}
	if _, err := env.coupons.Quote(ctx, "OLD", "basic"); !errors.Is(err, ErrCouponInactive) {
		t.Errorf("expected expired coupon to be rejected, got %v", err)
	}

	if _, err := env.coupons.Quote(ctx, "MISSING", "basic"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
