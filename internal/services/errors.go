package services

import (
	"errors"

	"affiliate-engine/internal/repository"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrInvalidTransition = errors.New("invalid referral status transition")
	ErrAlreadyReferred   = errors.New("user already has a referrer")
	ErrSelfReferral      = errors.New("cannot use your own referral code")
	ErrUnknownPlan       = errors.New("unknown plan")
	ErrCouponInactive    = errors.New("coupon is not active")
	ErrCouponExists      = errors.New("coupon code already exists")
)
