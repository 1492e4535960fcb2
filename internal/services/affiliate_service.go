package services

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"affiliate-engine/internal/economics"
	"affiliate-engine/internal/models"
	"affiliate-engine/internal/monitoring"
	"affiliate-engine/internal/repository"
	"affiliate-engine/internal/settings"
	"affiliate-engine/internal/utils"
)

const codeAttempts = 5

type AffiliateService struct {
	repo     *repository.Repository
	settings *settings.Provider
	admin    *AdminService
	log      *zap.Logger
	mu       sync.Mutex
}

func NewAffiliateService(repo *repository.Repository, provider *settings.Provider, admin *AdminService, log *zap.Logger) *AffiliateService {
	return &AffiliateService{
		repo:     repo,
		settings: provider,
		admin:    admin,
		log:      log,
	}
}

// GetOrCreateAccount returns the user's affiliate account, enrolling them
// with a fresh referral code on first use
func (s *AffiliateService) GetOrCreateAccount(ctx context.Context, userID uint, displayName string) (*models.AffiliateAccount, error) {
	account, err := s.repo.GetAffiliateByUserID(ctx, userID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load affiliate account: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have enrolled the user while we waited
	if account, err := s.repo.GetAffiliateByUserID(ctx, userID); err == nil {
		return account, nil
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(displayName) == "" {
		if displayName, err = utils.GenerateAlias(); err != nil {
			return nil, fmt.Errorf("failed to generate display name: %w", err)
		}
	}

	account = &models.AffiliateAccount{
		UserID:      userID,
		DisplayName: displayName,
		Code:        code,
	}
	if err := s.repo.CreateAffiliate(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create affiliate account: %w", err)
	}

	s.log.Info("affiliate account created", zap.Uint("user_id", userID), zap.String("code", code))
	return account, nil
}

func (s *AffiliateService) uniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := generateRandomCode()
		if err != nil {
			return "", err
		}
		_, err = s.repo.GetAffiliateByCode(ctx, code)
		if errors.Is(err, repository.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check referral code: %w", err)
		}
	}
	return "", fmt.Errorf("failed to generate a unique referral code after %d attempts", codeAttempts)
}

// generateRandomCode generates a random 8-character code
func generateRandomCode() (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base32.StdEncoding.EncodeToString(b)[:8], nil
}

// RegisterReferralInput is a new subscriber signing up with a referral code
type RegisterReferralInput struct {
	Code           string
	ReferredUserID uint
	ReferredName   string
	PlanType       string
}

// RegisterReferral attributes a subscriber to the owner of the code. The
// discount and commission rate in force right now are frozen onto the
// referral and never recomputed.
func (s *AffiliateService) RegisterReferral(ctx context.Context, in RegisterReferralInput) (*models.Referral, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	upline, err := s.repo.GetAffiliateByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("referral code %q: %w", code, err)
	}
	if upline.UserID == in.ReferredUserID {
		return nil, ErrSelfReferral
	}

	if _, err := s.repo.GetReferralByReferredUser(ctx, in.ReferredUserID); err == nil {
		return nil, ErrAlreadyReferred
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing referral: %w", err)
	}

	engine := s.settings.Engine()
	plan := economics.NormalizePlan(in.PlanType)
	if _, err := engine.Settings().PlanPrices.Price(plan); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, in.PlanType)
	}

	discount, rate, err := engine.Snapshot(upline.Economics())
	if err != nil {
		s.countError(err)
		return nil, err
	}

	referral := &models.Referral{
		ReferrerID:                    upline.ID,
		ReferredUserID:                in.ReferredUserID,
		ReferredName:                  in.ReferredName,
		PlanType:                      plan,
		Status:                        economics.StatusPending,
		SnapshotDiscountPercent:       &discount,
		SnapshotCommissionRatePercent: &rate,
	}
	if err := s.repo.CreateReferral(ctx, referral); err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}

	s.log.Info("referral registered",
		zap.Uint("referrer_id", upline.ID),
		zap.Uint("referred_user_id", in.ReferredUserID),
		zap.String("plan", plan),
		zap.String("snapshot_discount", discount.String()),
		zap.String("snapshot_rate", rate.String()),
	)
	return referral, nil
}

// TransitionReferral moves a referral through pending -> active and
// pending/active -> cancelled
func (s *AffiliateService) TransitionReferral(ctx context.Context, referralID uint, to economics.ReferralStatus, adminID uint) (*models.Referral, error) {
	referral, err := s.repo.GetReferralByID(ctx, referralID)
	if err != nil {
		return nil, fmt.Errorf("referral %d: %w", referralID, err)
	}

	from := referral.Status
	if !to.Valid() || !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	updated, err := s.repo.UpdateReferralStatus(ctx, referral, to)
	if err != nil {
		return nil, fmt.Errorf("failed to update referral: %w", err)
	}
	if !updated {
		return nil, fmt.Errorf("%w: referral %d changed concurrently", ErrInvalidTransition, referralID)
	}

	s.admin.LogAdminAction(ctx, adminID, "REFERRAL_STATUS", "REFERRAL", strconv.FormatUint(uint64(referralID), 10), map[string]interface{}{
		"from": string(from),
		"to":   string(to),
	})
	s.log.Info("referral status changed",
		zap.Uint("referral_id", referralID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return referral, nil
}

// SetCommissionOverride changes an account's custom rate and tier override.
// A nil argument leaves that field unchanged. A zero rate clears the custom
// rate and an empty tier clears the tier override.
func (s *AffiliateService) SetCommissionOverride(ctx context.Context, userID uint, rate *decimal.Decimal, tier *string, adminID uint) (*models.AffiliateAccount, error) {
	account, err := s.repo.GetAffiliateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("affiliate %d: %w", userID, err)
	}

	newRate, newTier := account.CustomCommissionRate, account.TierOverride
	if rate != nil {
		if err := economics.ValidatePercent("custom_commission_rate", *rate); err != nil {
			return nil, err
		}
		newRate = rate
		if rate.IsZero() {
			newRate = nil
		}
	}
	if tier != nil {
		newTier = tier
		if *tier == "" {
			newTier = nil
		} else if _, ok := s.settings.Current().Tiers.Find(economics.TierName(*tier)); !ok {
			return nil, &economics.InvalidInputError{Field: "tier_override", Value: *tier, Reason: "unknown tier"}
		}
	}

	if err := s.repo.UpdateAffiliateOverride(ctx, account.ID, newRate, newTier); err != nil {
		return nil, fmt.Errorf("failed to update override: %w", err)
	}
	account.CustomCommissionRate = newRate
	account.TierOverride = newTier

	details := map[string]interface{}{"custom_commission_rate": nil, "tier_override": nil}
	if newRate != nil {
		details["custom_commission_rate"] = newRate.String()
	}
	if newTier != nil {
		details["tier_override"] = *newTier
	}
	s.admin.LogAdminAction(ctx, adminID, "COMMISSION_OVERRIDE", "AFFILIATE", strconv.FormatUint(uint64(account.ID), 10), details)

	return account, nil
}

func (s *AffiliateService) countError(err error) {
	class := "other"
	switch {
	case errors.Is(err, economics.ErrConfiguration):
		class = "configuration"
	case errors.Is(err, economics.ErrInvalidInput):
		class = "invalid_input"
	}
	monitoring.CommissionErrorsTotal.WithLabelValues(class).Inc()
	s.log.Error("commission computation failed", zap.String("class", class), zap.Error(err))
}
