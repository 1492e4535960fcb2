package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"affiliate-engine/internal/economics"
	"affiliate-engine/internal/models"
)

const leaderboardSize = 10

// ReferralRow is one referral as shown to its upline
type ReferralRow struct {
	ID                    uint                     `json:"id"`
	ReferredName          string                   `json:"referred_name"`
	PlanType              string                   `json:"plan_type"`
	Status                economics.ReferralStatus `json:"status"`
	ReferredAt            time.Time                `json:"referred_at"`
	CommissionRatePercent *decimal.Decimal         `json:"commission_rate_percent,omitempty"`
	Commission            decimal.Decimal          `json:"commission"`
	CommissionKind        economics.CommissionKind `json:"commission_kind"`
	CommissionLabel       string                   `json:"commission_label"`
}

// NextTierView adds the derived progress figures to economics.NextTier
type NextTierView struct {
	economics.NextTier
	ProgressPercent decimal.Decimal `json:"progress_percent"`
	Remaining       int             `json:"remaining"`
}

type LeaderboardEntry struct {
	Rank             int                `json:"rank"`
	DisplayName      string             `json:"display_name"`
	Tier             economics.TierName `json:"tier"`
	LifetimeEarnings string             `json:"lifetime_earnings"`
}

type Dashboard struct {
	Account           *models.AffiliateAccount `json:"account"`
	Tier              economics.TierEntry      `json:"tier"`
	NextTier          NextTierView             `json:"next_tier"`
	MonthlyProjection string                   `json:"monthly_projection"`
	WalletBalance     string                   `json:"wallet_balance"`
	LifetimeEarnings  string                   `json:"lifetime_earnings"`
	Currency          string                   `json:"currency"`
	Referrals         []ReferralRow            `json:"referrals"`
	Leaderboard       []LeaderboardEntry       `json:"leaderboard,omitempty"`
}

// GetDashboard assembles the affiliate's view. All figures come from one
// settings snapshot. The leaderboard is best-effort.
func (s *AffiliateService) GetDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	account, err := s.repo.GetAffiliateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("affiliate %d: %w", userID, err)
	}
	referrals, err := s.repo.ListReferralsByReferrer(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load referrals: %w", err)
	}

	engine := s.settings.Engine()
	econAccount := account.Economics()

	tier, err := econAccount.Tier(engine.Settings().Tiers)
	if err != nil {
		s.countError(err)
		return nil, err
	}
	next, err := s.nextTier(engine, account)
	if err != nil {
		return nil, err
	}
	rows, err := s.referralRows(engine, account, referrals)
	if err != nil {
		return nil, err
	}

	econReferrals := make([]economics.Referral, len(referrals))
	for i, r := range referrals {
		econReferrals[i] = r.Economics()
	}
	projection, err := engine.MonthlyProjection(econReferrals, econAccount)
	if err != nil {
		s.countError(err)
		return nil, err
	}

	return &Dashboard{
		Account:           account,
		Tier:              tier,
		NextTier:          next,
		MonthlyProjection: engine.Display(projection),
		WalletBalance:     engine.Display(account.WalletBalance),
		LifetimeEarnings:  engine.Display(account.LifetimeEarnings),
		Currency:          engine.Settings().Currency,
		Referrals:         rows,
		Leaderboard:       s.leaderboard(ctx, engine),
	}, nil
}

// ListReferrals returns the affiliate's referrals with their commission labels
func (s *AffiliateService) ListReferrals(ctx context.Context, userID uint) ([]ReferralRow, error) {
	account, err := s.repo.GetAffiliateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("affiliate %d: %w", userID, err)
	}
	referrals, err := s.repo.ListReferralsByReferrer(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load referrals: %w", err)
	}
	return s.referralRows(s.settings.Engine(), account, referrals)
}

// GetNextTier reports the affiliate's progress towards the next tier
func (s *AffiliateService) GetNextTier(ctx context.Context, userID uint) (NextTierView, error) {
	account, err := s.repo.GetAffiliateByUserID(ctx, userID)
	if err != nil {
		return NextTierView{}, fmt.Errorf("affiliate %d: %w", userID, err)
	}
	return s.nextTier(s.settings.Engine(), account)
}

func (s *AffiliateService) nextTier(engine *economics.Engine, account *models.AffiliateAccount) (NextTierView, error) {
	next, err := engine.NextTierFor(account.Economics())
	if err != nil {
		s.countError(err)
		return NextTierView{}, err
	}
	return NextTierView{
		NextTier:        next,
		ProgressPercent: next.ProgressPercent(),
		Remaining:       next.Remaining(),
	}, nil
}

func (s *AffiliateService) referralRows(engine *economics.Engine, account *models.AffiliateAccount, referrals []models.Referral) ([]ReferralRow, error) {
	currency := engine.Settings().Currency
	econAccount := account.Economics()

	rows := make([]ReferralRow, 0, len(referrals))
	for _, r := range referrals {
		econReferral := r.Economics()
		commission, err := engine.CommissionFor(econReferral, econAccount)
		if err != nil {
			s.countError(err)
			return nil, fmt.Errorf("referral %d: %w", r.ID, err)
		}

		row := ReferralRow{
			ID:              r.ID,
			ReferredName:    r.ReferredName,
			PlanType:        r.PlanType,
			Status:          r.Status,
			ReferredAt:      r.ReferredAt,
			Commission:      commission.Amount,
			CommissionKind:  commission.Kind,
			CommissionLabel: commission.Display(currency),
		}
		if commission.IsEstimate() {
			rate, err := engine.EffectiveCommissionRate(econReferral, econAccount)
			if err == nil {
				row.CommissionRatePercent = &rate
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *AffiliateService) leaderboard(ctx context.Context, engine *economics.Engine) []LeaderboardEntry {
	accounts, err := s.repo.TopAffiliates(ctx, leaderboardSize)
	if err != nil {
		s.log.Warn("leaderboard unavailable", zap.Error(err))
		return nil
	}

	entries := make([]LeaderboardEntry, 0, len(accounts))
	for i, a := range accounts {
		tier, err := a.Economics().Tier(engine.Settings().Tiers)
		if err != nil {
			s.log.Warn("leaderboard tier unavailable", zap.Uint("account_id", a.ID), zap.Error(err))
			return nil
		}
		entries = append(entries, LeaderboardEntry{
			Rank:             i + 1,
			DisplayName:      a.DisplayName,
			Tier:             tier.Name,
			LifetimeEarnings: engine.Display(a.LifetimeEarnings),
		})
	}
	return entries
}
