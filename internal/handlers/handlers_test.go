package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"affiliate-engine/internal/auth"
	"affiliate-engine/internal/database"
	"affiliate-engine/internal/economics"
	"affiliate-engine/internal/repository"
	"affiliate-engine/internal/services"
	"affiliate-engine/internal/settings"
)

const adminUserID = 900

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth.InitJWT("handler-test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	log := zap.NewNop()
	repo := repository.NewRepository(db)
	if err := repo.UpsertSettings(context.Background(), economics.DefaultSettings().Values(), adminUserID); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}
	provider := settings.NewProvider(repo, nil, 0, log)
	if err := provider.Reload(context.Background()); err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}

	adminService := services.NewAdminService(repo, log)
	affiliateService := services.NewAffiliateService(repo, provider, adminService, log)
	couponService := services.NewCouponService(repo, provider, adminService, log)

	router := gin.New()
	RegisterRoutes(router,
		NewAffiliateHandler(affiliateService, log),
		NewCouponHandler(couponService, log),
		NewAdminHandler(provider, affiliateService, couponService, adminService, log),
		log,
	)
	return router
}

func token(t *testing.T, userID uint, role string) string {
	tok, err := auth.GenerateToken(userID, fmt.Sprintf("user-%d", userID), role, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return tok
}

func do(router *gin.Engine, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func TestReferralFlow(t *testing.T) {
	router := setupRouter(t)
	upline := token(t, 1, "")
	subscriber := token(t, 2, "")
	admin := token(t, adminUserID, auth.RoleAdmin)

	w := do(router, http.MethodGet, "/api/affiliate/dashboard", upline, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for dashboard, got %d: %s", w.Code, w.Body.String())
	}
	var dashboard struct {
		Account struct {
			Code string `json:"code"`
		} `json:"account"`
		MonthlyProjection string `json:"monthly_projection"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &dashboard); err != nil {
		t.Fatalf("failed to decode dashboard: %v", err)
	}
	if dashboard.Account.Code == "" {
		t.Fatal("expected an enrolled account with a referral code")
	}
	if dashboard.MonthlyProjection != "RM0.00" {
		t.Errorf("expected empty projection RM0.00, got %s", dashboard.MonthlyProjection)
	}

	w = do(router, http.MethodPost, "/api/affiliate/referrals/register", subscriber, gin.H{
		"code":      strings.ToLower(dashboard.Account.Code),
		"plan_type": "pro",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for register, got %d: %s", w.Code, w.Body.String())
	}
	var referral struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &referral); err != nil {
		t.Fatalf("failed to decode referral: %v", err)
	}

	w = do(router, http.MethodPost, "/api/affiliate/referrals/register", subscriber, gin.H{
		"code":      dashboard.Account.Code,
		"plan_type": "pro",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate registration, got %d", w.Code)
	}

	path := fmt.Sprintf("/api/admin/referrals/%d/status", referral.ID)
	if w = do(router, http.MethodPut, path, upline, gin.H{"status": "active"}); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", w.Code)
	}
	if w = do(router, http.MethodPut, path, admin, gin.H{"status": "active"}); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for activation, got %d: %s", w.Code, w.Body.String())
	}
	if w = do(router, http.MethodPut, path, admin, gin.H{"status": "pending"}); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for invalid transition, got %d", w.Code)
	}

	w = do(router, http.MethodGet, "/api/affiliate/referrals/export", upline, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for export, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Est. RM18.91") {
		t.Errorf("expected export to contain the estimate label, got %q", w.Body.String())
	}

	w = do(router, http.MethodGet, "/api/affiliate/next-tier", upline, nil)
	var next struct {
		NextTierName string `json:"next_tier_name"`
		Remaining    int    `json:"remaining"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &next); err != nil {
		t.Fatalf("failed to decode next tier: %v", err)
	}
	if next.NextTierName != string(economics.TierSuperAgent) || next.Remaining != 9 {
		t.Errorf("unexpected next tier: %+v", next)
	}
}

func TestAdminSettingsValidation(t *testing.T) {
	router := setupRouter(t)
	admin := token(t, adminUserID, auth.RoleAdmin)

	w := do(router, http.MethodPut, "/api/admin/settings", admin, gin.H{
		"values": gin.H{economics.KeyAgentRate: "150"},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-range rate, got %d", w.Code)
	}

	w = do(router, http.MethodPut, "/api/admin/settings", admin, gin.H{
		"values": gin.H{economics.KeyAgentRate: "12"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid update, got %d: %s", w.Code, w.Body.String())
	}

	w = do(router, http.MethodGet, "/api/admin/settings", admin, nil)
	var current economics.Settings
	if err := json.Unmarshal(decode(t, w).Data, &current); err != nil {
		t.Fatalf("failed to decode settings: %v", err)
	}
	if current.Tiers[0].CommissionRatePercent.String() != "12" {
		t.Errorf("expected agent rate 12, got %s", current.Tiers[0].CommissionRatePercent)
	}
}

func TestCouponEndpoints(t *testing.T) {
	router := setupRouter(t)
	admin := token(t, adminUserID, auth.RoleAdmin)

	w := do(router, http.MethodPost, "/api/admin/coupons", admin, gin.H{
		"code":          "FLAT50",
		"discount_type": "fixed",
		"value":         "50",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for coupon, got %d: %s", w.Code, w.Body.String())
	}

	w = do(router, http.MethodGet, "/api/coupons/quote?code=flat50&plan=basic", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for quote, got %d: %s", w.Code, w.Body.String())
	}
	var quote struct {
		DisplayPrice string `json:"display_price"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &quote); err != nil {
		t.Fatalf("failed to decode quote: %v", err)
	}
	if quote.DisplayPrice != "RM19.00" {
		t.Errorf("expected RM19.00, got %s", quote.DisplayPrice)
	}

	if w = do(router, http.MethodDelete, "/api/admin/coupons/FLAT50", admin, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for deactivate, got %d", w.Code)
	}
	if w = do(router, http.MethodGet, "/api/coupons/quote?code=FLAT50&plan=basic", "", nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for inactive coupon, got %d", w.Code)
	}
	if w = do(router, http.MethodGet, "/api/coupons/quote?code=NOPE&plan=basic", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown coupon, got %d", w.Code)
	}
}
