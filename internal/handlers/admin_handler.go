package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"affiliate-engine/internal/auth"
	"affiliate-engine/internal/economics"
	"affiliate-engine/internal/services"
	"affiliate-engine/internal/settings"
)

type AdminHandler struct {
	settings         *settings.Provider
	affiliateService *services.AffiliateService
	couponService    *services.CouponService
	adminService     *services.AdminService
	log              *zap.Logger
}

func NewAdminHandler(
	provider *settings.Provider,
	affiliateService *services.AffiliateService,
	couponService *services.CouponService,
	adminService *services.AdminService,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		settings:         provider,
		affiliateService: affiliateService,
		couponService:    couponService,
		adminService:     adminService,
		log:              log,
	}
}

// GetSettings returns the settings currently in force
func (h *AdminHandler) GetSettings(c *gin.Context) {
	current := h.settings.Current()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      current,
		"values":    current.Values(),
		"loaded_at": h.settings.LoadedAt(),
	})
}

// UpdateSettings validates and stores changed settings keys
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)

	var req struct {
		Values map[string]string `json:"values" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.settings.Update(c.Request.Context(), req.Values, adminID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	details := make(map[string]interface{}, len(req.Values))
	for key, value := range req.Values {
		details[key] = value
	}
	h.adminService.LogAdminAction(c.Request.Context(), adminID, "UPDATE_SETTINGS", "SETTINGS", "affiliate", details)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// ReloadSettings forces a settings reload
func (h *AdminHandler) ReloadSettings(c *gin.Context) {
	if err := h.settings.Reload(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Settings reloaded",
		"loaded_at": h.settings.LoadedAt(),
	})
}

// UpdateReferralStatus moves a referral to a new status
func (h *AdminHandler) UpdateReferralStatus(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)
	referralID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid referral ID"})
		return
	}

	var req struct {
		Status economics.ReferralStatus `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	referral, err := h.affiliateService.TransitionReferral(c.Request.Context(), uint(referralID), req.Status, adminID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    referral,
	})
}

// SetCommissionOverride updates the fields present in the body. A rate of 0
// or an empty tier clears that override.
func (h *AdminHandler) SetCommissionOverride(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		CustomCommissionRate *decimal.Decimal `json:"custom_commission_rate"`
		TierOverride         *string          `json:"tier_override"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.affiliateService.SetCommissionOverride(c.Request.Context(), uint(userID), req.CustomCommissionRate, req.TierOverride, adminID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    account,
	})
}

// GetCoupons lists every coupon
func (h *AdminHandler) GetCoupons(c *gin.Context) {
	coupons, err := h.couponService.ListCoupons(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    coupons,
		"count":   len(coupons),
	})
}

// CreateCoupon issues a new coupon
func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)

	var req struct {
		Code         string                 `json:"code" binding:"required"`
		DiscountType economics.DiscountType `json:"discount_type" binding:"required"`
		Value        decimal.Decimal        `json:"value"`
		PlanType     string                 `json:"plan_type"`
		ExpiresAt    *time.Time             `json:"expires_at"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), services.CreateCouponInput{
		Code:         req.Code,
		DiscountType: req.DiscountType,
		Value:        req.Value,
		PlanType:     req.PlanType,
		ExpiresAt:    req.ExpiresAt,
	}, adminID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    coupon,
	})
}

// DeactivateCoupon switches a coupon off
func (h *AdminHandler) DeactivateCoupon(c *gin.Context) {
	adminID, _ := auth.GetUserID(c)

	if err := h.couponService.DeactivateCoupon(c.Request.Context(), c.Param("code"), adminID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Coupon deactivated",
	})
}

// GetAdminLogs returns admin activity logs
func (h *AdminHandler) GetAdminLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.adminService.GetAdminLogs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    logs,
		"count":   len(logs),
	})
}
