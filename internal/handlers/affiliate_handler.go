package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"affiliate-engine/internal/auth"
	"affiliate-engine/internal/services"
)

type AffiliateHandler struct {
	affiliateService *services.AffiliateService
	log              *zap.Logger
}

func NewAffiliateHandler(affiliateService *services.AffiliateService, log *zap.Logger) *AffiliateHandler {
	return &AffiliateHandler{
		affiliateService: affiliateService,
		log:              log,
	}
}

// currentUser enrolls the caller on first use and returns their user ID
func (h *AffiliateHandler) currentUser(c *gin.Context) (uint, bool) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	if _, err := h.affiliateService.GetOrCreateAccount(c.Request.Context(), userID, auth.GetUserName(c)); err != nil {
		respondError(c, h.log, err)
		return 0, false
	}
	return userID, true
}

// GetDashboard returns the caller's tier, progress, projection and referrals
func (h *AffiliateHandler) GetDashboard(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	dashboard, err := h.affiliateService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dashboard,
	})
}

// GetReferrals returns the caller's referral rows
func (h *AffiliateHandler) GetReferrals(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	rows, err := h.affiliateService.ListReferrals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// ExportReferrals returns the caller's referral rows as CSV
func (h *AffiliateHandler) ExportReferrals(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.affiliateService.ExportReferralsCSV(c.Request.Context(), userID, &buf); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=referrals-%d.csv", userID))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// GetNextTier returns the caller's progress towards the next tier
func (h *AffiliateHandler) GetNextTier(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	next, err := h.affiliateService.GetNextTier(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    next,
	})
}

// RegisterReferral attributes the caller's subscription to a referral code
func (h *AffiliateHandler) RegisterReferral(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Code     string `json:"code" binding:"required"`
		PlanType string `json:"plan_type" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	referral, err := h.affiliateService.RegisterReferral(c.Request.Context(), services.RegisterReferralInput{
		Code:           req.Code,
		ReferredUserID: userID,
		ReferredName:   auth.GetUserName(c),
		PlanType:       req.PlanType,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    referral,
	})
}
