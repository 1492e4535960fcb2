package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"affiliate-engine/internal/auth"
)

// RegisterRoutes mounts the affiliate, coupon and admin APIs
func RegisterRoutes(router *gin.Engine, affiliateHandler *AffiliateHandler, couponHandler *CouponHandler, adminHandler *AdminHandler, log *zap.Logger) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")

	// Affiliate routes (authenticated)
	affiliateRoutes := api.Group("/affiliate")
	affiliateRoutes.Use(auth.AuthMiddleware(log))
	{
		affiliateRoutes.GET("/dashboard", affiliateHandler.GetDashboard)
		affiliateRoutes.GET("/referrals", affiliateHandler.GetReferrals)
		affiliateRoutes.GET("/referrals/export", affiliateHandler.ExportReferrals)
		affiliateRoutes.GET("/next-tier", affiliateHandler.GetNextTier)
		affiliateRoutes.POST("/referrals/register", affiliateHandler.RegisterReferral)
	}

	// Coupon routes (public)
	couponRoutes := api.Group("/coupons")
	{
		couponRoutes.GET("/quote", couponHandler.GetQuote)
	}

	// Admin routes (authenticated + admin role)
	adminRoutes := api.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware(log), auth.RequireAdmin())
	{
		adminRoutes.GET("/settings", adminHandler.GetSettings)
		adminRoutes.PUT("/settings", adminHandler.UpdateSettings)
		adminRoutes.POST("/settings/reload", adminHandler.ReloadSettings)
		adminRoutes.PUT("/referrals/:id/status", adminHandler.UpdateReferralStatus)
		adminRoutes.PUT("/affiliates/:userId/override", adminHandler.SetCommissionOverride)
		adminRoutes.GET("/coupons", adminHandler.GetCoupons)
		adminRoutes.POST("/coupons", adminHandler.CreateCoupon)
		adminRoutes.DELETE("/coupons/:code", adminHandler.DeactivateCoupon)
		adminRoutes.GET("/logs", adminHandler.GetAdminLogs)
	}
}
