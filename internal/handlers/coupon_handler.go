package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"affiliate-engine/internal/services"
)

type CouponHandler struct {
	couponService *services.CouponService
	log           *zap.Logger
}

func NewCouponHandler(couponService *services.CouponService, log *zap.Logger) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		log:           log,
	}
}

// GetQuote prices a plan with a coupon applied
func (h *CouponHandler) GetQuote(c *gin.Context) {
	code := c.Query("code")
	plan := c.Query("plan")
	if code == "" || plan == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and plan are required"})
		return
	}

	quote, err := h.couponService.Quote(c.Request.Context(), code, plan)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}
