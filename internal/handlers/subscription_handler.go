package handlers

import (
	"errors"
	"net/http"
	"time"

	"shopdesk/internal/database"
	"shopdesk/internal/models"
	"shopdesk/internal/subscription"

	"github.com/gin-gonic/gin"
)

// GetSubscription reports the caller's plan and demo usage. First touch
// creates the demo tier with zeroed counters.
func GetSubscription(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	sub, usage, err := subscription.EnsureForUser(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscription"})
		return
	}
	sub, err = subscription.ExpireIfNeeded(database.DB, sub, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"usage":        usage,
		"ceilings": gin.H{
			"bills":     subscription.CeilingBills,
			"inventory": subscription.CeilingInventory,
			"customers": subscription.CeilingCustomers,
		},
	})
}

type ActivateRequest struct {
	ActivationKey string `json:"activation_key" binding:"required"`
}

// ActivateSubscription upgrades the plan from an offline activation key
// bound to this account's email. The key encodes plan and billing cycle;
// see subscription.ActivationKey for the scheme (and the keygen tool).
func ActivateSubscription(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	sub, err := subscription.Activate(database.DB, &user, req.ActivationKey)
	if errors.Is(err, subscription.ErrInvalidKey) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid key for this account. Please contact support."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Plan activated: " + sub.PlanType + " (" + sub.BillingCycle + ")",
		"subscription": sub,
	})
}
