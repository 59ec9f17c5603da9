package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"shopdesk/internal/auth"
	"shopdesk/internal/database"
	"shopdesk/internal/models"
	"shopdesk/internal/subscription"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks if the user has a valid JWT token
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Format: "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		// Store user info in the context for the next handler to use
		c.Set("userID", claims.UserID)
		c.Set("staffID", claims.StaffID)
		c.Set("role", claims.Role)
		c.Set("perms", claims.Perms)

		c.Next()
	}
}

// Permission sections, mirroring the staff flag columns.
const (
	PermBilling   = "billing"
	PermInventory = "inventory"
	PermCustomers = "customers"
	PermReports   = "reports"
	PermSettings  = "settings"
)

// RequirePermission guards a route group with one of the closed set of
// staff permission flags. Owners always pass.
func RequirePermission(section string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get("role"); role == "owner" {
			c.Next()
			return
		}

		perms, ok := c.Get("perms")
		p, cast := perms.(auth.Permissions)
		allowed := false
		if ok && cast {
			switch section {
			case PermBilling:
				allowed = p.Billing
			case PermInventory:
				allowed = p.Inventory
			case PermCustomers:
				allowed = p.Customers
			case PermReports:
				allowed = p.Reports
			case PermSettings:
				allowed = p.Settings
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CheckSubscription loads the caller's plan (creating the demo tier on
// first touch), downgrades lapsed paid plans, and stashes the plan info
// for downstream handlers. A read failure here fails open: the request
// continues as demo so a flaky row never bricks the shop.
func CheckSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uint)

		sub, _, err := subscription.EnsureForUser(database.DB, userID)
		if err != nil {
			log.Printf("subscription check failed for user %d: %v", userID, err)
			c.Set("plan", models.PlanDemo)
			c.Set("aiAddon", false)
			c.Next()
			return
		}

		sub, err = subscription.ExpireIfNeeded(database.DB, sub, time.Now())
		if err != nil {
			log.Printf("subscription expiry check failed for user %d: %v", userID, err)
		}

		c.Set("plan", sub.PlanType)
		c.Set("aiAddon", sub.AIAddon)
		c.Next()
	}
}

// RequireAI gates the assistant and marketing endpoints: pro plan or the
// AI add-on flag.
func RequireAI() gin.HandlerFunc {
	return func(c *gin.Context) {
		plan, _ := c.Get("plan")
		addon, _ := c.Get("aiAddon")
		if plan == models.PlanPro || addon == true {
			c.Next()
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "AI features need the Pro plan or the AI add-on"})
		c.Abort()
	}
}
