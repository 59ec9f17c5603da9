package handlers

import (
	"net/http"
	"strings"

	"shopdesk/internal/auth"
	"shopdesk/internal/database"
	"shopdesk/internal/models"
	"shopdesk/internal/subscription"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// derivedEmail builds the synthetic account email for phone-first signups.
func derivedEmail(phone string) string {
	return strings.TrimPrefix(phone, "+") + "@shopdesk.app"
}

func Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var user models.User
	if err := database.DB.Where("phone = ?", input.Phone).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, 0, "owner", auth.OwnerPermissions())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"role":  "owner",
		"phone": user.Phone,
	})
}

func Register(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Phone:        input.Phone,
		Email:        derivedEmail(input.Phone),
		PasswordHash: string(hashedPassword),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account likely already exists"})
		return
	}

	// Seed the demo subscription right away so the first screen has
	// counters to show.
	if _, _, err := subscription.EnsureForUser(database.DB, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set up subscription"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully!"})
}

type StaffLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StaffLogin signs a staff member in under the owner's account. The token
// carries the owner's user id so every query stays scoped to the shop.
func StaffLogin(c *gin.Context) {
	var input StaffLoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var staff models.Staff
	if err := database.DB.Where("username = ?", input.Username).First(&staff).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if !staff.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This staff account is disabled"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	perms := auth.Permissions{
		Billing:   staff.CanBilling,
		Inventory: staff.CanInventory,
		Customers: staff.CanCustomers,
		Reports:   staff.CanReports,
		Settings:  staff.CanSettings,
	}
	token, err := auth.GenerateToken(staff.UserID, staff.ID, "staff", perms)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"role":  "staff",
		"name":  staff.Name,
		"perms": perms,
	})
}
