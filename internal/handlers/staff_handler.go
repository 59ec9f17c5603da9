package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shopdesk/internal/database"
	"shopdesk/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func GetStaff(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var staff []models.Staff
	if err := database.DB.Where("user_id = ?", userID).Order("name").Find(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch staff"})
		return
	}

	c.JSON(http.StatusOK, staff)
}

type AddStaffRequest struct {
	Name         string  `json:"name" binding:"required"`
	Phone        string  `json:"phone"`
	Role         string  `json:"role"`
	Salary       float64 `json:"salary"`
	Username     string  `json:"username" binding:"required"`
	Password     string  `json:"password" binding:"required"`
	CanBilling   bool    `json:"can_billing"`
	CanInventory bool    `json:"can_inventory"`
	CanCustomers bool    `json:"can_customers"`
	CanReports   bool    `json:"can_reports"`
	CanSettings  bool    `json:"can_settings"`
}

func AddStaff(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req AddStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	staff := models.Staff{
		UserID:       userID,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         req.Role,
		Salary:       req.Salary,
		Username:     req.Username,
		PasswordHash: string(hashed),
		CanBilling:   req.CanBilling,
		CanInventory: req.CanInventory,
		CanCustomers: req.CanCustomers,
		CanReports:   req.CanReports,
		CanSettings:  req.CanSettings,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := database.DB.Create(&staff).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username likely already taken"})
		return
	}

	c.JSON(http.StatusCreated, staff)
}

func UpdateStaff(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}

	var staff models.Staff
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&staff).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff member not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	delete(updateData, "user_id")

	// A new password arrives plain and gets hashed here.
	if pw, ok := updateData["password"].(string); ok && pw != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		updateData["password_hash"] = string(hashed)
	}
	delete(updateData, "password")

	if err := database.DB.Model(&staff).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update staff member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff updated successfully", "staff": staff})
}

type AttendanceRequest struct {
	StaffID uint   `json:"staff_id" binding:"required"`
	Date    string `json:"date" binding:"required"` // YYYY-MM-DD
	Status  string `json:"status" binding:"required"`
	CheckIn bool   `json:"check_in"` // stamp check-in time now
}

// MarkAttendance upserts the one row a staff member gets per day.
// Marking again the same day overwrites the status.
func MarkAttendance(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	switch req.Status {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceHalfDay:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown attendance status"})
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be YYYY-MM-DD"})
		return
	}

	// The staff member must belong to this shop.
	var staff models.Staff
	if err := database.DB.Where("id = ? AND user_id = ?", req.StaffID, userID).First(&staff).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff member not found"})
		return
	}

	var att models.StaffAttendance
	err := database.DB.Where("staff_id = ? AND date = ?", req.StaffID, req.Date).First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		att = models.StaffAttendance{
			UserID:  userID,
			StaffID: req.StaffID,
			Date:    req.Date,
			Status:  req.Status,
		}
		if req.CheckIn {
			now := time.Now()
			att.CheckIn = &now
		}
		if err := database.DB.Create(&att).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attendance"})
			return
		}
		c.JSON(http.StatusCreated, att)
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check attendance"})
		return
	}

	att.Status = req.Status
	if req.CheckIn && att.CheckIn == nil {
		now := time.Now()
		att.CheckIn = &now
	}
	if err := database.DB.Save(&att).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update attendance"})
		return
	}

	c.JSON(http.StatusOK, att)
}

// CheckOut stamps the check-out time on today's attendance row.
func CheckOut(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	staffID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}

	today := time.Now().Format("2006-01-02")
	var att models.StaffAttendance
	if err := database.DB.Where("user_id = ? AND staff_id = ? AND date = ?", userID, staffID, today).First(&att).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No attendance marked for today"})
		return
	}

	now := time.Now()
	att.CheckOut = &now
	if err := database.DB.Save(&att).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record check-out"})
		return
	}

	c.JSON(http.StatusOK, att)
}

// ListAttendance returns every staff row for one date.
func ListAttendance(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	var rows []models.StaffAttendance
	if err := database.DB.Where("user_id = ? AND date = ?", userID, date).Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	c.JSON(http.StatusOK, rows)
}
