package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shopdesk/internal/database"
	"shopdesk/internal/models"
	"shopdesk/internal/subscription"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GetCustomers(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var customers []models.Customer
	if err := database.DB.Where("user_id = ?", userID).Order("name").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}

	c.JSON(http.StatusOK, customers)
}

type AddCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// AddCustomer is demo-gated the same way as AddItem: quota and insert in
// one transaction.
func AddCustomer(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req AddCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	customer := models.Customer{
		UserID:    userID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		CreatedAt: time.Now(),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := subscription.ConsumeLimit(tx, userID, subscription.LimitCustomers); err != nil {
			return err
		}
		return tx.Create(&customer).Error
	})
	if errors.Is(err, subscription.ErrLimitReached) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Demo limit reached. Upgrade to add more customers."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func GetCustomer(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	var customer models.Customer
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer patches contact fields only. The running purchase/due
// totals belong to the billing transaction.
func UpdateCustomer(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	var customer models.Customer
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&customer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	delete(updateData, "user_id")
	delete(updateData, "total_purchases")
	delete(updateData, "total_dues")

	if err := database.DB.Model(&customer).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully", "customer": customer})
}
