package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shopdesk/internal/bom"
	"shopdesk/internal/database"
	"shopdesk/internal/models"
	"shopdesk/internal/subscription"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- GET: List all items ---
func GetItems(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var items []models.InventoryItem
	result := database.DB.Where("user_id = ?", userID).Order("name").Find(&items)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	c.JSON(http.StatusOK, items)
}

type AddItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	SKU       string  `json:"sku"`
	Category  string  `json:"category"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	CostPrice float64 `json:"cost_price"`
	Price     float64 `json:"price" binding:"required"`
	Quantity  int     `json:"quantity"`
	GSTRate   float64 `json:"gst_rate"`
}

// --- POST: Add a new item (demo-gated) ---
// The quota spend and the insert share one transaction: a denied demo
// user leaves no row and no counter change behind.
func AddItem(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	item := models.InventoryItem{
		UserID:    userID,
		Name:      req.Name,
		SKU:       req.SKU,
		Category:  req.Category,
		Size:      req.Size,
		Color:     req.Color,
		CostPrice: req.CostPrice,
		Price:     req.Price,
		Quantity:  req.Quantity,
		GSTRate:   req.GSTRate,
		CreatedAt: time.Now(),
	}
	if item.SKU == "" {
		item.SKU = bom.GenerateSKU(item.Name)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := subscription.ConsumeLimit(tx, userID, subscription.LimitInventory); err != nil {
			return err
		}
		return tx.Create(&item).Error
	})
	if errors.Is(err, subscription.ErrLimitReached) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Demo limit reached. Upgrade to add more items."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// --- PUT: Partial-field update ---
func UpdateItem(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.InventoryItem
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	// We use a map so we only update what was sent (partial update)
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	// Counters and ownership are not client-writable.
	delete(updateData, "user_id")
	delete(updateData, "sales_count")
	delete(updateData, "last_sold_at")

	if err := database.DB.Model(&item).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

// --- GET: Lookup by SKU/barcode for the billing screen scanner ---
func GetItemBySKU(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	sku := c.Param("sku")

	var item models.InventoryItem
	if err := database.DB.Where("sku = ? AND user_id = ?", sku, userID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No item with that code"})
		return
	}

	c.JSON(http.StatusOK, item)
}
