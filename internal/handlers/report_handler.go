package handlers

import (
	"net/http"

	"shopdesk/internal/database"
	"shopdesk/internal/models"

	"github.com/gin-gonic/gin"
)

// ReportData defines the shape of our analytics response
type ReportData struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalBills   int64   `json:"total_bills"`
	TotalDues    float64 `json:"total_dues"`
	TopSelling   []struct {
		ItemName string  `json:"item_name"`
		Sold     int     `json:"sold"`
		Revenue  float64 `json:"revenue"`
	} `json:"top_selling"`
	RecentInvoices []models.Invoice `json:"recent_invoices"`
}

// --- GET: /api/reports ---
func GetSalesReport(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var data ReportData

	// 1. Total revenue (all time). COALESCE gives 0 instead of NULL.
	err := database.DB.Model(&models.Invoice{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(total), 0)").
		Scan(&data.TotalRevenue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	// 2. Bill count
	err = database.DB.Model(&models.Invoice{}).
		Where("user_id = ?", userID).
		Count(&data.TotalBills).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count bills"})
		return
	}

	// 3. Outstanding dues
	err = database.DB.Model(&models.Invoice{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(due_amount), 0)").
		Scan(&data.TotalDues).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to total dues"})
		return
	}

	// 4. Top 5 best sellers
	err = database.DB.Table("invoice_items").
		Select("invoice_items.name as item_name, SUM(invoice_items.quantity) as sold, SUM(invoice_items.line_total) as revenue").
		Joins("JOIN invoices ON invoice_items.invoice_id = invoices.id").
		Where("invoices.user_id = ?", userID).
		Group("invoice_items.name").
		Order("sold desc").
		Limit(5).
		Scan(&data.TopSelling).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	// 5. Last 10 bills, newest first
	err = database.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(10).
		Find(&data.RecentInvoices).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent bills"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// --- DATA STRUCTURES FOR VALUATION REPORT ---

// ValuationItem represents a single row in the valuation table
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// CategoryGroup represents one table in the report (e.g. "SHIRTS")
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
}

// ValuationResponse is the final payload
type ValuationResponse struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal float64         `json:"grand_total"`
}

// --- GET: /api/reports/valuation ---
// GetStockValuation calculates the total monetary value of all physical inventory
func GetStockValuation(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var items []models.InventoryItem
	if err := database.DB.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	var grandTotal float64
	groupedMap := make(map[string]*CategoryGroup)

	for _, it := range items {
		catName := it.Category
		if catName == "" {
			catName = "Uncategorized"
		}

		if _, exists := groupedMap[catName]; !exists {
			groupedMap[catName] = &CategoryGroup{
				CategoryName: catName,
				Items:        []ValuationItem{},
			}
		}

		itemTotal := float64(it.Quantity) * it.CostPrice
		groupedMap[catName].Items = append(groupedMap[catName].Items, ValuationItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			CostPrice: it.CostPrice,
			TotalCost: itemTotal,
		})
		groupedMap[catName].Subtotal += itemTotal
		grandTotal += itemTotal
	}

	var response ValuationResponse
	response.GrandTotal = grandTotal
	for _, group := range groupedMap {
		response.Categories = append(response.Categories, *group)
	}

	c.JSON(http.StatusOK, response)
}
