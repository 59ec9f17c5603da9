package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"shopdesk/internal/billing"
	"shopdesk/internal/database"
	"shopdesk/internal/models"
	"shopdesk/internal/printer"
	"shopdesk/internal/subscription"

	"github.com/gin-gonic/gin"
)

// CreateInvoice is the checkout endpoint. All the heavy lifting lives in
// billing.CreateInvoice so the AI agent's create_bill tool shares the
// exact same path.
func CreateInvoice(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input billing.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	invoice, err := billing.CreateInvoice(database.DB, userID, input)
	switch {
	case errors.Is(err, subscription.ErrLimitReached):
		c.JSON(http.StatusForbidden, gin.H{"error": "Demo limit reached. Upgrade to create more bills."})
		return
	case errors.Is(err, billing.ErrNoLines), errors.Is(err, billing.ErrBadQuantity), errors.Is(err, billing.ErrBadPaymentMode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, billing.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Invoice created!",
		"invoice": invoice,
	})
}

func ListInvoices(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var invoices []models.Invoice
	err := database.DB.Where("user_id = ?", userID).
		Preload("Items").
		Order("created_at desc").
		Limit(200).
		Find(&invoices).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}

	c.JSON(http.StatusOK, invoices)
}

func GetInvoice(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
		return
	}

	var invoice models.Invoice
	err = database.DB.Where("id = ? AND user_id = ?", id, userID).
		Preload("Items").
		First(&invoice).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// PrintInvoice renders the stored invoice as a printable page.
// ?layout=a4|receipt|half picks the physical format.
func PrintInvoice(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
		return
	}

	var invoice models.Invoice
	err = database.DB.Where("id = ? AND user_id = ?", id, userID).
		Preload("Items").
		First(&invoice).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	var profile models.ShopProfile
	database.DB.Where("user_id = ?", userID).First(&profile)

	doc, err := printer.Render(profile, invoice, printer.ParseLayout(c.Query("layout")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render invoice"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

// CheckLimit lets the UI grey out gated buttons before the user taps
// them. /api/limits/:kind where kind is bills|inventory|customers.
func CheckLimit(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var kind subscription.LimitKind
	switch c.Param("kind") {
	case "bills":
		kind = subscription.LimitBills
	case "inventory":
		kind = subscription.LimitInventory
	case "customers":
		kind = subscription.LimitCustomers
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown limit kind"})
		return
	}

	status, err := subscription.CheckLimit(database.DB, userID, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check limit"})
		return
	}

	c.JSON(http.StatusOK, status)
}
