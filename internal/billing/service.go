package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shopdesk/internal/models"
	"shopdesk/internal/subscription"

	"gorm.io/gorm"
)

var (
	ErrNoLines          = errors.New("invoice needs at least one line item")
	ErrBadQuantity      = errors.New("line quantity must be positive")
	ErrBadPaymentMode   = errors.New("unknown payment mode")
	ErrCustomerNotFound = errors.New("customer not found")
)

// CreateInvoiceInput is the working set a bill is built from. Either
// CustomerID (existing) or CustomerName (walk-in, creates a record) may
// be set; with neither the bill is anonymous.
type CreateInvoiceInput struct {
	CustomerID    *uint        `json:"customer_id"`
	CustomerName  string       `json:"customer_name"`
	CustomerPhone string       `json:"customer_phone"`
	Lines         []Line       `json:"items"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	PaymentMode   string       `json:"payment_mode"`
	AmountPaid    *float64     `json:"amount_paid"`
}

func validPaymentMode(m string) bool {
	switch m {
	case models.PayCash, models.PayCard, models.PayOnline, models.PayDue:
		return true
	}
	return false
}

// CreateInvoice is the one transactional billing path. Both the checkout
// endpoint and the AI agent's create_bill tool land here, so there is a
// single set of semantics: spend demo quota, upsert the customer, allocate
// the number, insert header+items, and apply stock side effects -- all or
// nothing.
func CreateInvoice(db *gorm.DB, userID uint, in CreateInvoiceInput) (*models.Invoice, error) {
	if len(in.Lines) == 0 {
		return nil, ErrNoLines
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, ErrBadQuantity
		}
	}
	if in.PaymentMode == "" {
		in.PaymentMode = models.PayCash
	}
	if !validPaymentMode(in.PaymentMode) {
		return nil, ErrBadPaymentMode
	}
	if in.DiscountType == "" {
		in.DiscountType = DiscountFlat
	}

	totals := Compute(in.Lines, in.DiscountType, in.DiscountValue, in.PaymentMode, in.AmountPaid)

	var invoice models.Invoice
	err := db.Transaction(func(tx *gorm.DB) error {
		// Quota first: a denied demo user leaves no trace behind.
		if err := subscription.ConsumeLimit(tx, userID, subscription.LimitBills); err != nil {
			return err
		}

		custID, custName, custPhone, err := upsertCustomer(tx, userID, in, totals)
		if err != nil {
			return err
		}

		var profile models.ShopProfile
		tx.Where("user_id = ?", userID).First(&profile)

		number, err := NextInvoiceNumber(tx, userID, profile.InvoicePrefix, time.Now())
		if err != nil {
			return err
		}

		items := make([]models.InvoiceItem, 0, len(in.Lines))
		for _, l := range in.Lines {
			items = append(items, models.InvoiceItem{
				ItemID:    l.ItemID,
				Name:      l.Name,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				TaxRate:   l.rate(),
				LineTotal: l.Total(),
			})
		}

		invoice = models.Invoice{
			UserID:         userID,
			InvoiceNumber:  number,
			CustomerID:     custID,
			CustomerName:   custName,
			CustomerPhone:  custPhone,
			Subtotal:       totals.Subtotal,
			DiscountAmount: totals.DiscountAmount,
			TaxAmount:      totals.TaxAmount,
			Total:          totals.Total,
			PaymentMode:    in.PaymentMode,
			AmountPaid:     totals.AmountPaid,
			DueAmount:      totals.DueAmount,
			Status:         totals.Status,
			CreatedAt:      time.Now(),
			Items:          items, // GORM inserts these with the header
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}

		return applyStock(tx, userID, in.Lines)
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func upsertCustomer(tx *gorm.DB, userID uint, in CreateInvoiceInput, totals Totals) (*uint, string, string, error) {
	if in.CustomerID != nil {
		var cust models.Customer
		if err := tx.Where("id = ? AND user_id = ?", *in.CustomerID, userID).First(&cust).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", "", ErrCustomerNotFound
			}
			return nil, "", "", err
		}
		err := tx.Model(&cust).Updates(map[string]interface{}{
			"total_purchases": gorm.Expr("total_purchases + ?", totals.Total),
			"total_dues":      gorm.Expr("total_dues + ?", totals.DueAmount),
		}).Error
		if err != nil {
			return nil, "", "", fmt.Errorf("update customer totals: %w", err)
		}
		return &cust.ID, cust.Name, cust.Phone, nil
	}

	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		// Anonymous walk-in sale.
		return nil, "", in.CustomerPhone, nil
	}

	cust := models.Customer{
		UserID:         userID,
		Name:           name,
		Phone:          strings.TrimSpace(in.CustomerPhone),
		TotalPurchases: totals.Total,
		TotalDues:      totals.DueAmount,
		CreatedAt:      time.Now(),
	}
	if err := tx.Create(&cust).Error; err != nil {
		return nil, "", "", fmt.Errorf("create customer: %w", err)
	}
	return &cust.ID, cust.Name, cust.Phone, nil
}

// applyStock decrements quantities (floored at zero), bumps sales counts
// and stamps last_sold_at for every catalog-backed line.
func applyStock(tx *gorm.DB, userID uint, lines []Line) error {
	now := time.Now()
	for _, l := range lines {
		if l.ItemID == nil {
			continue
		}
		err := tx.Model(&models.InventoryItem{}).
			Where("id = ? AND user_id = ?", *l.ItemID, userID).
			Updates(map[string]interface{}{
				"quantity":     gorm.Expr("CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END", l.Quantity, l.Quantity),
				"sales_count":  gorm.Expr("sales_count + ?", l.Quantity),
				"last_sold_at": now,
			}).Error
		if err != nil {
			return fmt.Errorf("update stock for item %d: %w", *l.ItemID, err)
		}
	}
	return nil
}
