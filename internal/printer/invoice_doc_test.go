package printer

import (
	"testing"
	"time"

	"shopdesk/internal/models"

	"github.com/stretchr/testify/require"
)

func sampleInvoice() models.Invoice {
	return models.Invoice{
		InvoiceNumber:  "NF-2608-0007",
		CustomerName:   "Ravi Kumar",
		CustomerPhone:  "9876543210",
		Subtotal:       250,
		DiscountAmount: 25,
		TaxAmount:      38.14,
		Total:          225,
		PaymentMode:    models.PayCash,
		AmountPaid:     225,
		CreatedAt:      time.Date(2026, 8, 20, 14, 30, 0, 0, time.UTC),
		Items: []models.InvoiceItem{
			{Name: "Item X", Quantity: 2, UnitPrice: 100, TaxRate: 18, LineTotal: 200},
			{Name: "Item Y", Quantity: 1, UnitPrice: 50, TaxRate: 18, LineTotal: 50},
		},
	}
}

func TestRenderContainsInvoiceFields(t *testing.T) {
	shop := models.ShopProfile{ShopName: "Nine Fashion", GSTIN: "27AAPFU0939F1ZV", Address: "MG Road, Pune", Phone: "020-1234"}

	doc, err := Render(shop, sampleInvoice(), LayoutA4)
	require.NoError(t, err)

	html := string(doc)
	require.Contains(t, html, "Nine Fashion")
	require.Contains(t, html, "27AAPFU0939F1ZV")
	require.Contains(t, html, "NF-2608-0007")
	require.Contains(t, html, "Ravi Kumar")
	require.Contains(t, html, "Item X")
	require.Contains(t, html, "₹250.00")
	require.Contains(t, html, "₹225.00")
	require.Contains(t, html, "Discount")
}

func TestRenderLayoutWidths(t *testing.T) {
	shop := models.ShopProfile{ShopName: "Nine Fashion"}
	inv := sampleInvoice()

	a4, err := Render(shop, inv, LayoutA4)
	require.NoError(t, err)
	require.Contains(t, string(a4), "210mm")

	receipt, err := Render(shop, inv, LayoutReceipt)
	require.NoError(t, err)
	require.Contains(t, string(receipt), "80mm")

	half, err := Render(shop, inv, LayoutHalf)
	require.NoError(t, err)
	require.Contains(t, string(half), "148mm")
}

func TestRenderSkipsZeroDueAndDiscount(t *testing.T) {
	inv := sampleInvoice()
	inv.DiscountAmount = 0
	inv.DueAmount = 0

	doc, err := Render(models.ShopProfile{}, inv, LayoutReceipt)
	require.NoError(t, err)
	require.NotContains(t, string(doc), "Discount")
	require.NotContains(t, string(doc), ">Due<")
	// Empty profile still prints something sensible.
	require.Contains(t, string(doc), "My Shop")
}

func TestParseLayout(t *testing.T) {
	require.Equal(t, LayoutReceipt, ParseLayout("receipt"))
	require.Equal(t, LayoutHalf, ParseLayout("half"))
	require.Equal(t, LayoutA4, ParseLayout("a4"))
	require.Equal(t, LayoutA4, ParseLayout(""))
	require.Equal(t, LayoutA4, ParseLayout("letter"))
}
