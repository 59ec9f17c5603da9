package printer

import (
	"bytes"
	"fmt"
	"html/template"

	"shopdesk/internal/models"
)

// Layout selects the physical format of the printable bill.
type Layout string

const (
	LayoutA4      Layout = "a4"      // full page
	LayoutReceipt Layout = "receipt" // 80mm thermal roll
	LayoutHalf    Layout = "half"    // half page
)

// ParseLayout maps a query-string value onto a layout, defaulting to A4.
func ParseLayout(s string) Layout {
	switch s {
	case string(LayoutReceipt):
		return LayoutReceipt
	case string(LayoutHalf):
		return LayoutHalf
	default:
		return LayoutA4
	}
}

type docData struct {
	Shop    models.ShopProfile
	Invoice models.Invoice
	Width   string
	Scale   string
}

var docTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("₹%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Invoice.InvoiceNumber}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 0; padding: 16px; font-size: {{.Scale}}; }
  .doc { max-width: {{.Width}}; margin: 0 auto; }
  .shop { text-align: center; border-bottom: 1px dashed #333; padding-bottom: 8px; }
  .shop h1 { margin: 0; font-size: 1.4em; }
  .meta { display: flex; justify-content: space-between; margin: 8px 0; }
  table { width: 100%; border-collapse: collapse; }
  th, td { text-align: left; padding: 4px 2px; border-bottom: 1px solid #ddd; }
  td.num, th.num { text-align: right; }
  .totals td { border: none; padding: 2px; }
  .grand { font-weight: bold; border-top: 1px solid #333; }
  .footer { text-align: center; margin-top: 12px; font-size: 0.85em; color: #555; }
  @media print { body { padding: 0; } }
</style>
</head>
<body>
<div class="doc">
  <div class="shop">
    <h1>{{.Shop.ShopName}}</h1>
    {{if .Shop.Address}}<div>{{.Shop.Address}}</div>{{end}}
    {{if .Shop.Phone}}<div>Ph: {{.Shop.Phone}}</div>{{end}}
    {{if .Shop.GSTIN}}<div>GSTIN: {{.Shop.GSTIN}}</div>{{end}}
  </div>
  <div class="meta">
    <div>
      <div><strong>{{.Invoice.InvoiceNumber}}</strong></div>
      <div>{{.Invoice.CreatedAt.Format "02 Jan 2006 15:04"}}</div>
    </div>
    <div>
      {{if .Invoice.CustomerName}}<div>{{.Invoice.CustomerName}}</div>{{end}}
      {{if .Invoice.CustomerPhone}}<div>{{.Invoice.CustomerPhone}}</div>{{end}}
    </div>
  </div>
  <table>
    <tr><th>Item</th><th class="num">Qty</th><th class="num">Rate</th><th class="num">Amount</th></tr>
    {{range .Invoice.Items}}
    <tr>
      <td>{{.Name}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{money .UnitPrice}}</td>
      <td class="num">{{money .LineTotal}}</td>
    </tr>
    {{end}}
  </table>
  <table class="totals">
    <tr><td>Subtotal</td><td class="num">{{money .Invoice.Subtotal}}</td></tr>
    {{if gt .Invoice.DiscountAmount 0.0}}<tr><td>Discount</td><td class="num">-{{money .Invoice.DiscountAmount}}</td></tr>{{end}}
    <tr><td>Tax (incl.)</td><td class="num">{{money .Invoice.TaxAmount}}</td></tr>
    <tr class="grand"><td>Total</td><td class="num">{{money .Invoice.Total}}</td></tr>
    <tr><td>Paid ({{.Invoice.PaymentMode}})</td><td class="num">{{money .Invoice.AmountPaid}}</td></tr>
    {{if gt .Invoice.DueAmount 0.0}}<tr><td>Due</td><td class="num">{{money .Invoice.DueAmount}}</td></tr>{{end}}
  </table>
  <div class="footer">Thank you for your business!</div>
</div>
</body>
</html>
`))

// Render produces the printable HTML document for an invoice. The three
// layouts share one template and differ in page width and type scale.
func Render(shop models.ShopProfile, inv models.Invoice, layout Layout) ([]byte, error) {
	data := docData{Shop: shop, Invoice: inv}
	switch layout {
	case LayoutReceipt:
		data.Width, data.Scale = "80mm", "11px"
	case LayoutHalf:
		data.Width, data.Scale = "148mm", "13px"
	default:
		data.Width, data.Scale = "210mm", "14px"
	}
	if data.Shop.ShopName == "" {
		data.Shop.ShopName = "My Shop"
	}

	var buf bytes.Buffer
	if err := docTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render invoice document: %w", err)
	}
	return buf.Bytes(), nil
}
