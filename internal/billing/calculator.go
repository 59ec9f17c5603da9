package billing

import (
	"shopdesk/internal/models"
)

// DiscountType selects how the discount value is interpreted.
type DiscountType string

const (
	DiscountFlat    DiscountType = "flat"
	DiscountPercent DiscountType = "percent"
)

// DefaultGSTRate applies to any line that doesn't carry its own rate.
const DefaultGSTRate = 18.0

// Line is one row of the working bill.
type Line struct {
	ItemID    *uint    `json:"item_id"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
	TaxRate   *float64 `json:"tax_rate"` // percent; nil means DefaultGSTRate
}

func (l Line) rate() float64 {
	if l.TaxRate != nil {
		return *l.TaxRate
	}
	return DefaultGSTRate
}

// Total of the line. Prices are tax-inclusive.
func (l Line) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Totals holds every derived figure of a bill.
type Totals struct {
	Subtotal       float64
	DiscountAmount float64
	TaxAmount      float64
	Total          float64
	AmountPaid     float64
	DueAmount      float64
	Status         string
}

// Compute derives all invoice figures from the working set.
//
// Prices are tax-inclusive: the GST inside a line total T at rate r is
// T - T/(1+r/100), so tax is reported but never added on top again.
// The discount is clamped to the subtotal so the total can't go negative.
// amountPaid nil means "paid in full" except in due mode, which forces
// paid to 0 and the whole total due.
func Compute(lines []Line, dType DiscountType, dValue float64, paymentMode string, amountPaid *float64) Totals {
	var t Totals

	for _, l := range lines {
		lt := l.Total()
		t.Subtotal += lt
		t.TaxAmount += lt - lt/(1+l.rate()/100)
	}

	if dType == DiscountPercent {
		t.DiscountAmount = t.Subtotal * dValue / 100
	} else {
		t.DiscountAmount = dValue
	}
	if t.DiscountAmount > t.Subtotal {
		t.DiscountAmount = t.Subtotal
	}
	if t.DiscountAmount < 0 {
		t.DiscountAmount = 0
	}

	t.Total = t.Subtotal - t.DiscountAmount

	if paymentMode == models.PayDue {
		t.AmountPaid = 0
		t.DueAmount = t.Total
	} else {
		if amountPaid != nil {
			t.AmountPaid = *amountPaid
		} else {
			t.AmountPaid = t.Total
		}
		t.DueAmount = t.Total - t.AmountPaid
		if t.DueAmount < 0 {
			t.DueAmount = 0
		}
	}

	if t.DueAmount > 0 {
		t.Status = models.InvoicePartial
	} else {
		t.Status = models.InvoiceCompleted
	}
	return t
}
