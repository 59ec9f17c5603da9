package models

import (
	"time"
)

// Plan tiers. "demo" is the free tier with hard ceilings on bills,
// inventory items and customers.
const (
	PlanDemo  = "demo"
	PlanBasic = "basic"
	PlanPro   = "pro"
)

// Billing cycles for paid plans.
const (
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// Payment modes accepted on an invoice.
const (
	PayCash   = "cash"
	PayCard   = "card"
	PayOnline = "online"
	PayDue    = "due"
)

// Invoice statuses.
const (
	InvoiceCompleted = "completed"
	InvoicePartial   = "partial"
)

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceHalfDay = "half-day"
)

// User - The shop owner. Accounts are phone-first; email is derived from
// the phone number when none is given. Every other record hangs off UserID.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Phone        string    `gorm:"uniqueIndex;size:20" json:"phone"`
	Email        string    `gorm:"uniqueIndex;size:120" json:"email"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// ShopProfile - 1:1 with User. Feeds the printable invoice header.
type ShopProfile struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        uint   `gorm:"uniqueIndex" json:"user_id"`
	ShopName      string `json:"shop_name"`
	GSTIN         string `json:"gstin"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	InvoicePrefix string `json:"invoice_prefix"` // defaults to "INV"
}

// Subscription - 1:1 with User, created lazily as demo on first access.
type Subscription struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"uniqueIndex" json:"user_id"`
	PlanType     string     `gorm:"size:10" json:"plan_type"` // demo, basic, pro
	AIAddon      bool       `json:"ai_addon"`
	BillingCycle string     `gorm:"size:10" json:"billing_cycle"` // monthly, yearly, ""
	IsActive     bool       `json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// DemoUsage - per-user counters for the demo-plan ceilings.
// Counters only ever go up while the plan is demo.
type DemoUsage struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	UserID         uint `gorm:"uniqueIndex" json:"user_id"`
	BillsCreated   int  `json:"bills_created"`
	InventoryItems int  `json:"inventory_items"`
	CustomersAdded int  `json:"customers_added"`
}

// InventoryItem - The stock on the shelf.
type InventoryItem struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index" json:"user_id"`
	Name       string     `json:"name"`
	SKU        string     `gorm:"index;size:60" json:"sku"`
	Category   string     `json:"category"`
	Size       string     `json:"size"`
	Color      string     `json:"color"`
	CostPrice  float64    `json:"cost_price"`
	Price      float64    `json:"price"`
	Quantity   int        `json:"quantity"`
	GSTRate    float64    `json:"gst_rate"` // percent, tax-inclusive pricing
	SalesCount int        `json:"sales_count"`
	LastSoldAt *time.Time `json:"last_sold_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Customer - running totals are accumulated at invoice time, never
// recomputed from invoice history.
type Customer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index" json:"user_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	TotalPurchases float64   `json:"total_purchases"`
	TotalDues      float64   `json:"total_dues"`
	CreatedAt      time.Time `json:"created_at"`
}

// Invoice - The bill header. Line items live in invoice_items and are
// written in the same transaction as the header.
type Invoice struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         uint          `gorm:"index" json:"user_id"`
	InvoiceNumber  string        `gorm:"index;size:30" json:"invoice_number"`
	CustomerID     *uint         `json:"customer_id"`
	CustomerName   string        `json:"customer_name"`
	CustomerPhone  string        `json:"customer_phone"`
	Subtotal       float64       `json:"subtotal"`
	DiscountAmount float64       `json:"discount_amount"`
	TaxAmount      float64       `json:"tax_amount"`
	Total          float64       `json:"total"`
	PaymentMode    string        `gorm:"size:10" json:"payment_mode"`
	AmountPaid     float64       `json:"amount_paid"`
	DueAmount      float64       `json:"due_amount"`
	Status         string        `gorm:"size:12" json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	Items          []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

// InvoiceItem - one sold line. Name and price are snapshots taken at sale
// time so later catalog edits don't rewrite history.
type InvoiceItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	InvoiceID uint    `gorm:"index" json:"invoice_id"`
	ItemID    *uint   `json:"item_id"` // nil for ad-hoc lines
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	TaxRate   float64 `json:"tax_rate"`
	LineTotal float64 `json:"line_total"`
}

// InvoiceSequence - per-user monotonic counter backing invoice numbers.
// Bumped inside the invoice transaction, so two concurrent bills can
// never share a number.
type InvoiceSequence struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	UserID  uint `gorm:"uniqueIndex" json:"user_id"`
	NextSeq int  `json:"next_seq"`
}

// Staff - employees of the shop. Permissions are a closed set of flags,
// checked by middleware per route group.
type Staff struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index" json:"user_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	Salary       float64   `json:"salary"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`
	CanBilling   bool      `json:"can_billing"`
	CanInventory bool      `json:"can_inventory"`
	CanCustomers bool      `json:"can_customers"`
	CanReports   bool      `json:"can_reports"`
	CanSettings  bool      `json:"can_settings"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// StaffAttendance - one row per staff per day.
type StaffAttendance struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	UserID   uint       `gorm:"index" json:"user_id"`
	StaffID  uint       `gorm:"index:idx_staff_date,unique" json:"staff_id"`
	Date     string     `gorm:"index:idx_staff_date,unique;size:10" json:"date"` // YYYY-MM-DD
	Status   string     `gorm:"size:10" json:"status"`
	CheckIn  *time.Time `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`
}
