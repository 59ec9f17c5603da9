package subscription

import (
	"errors"
	"fmt"
	"time"

	"shopdesk/internal/models"

	"gorm.io/gorm"
)

// LimitKind names one of the demo-plan ceilings.
type LimitKind string

const (
	LimitBills     LimitKind = "bills"
	LimitInventory LimitKind = "inventory"
	LimitCustomers LimitKind = "customers"
)

// Demo-plan ceilings. Fixed product constants, not configurable.
const (
	CeilingBills     = 5
	CeilingInventory = 10
	CeilingCustomers = 10
)

// ErrLimitReached is returned when a demo-plan user has used up the
// ceiling for the requested action.
var ErrLimitReached = errors.New("demo limit reached")

func ceiling(kind LimitKind) int {
	switch kind {
	case LimitBills:
		return CeilingBills
	case LimitInventory:
		return CeilingInventory
	default:
		return CeilingCustomers
	}
}

func column(kind LimitKind) string {
	switch kind {
	case LimitBills:
		return "bills_created"
	case LimitInventory:
		return "inventory_items"
	default:
		return "customers_added"
	}
}

func counter(u *models.DemoUsage, kind LimitKind) int {
	switch kind {
	case LimitBills:
		return u.BillsCreated
	case LimitInventory:
		return u.InventoryItems
	default:
		return u.CustomersAdded
	}
}

// LimitStatus is what the UI shows next to a gated button.
type LimitStatus struct {
	Allowed bool `json:"allowed"`
	Used    int  `json:"used"`
	Ceiling int  `json:"ceiling"` // 0 means unlimited (paid plan)
}

// EnsureForUser reads the user's subscription, creating the demo plan and
// a zeroed usage row on first touch.
func EnsureForUser(db *gorm.DB, userID uint) (*models.Subscription, *models.DemoUsage, error) {
	var sub models.Subscription
	err := db.Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub = models.Subscription{UserID: userID, PlanType: models.PlanDemo, IsActive: true}
		if err := db.Create(&sub).Error; err != nil {
			return nil, nil, fmt.Errorf("create subscription: %w", err)
		}
	} else if err != nil {
		return nil, nil, err
	}

	var usage models.DemoUsage
	err = db.Where("user_id = ?", userID).First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		usage = models.DemoUsage{UserID: userID}
		if err := db.Create(&usage).Error; err != nil {
			return nil, nil, fmt.Errorf("create demo usage: %w", err)
		}
	} else if err != nil {
		return nil, nil, err
	}

	return &sub, &usage, nil
}

// CheckLimit is the read-only half of the gate, for UI display. Paid plans
// are always allowed with no ceiling reported.
func CheckLimit(db *gorm.DB, userID uint, kind LimitKind) (*LimitStatus, error) {
	sub, usage, err := EnsureForUser(db, userID)
	if err != nil {
		return nil, err
	}
	if sub.PlanType != models.PlanDemo {
		return &LimitStatus{Allowed: true}, nil
	}

	used := counter(usage, kind)
	max := ceiling(kind)
	return &LimitStatus{Allowed: used < max, Used: used, Ceiling: max}, nil
}

// ConsumeLimit spends one unit of the demo quota. It must run inside the
// same transaction as the mutation it guards: the increment is a single
// conditional UPDATE, so the check and the bump cannot race apart even
// across devices. Paid plans pass through untouched.
func ConsumeLimit(tx *gorm.DB, userID uint, kind LimitKind) error {
	var sub models.Subscription
	if err := tx.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return fmt.Errorf("load subscription: %w", err)
	}
	if sub.PlanType != models.PlanDemo {
		return nil
	}

	col := column(kind)
	res := tx.Model(&models.DemoUsage{}).
		Where("user_id = ? AND "+col+" < ?", userID, ceiling(kind)).
		Update(col, gorm.Expr(col+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLimitReached
	}
	return nil
}

// ExpireIfNeeded downgrades a lapsed paid plan back to demo. Returns the
// (possibly updated) subscription.
func ExpireIfNeeded(db *gorm.DB, sub *models.Subscription, now time.Time) (*models.Subscription, error) {
	if sub.PlanType == models.PlanDemo || sub.ExpiresAt == nil || now.Before(*sub.ExpiresAt) {
		return sub, nil
	}

	sub.PlanType = models.PlanDemo
	sub.AIAddon = false
	sub.BillingCycle = ""
	sub.IsActive = false
	sub.ExpiresAt = nil
	if err := db.Save(sub).Error; err != nil {
		return nil, fmt.Errorf("expire subscription: %w", err)
	}
	return sub, nil
}
