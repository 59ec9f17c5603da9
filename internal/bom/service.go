package bom

import (
	"fmt"
	"strings"
	"time"

	"shopdesk/internal/models"
	"shopdesk/internal/subscription"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Confirmed imports create fresh rows every time. Dedup against existing
// stock by name or SKU is deliberately not attempted.

// costPriceRatio estimates cost when the bill only lists selling prices.
const costPriceRatio = 0.70

// ConfirmImport inserts the selected candidates as inventory rows in one
// transaction, spending demo quota per row. If the quota runs out midway
// the whole import rolls back so the shop never gets half a bill.
func ConfirmImport(db *gorm.DB, userID uint, candidates []CandidateItem) ([]models.InventoryItem, error) {
	var created []models.InventoryItem
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, c := range candidates {
			if !c.Selected {
				continue
			}
			if err := subscription.ConsumeLimit(tx, userID, subscription.LimitInventory); err != nil {
				return err
			}

			item := models.InventoryItem{
				UserID:    userID,
				Name:      c.Name,
				SKU:       c.SKU,
				Category:  c.Category,
				Size:      c.Size,
				Color:     c.Color,
				Price:     c.Price,
				CostPrice: c.Price * costPriceRatio,
				Quantity:  c.Quantity,
				GSTRate:   0, // owner sets rates after review
				CreatedAt: time.Now(),
			}
			if item.SKU == "" {
				item.SKU = GenerateSKU(c.Name)
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("insert imported item %q: %w", c.Name, err)
			}
			created = append(created, item)
		}
		if len(created) == 0 {
			return fmt.Errorf("nothing selected for import")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GenerateSKU builds a readable unique code like "SHI-1A2B3C4D" from the
// item name plus a uuid fragment.
func GenerateSKU(name string) string {
	prefix := "ITM"
	cleaned := strings.ToUpper(strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, name))
	if len(cleaned) >= 3 {
		prefix = cleaned[:3]
	}
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return prefix + "-" + frag
}
