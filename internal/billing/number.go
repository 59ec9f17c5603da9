package billing

import (
	"fmt"
	"time"

	"shopdesk/internal/models"

	"gorm.io/gorm"
)

// NextInvoiceNumber allocates the next number for a user, formatted as
// {prefix}-{YY}{MM}-{seq} with the sequence zero-padded to 4 digits.
//
// The bump is a single UPDATE on the per-user sequence row, executed
// inside the invoice transaction, so concurrent bills from two devices
// get distinct numbers instead of the old count-then-use duplicates.
func NextInvoiceNumber(tx *gorm.DB, userID uint, prefix string, now time.Time) (string, error) {
	if prefix == "" {
		prefix = "INV"
	}

	res := tx.Model(&models.InvoiceSequence{}).
		Where("user_id = ?", userID).
		Update("next_seq", gorm.Expr("next_seq + 1"))
	if res.Error != nil {
		return "", res.Error
	}

	var seq models.InvoiceSequence
	if res.RowsAffected == 0 {
		seq = models.InvoiceSequence{UserID: userID, NextSeq: 1}
		if err := tx.Create(&seq).Error; err != nil {
			return "", fmt.Errorf("create invoice sequence: %w", err)
		}
	} else {
		if err := tx.Where("user_id = ?", userID).First(&seq).Error; err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format("0601"), seq.NextSeq), nil
}
