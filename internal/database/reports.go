package database

import (
	"time"

	"shopdesk/internal/models"
)

// SalesReportResult holds the numbers the AI assistant and the reports
// screen both ask for.
type SalesReportResult struct {
	TotalRevenue float64
	TotalCount   int64
	TotalDues    float64
}

// GetSalesReport totals one user's invoices within a date range.
// COALESCE ensures we get 0 instead of NULL if no invoices exist.
func GetSalesReport(userID uint, start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	err := DB.Model(&models.Invoice{}).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&result.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Invoice{}).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Count(&result.TotalCount).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Invoice{}).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, start, end).
		Select("COALESCE(SUM(due_amount), 0)").
		Scan(&result.TotalDues).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
