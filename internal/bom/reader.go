package bom

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CandidateItem is one extracted row awaiting human review. Everything is
// editable on the review screen before confirmation.
type CandidateItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Size     string  `json:"size"`
	Color    string  `json:"color"`
	SKU      string  `json:"sku"`
	Category string  `json:"category"`
	Selected bool    `json:"selected"`
}

// ParseXLSX reads the first sheet of a spreadsheet into candidate rows.
func ParseXLSX(r io.Reader) ([]CandidateItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromRows(rows)
}

// ParseCSV reads a comma-separated bill export into candidate rows.
func ParseCSV(r io.Reader) ([]CandidateItem, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows happen in real exports
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRows(rows)
}

// Header aliases seen in the wild. Matching is case-insensitive.
var headerAliases = map[string]string{
	"name": "name", "item": "name", "item name": "name", "product": "name", "description": "name",
	"quantity": "quantity", "qty": "quantity", "stock": "quantity", "pcs": "quantity",
	"price": "price", "rate": "price", "mrp": "price", "selling price": "price", "amount": "price",
	"size": "size",
	"color": "color", "colour": "color",
	"sku": "sku", "code": "sku", "item code": "sku", "barcode": "sku",
	"category": "category", "type": "category", "group": "category",
}

func fromRows(rows [][]string) ([]CandidateItem, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("file has no data rows")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		if field, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, taken := cols[field]; !taken {
				cols[field] = i
			}
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("no recognizable name column in header")
	}

	cell := func(row []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []CandidateItem
	for _, row := range rows[1:] {
		name := cell(row, "name")
		if name == "" {
			continue
		}
		qty, _ := strconv.Atoi(cell(row, "quantity"))
		if qty <= 0 {
			qty = 1
		}
		items = append(items, CandidateItem{
			Name:     name,
			Quantity: qty,
			Price:    parseAmount(cell(row, "price")),
			Size:     cell(row, "size"),
			Color:    cell(row, "color"),
			SKU:      cell(row, "sku"),
			Category: cell(row, "category"),
			Selected: true,
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no usable rows found")
	}
	return items, nil
}

// parseAmount tolerates currency symbols and thousands separators.
func parseAmount(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	v, _ := strconv.ParseFloat(cleaned, 64)
	return v
}
