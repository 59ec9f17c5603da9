package bom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	csvData := `Item Name,Qty,Rate,Size,Colour,Code,Category
Blue Shirt,5,"₹499",M,Blue,SH-01,Shirts
Black Jeans,3,"1,299",32,Black,,Jeans
,2,100,,,,
Red Kurti,,799,L,Red,KU-11,Kurtis
`
	items, err := ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, items, 3) // the nameless row is dropped

	require.Equal(t, "Blue Shirt", items[0].Name)
	require.Equal(t, 5, items[0].Quantity)
	require.InDelta(t, 499, items[0].Price, 0.001)
	require.Equal(t, "M", items[0].Size)
	require.Equal(t, "Blue", items[0].Color) // "Colour" alias
	require.Equal(t, "SH-01", items[0].SKU)
	require.True(t, items[0].Selected)

	require.InDelta(t, 1299, items[1].Price, 0.001) // thousands separator stripped
	require.Equal(t, 1, items[2].Quantity)          // missing qty defaults to 1
}

func TestParseCSVNoNameColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("foo,bar\n1,2\n"))
	require.Error(t, err)
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("name,qty\n"))
	require.Error(t, err)
}

func TestParseXLSXRoundTrip(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Product", "Quantity", "Price", "SKU"},
		{"Cotton Saree", 4, 1500, "SA-9"},
		{"Silk Dupatta", 2, 650, ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	items, err := ParseXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Cotton Saree", items[0].Name)
	require.Equal(t, 4, items[0].Quantity)
	require.InDelta(t, 1500, items[0].Price, 0.001)
	require.Equal(t, "SA-9", items[0].SKU)
	require.Equal(t, "Silk Dupatta", items[1].Name)
}

func TestGenerateSKU(t *testing.T) {
	sku := GenerateSKU("Blue Shirt")
	require.Regexp(t, `^BLU-[0-9A-F]{8}$`, sku)

	// Short or symbol-only names still get a prefix.
	require.Regexp(t, `^ITM-[0-9A-F]{8}$`, GenerateSKU("々々"))

	// Practically unique.
	require.NotEqual(t, GenerateSKU("Blue Shirt"), GenerateSKU("Blue Shirt"))
}
