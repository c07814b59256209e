package infra

// xlsx.go — AOQ workbook export using excelize.
// Lays the abstract out the way the BAC reads it on paper: one row per PR
// item, one price column per supplier, with per-supplier totals at the
// bottom. Non-responsive quotes are greyed out.

import (
	"fmt"

	"procuretrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// BuildAOQWorkbook renders the abstract of quotation as an Excel workbook.
// Lines with their PRItem and Supplier associations must be loaded.
func BuildAOQWorkbook(aoq *model.AbstractOfQuotation, agencyName string) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Abstract"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	greyStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#999999", Italic: true},
	})
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	title := agencyName + " — Abstract of Quotation"
	if aoq.AOQNumber != nil {
		title += " " + *aoq.AOQNumber
	}
	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.SetCellStyle(sheet, "A1", "A1", boldStyle)

	// Column order: suppliers in first-appearance order, items in line order.
	var supplierOrder []uuid.UUID
	supplierNames := make(map[uuid.UUID]string)
	var itemOrder []uuid.UUID
	itemSeen := make(map[uuid.UUID]bool)
	type cellPrice struct {
		price      decimal.Decimal
		responsive bool
	}
	prices := make(map[uuid.UUID]map[uuid.UUID]cellPrice)

	for i := range aoq.Lines {
		line := &aoq.Lines[i]
		if _, ok := supplierNames[line.SupplierID]; !ok {
			supplierOrder = append(supplierOrder, line.SupplierID)
			name := line.SupplierID.String()[:8]
			if line.Supplier != nil {
				name = line.Supplier.Name
			}
			supplierNames[line.SupplierID] = name
			prices[line.SupplierID] = make(map[uuid.UUID]cellPrice)
		}
		if !itemSeen[line.PRItemID] {
			itemSeen[line.PRItemID] = true
			itemOrder = append(itemOrder, line.PRItemID)
		}
		prices[line.SupplierID][line.PRItemID] = cellPrice{price: line.UnitPrice, responsive: line.Responsive}
	}
	itemDesc := make(map[uuid.UUID]string)
	itemQty := make(map[uuid.UUID]int)
	for i := range aoq.Lines {
		line := &aoq.Lines[i]
		if line.PRItem != nil {
			itemDesc[line.PRItemID] = line.PRItem.Description
			itemQty[line.PRItemID] = line.PRItem.Quantity
		}
	}

	// Header row
	headerRow := 3
	_ = f.SetCellValue(sheet, cell(1, headerRow), "Item Description")
	_ = f.SetCellValue(sheet, cell(2, headerRow), "Qty")
	for i, sid := range supplierOrder {
		_ = f.SetCellValue(sheet, cell(3+i, headerRow), supplierNames[sid])
	}
	last, _ := excelize.ColumnNumberToName(2 + len(supplierOrder))
	_ = f.SetCellStyle(sheet, cell(1, headerRow), last+fmt.Sprint(headerRow), headerStyle)

	// Item rows
	row := headerRow + 1
	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, itemID := range itemOrder {
		_ = f.SetCellValue(sheet, cell(1, row), itemDesc[itemID])
		_ = f.SetCellValue(sheet, cell(2, row), itemQty[itemID])
		for i, sid := range supplierOrder {
			p, ok := prices[sid][itemID]
			if !ok {
				continue
			}
			c := cell(3+i, row)
			v, _ := p.price.Float64()
			_ = f.SetCellValue(sheet, c, v)
			if p.responsive {
				totals[sid] = totals[sid].Add(p.price.Mul(decimal.NewFromInt(int64(itemQty[itemID]))))
			} else {
				_ = f.SetCellStyle(sheet, c, c, greyStyle)
			}
		}
		row++
	}

	// Totals row: responsive lines only
	_ = f.SetCellValue(sheet, cell(1, row), "TOTAL (responsive)")
	for i, sid := range supplierOrder {
		v, _ := totals[sid].Float64()
		_ = f.SetCellValue(sheet, cell(3+i, row), v)
	}
	_ = f.SetCellStyle(sheet, cell(1, row), last+fmt.Sprint(row), boldStyle)

	_ = f.SetColWidth(sheet, "A", "A", 40)

	return f, nil
}

func cell(col, row int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return fmt.Sprintf("%s%d", name, row)
}
