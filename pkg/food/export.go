package food

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"xianshiji/pkg/inventory"
)

const exportSheet = "库存"

var exportHeaders = []string{"ID", "名称", "分类", "数量", "单位", "最低库存", "购买日期", "过期日期", "状态"}

// ExportFoodItems renders the user's current inventory as an xlsx workbook
// with a summary row of the status counts.
func (s *foodService) ExportFoodItems(ctx context.Context, userID uint) ([]byte, error) {
	items, err := s.currentItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildWorkbook(items)
}

func BuildWorkbook(items []inventory.Item) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "D9D9D9", Style: 1},
		{Type: "top", Color: "D9D9D9", Style: 1},
		{Type: "bottom", Color: "D9D9D9", Style: 1},
		{Type: "right", Color: "D9D9D9", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})

	_ = f.SetColWidth(exportSheet, "A", "A", 8)
	_ = f.SetColWidth(exportSheet, "B", "C", 18)
	_ = f.SetColWidth(exportSheet, "D", "F", 10)
	_ = f.SetColWidth(exportSheet, "G", "H", 14)
	_ = f.SetColWidth(exportSheet, "I", "I", 10)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, header)
		_ = f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}

	for i, item := range items {
		row := i + 2
		minQuantity := ""
		if item.MinQuantity != nil {
			minQuantity = fmt.Sprintf("%g", *item.MinQuantity)
		}
		purchaseDate := ""
		if item.PurchaseDate != nil {
			purchaseDate = item.PurchaseDate.String()
		}

		values := []any{
			item.ID,
			item.Name,
			item.Category,
			item.Quantity,
			item.DisplayUnit(),
			minQuantity,
			purchaseDate,
			item.ExpiryDate.String(),
			item.Status.Label(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(exportSheet, cell, v)
		}
		_ = f.SetCellStyle(exportSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("I%d", row), dataStyle)
	}

	st := inventory.Summarize(items)
	summaryRow := len(items) + 3
	_ = f.SetCellValue(exportSheet, fmt.Sprintf("A%d", summaryRow), "合计")
	_ = f.SetCellValue(exportSheet, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf("共 %d 项", st.TotalItems))
	_ = f.SetCellValue(exportSheet, fmt.Sprintf("C%d", summaryRow), fmt.Sprintf("%d 个分类", st.TotalCategories))
	_ = f.SetCellValue(exportSheet, fmt.Sprintf("D%d", summaryRow), fmt.Sprintf("临期 %d", st.NearExpiry))
	_ = f.SetCellValue(exportSheet, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("不足 %d", st.Insufficient))
	_ = f.SetCellValue(exportSheet, fmt.Sprintf("F%d", summaryRow), fmt.Sprintf("过期 %d", st.Expired))
	_ = f.SetCellStyle(exportSheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("I%d", summaryRow), summaryStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
