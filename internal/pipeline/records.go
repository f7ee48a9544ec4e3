package pipeline

import (
	"fmt"
	"strings"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

// Jadval turlari uchun majburiy kalit ustunlar
var requiredColumns = map[entity.UploadKind][]string{
	entity.KindLineItems: {entity.ColPurchaseID, entity.ColProductID},
	entity.KindHeaders:   {entity.ColPurchaseID},
	entity.KindProducts:  {entity.ColProductID},
}

// Yo'q bo'lsa null bilan to'ldiriladigan ustunlar
var measureColumns = map[entity.UploadKind][]string{
	entity.KindLineItems: {entity.ColQuantity},
	entity.KindHeaders:   {entity.ColPurchaseDateTime},
	entity.KindProducts: {
		entity.ColDepartmentName,
		entity.ColHeightInches,
		entity.ColWidthInches,
		entity.ColDepthInches,
	},
}

// RequiredColumns jadval turi uchun majburiy ustunlar
func RequiredColumns(kind entity.UploadKind) []string {
	return requiredColumns[kind]
}

// ExpectedColumns jadval turi uchun barcha kutilgan ustunlar
func ExpectedColumns(kind entity.UploadKind) []string {
	cols := append([]string{}, requiredColumns[kind]...)
	return append(cols, measureColumns[kind]...)
}

// ValidateTable kalit ustunlarni tekshirish, yo'q measure ustunlar uchun warning qaytaradi
func ValidateTable(kind entity.UploadKind, t *entity.Table) ([]string, error) {
	for _, col := range requiredColumns[kind] {
		if !t.HasColumn(col) {
			return nil, &SchemaError{Table: string(kind), Column: col}
		}
	}
	var warnings []string
	for _, col := range measureColumns[kind] {
		if !t.HasColumn(col) {
			warnings = append(warnings, fmt.Sprintf("%s file has no %s column; values treated as missing", kind, col))
		}
	}
	return warnings, nil
}

// ParseLineItems normalizatsiya qilingan jadvaldan LineItem larni o'qish
func ParseLineItems(t *entity.Table) ([]entity.LineItem, []string, error) {
	warnings, err := ValidateTable(entity.KindLineItems, t)
	if err != nil {
		return nil, nil, err
	}
	purchaseCol := t.ColumnIndex(entity.ColPurchaseID)
	productCol := t.ColumnIndex(entity.ColProductID)
	qtyCol := t.ColumnIndex(entity.ColQuantity)

	lines := make([]entity.LineItem, 0, len(t.Rows))
	for i := range t.Rows {
		lines = append(lines, entity.LineItem{
			PurchaseID: strings.TrimSpace(t.Cell(i, purchaseCol)),
			ProductID:  strings.TrimSpace(t.Cell(i, productCol)),
			Quantity:   parseNumber(t.Cell(i, qtyCol)),
		})
	}
	return lines, warnings, nil
}

// ParsePurchaseHeaders xarid sarlavhalarini o'qish, PURCHASE_DATE_TIME parse qilinadi
func ParsePurchaseHeaders(t *entity.Table) ([]entity.PurchaseHeader, []string, error) {
	warnings, err := ValidateTable(entity.KindHeaders, t)
	if err != nil {
		return nil, nil, err
	}
	purchaseCol := t.ColumnIndex(entity.ColPurchaseID)
	tsCol := t.ColumnIndex(entity.ColPurchaseDateTime)

	headers := make([]entity.PurchaseHeader, 0, len(t.Rows))
	unparsed := 0
	for i := range t.Rows {
		raw := t.Cell(i, tsCol)
		ts := parseTimestamp(raw)
		if !ts.Valid && tsCol >= 0 && strings.TrimSpace(raw) != "" {
			unparsed++
		}
		headers = append(headers, entity.PurchaseHeader{
			PurchaseID:   strings.TrimSpace(t.Cell(i, purchaseCol)),
			PurchaseTime: ts,
		})
	}
	if unparsed > 0 {
		warnings = append(warnings, fmt.Sprintf("%d purchase timestamps could not be parsed", unparsed))
	}
	return headers, warnings, nil
}

// ParseProducts katalog mahsulotlarini o'qish (dedup va volume Enrich da)
func ParseProducts(t *entity.Table) ([]entity.Product, []string, error) {
	warnings, err := ValidateTable(entity.KindProducts, t)
	if err != nil {
		return nil, nil, err
	}
	idCol := t.ColumnIndex(entity.ColProductID)
	deptCol := t.ColumnIndex(entity.ColDepartmentName)
	heightCol := t.ColumnIndex(entity.ColHeightInches)
	widthCol := t.ColumnIndex(entity.ColWidthInches)
	depthCol := t.ColumnIndex(entity.ColDepthInches)

	products := make([]entity.Product, 0, len(t.Rows))
	for i := range t.Rows {
		products = append(products, entity.Product{
			ProductID:  strings.TrimSpace(t.Cell(i, idCol)),
			Department: entity.String(strings.TrimSpace(t.Cell(i, deptCol))),
			Height:     parseNumber(t.Cell(i, heightCol)),
			Width:      parseNumber(t.Cell(i, widthCol)),
			Depth:      parseNumber(t.Cell(i, depthCol)),
		})
	}
	return products, warnings, nil
}
