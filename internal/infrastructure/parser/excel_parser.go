package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
)

type excelParser struct{}

// NewExcelParser yangi Excel parser yaratish
func NewExcelParser() repository.TableParser {
	return &excelParser{}
}

// Supports .xlsx / .xlsm fayllar
func (e *excelParser) Supports(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm")
}

// ParseTable byte array dan birinchi sheet ni o'qish
func (e *excelParser) ParseTable(ctx context.Context, data []byte, filename string) (*entity.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f, filename)
}

// parseExcelFile birinchi sheet: 1-qator header, qolganlari data
func (e *excelParser) parseExcelFile(f *excelize.File, filename string) (*entity.Table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	sheetName := sheets[0]
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	// Boshidagi bo'sh qatorlarni tashlab yuborish
	start := 0
	for start < len(rows) && isEmptyRow(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil, fmt.Errorf("excel file is empty")
	}

	header := rows[start]
	log.Printf("📋 Excel header (%s/%s): %v", filename, sheetName, header)

	table := &entity.Table{
		Name:    filename,
		Columns: append([]string{}, header...),
	}
	for _, row := range rows[start+1:] {
		if isEmptyRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	log.Printf("📊 Total rows: %d", len(table.Rows))
	return table, nil
}

// isEmptyRow qator bo'sh yoki yo'qligini tekshirish
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
