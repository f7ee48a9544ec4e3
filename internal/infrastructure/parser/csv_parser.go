package parser

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvParser struct{}

// NewCSVParser yangi CSV parser yaratish
func NewCSVParser() repository.TableParser {
	return &csvParser{}
}

// Supports .csv fayllar
func (c *csvParser) Supports(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}

// ParseTable header qatori bor CSV ni o'qish
func (c *csvParser) ParseTable(ctx context.Context, data []byte, filename string) (*entity.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.ReuseRecord = false

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	table := &entity.Table{
		Name:    filename,
		Columns: header,
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if isEmptyRow(record) {
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	log.Printf("📋 CSV %s: %d columns, %d rows", filename, len(table.Columns), len(table.Rows))
	return table, nil
}
