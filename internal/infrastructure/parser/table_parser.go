package parser

import (
	"context"
	"fmt"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
)

type multiParser struct {
	parsers []repository.TableParser
}

// NewTableParser CSV va Excel fayllarni qo'llab-quvvatlaydigan parser
func NewTableParser() repository.TableParser {
	return &multiParser{
		parsers: []repository.TableParser{NewCSVParser(), NewExcelParser()},
	}
}

// Supports birorta parser qabul qilsa true
func (m *multiParser) Supports(filename string) bool {
	for _, p := range m.parsers {
		if p.Supports(filename) {
			return true
		}
	}
	return false
}

// ParseTable fayl kengaytmasiga qarab parser tanlash
func (m *multiParser) ParseTable(ctx context.Context, data []byte, filename string) (*entity.Table, error) {
	for _, p := range m.parsers {
		if p.Supports(filename) {
			return p.ParseTable(ctx, data, filename)
		}
	}
	return nil, fmt.Errorf("unsupported file type: %s", filename)
}
