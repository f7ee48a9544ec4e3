package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

// NormalizeColumn ustun nomini canonical ko'rinishga keltirish (trim + uppercase)
func NormalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToUpper(strings.TrimSpace(name))
}

// NormalizeTable ustun nomlari normalizatsiya qilingan yangi jadval qaytaradi.
// Qatorlar nusxa qilinmaydi.
func NormalizeTable(t *entity.Table) *entity.Table {
	if t == nil {
		return nil
	}
	cols := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cols[i] = NormalizeColumn(col)
	}
	return &entity.Table{
		Name:    t.Name,
		Columns: cols,
		Rows:    t.Rows,
	}
}

// parseNumber bo'sh yoki noto'g'ri qiymat null bo'ladi
func parseNumber(raw string) entity.NullFloat {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entity.NullFloat{}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return entity.NullFloat{}
	}
	return entity.Float(v)
}

// parseTimestamp vaqtni parse qilish; timezone ko'rsatilmagan bo'lsa UTC
func parseTimestamp(raw string) entity.NullTime {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entity.NullTime{}
	}
	ts, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return entity.NullTime{}
	}
	return entity.NullTime{Time: ts, Valid: true}
}
