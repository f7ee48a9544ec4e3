package pipeline

import "github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"

func table(name string, cols []string, rows ...[]string) *entity.Table {
	return &entity.Table{Name: name, Columns: cols, Rows: rows}
}

func num(v float64) entity.NullFloat { return entity.Float(v) }

func dept(s string) entity.NullString { return entity.String(s) }
