package repository

import (
	"context"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

// InsightRepository AI bilan dashboard xulosasi uchun interface
type InsightRepository interface {
	// Summarize dashboard bo'yicha qisqa tahlil yozish
	Summarize(ctx context.Context, dashboard *entity.Dashboard) (string, error)
}
