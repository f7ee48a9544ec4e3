package repository

import (
	"context"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

// TableParser yuklangan fayllarni jadvalga parse qilish uchun interface
type TableParser interface {
	// ParseTable byte array dan jadval o'qish (CSV yoki Excel)
	ParseTable(ctx context.Context, data []byte, filename string) (*entity.Table, error)

	// Supports fayl turini qo'llab-quvvatlashini tekshirish
	Supports(filename string) bool
}
