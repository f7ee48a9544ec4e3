package repository

import "github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"

// ReportRenderer dashboardni fayl ko'rinishiga o'tkazish uchun interface
type ReportRenderer interface {
	// Render dashboardni hisobot fayliga yozish
	Render(dashboard *entity.Dashboard) ([]byte, error)

	// Filename hisobot fayli nomi
	Filename() string
}
