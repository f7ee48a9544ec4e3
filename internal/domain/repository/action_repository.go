package repository

import (
	"context"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

// ActionRepository audit log uchun interface
type ActionRepository interface {
	// LogAction harakatni loglash
	LogAction(ctx context.Context, action entity.Action) error

	// Recent oxirgi harakatlar (yangi → eski)
	Recent(ctx context.Context, userID int64, limit int) ([]entity.Action, error)
}
