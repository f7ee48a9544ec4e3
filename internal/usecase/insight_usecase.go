package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
)

// InsightUseCase dashboard bo'yicha AI xulosasi
type InsightUseCase interface {
	Summarize(ctx context.Context, userID int64) (string, error)
}

type insightUseCase struct {
	ai        repository.InsightRepository
	dashboard DashboardUseCase
	actions   repository.ActionRepository
}

// NewInsightUseCase ai nil bo'lsa Summarize ErrInsightsDisabled qaytaradi
func NewInsightUseCase(ai repository.InsightRepository, dashboard DashboardUseCase, actions repository.ActionRepository) InsightUseCase {
	return &insightUseCase{
		ai:        ai,
		dashboard: dashboard,
		actions:   actions,
	}
}

// Summarize joriy dashboard uchun qisqa tahlil
func (u *insightUseCase) Summarize(ctx context.Context, userID int64) (string, error) {
	if u.ai == nil {
		return "", ErrInsightsDisabled
	}

	d, err := u.dashboard.Dashboard(ctx, userID)
	if err != nil {
		return "", err
	}

	// AI so'rovlarini osilib qolmasligi uchun timeout
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	summary, err := u.ai.Summarize(ctx, d)
	if err != nil {
		return "", fmt.Errorf("failed to summarize dashboard: %w", err)
	}
	logAction(ctx, u.actions, userID, "insights", fmt.Sprintf("%d chars", len(summary)))
	return summary, nil
}
