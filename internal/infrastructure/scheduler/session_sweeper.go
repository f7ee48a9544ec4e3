package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/metrics"
)

// SessionSweeper eski sessiyalarni cron jadvali bo'yicha o'chiradi
type SessionSweeper struct {
	sessions repository.SessionRepository
	metrics  *metrics.Registry
	ttl      time.Duration
	schedule cron.Schedule
	now      func() time.Time
}

// NewSessionSweeper 5 maydonli cron ifoda bilan sweeper yaratish
func NewSessionSweeper(sessions repository.SessionRepository, reg *metrics.Registry, ttl time.Duration, spec string) (*SessionSweeper, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty sweep schedule")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	return &SessionSweeper{
		sessions: sessions,
		metrics:  reg,
		ttl:      ttl,
		schedule: sched,
		now:      time.Now,
	}, nil
}

// Sweep TTL dan eski sessiyalarni bir marta o'chirish
func (s *SessionSweeper) Sweep(ctx context.Context) (int, error) {
	removed, err := s.sessions.DeleteIdle(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SessionsSwept.Add(float64(removed))
		if n, err := s.sessions.Count(ctx); err == nil {
			s.metrics.ActiveSessions.Set(float64(n))
		}
	}
	return removed, nil
}

// Next keyingi ishga tushish vaqti
func (s *SessionSweeper) Next(after time.Time) time.Time {
	return s.schedule.Next(after)
}

// Start ctx bekor qilinguncha fon rejimida ishlaydi
func (s *SessionSweeper) Start(ctx context.Context) {
	go func() {
		for {
			now := s.now()
			next := s.schedule.Next(now)
			timer := time.NewTimer(next.Sub(now))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			removed, err := s.Sweep(ctx)
			if err != nil {
				log.Printf("⚠️ Session sweep error: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("🧹 Removed %d idle sessions", removed)
			}
		}
	}()
}
