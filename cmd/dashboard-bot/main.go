package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yourusername/fulfil-dashboard-bot/config"
	"github.com/yourusername/fulfil-dashboard-bot/internal/delivery/telegram"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/gemini"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/metrics"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/parser"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/report"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/scheduler"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/storage"
	"github.com/yourusername/fulfil-dashboard-bot/internal/usecase"
)

const actionLogSize = 5000

func main() {
	if err := run(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("👋 Bot to'xtatildi")
}

// run barcha qismlarni ulaydi; xato bo'lsa defer lar ishlab bo'lgach qaytadi
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config xatosi: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	actions, err := newActionRepository(cfg.ActionDBPath)
	if err != nil {
		return fmt.Errorf("action log: %w", err)
	}
	if c, ok := actions.(io.Closer); ok {
		defer c.Close()
	}

	sessions := storage.NewMemorySessionRepository()
	reg := metrics.NewRegistry()

	sweeper, err := scheduler.NewSessionSweeper(sessions, reg, cfg.SessionTTL, cfg.SweepSchedule)
	if err != nil {
		return fmt.Errorf("sweeper: %w", err)
	}
	sweeper.Start(ctx)
	log.Printf("🧹 Session sweeper: %q, TTL %s", cfg.SweepSchedule, cfg.SessionTTL)

	if cfg.MetricsAddr != "" {
		srv := newMetricsServer(cfg.MetricsAddr, reg)
		go func() {
			log.Printf("📈 Metrics: http://%s/metrics", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("⚠️ Metrics server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	var insights repository.InsightRepository
	if cfg.InsightsEnabled() {
		insights, err = gemini.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("gemini client: %w", err)
		}
		if c, ok := insights.(io.Closer); ok {
			defer c.Close()
		}
	} else {
		log.Println("ℹ️ GEMINI_API_KEY bo'sh, /insights o'chirilgan")
	}

	p := cfg.Presentation
	authUseCase := usecase.NewAuthUseCase(sessions, actions, cfg.Password, p.Docs, cfg.SessionTTL)
	dashboardUseCase := usecase.NewDashboardUseCase(
		sessions,
		actions,
		parser.NewTableParser(),
		report.NewXLSXRenderer(p.Title, p.HistogramBins),
		reg,
		cfg.SessionTTL,
	)
	insightUseCase := usecase.NewInsightUseCase(insights, dashboardUseCase, actions)

	bot, err := telegram.NewBotHandler(
		cfg.TelegramToken,
		p.Title,
		cfg.MaxUploadBytes,
		p.TopDepartments,
		authUseCase,
		dashboardUseCase,
		insightUseCase,
	)
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot to'xtadi: %w", err)
	}
	return nil
}

// newActionRepository bo'sh yo'l = in-memory log
func newActionRepository(dbPath string) (repository.ActionRepository, error) {
	if dbPath == "" {
		log.Println("💾 Action log: in-memory")
		return storage.NewMemoryActionRepository(actionLogSize), nil
	}
	log.Printf("💾 Action log: %s", dbPath)
	return storage.NewSQLiteActionRepository(dbPath, actionLogSize)
}

func newMetricsServer(addr string, reg *metrics.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
