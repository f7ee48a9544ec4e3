package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/metrics"
	"github.com/yourusername/fulfil-dashboard-bot/internal/pipeline"
)

// UploadResult fayl yuklash natijasi
type UploadResult struct {
	Kind      entity.UploadKind
	Filename  string
	Rows      int
	Replaced  bool
	Missing   []entity.UploadKind
	Dashboard *entity.Dashboard // uchala fayl bo'lsa to'ldiriladi
}

// Waiting pipeline hali ishlamadi
func (r *UploadResult) Waiting() bool {
	return len(r.Missing) > 0
}

// DashboardUseCase fayl yuklash, pipeline va hisobot
type DashboardUseCase interface {
	// Upload faylni sessiyaga qo'shish; uchala fayl bo'lsa pipeline ishlaydi
	Upload(ctx context.Context, userID int64, data []byte, filename string) (*UploadResult, error)

	// Status yuklangan fayllar va yetishmayotganlari
	Status(ctx context.Context, userID int64) (*entity.Session, error)

	// Dashboard oxirgi hisoblangan dashboard
	Dashboard(ctx context.Context, userID int64) (*entity.Dashboard, error)

	// Report dashboardni fayl ko'rinishida olish
	Report(ctx context.Context, userID int64) ([]byte, string, error)

	// Reset yuklangan fayllar va natijalarni tozalash
	Reset(ctx context.Context, userID int64) error
}

type dashboardUseCase struct {
	sessions repository.SessionRepository
	actions  repository.ActionRepository
	parser   repository.TableParser
	renderer repository.ReportRenderer
	metrics  *metrics.Registry
	ttl      time.Duration
}

// NewDashboardUseCase yangi DashboardUseCase yaratish
func NewDashboardUseCase(
	sessions repository.SessionRepository,
	actions repository.ActionRepository,
	parser repository.TableParser,
	renderer repository.ReportRenderer,
	reg *metrics.Registry,
	ttl time.Duration,
) DashboardUseCase {
	return &dashboardUseCase{
		sessions: sessions,
		actions:  actions,
		parser:   parser,
		renderer: renderer,
		metrics:  reg,
		ttl:      ttl,
	}
}

// Upload faylni parse qilish, turini aniqlash va sessiyaga saqlash.
// Parse va pipeline lock dan tashqarida; sessiya faqat Update ichida o'zgaradi,
// shuning uchun bir vaqtda yuborilgan fayllar bir-birini o'chirmaydi.
func (u *dashboardUseCase) Upload(ctx context.Context, userID int64, data []byte, filename string) (*UploadResult, error) {
	if _, err := activeSession(ctx, u.sessions, userID, u.ttl); err != nil {
		return nil, err
	}

	if !u.parser.Supports(filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}

	table, err := u.parser.ParseTable(ctx, data, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	kind, ok := pipeline.ClassifyTable(table, filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s (columns: %s)", ErrUnknownTable, filename, strings.Join(table.Columns, ", "))
	}

	upload := entity.Upload{
		ID:         uuid.New().String(),
		Kind:       kind,
		Filename:   filename,
		Table:      table,
		UploadedAt: time.Now(),
	}
	result := &UploadResult{
		Kind:     kind,
		Filename: filename,
		Rows:     len(table.Rows),
	}

	var snapshot map[entity.UploadKind]entity.Upload
	if _, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		if err := checkActive(s, u.ttl); err != nil {
			return err
		}
		_, result.Replaced = s.Uploads[kind]
		s.Uploads[kind] = upload
		// Yangi fayl eski natijani bekor qiladi
		s.Dashboard = nil
		result.Missing = s.MissingKinds()
		if s.Ready() {
			snapshot = copyUploads(s.Uploads)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if u.metrics != nil {
		u.metrics.Uploads.WithLabelValues(string(kind)).Inc()
	}
	logAction(ctx, u.actions, userID, "upload", fmt.Sprintf("Uploaded %s as %s (%d rows)", filename, kind, len(table.Rows)))

	if snapshot == nil {
		return result, nil
	}

	dashboard, err := u.run(ctx, userID, snapshot)
	if err != nil {
		return result, err
	}
	result.Dashboard = dashboard

	// Natija faqat shu fayllar hali ham sessiyada bo'lsa saqlanadi
	if _, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		if err := checkActive(s, u.ttl); err != nil {
			return err
		}
		if sameUploads(s.Uploads, snapshot) {
			s.Dashboard = dashboard
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func copyUploads(in map[entity.UploadKind]entity.Upload) map[entity.UploadKind]entity.Upload {
	out := make(map[entity.UploadKind]entity.Upload, len(in))
	for kind, up := range in {
		out[kind] = up
	}
	return out
}

// sameUploads upload ID lari bir xilmi
func sameUploads(a, b map[entity.UploadKind]entity.Upload) bool {
	if len(a) != len(b) {
		return false
	}
	for kind, up := range a {
		if other, ok := b[kind]; !ok || other.ID != up.ID {
			return false
		}
	}
	return true
}

// run pipeline ni sessiyadagi uchta jadval bilan ishga tushirish
func (u *dashboardUseCase) run(ctx context.Context, userID int64, uploads map[entity.UploadKind]entity.Upload) (*entity.Dashboard, error) {
	started := time.Now()
	dashboard, err := pipeline.Run(pipeline.Inputs{
		LineItems: uploads[entity.KindLineItems].Table,
		Headers:   uploads[entity.KindHeaders].Table,
		Products:  uploads[entity.KindProducts].Table,
	})

	var schemaErr *pipeline.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		u.observe("schema_error", time.Since(started), 0)
		logAction(ctx, u.actions, userID, "run_failed", schemaErr.Error())
		return nil, err
	case err != nil:
		u.observe("error", time.Since(started), 0)
		return nil, fmt.Errorf("pipeline failed: %w", err)
	}

	u.observe("ok", dashboard.Duration, dashboard.LineCount)
	log.Printf("📊 Dashboard ready for user %d: %d lines, %d purchases, %d departments (%s)",
		userID, dashboard.LineCount, dashboard.PurchaseCount, len(dashboard.ByDepartmentQuantity), dashboard.Duration)
	logAction(ctx, u.actions, userID, "run", fmt.Sprintf("%d lines, %d purchases", dashboard.LineCount, dashboard.PurchaseCount))
	return dashboard, nil
}

func (u *dashboardUseCase) observe(result string, d time.Duration, lines int) {
	if u.metrics != nil {
		u.metrics.ObserveRun(result, d, lines)
	}
}

// Status joriy sessiya
func (u *dashboardUseCase) Status(ctx context.Context, userID int64) (*entity.Session, error) {
	return activeSession(ctx, u.sessions, userID, u.ttl)
}

// Dashboard oxirgi natija; fayllar to'liq bo'lmasa ErrWaitingForInput
func (u *dashboardUseCase) Dashboard(ctx context.Context, userID int64) (*entity.Dashboard, error) {
	session, err := activeSession(ctx, u.sessions, userID, u.ttl)
	if err != nil {
		return nil, err
	}
	if session.Dashboard == nil {
		return nil, ErrWaitingForInput
	}
	return session.Dashboard, nil
}

// Report dashboardni renderer orqali faylga yozish
func (u *dashboardUseCase) Report(ctx context.Context, userID int64) ([]byte, string, error) {
	dashboard, err := u.Dashboard(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	data, err := u.renderer.Render(dashboard)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render report: %w", err)
	}
	logAction(ctx, u.actions, userID, "report", fmt.Sprintf("Rendered %s (%d bytes)", u.renderer.Filename(), len(data)))
	return data, u.renderer.Filename(), nil
}

// Reset fayllar va natijani o'chirish, login saqlanadi
func (u *dashboardUseCase) Reset(ctx context.Context, userID int64) error {
	if _, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		if err := checkActive(s, u.ttl); err != nil {
			return err
		}
		s.Uploads = make(map[entity.UploadKind]entity.Upload)
		s.Dashboard = nil
		return nil
	}); err != nil {
		return err
	}
	logAction(ctx, u.actions, userID, "reset", "Uploads cleared")
	return nil
}
