package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
)

// AuthUseCase parol bilan kirish va sessiya bayroqlari
type AuthUseCase interface {
	// Login parolni tekshirib sessiya yaratish
	Login(ctx context.Context, userID int64, password string) (bool, error)

	// Logout sessiyani o'chirish (yuklangan fayllar ham o'chadi)
	Logout(ctx context.Context, userID int64) error

	// IsAuthenticated foydalanuvchi kirganmi
	IsAuthenticated(ctx context.Context, userID int64) (bool, error)

	// ToggleDocs "Show/Hide Documentation" bayrog'ini almashtirish
	ToggleDocs(ctx context.Context, userID int64) (bool, error)

	// Docs hujjat matni
	Docs() string

	// History foydalanuvchining audit log yozuvlari, yangilari birinchi
	History(ctx context.Context, userID int64, limit int) ([]entity.Action, error)
}

type authUseCase struct {
	sessions repository.SessionRepository
	actions  repository.ActionRepository
	password string
	docs     string
	ttl      time.Duration
}

// NewAuthUseCase yangi AuthUseCase yaratish
func NewAuthUseCase(
	sessions repository.SessionRepository,
	actions repository.ActionRepository,
	password string,
	docs string,
	ttl time.Duration,
) AuthUseCase {
	return &authUseCase{
		sessions: sessions,
		actions:  actions,
		password: password,
		docs:     docs,
		ttl:      ttl,
	}
}

// Login parolni tekshirish, to'g'ri bo'lsa yangi sessiya
func (u *authUseCase) Login(ctx context.Context, userID int64, password string) (bool, error) {
	if password != u.password {
		logAction(ctx, u.actions, userID, "login_failed", "Incorrect password")
		return false, nil
	}

	session := entity.NewSession(userID)
	session.Authenticated = true

	if err := u.sessions.Save(ctx, session); err != nil {
		return false, fmt.Errorf("failed to create session: %w", err)
	}

	logAction(ctx, u.actions, userID, "login", "User successfully logged in")
	return true, nil
}

// Logout sessiyani o'chirish
func (u *authUseCase) Logout(ctx context.Context, userID int64) error {
	if err := u.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	logAction(ctx, u.actions, userID, "logout", "Session closed")
	return nil
}

// IsAuthenticated sessiya bor va muddati o'tmaganmi
func (u *authUseCase) IsAuthenticated(ctx context.Context, userID int64) (bool, error) {
	_, err := activeSession(ctx, u.sessions, userID, u.ttl)
	if errors.Is(err, ErrNotAuthenticated) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ToggleDocs hujjat panelini yoqish/o'chirish, yangi holatni qaytaradi
func (u *authUseCase) ToggleDocs(ctx context.Context, userID int64) (bool, error) {
	session, err := u.sessions.Update(ctx, userID, func(s *entity.Session) error {
		if err := checkActive(s, u.ttl); err != nil {
			return err
		}
		s.ShowDocs = !s.ShowDocs
		return nil
	})
	if err != nil {
		return false, err
	}
	return session.ShowDocs, nil
}

// Docs hujjat matni
func (u *authUseCase) Docs() string {
	return u.docs
}

// History faqat kirgan foydalanuvchi o'z harakatlarini ko'radi
func (u *authUseCase) History(ctx context.Context, userID int64, limit int) ([]entity.Action, error) {
	if _, err := activeSession(ctx, u.sessions, userID, u.ttl); err != nil {
		return nil, err
	}
	if u.actions == nil {
		return nil, nil
	}
	actions, err := u.actions.Recent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return actions, nil
}

// activeSession kirgan va muddati o'tmagan sessiyani olish
func activeSession(ctx context.Context, sessions repository.SessionRepository, userID int64, ttl time.Duration) (*entity.Session, error) {
	session, err := sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if err := checkActive(session, ttl); err != nil {
		return nil, err
	}
	return session, nil
}

// checkActive sessiya bor, kirilgan va muddati o'tmagan
func checkActive(session *entity.Session, ttl time.Duration) error {
	if session == nil || !session.Authenticated {
		return ErrNotAuthenticated
	}
	if ttl > 0 && time.Since(session.LastActivity) > ttl {
		return ErrNotAuthenticated
	}
	return nil
}

// logAction audit log ga yozish, xatolik e'tiborsiz qoldiriladi
func logAction(ctx context.Context, actions repository.ActionRepository, userID int64, name, details string) {
	if actions == nil {
		return
	}
	_ = actions.LogAction(ctx, entity.Action{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    name,
		Details:   details,
		Timestamp: time.Now(),
	})
}
