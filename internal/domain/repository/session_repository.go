package repository

import (
	"context"
	"time"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

// SessionRepository foydalanuvchi sessiyalari bilan ishlash uchun interface
type SessionRepository interface {
	// Get sessiyani olish (yo'q bo'lsa nil, nil)
	Get(ctx context.Context, userID int64) (*entity.Session, error)

	// Save sessiyani saqlash
	Save(ctx context.Context, session *entity.Session) error

	// Update sessiyani bitta lock ostida o'zgartirish. fn ga sessiya (yo'q bo'lsa nil) beriladi;
	// fn xato qaytarsa hech narsa saqlanmaydi. Saqlangan sessiya nusxasi qaytariladi.
	Update(ctx context.Context, userID int64, fn func(*entity.Session) error) (*entity.Session, error)

	// Delete sessiyani o'chirish (logout)
	Delete(ctx context.Context, userID int64) error

	// DeleteIdle uzoq vaqt faol bo'lmagan sessiyalarni o'chirish
	DeleteIdle(ctx context.Context, olderThan time.Time) (int, error)

	// Count faol sessiyalar soni
	Count(ctx context.Context) (int, error)
}
