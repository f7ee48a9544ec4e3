package storage

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
)

type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository in-memory session repository yaratish
func NewMemorySessionRepository() repository.SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get sessiya nusxasini olish
func (m *memorySessionRepository) Get(ctx context.Context, userID int64) (*entity.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[userID]
	if !exists {
		return nil, nil
	}
	return cloneSession(session), nil
}

// Save sessiyani saqlash
func (m *memorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := cloneSession(session)
	stored.LastActivity = time.Now()
	m.sessions[session.UserID] = stored
	return nil
}

// Update read-modify-write bitta lock ostida
func (m *memorySessionRepository) Update(ctx context.Context, userID int64, fn func(*entity.Session) error) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var session *entity.Session
	if stored, ok := m.sessions[userID]; ok {
		session = cloneSession(stored)
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	session.LastActivity = time.Now()
	m.sessions[userID] = cloneSession(session)
	return session, nil
}

// Delete sessiyani o'chirish
func (m *memorySessionRepository) Delete(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

// DeleteIdle olderThan dan beri faol bo'lmagan sessiyalarni o'chirish
func (m *memorySessionRepository) DeleteIdle(ctx context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for userID, session := range m.sessions {
		if session.LastActivity.Before(olderThan) {
			delete(m.sessions, userID)
			removed++
		}
	}
	return removed, nil
}

// Count sessiyalar soni
func (m *memorySessionRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}

// cloneSession uploads map ni ham nusxalash; jadval va dashboard o'zgarmaydi
func cloneSession(s *entity.Session) *entity.Session {
	out := *s
	out.Uploads = make(map[entity.UploadKind]entity.Upload, len(s.Uploads))
	for kind, upload := range s.Uploads {
		out.Uploads[kind] = upload
	}
	return &out
}
