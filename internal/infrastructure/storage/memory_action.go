package storage

import (
	"context"
	"sync"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
)

type memoryActionRepository struct {
	mu      sync.RWMutex
	actions []entity.Action
	maxSize int
}

// NewMemoryActionRepository in-memory audit log (oxirgi maxSize ta harakat)
func NewMemoryActionRepository(maxSize int) repository.ActionRepository {
	return &memoryActionRepository{
		actions: []entity.Action{},
		maxSize: maxSize,
	}
}

// LogAction harakatni loglash
func (m *memoryActionRepository) LogAction(ctx context.Context, action entity.Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actions = append(m.actions, action)
	if m.maxSize > 0 && len(m.actions) > m.maxSize {
		m.actions = m.actions[len(m.actions)-m.maxSize:]
	}
	return nil
}

// Recent foydalanuvchining oxirgi harakatlari (userID=0 bo'lsa hammasi)
func (m *memoryActionRepository) Recent(ctx context.Context, userID int64, limit int) ([]entity.Action, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []entity.Action
	for i := len(m.actions) - 1; i >= 0; i-- {
		a := m.actions[i]
		if userID != 0 && a.UserID != userID {
			continue
		}
		out = append(out, a)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
