package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
)

type sqliteActionRepository struct {
	db      *sql.DB
	maxSize int
}

// NewSQLiteActionRepository SQLite asosidagi audit log.
// Faqat harakat metadata saqlanadi, yuklangan jadvallar emas.
func NewSQLiteActionRepository(dbPath string, maxSize int) (repository.ActionRepository, error) {
	if dbPath == "" {
		return nil, errors.New("db path bo'sh bo'lmasligi kerak")
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("db papkasini yaratib bo'lmadi: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite ochilmadi: %w", err)
	}

	if err := createActionSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteActionRepository{db: db, maxSize: maxSize}, nil
}

func createActionSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS actions (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	action TEXT NOT NULL,
	details TEXT,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_actions_user_ts ON actions (user_id, ts);
`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("schema yaratib bo'lmadi: %w", err)
	}
	return nil
}

// LogAction harakatni saqlash, eski yozuvlar maxSize dan oshsa kesiladi
func (s *sqliteActionRepository) LogAction(ctx context.Context, action entity.Action) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO actions (id, user_id, action, details, ts) VALUES (?, ?, ?, ?, ?)`,
		action.ID, action.UserID, action.Action, action.Details, action.Timestamp)
	if err != nil {
		tx.Rollback()
		return err
	}

	if s.maxSize > 0 {
		_, err = tx.ExecContext(ctx, `
DELETE FROM actions
WHERE id IN (
  SELECT id FROM actions
  ORDER BY ts DESC
  LIMIT -1 OFFSET ?
)`, s.maxSize)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Recent oxirgi harakatlar (yangi → eski), userID=0 bo'lsa hammasi
func (s *sqliteActionRepository) Recent(ctx context.Context, userID int64, limit int) ([]entity.Action, error) {
	query := `SELECT id, user_id, action, details, ts FROM actions`
	var args []any
	if userID != 0 {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY ts DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Action
	for rows.Next() {
		var a entity.Action
		var details sql.NullString
		var ts time.Time
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &details, &ts); err != nil {
			return nil, err
		}
		a.Details = details.String
		a.Timestamp = ts
		out = append(out, a)
	}
	return out, rows.Err()
}

// Close db ni yopish
func (s *sqliteActionRepository) Close() error {
	return s.db.Close()
}
