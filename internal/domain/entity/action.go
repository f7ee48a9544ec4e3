package entity

import "time"

// Action foydalanuvchi harakatlari (audit log)
type Action struct {
	ID        string
	UserID    int64
	Action    string // "login", "logout", "upload", "run", "reset"
	Details   string
	Timestamp time.Time
}
