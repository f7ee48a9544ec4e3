package entity

import "time"

// UploadKind yuklangan fayl turi
type UploadKind string

const (
	KindLineItems UploadKind = "purchase_lines"
	KindHeaders   UploadKind = "purchase_header"
	KindProducts  UploadKind = "product"
)

// AllUploadKinds pipeline uchun kerakli uchta fayl
var AllUploadKinds = []UploadKind{KindLineItems, KindHeaders, KindProducts}

// Upload sessiyaga yuklangan jadval
type Upload struct {
	ID         string
	Kind       UploadKind
	Filename   string
	Table      *Table
	UploadedAt time.Time
}

// Session foydalanuvchi sessiyasi (har bir user uchun alohida)
type Session struct {
	UserID        int64
	Authenticated bool
	ShowDocs      bool
	Uploads       map[UploadKind]Upload
	Dashboard     *Dashboard
	LoginTime     time.Time
	LastActivity  time.Time
}

// NewSession bo'sh sessiya yaratish
func NewSession(userID int64) *Session {
	now := time.Now()
	return &Session{
		UserID:       userID,
		Uploads:      make(map[UploadKind]Upload),
		LoginTime:    now,
		LastActivity: now,
	}
}

// MissingKinds hali yuklanmagan fayl turlari
func (s *Session) MissingKinds() []UploadKind {
	var missing []UploadKind
	for _, kind := range AllUploadKinds {
		if _, ok := s.Uploads[kind]; !ok {
			missing = append(missing, kind)
		}
	}
	return missing
}

// Ready uchala fayl ham bormi
func (s *Session) Ready() bool {
	return len(s.MissingKinds()) == 0
}
