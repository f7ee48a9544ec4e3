package usecase

import "errors"

var (
	// ErrNotAuthenticated foydalanuvchi parol kiritmagan
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrWaitingForInput uchala fayl hali yuklanmagan
	ErrWaitingForInput = errors.New("waiting for all three files")

	// ErrUnsupportedFile CSV yoki XLSX emas
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrUnknownTable faylning turini aniqlab bo'lmadi
	ErrUnknownTable = errors.New("cannot tell which file this is")

	// ErrInsightsDisabled Gemini kaliti berilmagan
	ErrInsightsDisabled = errors.New("insights are disabled")
)
