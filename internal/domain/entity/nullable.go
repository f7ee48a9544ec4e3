package entity

import (
	"math"
	"time"
)

// NullFloat son yoki bo'sh qiymat. Valid=false bo'lsa qiymat noma'lum.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float valid NullFloat yaratish
func Float(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Value: v, Valid: true}
}

// Mul null-propagating multiplication
func (f NullFloat) Mul(o NullFloat) NullFloat {
	if !f.Valid || !o.Valid {
		return NullFloat{}
	}
	return Float(f.Value * o.Value)
}

// NullString matn yoki bo'sh qiymat
type NullString struct {
	Value string
	Valid bool
}

// String valid NullString yaratish, bo'sh matn null hisoblanadi
func String(s string) NullString {
	if s == "" {
		return NullString{}
	}
	return NullString{Value: s, Valid: true}
}

// NullTime vaqt yoki bo'sh qiymat
type NullTime struct {
	Time  time.Time
	Valid bool
}

// NullInt butun son yoki bo'sh qiymat
type NullInt struct {
	Value int
	Valid bool
}
