package entity

import "time"

// UnmatchedDepartment null department guruhi uchun label
const UnmatchedDepartment = "(unmatched)"

// DepartmentQuantity department bo'yicha sotilgan soni
type DepartmentQuantity struct {
	Department NullString
	Quantity   float64
	Invalid    int // null quantity qatorlar soni (yig'indiga kirmagan)
}

// DepartmentVolume department bo'yicha umumiy hajm
type DepartmentVolume struct {
	Department  NullString
	TotalVolume float64
	Invalid     int // null total volume qatorlar soni
}

// HourlyTransactions soat bo'yicha noyob xaridlar soni
type HourlyTransactions struct {
	Hour             NullInt
	TransactionCount int
}

// BasketSize bitta xariddagi qatorlar soni
type BasketSize struct {
	PurchaseID string
	Size       int
}

// Dashboard pipeline natijasi: to'rtta view va o'rtacha basket
type Dashboard struct {
	ByDepartmentQuantity []DepartmentQuantity
	ByDepartmentVolume   []DepartmentVolume
	Hourly               []HourlyTransactions
	Baskets              []BasketSize
	MeanBasketSize       NullFloat

	LineCount     int
	ProductCount  int
	PurchaseCount int
	Warnings      []string
	GeneratedAt   time.Time
	Duration      time.Duration
}

// Label department nomi yoki "(unmatched)"
func (d NullString) Label() string {
	if !d.Valid {
		return UnmatchedDepartment
	}
	return d.Value
}
