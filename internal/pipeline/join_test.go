package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

func at(hour int) entity.NullTime {
	return entity.NullTime{Time: time.Date(2020, 3, 25, hour, 15, 0, 0, time.UTC), Valid: true}
}

func TestJoin_UnknownProductKeepsRow(t *testing.T) {
	lines := []entity.LineItem{
		{PurchaseID: "P1", ProductID: "1", Quantity: num(2)},
		{PurchaseID: "P1", ProductID: "99", Quantity: num(1)},
	}
	products := []entity.Product{{ProductID: "1", Department: dept("A"), Volume: num(24)}}
	headers := []entity.PurchaseHeader{{PurchaseID: "P1", PurchaseTime: at(10)}}

	got := Join(lines, products, headers)

	require.Len(t, got, 2)
	assert.Equal(t, dept("A"), got[0].Department)
	assert.Equal(t, num(48), got[0].TotalVolume)
	assert.Equal(t, "99", got[1].ProductID)
	assert.False(t, got[1].Department.Valid)
	assert.False(t, got[1].Volume.Valid)
	assert.False(t, got[1].TotalVolume.Valid)
	assert.Equal(t, entity.NullInt{Value: 10, Valid: true}, got[1].Hour)
}

func TestJoin_HeaderRepeatedAcrossBasket(t *testing.T) {
	lines := []entity.LineItem{
		{PurchaseID: "P1", ProductID: "1"},
		{PurchaseID: "P1", ProductID: "2"},
		{PurchaseID: "P1", ProductID: "3"},
	}
	headers := []entity.PurchaseHeader{{PurchaseID: "P1", PurchaseTime: at(7)}}

	got := Join(lines, nil, headers)

	require.Len(t, got, 3)
	for _, row := range got {
		assert.Equal(t, at(7), row.PurchaseTime)
		assert.Equal(t, 7, row.Hour.Value)
	}
}

func TestJoin_DuplicateKeysNeverFanOut(t *testing.T) {
	lines := []entity.LineItem{{PurchaseID: "P1", ProductID: "1"}}
	products := []entity.Product{
		{ProductID: "1", Department: dept("A")},
		{ProductID: "1", Department: dept("B")},
	}
	headers := []entity.PurchaseHeader{
		{PurchaseID: "P1", PurchaseTime: at(1)},
		{PurchaseID: "P1", PurchaseTime: at(2)},
	}

	got := Join(lines, products, headers)

	require.Len(t, got, 1)
	assert.Equal(t, dept("A"), got[0].Department)
	assert.Equal(t, 1, got[0].Hour.Value)
}

func TestJoin_MissingHeaderGivesNullHour(t *testing.T) {
	lines := []entity.LineItem{{PurchaseID: "P9", ProductID: "1", Quantity: num(1)}}

	got := Join(lines, nil, nil)

	require.Len(t, got, 1)
	assert.False(t, got[0].PurchaseTime.Valid)
	assert.False(t, got[0].Hour.Valid)
}

func TestJoin_EmptyKeysNeverMatch(t *testing.T) {
	lines := []entity.LineItem{{PurchaseID: "", ProductID: ""}}
	products := []entity.Product{{ProductID: "", Department: dept("Ghost")}}
	headers := []entity.PurchaseHeader{{PurchaseID: "", PurchaseTime: at(3)}}

	got := Join(lines, products, headers)

	assert.False(t, got[0].Department.Valid)
	assert.False(t, got[0].Hour.Valid)

	noProduct, noHeader := countUnmatched([]entity.LineItem{{}}, products, headers)
	assert.Equal(t, 1, noProduct)
	assert.Equal(t, 1, noHeader)
}
