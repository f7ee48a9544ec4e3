package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

func hour(h int) entity.NullInt { return entity.NullInt{Value: h, Valid: true} }

func TestDepartmentQuantities_SortedWithStableTies(t *testing.T) {
	lines := []entity.EnrichedLine{
		{Department: dept("B"), Quantity: num(2)},
		{Department: dept("A"), Quantity: num(5)},
		{Department: dept("C"), Quantity: num(3)},
		{Department: dept("B"), Quantity: num(1)},
		{Department: entity.NullString{}, Quantity: num(1)},
		{Department: dept("A"), Quantity: entity.NullFloat{}},
	}

	got := DepartmentQuantities(lines)

	require.Len(t, got, 4)
	assert.Equal(t, "A", got[0].Department.Label())
	assert.Equal(t, 5.0, got[0].Quantity)
	assert.Equal(t, 1, got[0].Invalid)
	// B and C tie at 3: B was seen first
	assert.Equal(t, "B", got[1].Department.Label())
	assert.Equal(t, "C", got[2].Department.Label())
	assert.Equal(t, entity.UnmatchedDepartment, got[3].Department.Label())

	total := 0.0
	for _, g := range got {
		total += g.Quantity
	}
	assert.Equal(t, 12.0, total)
}

func TestDepartmentVolumes_CountsInvalidVolumes(t *testing.T) {
	lines := []entity.EnrichedLine{
		{Department: dept("A"), TotalVolume: num(10)},
		{Department: dept("A"), TotalVolume: entity.NullFloat{}},
		{Department: dept("B"), TotalVolume: num(30)},
	}

	got := DepartmentVolumes(lines)

	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Department.Value)
	assert.Equal(t, 30.0, got[0].TotalVolume)
	assert.Equal(t, "A", got[1].Department.Value)
	assert.Equal(t, 10.0, got[1].TotalVolume)
	assert.Equal(t, 1, got[1].Invalid)
}

func TestHourlyTransactions_CountsDistinctPurchases(t *testing.T) {
	lines := []entity.EnrichedLine{
		{PurchaseID: "P1", Hour: hour(14)},
		{PurchaseID: "P1", Hour: hour(14)},
		{PurchaseID: "P1", Hour: hour(14)},
		{PurchaseID: "P2", Hour: hour(9)},
		{PurchaseID: "P3", Hour: hour(14)},
		{PurchaseID: "P4"},
	}

	got := HourlyTransactions(lines)

	require.Len(t, got, 3)
	assert.Equal(t, entity.HourlyTransactions{Hour: hour(9), TransactionCount: 1}, got[0])
	assert.Equal(t, entity.HourlyTransactions{Hour: hour(14), TransactionCount: 2}, got[1])
	assert.False(t, got[2].Hour.Valid)
	assert.Equal(t, 1, got[2].TransactionCount)
}

func TestBasketSizes_Example(t *testing.T) {
	lines := []entity.EnrichedLine{
		{PurchaseID: "P1"}, {PurchaseID: "P2"}, {PurchaseID: "P1"}, {PurchaseID: "P1"},
	}

	baskets := BasketSizes(lines)

	assert.Equal(t, []entity.BasketSize{{PurchaseID: "P1", Size: 3}, {PurchaseID: "P2", Size: 1}}, baskets)
	assert.Equal(t, num(2.0), MeanBasketSize(baskets))
}

func TestMeanBasketSize_Empty(t *testing.T) {
	assert.False(t, MeanBasketSize(nil).Valid)
}

func TestBlankPurchaseIDIsNotATransaction(t *testing.T) {
	lines := []entity.EnrichedLine{
		{PurchaseID: "P1", Hour: hour(10)},
		{PurchaseID: "", Hour: hour(10)},
		{PurchaseID: "", Hour: hour(11)},
		{PurchaseID: "P1", Hour: hour(10)},
	}

	hourly := HourlyTransactions(lines)
	require.Len(t, hourly, 1)
	assert.Equal(t, entity.HourlyTransactions{Hour: hour(10), TransactionCount: 1}, hourly[0])

	baskets := BasketSizes(lines)
	assert.Equal(t, []entity.BasketSize{{PurchaseID: "P1", Size: 2}}, baskets)
	assert.Equal(t, num(2.0), MeanBasketSize(baskets))
}
