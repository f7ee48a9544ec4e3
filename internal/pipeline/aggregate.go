package pipeline

import (
	"sort"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

// DepartmentQuantities department bo'yicha QUANTITY yig'indisi, kamayish tartibida.
// Null department alohida guruh; teng qiymatlar uchrash tartibini saqlaydi.
func DepartmentQuantities(lines []entity.EnrichedLine) []entity.DepartmentQuantity {
	pos := make(map[entity.NullString]int)
	var out []entity.DepartmentQuantity
	for _, line := range lines {
		i, ok := pos[line.Department]
		if !ok {
			i = len(out)
			pos[line.Department] = i
			out = append(out, entity.DepartmentQuantity{Department: line.Department})
		}
		if line.Quantity.Valid {
			out[i].Quantity += line.Quantity.Value
		} else {
			out[i].Invalid++
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Quantity > out[b].Quantity
	})
	return out
}

// DepartmentVolumes department bo'yicha TOTAL_VOLUME yig'indisi, kamayish tartibida
func DepartmentVolumes(lines []entity.EnrichedLine) []entity.DepartmentVolume {
	pos := make(map[entity.NullString]int)
	var out []entity.DepartmentVolume
	for _, line := range lines {
		i, ok := pos[line.Department]
		if !ok {
			i = len(out)
			pos[line.Department] = i
			out = append(out, entity.DepartmentVolume{Department: line.Department})
		}
		if line.TotalVolume.Valid {
			out[i].TotalVolume += line.TotalVolume.Value
		} else {
			out[i].Invalid++
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].TotalVolume > out[b].TotalVolume
	})
	return out
}

// HourlyTransactions har bir soat (0-23) uchun noyob PURCHASE_ID lar soni.
// Soatlar o'sish tartibida, null soat guruhi oxirida. Bo'sh PURCHASE_ID sanalmaydi.
func HourlyTransactions(lines []entity.EnrichedLine) []entity.HourlyTransactions {
	seen := make(map[entity.NullInt]map[string]struct{})
	for _, line := range lines {
		if line.PurchaseID == "" {
			continue
		}
		ids, ok := seen[line.Hour]
		if !ok {
			ids = make(map[string]struct{})
			seen[line.Hour] = ids
		}
		ids[line.PurchaseID] = struct{}{}
	}

	out := make([]entity.HourlyTransactions, 0, len(seen))
	for hour, ids := range seen {
		out = append(out, entity.HourlyTransactions{Hour: hour, TransactionCount: len(ids)})
	}
	sort.Slice(out, func(a, b int) bool {
		ha, hb := out[a].Hour, out[b].Hour
		if ha.Valid != hb.Valid {
			return ha.Valid
		}
		return ha.Value < hb.Value
	})
	return out
}

// BasketSizes har bir xarid uchun qatorlar soni, uchrash tartibida.
// Bo'sh PURCHASE_ID li qatorlar hech qaysi basket ga kirmaydi.
func BasketSizes(lines []entity.EnrichedLine) []entity.BasketSize {
	pos := make(map[string]int)
	var out []entity.BasketSize
	for _, line := range lines {
		if line.PurchaseID == "" {
			continue
		}
		i, ok := pos[line.PurchaseID]
		if !ok {
			i = len(out)
			pos[line.PurchaseID] = i
			out = append(out, entity.BasketSize{PurchaseID: line.PurchaseID})
		}
		out[i].Size++
	}
	return out
}

// MeanBasketSize o'rtacha basket = jami qatorlar / noyob xaridlar
func MeanBasketSize(baskets []entity.BasketSize) entity.NullFloat {
	if len(baskets) == 0 {
		return entity.NullFloat{}
	}
	total := 0
	for _, b := range baskets {
		total += b.Size
	}
	return entity.Float(float64(total) / float64(len(baskets)))
}
