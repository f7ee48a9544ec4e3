package pipeline

import "github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"

// indexProducts PRODUCT_ID → mahsulot, birinchi uchragani
func indexProducts(products []entity.Product) map[string]entity.Product {
	idx := make(map[string]entity.Product, len(products))
	for _, p := range products {
		if p.ProductID == "" {
			continue
		}
		if _, ok := idx[p.ProductID]; !ok {
			idx[p.ProductID] = p
		}
	}
	return idx
}

// indexHeaders PURCHASE_ID → sarlavha, birinchi uchragani.
// Ikkinchi qiymat: dublikat id lar soni.
func indexHeaders(headers []entity.PurchaseHeader) (map[string]entity.PurchaseHeader, int) {
	idx := make(map[string]entity.PurchaseHeader, len(headers))
	dups := 0
	for _, h := range headers {
		if h.PurchaseID == "" {
			continue
		}
		if _, ok := idx[h.PurchaseID]; ok {
			dups++
			continue
		}
		idx[h.PurchaseID] = h
	}
	return idx, dups
}

// Join LineItem → Product (PRODUCT_ID) → PurchaseHeader (PURCHASE_ID) left join.
// Natija uzunligi va tartibi lines bilan bir xil; topilmagan qatorlar null maydonlar oladi.
func Join(lines []entity.LineItem, products []entity.Product, headers []entity.PurchaseHeader) []entity.EnrichedLine {
	productIdx := indexProducts(products)
	headerIdx, _ := indexHeaders(headers)

	out := make([]entity.EnrichedLine, len(lines))
	for i, line := range lines {
		row := entity.EnrichedLine{
			PurchaseID: line.PurchaseID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
		}
		if p, ok := productIdx[line.ProductID]; ok && line.ProductID != "" {
			row.Department = p.Department
			row.Volume = p.Volume
		}
		if h, ok := headerIdx[line.PurchaseID]; ok && line.PurchaseID != "" {
			row.PurchaseTime = h.PurchaseTime
		}
		row.TotalVolume = row.Volume.Mul(row.Quantity)
		if row.PurchaseTime.Valid {
			row.Hour = entity.NullInt{Value: row.PurchaseTime.Time.Hour(), Valid: true}
		}
		out[i] = row
	}
	return out
}

// countUnmatched mahsulot va sarlavhasi topilmagan qatorlar soni
func countUnmatched(lines []entity.LineItem, products []entity.Product, headers []entity.PurchaseHeader) (noProduct, noHeader int) {
	productIdx := indexProducts(products)
	headerIdx, _ := indexHeaders(headers)
	for _, line := range lines {
		if _, ok := productIdx[line.ProductID]; !ok || line.ProductID == "" {
			noProduct++
		}
		if _, ok := headerIdx[line.PurchaseID]; !ok || line.PurchaseID == "" {
			noHeader++
		}
	}
	return noProduct, noHeader
}
