package pipeline

import "github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"

// DedupProducts PRODUCT_ID bo'yicha dublikatlarni olib tashlash, birinchisi qoladi.
// Ikkinchi qiymat: tashlab yuborilgan qatorlar soni.
func DedupProducts(products []entity.Product) ([]entity.Product, int) {
	seen := make(map[string]struct{}, len(products))
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ProductID]; ok {
			continue
		}
		seen[p.ProductID] = struct{}{}
		out = append(out, p)
	}
	return out, len(products) - len(out)
}

// Enrich dedup va har bir mahsulot uchun Volume = Height × Width × Depth.
// Noto'g'ri o'lcham null volume beradi, nolga aylantirilmaydi.
func Enrich(products []entity.Product) ([]entity.Product, int) {
	out, dropped := DedupProducts(products)
	for i := range out {
		out[i].Volume = out[i].Height.Mul(out[i].Width).Mul(out[i].Depth)
	}
	return out, dropped
}
