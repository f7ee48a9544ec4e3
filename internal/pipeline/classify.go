package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

// ClassifyTable jadval qaysi fayl ekanini aniqlash: avval ustunlar, keyin fayl nomi
func ClassifyTable(t *entity.Table, filename string) (entity.UploadKind, bool) {
	if t != nil {
		n := NormalizeTable(t)
		switch {
		case n.HasColumn(entity.ColDepartmentName),
			n.HasColumn(entity.ColHeightInches),
			n.HasColumn(entity.ColWidthInches),
			n.HasColumn(entity.ColDepthInches):
			return entity.KindProducts, true
		case n.HasColumn(entity.ColPurchaseDateTime):
			return entity.KindHeaders, true
		case n.HasColumn(entity.ColQuantity),
			n.HasColumn(entity.ColPurchaseID) && n.HasColumn(entity.ColProductID):
			return entity.KindLineItems, true
		}
	}

	name := strings.ToLower(filepath.Base(filename))
	switch {
	case strings.Contains(name, "line"):
		return entity.KindLineItems, true
	case strings.Contains(name, "header"):
		return entity.KindHeaders, true
	case strings.Contains(name, "product"):
		return entity.KindProducts, true
	}
	return "", false
}
