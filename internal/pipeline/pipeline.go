package pipeline

import (
	"fmt"
	"time"

	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
)

// Now test uchun almashtiriladi
var Now = time.Now

// Inputs pipeline uchun uchta xom jadval
type Inputs struct {
	LineItems *entity.Table
	Headers   *entity.Table
	Products  *entity.Table
}

// Run ingestion → enrichment → join → aggregation.
// Kalit ustun yo'q bo'lsa *SchemaError qaytaradi.
func Run(in Inputs) (*entity.Dashboard, error) {
	if in.LineItems == nil || in.Headers == nil || in.Products == nil {
		return nil, fmt.Errorf("pipeline needs all three tables")
	}
	started := Now()

	productTable := NormalizeTable(in.Products)
	lineTable := NormalizeTable(in.LineItems)
	headerTable := NormalizeTable(in.Headers)

	var warnings []string

	products, w, err := ParseProducts(productTable)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, w...)

	lines, w, err := ParseLineItems(lineTable)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, w...)

	headers, w, err := ParsePurchaseHeaders(headerTable)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, w...)

	products, dropped := Enrich(products)
	if dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d duplicate product rows dropped (first occurrence kept)", dropped))
	}
	if _, dups := indexHeaders(headers); dups > 0 {
		warnings = append(warnings, fmt.Sprintf("%d duplicate purchase ids in header file (first occurrence used)", dups))
	}

	if noProduct, noHeader := countUnmatched(lines, products, headers); noProduct > 0 || noHeader > 0 {
		warnings = append(warnings, fmt.Sprintf("%d line items without a matching product, %d without a matching purchase header", noProduct, noHeader))
	}

	enriched := Join(lines, products, headers)

	baskets := BasketSizes(enriched)
	dashboard := &entity.Dashboard{
		ByDepartmentQuantity: DepartmentQuantities(enriched),
		ByDepartmentVolume:   DepartmentVolumes(enriched),
		Hourly:               HourlyTransactions(enriched),
		Baskets:              baskets,
		MeanBasketSize:       MeanBasketSize(baskets),
		LineCount:            len(enriched),
		ProductCount:         len(products),
		PurchaseCount:        len(baskets),
		Warnings:             warnings,
		GeneratedAt:          started,
	}
	dashboard.Duration = Now().Sub(started)
	return dashboard, nil
}
