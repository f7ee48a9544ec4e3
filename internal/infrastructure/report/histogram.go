package report

import "github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"

// DefaultBins histogramdagi maksimal ustunlar soni
const DefaultBins = 50

// HistogramBin [Start, End] oralig'idagi basket lar soni
type HistogramBin struct {
	Start int
	End   int
	Count int
}

// BasketHistogram basket o'lchamlarini ko'pi bilan maxBins ta butun sonli oraliqqa bo'lish
func BasketHistogram(baskets []entity.BasketSize, maxBins int) []HistogramBin {
	if len(baskets) == 0 {
		return nil
	}
	if maxBins <= 0 {
		maxBins = DefaultBins
	}

	lo, hi := baskets[0].Size, baskets[0].Size
	for _, b := range baskets[1:] {
		if b.Size < lo {
			lo = b.Size
		}
		if b.Size > hi {
			hi = b.Size
		}
	}

	span := hi - lo + 1
	width := (span + maxBins - 1) / maxBins
	if width < 1 {
		width = 1
	}
	count := (span + width - 1) / width

	bins := make([]HistogramBin, count)
	for i := range bins {
		bins[i].Start = lo + i*width
		bins[i].End = bins[i].Start + width - 1
	}
	for _, b := range baskets {
		bins[(b.Size-lo)/width].Count++
	}
	return bins
}
